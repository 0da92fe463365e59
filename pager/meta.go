package pager

import "encoding/binary"

// Meta is page 0: it stores the current root page identifier at bytes 0–1
// and leaves the remainder of the page zero (§3, §6.1).
type Meta struct {
	page *Page
}

// NewMeta initializes a freshly allocated page as an empty meta page (no
// root yet).
func NewMeta(page *Page) *Meta {
	m := &Meta{page: page}
	m.SetRootPageID(InvalidPageID)
	return m
}

// WrapMeta views an existing page image as a meta page.
func WrapMeta(page *Page) *Meta {
	return &Meta{page: page}
}

// Page returns the underlying page image.
func (m *Meta) Page() *Page { return m.page }

// RootPageID returns the current root, or InvalidPageID if no root has
// ever been created.
func (m *Meta) RootPageID() PageID {
	return PageID(binary.LittleEndian.Uint16(m.page.Bytes[0:2]))
}

// SetRootPageID updates the root pointer. Called on initial creation and
// on every root split.
func (m *Meta) SetRootPageID(id PageID) {
	binary.LittleEndian.PutUint16(m.page.Bytes[0:2], uint16(id))
}
