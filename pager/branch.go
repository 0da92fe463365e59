package pager

import "encoding/binary"

// pageIDCodec encodes a child page identifier as the implicit 2-byte value
// every branch record carries (§3: "value is always a 2-byte child page
// identifier, so its size is implicit").
type pageIDCodec struct{}

func (pageIDCodec) Encode(id PageID) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, uint16(id))
	return b
}

func (pageIDCodec) Decode(b []byte) PageID {
	return PageID(binary.LittleEndian.Uint16(b))
}

// Branch is a thin typing wrapper over a slotted page whose values are
// child page identifiers, plus the single MaxChildPageID field covering
// keys at or above the largest separator (§4.3).
type Branch[K any] struct {
	raw      *SlottedPage
	keyCodec KeyCodec[K]
	valCodec pageIDCodec
}

// NewBranch initializes a freshly allocated page as an empty branch.
func NewBranch[K any](page *Page, keyCodec KeyCodec[K]) *Branch[K] {
	br := &Branch[K]{keyCodec: keyCodec}
	br.raw = NewSlottedPage(page, KindBranch, br.compareKeyBytes)
	return br
}

// WrapBranch views an existing page image as a branch.
func WrapBranch[K any](page *Page, keyCodec KeyCodec[K]) *Branch[K] {
	br := &Branch[K]{keyCodec: keyCodec}
	br.raw = WrapSlottedPage(page, br.compareKeyBytes)
	return br
}

func (b *Branch[K]) compareKeyBytes(a, c []byte) int {
	return b.keyCodec.Compare(b.keyCodec.Decode(a), b.keyCodec.Decode(c))
}

// Page returns the underlying page image.
func (b *Branch[K]) Page() *Page { return b.raw.Page() }

// Count returns the number of live separator entries.
func (b *Branch[K]) Count() int { return b.raw.Count() }

// MaxChildPageID returns the child covering keys at or above the largest
// separator.
func (b *Branch[K]) MaxChildPageID() PageID { return b.raw.MaxChildPageID() }

// SetMaxChildPageID sets the rightmost child pointer.
func (b *Branch[K]) SetMaxChildPageID(id PageID) { b.raw.SetMaxChildPageID(id) }

// Insert adds a (separator, child) entry. Returns ErrDuplicateKey if the
// separator is already present, or the internal errPageFull signal on
// overflow.
func (b *Branch[K]) Insert(separator K, child PageID) error {
	return b.raw.Insert(b.keyCodec.Encode(separator), b.valCodec.Encode(child))
}

// Delete removes the entry for separator, returning ErrNotFound if absent.
// Only reached as a subroutine of split when patching a rewritten child
// pointer — never directly from a user-facing Tree call.
func (b *Branch[K]) Delete(separator K) error {
	return b.raw.Delete(b.keyCodec.Encode(separator))
}

// Keys returns the branch's separators in ascending order.
func (b *Branch[K]) Keys() []K {
	raw := b.raw.Keys()
	out := make([]K, len(raw))
	for i, rb := range raw {
		out[i] = b.keyCodec.Decode(rb)
	}
	return out
}

// Entries returns the branch's (separator, child) pairs in ascending key
// order.
func (b *Branch[K]) Entries() ([]K, []PageID) {
	rawKeys, rawValues := b.raw.Slots()
	keys := make([]K, len(rawKeys))
	children := make([]PageID, len(rawValues))
	for i := range rawKeys {
		keys[i] = b.keyCodec.Decode(rawKeys[i])
		children[i] = b.valCodec.Decode(rawValues[i])
	}
	return keys, children
}

// FindChild returns the child page that covers key: the child of the first
// separator strictly greater than key, or MaxChildPageID if no separator
// exceeds it. A key equal to a separator descends into the child to its
// right, per §4.4.2.
func (b *Branch[K]) FindChild(key K) PageID {
	keys, children := b.Entries()
	for i, sep := range keys {
		if b.keyCodec.Compare(key, sep) < 0 {
			return children[i]
		}
	}
	return b.MaxChildPageID()
}

// ReplaceChild finds the entry whose child equals oldChild and rewrites it
// to point at newChild, scanning from the right so the rightmost match wins
// if more than one entry ever referenced the same child. Used only while
// patching a parent after a split.
func (b *Branch[K]) ReplaceChild(oldChild, newChild PageID) bool {
	if b.MaxChildPageID() == oldChild {
		b.SetMaxChildPageID(newChild)
		return true
	}
	keys, children := b.Entries()
	for i := len(children) - 1; i >= 0; i-- {
		if children[i] == oldChild {
			sep := keys[i]
			_ = b.Delete(sep)
			return b.Insert(sep, newChild) == nil
		}
	}
	return false
}
