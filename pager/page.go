// Package pager implements a single-file, disk-backed B+tree key-value
// store: fixed-size pages, a slotted-page record format, and the tree
// operations (search, insert with recursive split, delete) that sit on top
// of it.
package pager

import (
	"fmt"
	"os"
)

// PageID identifies a page within the backing file. Page 0 is reserved for
// the meta page; node pages are assigned sequentially starting at 1.
type PageID uint16

// InvalidPageID is never a valid node identifier. It equals 0, the meta
// page's identifier, which no node page ever uses, so it marks "no page"
// where a node identifier is expected (e.g. a meta page with no root yet).
const InvalidPageID PageID = 0

// DefaultPageSize matches the original prototype's test fixtures and is
// small enough to exercise splits with a handful of short keys.
const DefaultPageSize = 64

// Page is a fixed-size byte buffer addressed by PageID.
type Page struct {
	ID    PageID
	Bytes []byte
}

func newPage(id PageID, size int) *Page {
	return &Page{ID: id, Bytes: make([]byte, size)}
}

// Storage owns the backing file and hands out page identities. It performs
// no caching: every Read returns a fresh copy, every Write is a direct
// positional write. Buffer pooling is explicitly out of scope for this
// engine.
type Storage struct {
	file       *os.File
	pageSize   int
	nextPageID PageID
}

// OpenStorage opens (creating if necessary) the file at path and computes
// the next page identifier from the current file length, per §4.1: an
// empty or freshly created file starts allocation at page 0.
func OpenStorage(path string, pageSize int) (*Storage, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("pager: open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("pager: stat %s: %w", path, err)
	}
	next := PageID(info.Size() / int64(pageSize))
	return &Storage{file: f, pageSize: pageSize, nextPageID: next}, nil
}

// Close releases the backing file handle.
func (s *Storage) Close() error {
	return s.file.Close()
}

// PageSize reports the fixed page size this storage was opened with.
func (s *Storage) PageSize() int {
	return s.pageSize
}

// AllocatePage reserves the next identifier (one past the highest ever
// issued) and returns a freshly zeroed page image. Allocation never
// reclaims identifiers from deleted data — page reclamation is out of
// scope.
func (s *Storage) AllocatePage() *Page {
	id := s.nextPageID
	s.nextPageID++
	return newPage(id, s.pageSize)
}

// ReadPage reads exactly PageSize bytes at file offset id*PageSize.
func (s *Storage) ReadPage(id PageID) (*Page, error) {
	p := newPage(id, s.pageSize)
	offset := int64(id) * int64(s.pageSize)
	n, err := s.file.ReadAt(p.Bytes, offset)
	if err != nil {
		return nil, fmt.Errorf("pager: read page %d: %w", id, err)
	}
	if n != s.pageSize {
		return nil, fmt.Errorf("pager: read page %d: %w: got %d of %d bytes", id, ErrCorrupt, n, s.pageSize)
	}
	return p, nil
}

// WritePage writes PageSize bytes at file offset id*PageSize, extending the
// file as needed.
func (s *Storage) WritePage(p *Page) error {
	if len(p.Bytes) != s.pageSize {
		return fmt.Errorf("pager: write page %d: %w: wrong buffer size", p.ID, ErrCorrupt)
	}
	offset := int64(p.ID) * int64(s.pageSize)
	if _, err := s.file.WriteAt(p.Bytes, offset); err != nil {
		return fmt.Errorf("pager: write page %d: %w", p.ID, err)
	}
	return nil
}
