package pager

import "encoding/binary"

// NodeKind distinguishes the two slotted-page variants. It is carried in
// the high bit of the page's header word (bytes 0–1) and never changes
// once a page is created.
type NodeKind uint8

const (
	KindLeaf NodeKind = iota
	KindBranch
)

const (
	headerLen   = 8
	nodeTypeBit = uint16(0x8000)
	countMask   = uint16(0x7FFF)
)

// compareFunc compares two encoded key byte strings by the logical value
// they decode to, not by their raw bytes. SlottedPage never interprets key
// bytes itself; Leaf and Branch supply this function from their KeyCodec.
type compareFunc func(a, b []byte) int

// SlottedPage is the byte-level record container described in §3/§4.2: a
// sorted pointer directory growing from byte 8 upward, and variable-length
// records growing from the end of the page downward. It knows nothing about
// the logical key/value types — Leaf and Branch encode/decode before
// calling into it.
type SlottedPage struct {
	page    *Page
	kind    NodeKind
	compare compareFunc
}

// NewSlottedPage initializes a freshly allocated page as an empty slotted
// page of the given kind.
func NewSlottedPage(page *Page, kind NodeKind, compare compareFunc) *SlottedPage {
	s := &SlottedPage{page: page, kind: kind, compare: compare}
	s.setNodeKind(kind)
	s.setCount(0)
	s.setEndOfFreeSpace(uint16(len(page.Bytes)))
	binary.LittleEndian.PutUint16(page.Bytes[4:6], 0)
	binary.LittleEndian.PutUint16(page.Bytes[6:8], 0)
	return s
}

// WrapSlottedPage views an existing page image as a slotted page, reading
// its node kind from the header bit rather than being told.
func WrapSlottedPage(page *Page, compare compareFunc) *SlottedPage {
	s := &SlottedPage{page: page, compare: compare}
	if s.headerWord()&nodeTypeBit != 0 {
		s.kind = KindBranch
	} else {
		s.kind = KindLeaf
	}
	return s
}

// Page returns the underlying page image.
func (s *SlottedPage) Page() *Page { return s.page }

// Kind reports whether this is a leaf or branch page.
func (s *SlottedPage) Kind() NodeKind { return s.kind }

func (s *SlottedPage) headerWord() uint16 {
	return binary.LittleEndian.Uint16(s.page.Bytes[0:2])
}

func (s *SlottedPage) setHeaderWord(w uint16) {
	binary.LittleEndian.PutUint16(s.page.Bytes[0:2], w)
}

func (s *SlottedPage) setNodeKind(k NodeKind) {
	current := s.headerWord()
	if k == KindBranch {
		s.setHeaderWord(current | nodeTypeBit)
	} else {
		s.setHeaderWord(current & ^nodeTypeBit)
	}
}

// Count returns n, the number of live directory entries.
func (s *SlottedPage) Count() int {
	return int(s.headerWord() & countMask)
}

func (s *SlottedPage) setCount(n uint16) {
	current := s.headerWord() & nodeTypeBit
	s.setHeaderWord((n & countMask) | current)
}

// EndOfFreeSpace returns the offset of the lowest byte currently occupied
// by record data.
func (s *SlottedPage) EndOfFreeSpace() uint16 {
	return binary.LittleEndian.Uint16(s.page.Bytes[2:4])
}

func (s *SlottedPage) setEndOfFreeSpace(v uint16) {
	binary.LittleEndian.PutUint16(s.page.Bytes[2:4], v)
}

// MaxChildPageID returns the child covering keys greater than or equal to
// the largest separator. Meaningful only on branch pages.
func (s *SlottedPage) MaxChildPageID() PageID {
	return PageID(binary.LittleEndian.Uint16(s.page.Bytes[4:6]))
}

// SetMaxChildPageID sets the branch's rightmost child pointer.
func (s *SlottedPage) SetMaxChildPageID(id PageID) {
	binary.LittleEndian.PutUint16(s.page.Bytes[4:6], uint16(id))
}

func (s *SlottedPage) pointerSize() int {
	if s.kind == KindBranch {
		return branchPointerSize
	}
	return leafPointerSize
}

func (s *SlottedPage) pointerOffset(index int) int {
	return headerLen + s.pointerSize()*index
}

func (s *SlottedPage) startOfFreeSpace() int {
	return s.pointerOffset(s.Count())
}

func (s *SlottedPage) pointerAt(index int) pointer {
	off := s.pointerOffset(index)
	b := s.page.Bytes[off : off+s.pointerSize()]
	if s.kind == KindBranch {
		return decodeBranchPointer(b)
	}
	return decodeLeafPointer(b)
}

func (s *SlottedPage) setPointerAt(index int, p pointer) {
	off := s.pointerOffset(index)
	copy(s.page.Bytes[off:off+s.pointerSize()], p.encode())
}

func (s *SlottedPage) keyBytesOf(p pointer) []byte {
	start := int(p.slotOffset())
	end := start + int(p.keySize())
	return s.page.Bytes[start:end]
}

func (s *SlottedPage) valueBytesOf(p pointer) []byte {
	start := int(p.slotOffset()) + int(p.keySize())
	end := start + int(p.valueSize())
	return s.page.Bytes[start:end]
}

// searchIndex binary-searches the sorted directory for key, returning the
// matching index (found=true) or the insertion point that keeps the
// directory sorted (found=false).
func (s *SlottedPage) searchIndex(key []byte) (index int, found bool) {
	lo, hi := 0, s.Count()
	for lo < hi {
		mid := (lo + hi) / 2
		candidate := s.keyBytesOf(s.pointerAt(mid))
		switch c := s.compare(key, candidate); {
		case c == 0:
			return mid, true
		case c < 0:
			hi = mid
		default:
			lo = mid + 1
		}
	}
	return lo, false
}

// Insert encodes key/value as a new record. It returns ErrDuplicateKey if
// the key is already present, or the internal errPageFull signal if the
// page cannot accommodate the new record and pointer — callers within this
// package (the tree) catch errPageFull and trigger a split; it must never
// reach an external caller.
func (s *SlottedPage) Insert(key, value []byte) error {
	idx, found := s.searchIndex(key)
	if found {
		return ErrDuplicateKey
	}

	recordLen := len(key) + len(value)
	newEnd := int(s.EndOfFreeSpace()) - recordLen
	newDirEnd := s.startOfFreeSpace() + s.pointerSize()
	if newEnd < newDirEnd {
		return errPageFull
	}

	copy(s.page.Bytes[newEnd:], key)
	copy(s.page.Bytes[newEnd+len(key):], value)
	s.setEndOfFreeSpace(uint16(newEnd))

	start := s.pointerOffset(idx)
	end := s.startOfFreeSpace()
	copy(s.page.Bytes[start+s.pointerSize():end+s.pointerSize()], s.page.Bytes[start:end])

	var p pointer
	if s.kind == KindBranch {
		p = branchPointer{offset: uint16(newEnd), keySz: uint16(len(key))}
	} else {
		p = leafPointer{offset: uint16(newEnd), keySz: uint16(len(key)), valueSz: uint16(len(value))}
	}
	s.setPointerAt(idx, p)
	s.setCount(uint16(s.Count() + 1))
	return nil
}

// Search returns the value for key, or ErrNotFound.
func (s *SlottedPage) Search(key []byte) ([]byte, error) {
	idx, found := s.searchIndex(key)
	if !found {
		return nil, ErrNotFound
	}
	p := s.pointerAt(idx)
	v := make([]byte, p.valueSize())
	copy(v, s.valueBytesOf(p))
	return v, nil
}

// Delete removes the record for key, compacting the record area and
// rewriting the offsets of every record that shifted, per §4.2.
func (s *SlottedPage) Delete(key []byte) error {
	idx, found := s.searchIndex(key)
	if !found {
		return ErrNotFound
	}
	p := s.pointerAt(idx)

	s.compactRecordArea(p)
	s.setEndOfFreeSpace(s.EndOfFreeSpace() + p.slotSize())
	s.removeDirectoryEntry(idx)
	s.setCount(uint16(s.Count() - 1))
	s.rebaseOffsetsAbove(p)
	return nil
}

func (s *SlottedPage) compactRecordArea(p pointer) {
	buf := s.page.Bytes
	startOfSlots := int(s.EndOfFreeSpace())
	startOfDeleting := int(p.slotOffset())
	slotLen := int(p.slotSize())
	if startOfSlots < startOfDeleting {
		copy(buf[startOfSlots+slotLen:startOfDeleting+slotLen], buf[startOfSlots:startOfDeleting])
	}
	for i := startOfSlots; i < startOfSlots+slotLen; i++ {
		buf[i] = 0
	}
}

func (s *SlottedPage) removeDirectoryEntry(index int) {
	buf := s.page.Bytes
	ps := s.pointerSize()
	startDeleting := s.pointerOffset(index)
	startAfter := startDeleting + ps
	endOfDir := s.startOfFreeSpace()
	copy(buf[startDeleting:endOfDir-ps], buf[startAfter:endOfDir])
	for i := endOfDir - ps; i < endOfDir; i++ {
		buf[i] = 0
	}
}

func (s *SlottedPage) rebaseOffsetsAbove(deleted pointer) {
	n := s.Count()
	for i := 0; i < n; i++ {
		p := s.pointerAt(i)
		if p.slotOffset() < deleted.slotOffset() {
			s.rewriteOffset(i, p, p.slotOffset()+deleted.slotSize())
		}
	}
}

func (s *SlottedPage) rewriteOffset(index int, p pointer, newOffset uint16) {
	switch v := p.(type) {
	case leafPointer:
		v.offset = newOffset
		s.setPointerAt(index, v)
	case branchPointer:
		v.offset = newOffset
		s.setPointerAt(index, v)
	}
}

// Keys returns the directory's keys in ascending order.
func (s *SlottedPage) Keys() [][]byte {
	n := s.Count()
	out := make([][]byte, n)
	for i := 0; i < n; i++ {
		p := s.pointerAt(i)
		k := make([]byte, p.keySize())
		copy(k, s.keyBytesOf(p))
		out[i] = k
	}
	return out
}

// Slots returns the directory's (key, value) pairs in ascending key order.
func (s *SlottedPage) Slots() ([][]byte, [][]byte) {
	n := s.Count()
	keys := make([][]byte, n)
	values := make([][]byte, n)
	for i := 0; i < n; i++ {
		p := s.pointerAt(i)
		k := make([]byte, p.keySize())
		copy(k, s.keyBytesOf(p))
		v := make([]byte, p.valueSize())
		copy(v, s.valueBytesOf(p))
		keys[i] = k
		values[i] = v
	}
	return keys, values
}
