package pager

import (
	"encoding/binary"
	"fmt"
)

// PeekNodeKind reads a page's node-type bit without committing to a key
// type, so the tree can decide which façade to wrap a freshly read page in
// before it knows K.
func PeekNodeKind(page *Page) NodeKind {
	if binary.LittleEndian.Uint16(page.Bytes[0:2])&nodeTypeBit != 0 {
		return KindBranch
	}
	return KindLeaf
}

// reset reinitializes a slotted page in place as empty, without touching
// its node kind. Used by split to rebuild the original page after its
// contents have been redistributed.
func (s *SlottedPage) reset() {
	s.setCount(0)
	s.setEndOfFreeSpace(uint16(len(s.page.Bytes)))
	for i := headerLen; i < len(s.page.Bytes); i++ {
		s.page.Bytes[i] = 0
	}
}

// Tree is the B+tree described in §4.4: root→leaf descent through branch
// directories, recursive split on leaf or branch overflow, and a persisted
// meta page recording the current root. It holds no page cache — every
// operation reads fresh copies and writes them back before returning,
// matching the single-threaded, no-buffer-pool model of §5.
type Tree[K any, V any] struct {
	storage    *Storage
	keyCodec   KeyCodec[K]
	valueCodec ValueCodec[V]
	rootID     PageID
	hasRoot    bool
}

// Open initializes storage from the file at opts.Path. If the file already
// holds pages, the meta page is read and its root cached; otherwise the
// tree starts with no root, per §4.4.1.
func Open[K any, V any](opts Options, keyCodec KeyCodec[K], valueCodec ValueCodec[V]) (*Tree[K, V], error) {
	st, err := OpenStorage(opts.Path, opts.pageSizeOrDefault())
	if err != nil {
		return nil, err
	}
	t := &Tree[K, V]{storage: st, keyCodec: keyCodec, valueCodec: valueCodec}
	if st.nextPageID > 0 {
		metaPage, err := st.ReadPage(0)
		if err != nil {
			return nil, err
		}
		if root := WrapMeta(metaPage).RootPageID(); root != InvalidPageID {
			t.rootID = root
			t.hasRoot = true
		}
	}
	return t, nil
}

// Close releases the backing file.
func (t *Tree[K, V]) Close() error {
	return t.storage.Close()
}

// PageCount reports the number of pages ever allocated, for use by
// instrumentation such as internal/monitor.
func (t *Tree[K, V]) PageCount() int {
	return int(t.storage.nextPageID)
}

// Height walks the rightmost spine from the root to a leaf and reports the
// number of levels. All leaves sit at the same depth because splits
// propagate uniformly bottom-up, so the rightmost spine is representative.
func (t *Tree[K, V]) Height() (int, error) {
	if !t.hasRoot {
		return 0, nil
	}
	height := 1
	id := t.rootID
	for {
		page, err := t.storage.ReadPage(id)
		if err != nil {
			return 0, err
		}
		if PeekNodeKind(page) == KindLeaf {
			return height, nil
		}
		id = WrapBranch[K](page, t.keyCodec).MaxChildPageID()
		height++
	}
}

// Search descends from the root through branch directories to the leaf
// that would hold key, per §4.4.2.
func (t *Tree[K, V]) Search(key K) (V, error) {
	var zero V
	if !t.hasRoot {
		return zero, ErrNoRoot
	}
	id := t.rootID
	for {
		page, err := t.storage.ReadPage(id)
		if err != nil {
			return zero, err
		}
		if PeekNodeKind(page) == KindLeaf {
			return WrapLeaf[K, V](page, t.keyCodec, t.valueCodec).Search(key)
		}
		id = WrapBranch[K](page, t.keyCodec).FindChild(key)
	}
}

// Insert adds (key, value), bootstrapping the tree on first call and
// splitting overflowing nodes on the way back up, per §4.4.3.
func (t *Tree[K, V]) Insert(key K, value V) error {
	if !t.hasRoot {
		return t.coldStart(key, value)
	}

	var breadcrumb []PageID
	id := t.rootID
	for {
		page, err := t.storage.ReadPage(id)
		if err != nil {
			return err
		}
		if PeekNodeKind(page) == KindLeaf {
			leaf := WrapLeaf[K, V](page, t.keyCodec, t.valueCodec)
			err := leaf.Insert(key, value)
			switch err {
			case nil:
				return t.storage.WritePage(leaf.Page())
			case errPageFull:
				return t.split(leaf.raw, t.keyCodec.Encode(key), t.valueCodec.Encode(value), breadcrumb)
			default:
				return err
			}
		}
		branch := WrapBranch[K](page, t.keyCodec)
		breadcrumb = append(breadcrumb, id)
		id = branch.FindChild(key)
	}
}

// Delete removes key at its leaf, per §4.4.5. No branch-level rebalancing
// is performed on underflow — an explicit non-goal of this core.
func (t *Tree[K, V]) Delete(key K) error {
	if !t.hasRoot {
		return ErrNotFound
	}
	id := t.rootID
	for {
		page, err := t.storage.ReadPage(id)
		if err != nil {
			return err
		}
		if PeekNodeKind(page) == KindLeaf {
			leaf := WrapLeaf[K, V](page, t.keyCodec, t.valueCodec)
			if err := leaf.Delete(key); err != nil {
				return err
			}
			return t.storage.WritePage(leaf.Page())
		}
		id = WrapBranch[K](page, t.keyCodec).FindChild(key)
	}
}

func (t *Tree[K, V]) coldStart(key K, value V) error {
	metaPage := t.storage.AllocatePage()
	meta := NewMeta(metaPage)

	leafPage := t.storage.AllocatePage()
	leaf := NewLeaf[K, V](leafPage, t.keyCodec, t.valueCodec)
	if err := leaf.Insert(key, value); err != nil {
		return err
	}

	meta.SetRootPageID(leafPage.ID)
	if err := t.storage.WritePage(leafPage); err != nil {
		return err
	}
	if err := t.storage.WritePage(metaPage); err != nil {
		return err
	}
	t.rootID = leafPage.ID
	t.hasRoot = true
	return nil
}

// split implements §4.4.4. original is the overfull page; keyBytes/
// valueBytes is the record that failed to fit; breadcrumb is the path of
// ancestor branch identifiers from root down to, but not including,
// original.
//
// The patch of the parent's stale reference to original.id happens before
// the new separator is inserted, not after as the prose in §4.4.4 step 5
// orders it: inserting first would leave two parent entries transiently
// pointing at original.id with no way to tell which is which by value
// alone, where patching first leaves exactly one candidate to find.
// Externally this produces the same parent state either way.
//
// On a leaf split the promoted separator (the first key of the upper half)
// stays in the upper half too, as usual for B+tree leaves. On a branch
// split there is no such duplication: each directory entry (sep, child)
// pairs a separator with the child that covers keys below it, so the entry
// chosen as the new separator must be removed from the upper half, its
// child becomes the lower page's new max_child (the range it covered now
// ends at the promoted separator), and the upper page inherits original's
// old max_child.
func (t *Tree[K, V]) split(original *SlottedPage, keyBytes, valueBytes []byte, breadcrumb []PageID) error {
	newPage := t.storage.AllocatePage()
	newSlotted := NewSlottedPage(newPage, original.Kind(), original.compare)

	type record struct{ key, value []byte }
	oldKeys, oldValues := original.Slots()
	items := make([]record, 0, len(oldKeys)+1)
	placed := false
	for i := range oldKeys {
		if !placed && original.compare(keyBytes, oldKeys[i]) < 0 {
			items = append(items, record{keyBytes, valueBytes})
			placed = true
		}
		items = append(items, record{oldKeys[i], oldValues[i]})
	}
	if !placed {
		items = append(items, record{keyBytes, valueBytes})
	}

	mid := len(items) / 2
	lower, upper := items[:mid], items[mid:]

	var oldMaxChild PageID
	var pageIDCoder pageIDCodec
	isBranch := original.Kind() == KindBranch
	if isBranch {
		oldMaxChild = original.MaxChildPageID()
	}

	original.reset()
	for _, it := range lower {
		if err := original.Insert(it.key, it.value); err != nil {
			return fmt.Errorf("pager: split redistribute lower half: %w", err)
		}
	}

	var separatorBytes []byte
	if isBranch {
		separatorEntry := upper[0]
		upper = upper[1:]
		separatorBytes = separatorEntry.key
		original.SetMaxChildPageID(pageIDCoder.Decode(separatorEntry.value))
	} else {
		separatorBytes = upper[0].key
	}

	for _, it := range upper {
		if err := newSlotted.Insert(it.key, it.value); err != nil {
			return fmt.Errorf("pager: split redistribute upper half: %w", err)
		}
	}

	if isBranch {
		newSlotted.SetMaxChildPageID(oldMaxChild)
	}

	if err := t.storage.WritePage(original.Page()); err != nil {
		return err
	}
	if err := t.storage.WritePage(newSlotted.Page()); err != nil {
		return err
	}

	if len(breadcrumb) == 0 {
		return t.installNewRoot(original.Page().ID, newSlotted.Page().ID, separatorBytes)
	}

	parentID := breadcrumb[len(breadcrumb)-1]
	truncated := breadcrumb[:len(breadcrumb)-1]
	parentPage, err := t.storage.ReadPage(parentID)
	if err != nil {
		return err
	}
	parent := WrapBranch[K](parentPage, t.keyCodec)

	parent.ReplaceChild(original.Page().ID, newSlotted.Page().ID)

	insErr := parent.raw.Insert(separatorBytes, pageIDCoder.Encode(original.Page().ID))
	if insErr == nil {
		return t.storage.WritePage(parent.Page())
	}
	if insErr == errPageFull {
		return t.split(parent.raw, separatorBytes, pageIDCoder.Encode(original.Page().ID), truncated)
	}
	return insErr
}

func (t *Tree[K, V]) installNewRoot(lowerID, upperID PageID, separatorBytes []byte) error {
	branchPage := t.storage.AllocatePage()
	newRoot := NewBranch[K](branchPage, t.keyCodec)
	var pageIDCoder pageIDCodec
	if err := newRoot.raw.Insert(separatorBytes, pageIDCoder.Encode(lowerID)); err != nil {
		return fmt.Errorf("pager: install new root: %w", err)
	}
	newRoot.SetMaxChildPageID(upperID)
	if err := t.storage.WritePage(branchPage); err != nil {
		return err
	}

	metaPage, err := t.storage.ReadPage(0)
	if err != nil {
		return err
	}
	meta := WrapMeta(metaPage)
	meta.SetRootPageID(branchPage.ID)
	if err := t.storage.WritePage(metaPage); err != nil {
		return err
	}

	t.rootID = branchPage.ID
	t.hasRoot = true
	return nil
}
