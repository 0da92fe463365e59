package pager

import "errors"

// Sentinel errors returned by the storage and tree layers. PageFull never
// crosses the tree/slotted-page boundary: the tree catches it internally and
// triggers a split.
var (
	// ErrNotFound is returned by Search and Delete when the key is absent.
	ErrNotFound = errors.New("pager: key not found")

	// ErrNoRoot is returned by Search when no key has ever been inserted.
	ErrNoRoot = errors.New("pager: tree has no root")

	// ErrDuplicateKey is returned by Insert when the key already exists.
	// This engine rejects duplicates rather than overwriting them.
	ErrDuplicateKey = errors.New("pager: key already exists")

	// ErrCorrupt marks a page-level size violation: a page read that
	// returns fewer than PageSize bytes, or a page buffer handed to
	// WritePage whose length is not PageSize. Record lengths and header
	// fields are not validated against it. Never retried.
	ErrCorrupt = errors.New("pager: corrupt page")

	// errPageFull is the unexported signal from SlottedPage.Insert (and the
	// Leaf/Branch Insert wrappers) that triggers a split. Tree.Insert
	// answers it with a split; it comes back out of Tree.Insert (possibly
	// wrapped) only for a record too large to fit in an empty page.
	errPageFull = errors.New("pager: page full")
)
