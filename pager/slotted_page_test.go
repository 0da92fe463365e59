package pager

import (
	"bytes"
	"testing"
)

func newTestLeafPage() (*Page, *Leaf[uint16, string]) {
	page := &Page{ID: 1, Bytes: make([]byte, DefaultPageSize)}
	return page, NewLeaf[uint16, string](page, Uint16Codec{}, StringCodec{})
}

// Scenario 2 of §8: insert(123u8, "abc") places the record flush against
// the end of the page, with the unused bytes before it left zero.
func TestSlottedPage_SingleInsertRoundTrip(t *testing.T) {
	page := &Page{ID: 1, Bytes: make([]byte, DefaultPageSize)}
	leaf := NewLeaf[uint8, string](page, Uint8Codec{}, StringCodec{})
	if err := leaf.Insert(123, "abc"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	got := page.Bytes[len(page.Bytes)-8:]
	want := []byte{0, 0, 0, 0, 123, 'a', 'b', 'c'}
	if !bytes.Equal(got, want) {
		t.Fatalf("last 8 bytes = %v, want %v", got, want)
	}
}

// Scenario 3 of §8: keys inserted out of order come back sorted.
func TestSlottedPage_KeysReturnedInAscendingOrder(t *testing.T) {
	_, leaf := newTestLeafPage()
	for _, k := range []uint16{2, 7, 5, 1} {
		if err := leaf.Insert(k, "x"); err != nil {
			t.Fatalf("insert %d: %v", k, err)
		}
	}
	got := leaf.Keys()
	want := []uint16{1, 2, 5, 7}
	if len(got) != len(want) {
		t.Fatalf("keys = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("keys = %v, want %v", got, want)
		}
	}
}

// Scenario 4 of §8: an insert that would overflow the page is rejected and
// leaves the page byte-identical to its prior state.
func TestSlottedPage_OverflowRejectedLeavesPageUnchanged(t *testing.T) {
	page, leaf := newTestLeafPage()
	inserts := []struct {
		key   uint16
		value string
	}{
		{2, "abc"},
		{7, "ありがと"},
		{5, "defg"},
	}
	for _, ins := range inserts {
		if err := leaf.Insert(ins.key, ins.value); err != nil {
			t.Fatalf("insert %d: %v", ins.key, err)
		}
	}

	before := make([]byte, len(page.Bytes))
	copy(before, page.Bytes)

	err := leaf.Insert(1, "pppppp")
	if err != errPageFull {
		t.Fatalf("expected page-full signal, got %v", err)
	}
	if !bytes.Equal(before, page.Bytes) {
		t.Fatalf("page mutated on rejected insert")
	}
}

func TestSlottedPage_DuplicateKeyRejected(t *testing.T) {
	_, leaf := newTestLeafPage()
	if err := leaf.Insert(1, "a"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := leaf.Insert(1, "b"); err != ErrDuplicateKey {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestSlottedPage_SearchHitAndMiss(t *testing.T) {
	_, leaf := newTestLeafPage()
	if err := leaf.Insert(5, "five"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	v, err := leaf.Search(5)
	if err != nil || v != "five" {
		t.Fatalf("search hit: v=%q err=%v", v, err)
	}
	if _, err := leaf.Search(9); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSlottedPage_DeleteNotFound(t *testing.T) {
	_, leaf := newTestLeafPage()
	if err := leaf.Delete(1); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// Deleting the sole entry resets the page to the same state as a freshly
// created empty leaf: end_of_free_space back at PageSize, all bytes zero.
func TestSlottedPage_DeleteSoleEntryFullyCompacts(t *testing.T) {
	page, leaf := newTestLeafPage()
	if err := leaf.Insert(1, "a"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := leaf.Delete(1); err != nil {
		t.Fatalf("delete: %v", err)
	}

	freshPage := &Page{ID: 1, Bytes: make([]byte, DefaultPageSize)}
	NewLeaf[uint16, string](freshPage, Uint16Codec{}, StringCodec{})
	if !bytes.Equal(page.Bytes, freshPage.Bytes) {
		t.Fatalf("page after delete = %v, want fresh-page state %v", page.Bytes, freshPage.Bytes)
	}
}

// Deleting a middle entry compacts the record area and rewrites the
// offsets of records that shifted, so the resulting page equals the page
// that never had the deleted entry inserted — the delete/insert round-trip
// invariant of §8 property 8, exercised directly on a single page.
func TestSlottedPage_DeleteMiddleEntryCompactsToEquivalentState(t *testing.T) {
	pageA, leafA := newTestLeafPage()
	for _, k := range []uint16{1, 2, 3} {
		if err := leafA.Insert(k, "value"); err != nil {
			t.Fatalf("insert %d: %v", k, err)
		}
	}
	if err := leafA.Delete(2); err != nil {
		t.Fatalf("delete: %v", err)
	}

	pageB, leafB := newTestLeafPage()
	for _, k := range []uint16{1, 3} {
		if err := leafB.Insert(k, "value"); err != nil {
			t.Fatalf("insert %d: %v", k, err)
		}
	}

	if !bytes.Equal(pageA.Bytes, pageB.Bytes) {
		t.Fatalf("delete-compacted page != equivalent fresh-built page\ngot:  %v\nwant: %v", pageA.Bytes, pageB.Bytes)
	}
}

func TestBranch_MaxChildAndFindChild(t *testing.T) {
	page := &Page{ID: 2, Bytes: make([]byte, DefaultPageSize)}
	br := NewBranch[uint16](page, Uint16Codec{})
	if err := br.Insert(10, 100); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := br.Insert(20, 101); err != nil {
		t.Fatalf("insert: %v", err)
	}
	br.SetMaxChildPageID(102)

	cases := []struct {
		key  uint16
		want PageID
	}{
		{5, 100},
		{10, 101}, // equal to a separator descends into the child to its right
		{15, 101},
		{20, 102}, // equal to the largest separator falls through to max_child
		{25, 102},
	}
	for _, c := range cases {
		if got := br.FindChild(c.key); got != c.want {
			t.Fatalf("FindChild(%d) = %d, want %d", c.key, got, c.want)
		}
	}
}
