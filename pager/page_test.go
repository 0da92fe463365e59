package pager

import (
	"path/filepath"
	"testing"
)

func openStorage(t *testing.T) *Storage {
	t.Helper()
	dir := t.TempDir()
	st, err := OpenStorage(filepath.Join(dir, "db.bin"), DefaultPageSize)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestStorage_AllocatePageIDsIncreaseFromZero(t *testing.T) {
	st := openStorage(t)
	for i := 0; i < 5; i++ {
		p := st.AllocatePage()
		if p.ID != PageID(i) {
			t.Fatalf("allocate %d: got id %d", i, p.ID)
		}
	}
}

func TestStorage_WriteThenReadRoundTrip(t *testing.T) {
	st := openStorage(t)
	p := st.AllocatePage()
	copy(p.Bytes, []byte("hello"))
	if err := st.WritePage(p); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := st.ReadPage(p.ID)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got.Bytes[:5]) != "hello" {
		t.Fatalf("round trip mismatch: %q", got.Bytes[:5])
	}
}

func TestStorage_ReopenResumesNextPageID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "db.bin")

	st, err := OpenStorage(path, DefaultPageSize)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for i := 0; i < 3; i++ {
		p := st.AllocatePage()
		if err := st.WritePage(p); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}
	st.Close()

	st2, err := OpenStorage(path, DefaultPageSize)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer st2.Close()
	p := st2.AllocatePage()
	if p.ID != 3 {
		t.Fatalf("expected next id 3 after reopen, got %d", p.ID)
	}
}
