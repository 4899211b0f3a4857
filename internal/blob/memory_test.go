package blob

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, found, err := s.Get(ctx, KeyRecords); err != nil || found {
		t.Fatalf("expected empty store, found=%v err=%v", found, err)
	}

	if err := s.Put(ctx, KeyRecords, []byte(`[]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	v, found, err := s.Get(ctx, KeyRecords)
	if err != nil || !found {
		t.Fatalf("get after put: found=%v err=%v", found, err)
	}
	if string(v) != `[]` {
		t.Fatalf("got %q", v)
	}

	if err := s.Delete(ctx, KeyRecords); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found, _ := s.Get(ctx, KeyRecords); found {
		t.Fatalf("expected key gone after delete")
	}
	// Deleting again is not an error.
	if err := s.Delete(ctx, KeyRecords); err != nil {
		t.Fatalf("delete absent key: %v", err)
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	in := []byte(`{"a":1}`)
	if err := s.Put(ctx, KeySettings, in); err != nil {
		t.Fatalf("put: %v", err)
	}
	in[0] = 'x' // caller mutation must not leak in

	out, _, _ := s.Get(ctx, KeySettings)
	if string(out) != `{"a":1}` {
		t.Fatalf("stored value was aliased: %q", out)
	}

	out[0] = 'y' // nor out
	again, _, _ := s.Get(ctx, KeySettings)
	if string(again) != `{"a":1}` {
		t.Fatalf("returned value was aliased: %q", again)
	}
}

func TestMemoryStoreDirPersistence(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s := NewMemoryStoreFromDir(dir)
	if err := s.Put(ctx, KeyRecords, []byte(`[{"id":"r1"}]`)); err != nil {
		t.Fatalf("put: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, KeyRecords+".json")); err != nil {
		t.Fatalf("expected blob file on disk: %v", err)
	}

	// A fresh store seeded from the same directory sees the value.
	reloaded := NewMemoryStoreFromDir(dir)
	v, found, err := reloaded.Get(ctx, KeyRecords)
	if err != nil || !found {
		t.Fatalf("reload: found=%v err=%v", found, err)
	}
	if string(v) != `[{"id":"r1"}]` {
		t.Fatalf("got %q", v)
	}
}
