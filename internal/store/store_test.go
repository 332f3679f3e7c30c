package store

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTouchAndRecent(t *testing.T) {
	s := openTestStore(t)

	if got := s.Recent(10); len(got) != 0 {
		t.Fatalf("expected empty store, got %v", got)
	}

	s.Touch("/tmp/a.json")
	s.Touch("/tmp/b.json")
	s.Touch("/tmp/a.json") // re-open, must not duplicate

	got := s.Recent(10)
	if len(got) != 2 {
		t.Fatalf("Recent = %d entries, want 2", len(got))
	}
}

func TestLastLine(t *testing.T) {
	s := openTestStore(t)

	if _, ok := s.LastLine("/tmp/a.json"); ok {
		t.Fatal("expected miss for unknown path")
	}

	s.Touch("/tmp/a.json")
	s.SetLastLine("/tmp/a.json", 512)

	line, ok := s.LastLine("/tmp/a.json")
	if !ok {
		t.Fatal("expected hit")
	}
	if line != 512 {
		t.Errorf("line = %d, want 512", line)
	}

	// Touch keeps the remembered line.
	s.Touch("/tmp/a.json")
	if line, _ := s.LastLine("/tmp/a.json"); line != 512 {
		t.Errorf("line after re-open = %d, want 512", line)
	}
}

func TestNilStoreIsNoop(t *testing.T) {
	var s *Store
	s.Touch("/tmp/a.json")
	s.SetLastLine("/tmp/a.json", 1)
	if _, ok := s.LastLine("/tmp/a.json"); ok {
		t.Fatal("nil store returned a hit")
	}
	if got := s.Recent(5); got != nil {
		t.Fatalf("nil store Recent = %v", got)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("nil store Close: %v", err)
	}
}
