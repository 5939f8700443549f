package cache

import (
	"bytes"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "matches.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_MissThenHit(t *testing.T) {
	s := openTestStore(t)

	if _, ok, err := s.Get("NA1_1"); err != nil || ok {
		t.Fatalf("Expected clean miss, got ok=%v err=%v", ok, err)
	}

	body := []byte(`{"metadata":{"matchId":"NA1_1"}}`)
	if err := s.Put("NA1_1", body); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	got, ok, err := s.Get("NA1_1")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !ok {
		t.Fatal("Expected cache hit after Put")
	}
	if !bytes.Equal(got, body) {
		t.Errorf("Expected stored body back, got: %s", got)
	}
}

func TestStore_PutReplaces(t *testing.T) {
	s := openTestStore(t)

	if err := s.Put("NA1_1", []byte("old")); err != nil {
		t.Fatal(err)
	}
	if err := s.Put("NA1_1", []byte("new")); err != nil {
		t.Fatalf("Expected upsert to succeed, got: %v", err)
	}

	got, _, err := s.Get("NA1_1")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Errorf("Expected replaced body, got: %s", got)
	}

	n, err := s.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Expected 1 row after upsert, got: %d", n)
	}
}

func TestStore_PersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.db")

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put("NA1_1", []byte("body")); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("Expected reopen to succeed, got: %v", err)
	}
	defer s2.Close()

	_, ok, err := s2.Get("NA1_1")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("Expected entry to survive reopen")
	}
}

func TestOpen_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "matches.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Expected nested path to work, got: %v", err)
	}
	s.Close()
}
