package cache

import (
	"bytes"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_SetGet(t *testing.T) {
	s := openTestStore(t)

	body := []byte(`{"coredata": {}}`)
	if err := s.Set("abs/doi/10.1/x", body); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok := s.Get("abs/doi/10.1/x")
	if !ok {
		t.Fatal("Get() miss for stored key")
	}
	if !bytes.Equal(got, body) {
		t.Errorf("Get() = %q, want %q", got, body)
	}
}

func TestStore_GetMissing(t *testing.T) {
	s := openTestStore(t)

	if _, ok := s.Get("abs/eid/none"); ok {
		t.Error("Get() hit for missing key")
	}
}

func TestStore_Overwrite(t *testing.T) {
	s := openTestStore(t)

	if err := s.Set("k", []byte("one")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set("k", []byte("two")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok := s.Get("k")
	if !ok || string(got) != "two" {
		t.Errorf("Get() after overwrite = %q, %v; want \"two\", true", got, ok)
	}
}

func TestStore_Delete(t *testing.T) {
	s := openTestStore(t)

	if err := s.Set("k", []byte("v")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Delete("k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := s.Get("k"); ok {
		t.Error("Get() hit after Delete()")
	}
	if err := s.Delete("k"); err != nil {
		t.Errorf("Delete() of missing key error = %v", err)
	}
}

func TestOpen_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.Set("k", []byte("v")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() reopen error = %v", err)
	}
	defer reopened.Close()

	got, ok := reopened.Get("k")
	if !ok || string(got) != "v" {
		t.Errorf("Get() after reopen = %q, %v; want \"v\", true", got, ok)
	}
}
