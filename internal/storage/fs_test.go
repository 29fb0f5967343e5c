package storage

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestFSStore_PutGet(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key, err := s.Put("support/abc/notes.txt", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if key != "support/abc/notes.txt" {
		t.Fatalf("key=%q", key)
	}
	rc, err := s.Get(key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer rc.Close()
	b, _ := io.ReadAll(rc)
	if string(b) != "hello" {
		t.Fatalf("got %q", b)
	}
}

func TestFSStore_RejectsEscapingKeys(t *testing.T) {
	s, _ := NewFSStore(t.TempDir())
	for _, k := range []string{"", "../x", "a/../../x", "a/./b", `..\x`} {
		if _, err := s.Put(k, strings.NewReader("x")); !errors.Is(err, ErrBadKey) {
			t.Fatalf("Put(%q): want ErrBadKey, got %v", k, err)
		}
	}
	if _, err := s.Get("../../etc/passwd"); !errors.Is(err, ErrBadKey) {
		t.Fatalf("Get: want ErrBadKey, got %v", err)
	}
}

func TestFSStore_GetMissing(t *testing.T) {
	s, _ := NewFSStore(t.TempDir())
	if _, err := s.Get("nope.txt"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
