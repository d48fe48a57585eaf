package filestore

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := NewLocalStore(filepath.Join(t.TempDir(), "uploads"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	written, err := store.Save(ctx, "a.txt", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if written != 5 {
		t.Fatalf("expected 5 bytes written, got %d", written)
	}

	rc, err := store.Open(ctx, "a.txt")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("expected hello, got %q", data)
	}

	if err := store.Remove(ctx, "a.txt"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := store.Open(ctx, "a.txt"); !errors.Is(err, ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
	if err := store.Remove(ctx, "a.txt"); err != nil {
		t.Fatalf("second remove should tolerate absence: %v", err)
	}
}

func TestLocalStoreRefusesOverwriteAndTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	if _, err := store.Save(ctx, "dup.txt", strings.NewReader("1")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := store.Save(ctx, "dup.txt", strings.NewReader("2")); err == nil {
		t.Fatal("expected error when name already exists")
	}
	for _, name := range []string{"../escape.txt", "nested/file.txt", ""} {
		if _, err := store.Save(ctx, name, strings.NewReader("x")); err == nil {
			t.Fatalf("expected error for name %q", name)
		}
	}
}
