package blob

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestFilesystemPutOpenRemove(t *testing.T) {
	store, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilesystem failed: %v", err)
	}
	ctx := context.Background()

	key := "airframes/lufthansa/d-aizz.jpg"
	if err := store.Put(ctx, key, bytes.NewReader([]byte("photo"))); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	rc, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "photo" {
		t.Errorf("unexpected content %q", data)
	}

	exists, err := store.Exists(ctx, key)
	if err != nil || !exists {
		t.Fatalf("expected blob to exist, got %v %v", exists, err)
	}

	if err := store.Remove(ctx, key); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := store.Open(ctx, key); !errors.Is(err, ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}

	// Removing twice is fine.
	if err := store.Remove(ctx, key); err != nil {
		t.Fatalf("second Remove failed: %v", err)
	}
}

func TestFilesystemPrunesEmptyDirs(t *testing.T) {
	root := t.TempDir()
	store, err := NewFilesystem(root)
	if err != nil {
		t.Fatalf("NewFilesystem failed: %v", err)
	}
	ctx := context.Background()

	keep := "meal/lh123/2026-03-14/meal.png"
	prune := "meal/lh123/2026-04-02/meal.png"
	for _, key := range []string{keep, prune} {
		if err := store.Put(ctx, key, bytes.NewReader([]byte("x"))); err != nil {
			t.Fatalf("Put %s failed: %v", key, err)
		}
	}

	if err := store.Remove(ctx, prune); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "meal/lh123/2026-04-02")); !os.IsNotExist(err) {
		t.Error("expected emptied directory pruned")
	}
	if _, err := os.Stat(filepath.Join(root, "meal/lh123/2026-03-14/meal.png")); err != nil {
		t.Errorf("sibling blob must survive: %v", err)
	}

	if err := store.Remove(ctx, keep); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "meal")); !os.IsNotExist(err) {
		t.Error("expected whole empty subtree pruned")
	}
	if _, err := os.Stat(root); err != nil {
		t.Errorf("root must never be pruned: %v", err)
	}
}

func TestFilesystemRejectsTraversal(t *testing.T) {
	store, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilesystem failed: %v", err)
	}
	ctx := context.Background()

	for _, key := range []string{"", "  ", "../escape", "/abs/path", "a/../../b"} {
		if err := store.Put(ctx, key, bytes.NewReader(nil)); err == nil {
			t.Errorf("expected Put(%q) to fail", key)
		}
	}
}
