package imagestore

import (
	"bytes"
	"context"
	"testing"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore returned error: %v", err)
	}
	ctx := context.Background()
	payload := []byte("jpeg-bytes")

	if err := store.Save(ctx, "abc123.jpg", bytes.NewReader(payload), int64(len(payload)), "image/jpeg"); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	got, err := store.ReadBytes(ctx, "abc123.jpg")
	if err != nil {
		t.Fatalf("ReadBytes returned error: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("read back %q, want %q", got, payload)
	}

	if err := store.Delete(ctx, "abc123.jpg"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := store.ReadBytes(ctx, "abc123.jpg"); err == nil {
		t.Error("expected error reading deleted object")
	}
}

func TestLocalStoreDeleteMissingIsNoop(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore returned error: %v", err)
	}
	if err := store.Delete(context.Background(), "never-existed.jpg"); err != nil {
		t.Errorf("deleting a missing object should succeed, got %v", err)
	}
}

func TestLocalStoreStripsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	if err != nil {
		t.Fatalf("NewLocalStore returned error: %v", err)
	}
	ctx := context.Background()
	payload := []byte("data")

	if err := store.Save(ctx, "../../etc/evil.jpg", bytes.NewReader(payload), int64(len(payload)), "image/jpeg"); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	// The key collapses to its base name inside the store directory.
	if _, err := store.ReadBytes(ctx, "evil.jpg"); err != nil {
		t.Errorf("expected object under base name, got %v", err)
	}
}

func TestNewLocalStoreRequiresPath(t *testing.T) {
	if _, err := NewLocalStore("  "); err == nil {
		t.Fatal("expected error for empty base path")
	}
}
