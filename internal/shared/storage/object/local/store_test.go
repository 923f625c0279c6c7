package local

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveNamesFileWithTimestampPrefix(t *testing.T) {
	store := New(t.TempDir())

	key, size, mimeType, err := store.Save(context.Background(), "report.png",
		strings.NewReader(string([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0})))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasSuffix(key, "-report.png") {
		t.Fatalf("expected timestamp-prefixed key, got %q", key)
	}
	if size != 10 {
		t.Fatalf("expected size 10, got %d", size)
	}
	if mimeType != "image/png" {
		t.Fatalf("expected image/png, got %q", mimeType)
	}

	if _, err := os.Stat(filepath.Join(store.BaseDir(), key)); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
}

func TestSaveRejectsTraversalNames(t *testing.T) {
	store := New(t.TempDir())

	if _, _, _, err := store.Save(context.Background(), "../../etc/passwd", strings.NewReader("x")); err == nil {
		t.Fatal("expected traversal name to be rejected")
	}
}

func TestOpenRoundTrips(t *testing.T) {
	store := New(t.TempDir())

	key, _, _, err := store.Save(context.Background(), "a.txt", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	rc, err := store.Open(context.Background(), key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := New(t.TempDir())

	key, _, _, err := store.Save(context.Background(), "a.txt", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete(context.Background(), key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(context.Background(), key); err != nil {
		t.Fatalf("second Delete should succeed: %v", err)
	}
}

func TestResolveRejectsEscapingKeys(t *testing.T) {
	store := New(t.TempDir())

	for _, key := range []string{"../outside", "/etc/passwd"} {
		if _, err := store.Open(context.Background(), key); err == nil {
			t.Fatalf("key %q: expected rejection", key)
		}
	}
}
