package session

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(1 * time.Hour)
	defer store.Close()
	ctx := context.Background()

	entry := &Entry{
		Text:       "extracted text",
		SourcePath: "downloads/abc123.pdf",
	}

	err := store.Set(ctx, "test-key", entry)
	if err != nil {
		t.Fatalf("Failed to set session entry: %v", err)
	}

	retrieved, err := store.Get(ctx, "test-key")
	if err != nil {
		t.Fatalf("Failed to get session entry: %v", err)
	}

	if retrieved.Text != entry.Text {
		t.Errorf("Expected text '%s', got '%s'", entry.Text, retrieved.Text)
	}

	if retrieved.SourcePath != entry.SourcePath {
		t.Errorf("Expected source path '%s', got '%s'", entry.SourcePath, retrieved.SourcePath)
	}

	if retrieved.Key != "test-key" {
		t.Errorf("Expected key 'test-key', got '%s'", retrieved.Key)
	}

	// Test Get non-existent key
	_, err = store.Get(ctx, "non-existent")
	if err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreOverwrite(t *testing.T) {
	store := NewMemoryStore(1 * time.Hour)
	defer store.Close()
	ctx := context.Background()

	if err := store.Set(ctx, "key", &Entry{Text: "first"}); err != nil {
		t.Fatalf("Failed to set entry: %v", err)
	}
	if err := store.Set(ctx, "key", &Entry{Text: "second"}); err != nil {
		t.Fatalf("Failed to overwrite entry: %v", err)
	}

	retrieved, err := store.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Failed to get entry: %v", err)
	}
	if retrieved.Text != "second" {
		t.Errorf("Expected overwritten text 'second', got '%s'", retrieved.Text)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(10 * time.Millisecond)
	defer store.Close()
	ctx := context.Background()

	if err := store.Set(ctx, "short-lived", &Entry{Text: "text"}); err != nil {
		t.Fatalf("Failed to set entry: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	_, err := store.Get(ctx, "short-lived")
	if err != ErrNotFound {
		t.Errorf("Expected ErrNotFound for expired entry, got %v", err)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore(1 * time.Hour)
	defer store.Close()
	ctx := context.Background()

	if err := store.Set(ctx, "key", &Entry{Text: "text"}); err != nil {
		t.Fatalf("Failed to set entry: %v", err)
	}

	if err := store.Delete(ctx, "key"); err != nil {
		t.Fatalf("Failed to delete entry: %v", err)
	}

	_, err := store.Get(ctx, "key")
	if err != ErrNotFound {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryStoreCopiesEntries(t *testing.T) {
	store := NewMemoryStore(1 * time.Hour)
	defer store.Close()
	ctx := context.Background()

	original := &Entry{Text: "text"}
	if err := store.Set(ctx, "key", original); err != nil {
		t.Fatalf("Failed to set entry: %v", err)
	}

	// Mutating the retrieved entry must not affect the stored one
	retrieved, err := store.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Failed to get entry: %v", err)
	}
	retrieved.Text = "mutated"

	again, err := store.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Failed to get entry again: %v", err)
	}
	if again.Text != "text" {
		t.Errorf("Expected stored text 'text', got '%s'", again.Text)
	}
}

func TestNewKey(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		key := NewKey()
		if len(key) != 8 {
			t.Fatalf("Expected 8-character key, got %q (%d chars)", key, len(key))
		}
		if seen[key] {
			t.Fatalf("Duplicate key generated: %q", key)
		}
		seen[key] = true
	}
}

func TestSummaryKey(t *testing.T) {
	if SummaryKey("ab12cd34") != SummaryKey("ab12cd34") {
		t.Error("Expected summary key derivation to be deterministic")
	}

	if SummaryKey("ab12cd34") == "ab12cd34" {
		t.Error("Expected derived key to differ from parent key")
	}

	if SummaryKey("key1") == SummaryKey("key2") {
		t.Error("Expected distinct parents to derive distinct keys")
	}
}
