package storage

import (
	"context"
	"testing"
)

func TestMemoryStore_SetGetRemove(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, "missing"); err != nil || ok {
		t.Errorf("Expected absent key, got ok=%v err=%v", ok, err)
	}

	if err := store.Set(ctx, "cart:user-1", `{"items":[]}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, ok, err := store.Get(ctx, "cart:user-1")
	if err != nil || !ok {
		t.Fatalf("Expected stored value, got ok=%v err=%v", ok, err)
	}
	if value != `{"items":[]}` {
		t.Errorf("Unexpected value: %s", value)
	}

	if err := store.Remove(ctx, "cart:user-1"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "cart:user-1"); ok {
		t.Error("Expected key removed")
	}
}

func TestMemoryStore_CloseDropsData(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Set(ctx, "k", "v")
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Error("Expected data dropped after Close")
	}
}
