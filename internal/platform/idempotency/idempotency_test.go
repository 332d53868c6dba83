package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestRequestHashDeterministic(t *testing.T) {
	hash1 := RequestHash([]byte("payload"))
	hash2 := RequestHash([]byte("payload"))
	hash3 := RequestHash([]byte("other"))

	if hash1 != hash2 {
		t.Fatal("expected deterministic hash")
	}
	if hash1 == hash3 {
		t.Fatal("expected different hash for different payload")
	}
}

func TestMemoryReplayAndConflict(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	hash := RequestHash([]byte("period-1"))

	if _, found, err := store.Check(ctx, "u1", "payroll.pay", "k1", hash); err != nil || found {
		t.Fatalf("expected miss, got found=%v err=%v", found, err)
	}
	if err := store.Save(ctx, "u1", "payroll.pay", "k1", hash, json.RawMessage(`{"status":"paid"}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	stored, found, err := store.Check(ctx, "u1", "payroll.pay", "k1", hash)
	if err != nil || !found {
		t.Fatalf("expected replay, got found=%v err=%v", found, err)
	}
	if string(stored) != `{"status":"paid"}` {
		t.Fatalf("unexpected stored response %s", stored)
	}

	other := RequestHash([]byte("period-2"))
	if _, _, err := store.Check(ctx, "u1", "payroll.pay", "k1", other); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err := store.Save(ctx, "u1", "payroll.pay", "k1", other, nil); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict on save, got %v", err)
	}
	if _, found, _ := store.Check(ctx, "u2", "payroll.pay", "k1", other); found {
		t.Fatal("keys must be scoped per user")
	}
}
