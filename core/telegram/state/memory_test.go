package state

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreGetDefaultsToIdle(t *testing.T) {
	store := NewMemoryStore(0)
	s, err := store.Get(context.Background(), 42)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !s.Idle() {
		t.Fatalf("expected idle session, got step %q", s.Step)
	}
	if s.Draft != nil {
		t.Fatal("expected empty draft")
	}
}

func TestMemoryStoreSetGetClear(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	in := Session{
		Step:  StepQuantity,
		Draft: &Draft{Item: "Капучино", UnitPrice: 200},
	}
	if err := store.Set(ctx, 7, in); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := store.Get(ctx, 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Step != StepQuantity {
		t.Fatalf("step = %q, want %q", got.Step, StepQuantity)
	}
	if got.Draft == nil || got.Draft.Item != "Капучино" || got.Draft.UnitPrice != 200 {
		t.Fatalf("draft = %+v", got.Draft)
	}
	if got.UpdatedAt.IsZero() {
		t.Fatal("expected UpdatedAt to be stamped")
	}

	if err := store.Clear(ctx, 7); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, err = store.Get(ctx, 7)
	if err != nil {
		t.Fatalf("get after clear: %v", err)
	}
	if !got.Idle() || got.Draft != nil {
		t.Fatalf("expected idle empty session after clear, got %+v", got)
	}
}

func TestMemoryStoreIsolatesUsers(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	if err := store.Set(ctx, 1, Session{Step: StepConfirm, Draft: &Draft{Item: "Чай", UnitPrice: 150, Quantity: 2, Total: 300}}); err != nil {
		t.Fatalf("set: %v", err)
	}

	other, err := store.Get(ctx, 2)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !other.Idle() {
		t.Fatalf("user 2 should be idle, got %q", other.Step)
	}
}

func TestMemoryStoreTTLExpiry(t *testing.T) {
	store := NewMemoryStore(10 * time.Millisecond)
	ctx := context.Background()

	if err := store.Set(ctx, 3, Session{Step: StepQuantity, Draft: &Draft{Item: "Латте", UnitPrice: 220}}); err != nil {
		t.Fatalf("set: %v", err)
	}

	// Fresh session must survive.
	s, err := store.Get(ctx, 3)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if s.Idle() {
		t.Fatal("fresh session expired too early")
	}

	time.Sleep(20 * time.Millisecond)
	s, err = store.Get(ctx, 3)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !s.Idle() {
		t.Fatalf("expected expired session to read back idle, got %q", s.Step)
	}
}
