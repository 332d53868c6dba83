package audit

import (
	"context"
	"encoding/json"
	"testing"

	"angopay/internal/requestctx"
)

type captureStore struct {
	events []Event
}

func (c *captureStore) InsertEvent(_ context.Context, evt Event) error {
	c.events = append(c.events, evt)
	return nil
}

func (c *captureStore) ListEvents(_ context.Context, _ Filter, _, _ int) ([]Event, error) {
	return c.events, nil
}

func TestRecordUsesContextActor(t *testing.T) {
	store := &captureStore{}
	svc := New(store)

	ctx := requestctx.WithActor(requestctx.WithRequestID(context.Background(), "req-9"), "manager")
	err := svc.Record(ctx, "", "salary.adjustment.approve", "salary_adjustment", "adj-1",
		map[string]string{"baseSalary": "100000"}, map[string]string{"baseSalary": "120000"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(store.events))
	}
	evt := store.events[0]
	if evt.ActorID != "manager" || evt.RequestID != "req-9" {
		t.Fatalf("unexpected attribution: %+v", evt)
	}
	var after map[string]string
	if err := json.Unmarshal(evt.After, &after); err != nil {
		t.Fatalf("after payload: %v", err)
	}
	if after["baseSalary"] != "120000" {
		t.Fatalf("unexpected after payload: %v", after)
	}
}

func TestRecordNilServiceIsNoop(t *testing.T) {
	var svc *Service
	if err := svc.Record(context.Background(), "a", "b", "c", "d", nil, nil); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
