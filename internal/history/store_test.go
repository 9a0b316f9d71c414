package history

import (
	"context"
	"testing"

	"github.com/ziadkadry99/incident-rag/internal/db"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestAddAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Add(ctx, Record{
		IncidentID:     "INC-1",
		OriginalQuery:  "everything is slow",
		OptimizedQuery: "api latency timeout",
		Diagnosis:      "Pool exhausted",
		Confidence:     0.8,
		SimilarCount:   3,
		InputTokens:    120,
		OutputTokens:   40,
		ModelID:        "test-model",
	})
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if id == "" {
		t.Error("Add() should generate an ID")
	}

	records, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}

	rec := records[0]
	if rec.ID != id {
		t.Errorf("ID = %q, want %q", rec.ID, id)
	}
	if rec.IncidentID != "INC-1" || rec.Diagnosis != "Pool exhausted" {
		t.Errorf("record = %+v", rec)
	}
	if rec.Confidence != 0.8 || rec.SimilarCount != 3 {
		t.Errorf("record = %+v", rec)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("CreatedAt should be populated")
	}
}

func TestListLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := store.Add(ctx, Record{OriginalQuery: "q", OptimizedQuery: "q", Diagnosis: "d"}); err != nil {
			t.Fatalf("Add() error: %v", err)
		}
	}

	records, err := store.List(ctx, 3)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("len(records) = %d, want 3", len(records))
	}
}

func TestListEmpty(t *testing.T) {
	records, err := newTestStore(t).List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("records = %v, want none", records)
	}
}
