// Package history records completed analysis runs so operators can
// review past diagnoses and token spend.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/incident-rag/internal/db"
)

// Record is one completed analysis run.
type Record struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	IncidentID     string    `json:"incident_id,omitempty"`
	OriginalQuery  string    `json:"original_query"`
	OptimizedQuery string    `json:"optimized_query"`
	Diagnosis      string    `json:"diagnosis"`
	Confidence     float64   `json:"confidence"`
	SimilarCount   int       `json:"similar_count"`
	InputTokens    int       `json:"input_tokens"`
	OutputTokens   int       `json:"output_tokens"`
	ModelID        string    `json:"model_id"`
}

// Store provides persistence for analysis records.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Add inserts a record. If rec.ID is empty a UUID is generated.
func (s *Store) Add(ctx context.Context, rec Record) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analyses (
			id, incident_id, original_query, optimized_query,
			diagnosis, confidence, similar_count,
			input_tokens, output_tokens, model_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.IncidentID,
		rec.OriginalQuery,
		rec.OptimizedQuery,
		rec.Diagnosis,
		rec.Confidence,
		rec.SimilarCount,
		rec.InputTokens,
		rec.OutputTokens,
		rec.ModelID,
	)
	if err != nil {
		return "", fmt.Errorf("inserting analysis record: %w", err)
	}
	return rec.ID, nil
}

// List returns the most recent records, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, incident_id, original_query, optimized_query,
			   diagnosis, confidence, similar_count,
			   input_tokens, output_tokens, model_id
		FROM analyses
		ORDER BY created_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying analysis records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec Record
			ts  string
		)
		if err := rows.Scan(
			&rec.ID, &ts, &rec.IncidentID,
			&rec.OriginalQuery, &rec.OptimizedQuery,
			&rec.Diagnosis, &rec.Confidence, &rec.SimilarCount,
			&rec.InputTokens, &rec.OutputTokens, &rec.ModelID,
		); err != nil {
			return nil, fmt.Errorf("scanning analysis record: %w", err)
		}
		if t, parseErr := time.Parse(time.DateTime, ts); parseErr == nil {
			rec.CreatedAt = t
		} else if t, parseErr := time.Parse(time.RFC3339, ts); parseErr == nil {
			rec.CreatedAt = t
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
