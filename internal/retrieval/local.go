package retrieval

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	chromem "github.com/philippgille/chromem-go"
	"go.uber.org/zap"

	"github.com/ziadkadry99/incident-rag/internal/apperr"
	"github.com/ziadkadry99/incident-rag/internal/embeddings"
)

const localCollection = "incidents"

// IncidentRecord is one historical incident to ingest into the local
// index. The description is what gets embedded; the rest travels as
// metadata, mirroring what the managed Knowledge Base stores.
type IncidentRecord struct {
	IncidentID     string `json:"incident_id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Resolution     string `json:"resolution"`
	Severity       string `json:"severity,omitempty"`
	Category       string `json:"category,omitempty"`
	ResolutionTime string `json:"resolution_time,omitempty"`
}

// LocalIndex is a chromem-go backed Retriever for development and
// testing without a provisioned Knowledge Base.
type LocalIndex struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedFunc  chromem.EmbeddingFunc
	logger     *zap.Logger
}

// NewLocalIndex creates an empty in-memory index using the given
// embedder for both ingestion and queries.
func NewLocalIndex(embedder embeddings.Embedder, logger *zap.Logger) (*LocalIndex, error) {
	db := chromem.NewDB()
	ef := embeddings.ToChromemFunc(embedder)
	col, err := db.GetOrCreateCollection(localCollection, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return &LocalIndex{db: db, collection: col, embedFunc: ef, logger: logger}, nil
}

// Add ingests incident records into the index.
func (l *LocalIndex) Add(ctx context.Context, records []IncidentRecord) error {
	if len(records) == 0 {
		return nil
	}

	docs := make([]chromem.Document, len(records))
	for i, rec := range records {
		metadata := map[string]string{
			"incident_id": rec.IncidentID,
			"title":       rec.Title,
			"resolution":  rec.Resolution,
		}
		if rec.Severity != "" {
			metadata["severity"] = rec.Severity
		}
		if rec.Category != "" {
			metadata["category"] = rec.Category
		}
		if rec.ResolutionTime != "" {
			metadata["resolution_time"] = rec.ResolutionTime
		}
		docs[i] = chromem.Document{
			ID:       rec.IncidentID,
			Content:  rec.Description,
			Metadata: metadata,
		}
	}

	return l.collection.AddDocuments(ctx, docs, 1)
}

// Count returns the number of indexed incidents.
func (l *LocalIndex) Count() int { return l.collection.Count() }

// Retrieve implements Retriever against the local index.
func (l *LocalIndex) Retrieve(ctx context.Context, query string, maxResults int) ([]SimilarIncident, error) {
	count := l.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if maxResults > count {
		maxResults = count
	}

	results, err := l.collection.Query(ctx, query, maxResults, nil, nil)
	if err != nil {
		return nil, apperr.Backend("", err.Error(), err)
	}

	incidents := make([]SimilarIncident, len(results))
	for i, r := range results {
		metadata := make(map[string]any, len(r.Metadata))
		for k, v := range r.Metadata {
			metadata[k] = v
		}
		incidents[i] = incidentFromHit(r.Content, float64(r.Similarity), metadata)
	}

	l.logger.Info("local index searched",
		zap.String("query", query), zap.Int("hits", len(incidents)))

	return incidents, nil
}

// Persist writes the index to dir for later reloading.
func (l *LocalIndex) Persist(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}
	return l.db.ExportToFile(filepath.Join(dir, "incidents.gob.gz"), true, "")
}

// Load restores a previously persisted index from dir.
func (l *LocalIndex) Load(dir string) error {
	if err := l.db.ImportFromFile(filepath.Join(dir, "incidents.gob.gz"), ""); err != nil {
		return fmt.Errorf("importing index: %w", err)
	}
	// Re-acquire the collection reference after import.
	col := l.db.GetCollection(localCollection, l.embedFunc)
	if col == nil {
		return fmt.Errorf("collection %q not found after import", localCollection)
	}
	l.collection = col
	return nil
}
