// Package retrieval maps raw similarity hits from a retrieval backend
// into typed similar-incident records. Two backends are provided: the
// managed Bedrock Knowledge Base and a local chromem-go index for
// development without provisioned AWS infrastructure.
package retrieval

import (
	"context"
	"encoding/json"
)

// SimilarIncident is one retrieval hit. SimilarityScore is an opaque
// sort key in whatever range the backend uses; it is never thresholded
// or normalized here.
type SimilarIncident struct {
	IncidentID      string         `json:"incident_id"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Resolution      string         `json:"resolution"`
	SimilarityScore float64        `json:"similarity_score"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	Attachments     []string       `json:"attachments,omitempty"`
}

// Retriever returns the maxResults most similar incidents for a query,
// in backend ranking order. Backend failure is a hard error; there is
// no local fallback for retrieval.
type Retriever interface {
	Retrieve(ctx context.Context, query string, maxResults int) ([]SimilarIncident, error)
}

// metadataFieldDefaults is the single defaulting table applied when a
// metadata key is absent, so defaults cannot drift across call sites.
var metadataFieldDefaults = map[string]string{
	"incident_id": "unknown",
	"title":       "Sin título",
	"resolution":  "",
}

// metadataString extracts a string metadata value, applying the
// field's default when the key is absent or not a string.
func metadataString(metadata map[string]any, key string) string {
	if v, ok := metadata[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return metadataFieldDefaults[key]
}

// ParseMetadataString parses metadata delivered as a JSON-encoded
// string. On parse failure it falls back to empty metadata rather than
// aborting the hit.
func ParseMetadataString(s string) map[string]any {
	var metadata map[string]any
	if err := json.Unmarshal([]byte(s), &metadata); err != nil {
		return map[string]any{}
	}
	return metadata
}

// incidentFromHit builds a SimilarIncident from a raw hit's content,
// score and already-normalized metadata.
func incidentFromHit(content string, score float64, metadata map[string]any) SimilarIncident {
	if metadata == nil {
		metadata = map[string]any{}
	}
	return SimilarIncident{
		IncidentID:      metadataString(metadata, "incident_id"),
		Title:           metadataString(metadata, "title"),
		Description:     content,
		Resolution:      metadataString(metadata, "resolution"),
		SimilarityScore: score,
		Metadata:        metadata,
	}
}
