package analyzer

import "github.com/ziadkadry99/incident-rag/internal/retrieval"

// DefaultMaxSimilarIncidents is used when a request does not specify
// how many similar incidents to retrieve.
const DefaultMaxSimilarIncidents = 5

// IncidentAnalysisRequest describes one analysis run.
//
// The zero value disables query optimization and attachment enrichment;
// callers constructing a request directly should set OptimizeQuery and
// IncludeAttachments to true unless they want the reduced pipeline.
type IncidentAnalysisRequest struct {
	IncidentDescription string `json:"incident_description"`
	IncidentID          string `json:"incident_id,omitempty"`
	MaxSimilarIncidents int    `json:"max_similar_incidents,omitempty"`
	IncludeAttachments  bool   `json:"include_attachments"`
	OptimizeQuery       bool   `json:"optimize_query"`
}

// IncidentAnalysisResponse is the structured result of an analysis.
// OptimizedQuery equals OriginalQuery when optimization was disabled
// or fell back.
type IncidentAnalysisResponse struct {
	Diagnosis          string                      `json:"diagnosis"`
	RootCause          string                      `json:"root_cause"`
	RecommendedActions []string                    `json:"recommended_actions"`
	SimilarIncidents   []retrieval.SimilarIncident `json:"similar_incidents"`
	ConfidenceScore    float64                     `json:"confidence_score"`
	ModelID            string                      `json:"model_id"`
	InputTokens        int                         `json:"input_tokens"`
	OutputTokens       int                         `json:"output_tokens"`
	OriginalQuery      string                      `json:"original_query"`
	OptimizedQuery     string                      `json:"optimized_query"`
}
