package analyzer

import (
	"encoding/json"
	"strings"

	"github.com/ziadkadry99/incident-rag/internal/retrieval"
)

// analysisPayload is the JSON object the model is instructed to embed
// in its response. Pointer fields distinguish absent keys so the
// defaulting table below applies uniformly.
type analysisPayload struct {
	Diagnosis          *string  `json:"diagnosis"`
	RootCause          *string  `json:"root_cause"`
	RecommendedActions []string `json:"recommended_actions"`
	ConfidenceScore    *float64 `json:"confidence_score"`
}

// missingFieldDefaults is the single defaulting table applied when the
// payload parses but individual keys are absent.
var missingFieldDefaults = struct {
	Diagnosis       string
	RootCause       string
	ConfidenceScore float64
}{
	Diagnosis:       "Could not be determined",
	RootCause:       "Could not be determined",
	ConfidenceScore: 0.5,
}

// fallbackResponse is returned verbatim (plus the real similar
// incidents and token usage) when no JSON payload can be extracted.
var fallbackResponse = struct {
	Diagnosis          string
	RootCause          string
	RecommendedActions []string
}{
	Diagnosis:          "Error parsing the model response",
	RootCause:          "Not available",
	RecommendedActions: []string{"Check system logs", "Contact technical support"},
}

// ParseAnalysisResponse extracts the JSON payload embedded in the raw
// model output and maps it onto a typed response. Parse failure is
// never fatal: it degrades to a fixed fallback object with confidence
// 0.0 so the caller always receives a well-formed result.
func ParseAnalysisResponse(text string, incidents []retrieval.SimilarIncident) *IncidentAnalysisResponse {
	payload, ok := extractJSON(text)
	if !ok {
		return &IncidentAnalysisResponse{
			Diagnosis:          fallbackResponse.Diagnosis,
			RootCause:          fallbackResponse.RootCause,
			RecommendedActions: fallbackResponse.RecommendedActions,
			SimilarIncidents:   incidents,
			ConfidenceScore:    0.0,
		}
	}

	resp := &IncidentAnalysisResponse{
		Diagnosis:          missingFieldDefaults.Diagnosis,
		RootCause:          missingFieldDefaults.RootCause,
		RecommendedActions: []string{},
		SimilarIncidents:   incidents,
		ConfidenceScore:    missingFieldDefaults.ConfidenceScore,
	}
	if payload.Diagnosis != nil {
		resp.Diagnosis = *payload.Diagnosis
	}
	if payload.RootCause != nil {
		resp.RootCause = *payload.RootCause
	}
	if payload.RecommendedActions != nil {
		resp.RecommendedActions = payload.RecommendedActions
	}
	if payload.ConfidenceScore != nil {
		resp.ConfidenceScore = *payload.ConfidenceScore
	}
	return resp
}

// extractJSON locates the span between the first '{' and the last '}'
// and parses it. The model may wrap the object in markdown fences or
// prose; everything outside the brackets is ignored.
func extractJSON(text string) (analysisPayload, bool) {
	var payload analysisPayload

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return payload, false
	}

	if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err != nil {
		return payload, false
	}
	return payload, true
}
