package analyzer

import (
	"testing"

	"github.com/ziadkadry99/incident-rag/internal/retrieval"
)

func TestParseAnalysisResponse(t *testing.T) {
	text := "Here is my analysis:\n```json\n" +
		`{
			"diagnosis": "Connection pool exhausted",
			"root_cause": "Leaked connections in the payment service",
			"recommended_actions": ["Restart the service", "Patch the leak"],
			"confidence_score": 0.85
		}` + "\n```\nLet me know if you need more detail."

	incidents := []retrieval.SimilarIncident{{IncidentID: "INC-1"}}
	resp := ParseAnalysisResponse(text, incidents)

	if resp.Diagnosis != "Connection pool exhausted" {
		t.Errorf("Diagnosis = %q", resp.Diagnosis)
	}
	if resp.RootCause != "Leaked connections in the payment service" {
		t.Errorf("RootCause = %q", resp.RootCause)
	}
	if len(resp.RecommendedActions) != 2 || resp.RecommendedActions[0] != "Restart the service" {
		t.Errorf("RecommendedActions = %v", resp.RecommendedActions)
	}
	if resp.ConfidenceScore != 0.85 {
		t.Errorf("ConfidenceScore = %v", resp.ConfidenceScore)
	}
	if len(resp.SimilarIncidents) != 1 {
		t.Errorf("SimilarIncidents = %v", resp.SimilarIncidents)
	}
}

func TestParseAnalysisResponseMissingFields(t *testing.T) {
	resp := ParseAnalysisResponse(`{"diagnosis": "Partial"}`, nil)

	if resp.Diagnosis != "Partial" {
		t.Errorf("Diagnosis = %q", resp.Diagnosis)
	}
	if resp.RootCause != "Could not be determined" {
		t.Errorf("RootCause = %q, want default", resp.RootCause)
	}
	if resp.RecommendedActions == nil || len(resp.RecommendedActions) != 0 {
		t.Errorf("RecommendedActions = %v, want empty slice", resp.RecommendedActions)
	}
	if resp.ConfidenceScore != 0.5 {
		t.Errorf("ConfidenceScore = %v, want 0.5 default", resp.ConfidenceScore)
	}
}

func TestParseAnalysisResponseNoJSON(t *testing.T) {
	incidents := []retrieval.SimilarIncident{{IncidentID: "INC-2"}}
	resp := ParseAnalysisResponse("I cannot provide a structured answer.", incidents)

	if resp.Diagnosis != "Error parsing the model response" {
		t.Errorf("Diagnosis = %q", resp.Diagnosis)
	}
	if resp.RootCause != "Not available" {
		t.Errorf("RootCause = %q", resp.RootCause)
	}
	if len(resp.RecommendedActions) != 2 {
		t.Errorf("RecommendedActions = %v", resp.RecommendedActions)
	}
	if resp.ConfidenceScore != 0.0 {
		t.Errorf("ConfidenceScore = %v, want 0.0", resp.ConfidenceScore)
	}
	// Retrieval results survive a parse failure.
	if len(resp.SimilarIncidents) != 1 {
		t.Errorf("SimilarIncidents = %v", resp.SimilarIncidents)
	}
}

func TestParseAnalysisResponseMalformedJSON(t *testing.T) {
	resp := ParseAnalysisResponse(`{"diagnosis": truncated`, nil)
	if resp.Diagnosis != "Error parsing the model response" {
		t.Errorf("Diagnosis = %q, want fallback", resp.Diagnosis)
	}
	if resp.ConfidenceScore != 0.0 {
		t.Errorf("ConfidenceScore = %v, want 0.0", resp.ConfidenceScore)
	}
}
