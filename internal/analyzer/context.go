package analyzer

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/incident-rag/internal/retrieval"
)

// BuildContext serializes the current incident and its retrieved
// similar incidents into the grounding context block. Pure and
// deterministic: identical input always yields byte-identical output.
func BuildContext(req IncidentAnalysisRequest, incidents []retrieval.SimilarIncident) string {
	parts := []string{
		"# INCIDENT ANALYSIS",
		"",
		"## Current Incident",
		fmt.Sprintf("**Description:** %s", req.IncidentDescription),
		"",
	}

	if len(incidents) > 0 {
		parts = append(parts,
			"## Historical Similar Incidents",
			"")

		for i, incident := range incidents {
			parts = append(parts,
				fmt.Sprintf("### Similar Incident #%d", i+1),
				fmt.Sprintf("**ID:** %s", incident.IncidentID),
				fmt.Sprintf("**Title:** %s", incident.Title),
				fmt.Sprintf("**Similarity:** %.1f%%", incident.SimilarityScore*100),
				fmt.Sprintf("**Description:** %s", incident.Description),
				fmt.Sprintf("**Resolution:** %s", incident.Resolution),
				"")

			if len(incident.Attachments) > 0 {
				parts = append(parts,
					fmt.Sprintf("**Attachments:** %s", strings.Join(incident.Attachments, ", ")),
					"")
			}

			if len(incident.Metadata) > 0 {
				if severity, ok := incident.Metadata["severity"]; ok {
					parts = append(parts, fmt.Sprintf("**Severity:** %v", severity))
				}
				if category, ok := incident.Metadata["category"]; ok {
					parts = append(parts, fmt.Sprintf("**Category:** %v", category))
				}
				if resolutionTime, ok := incident.Metadata["resolution_time"]; ok {
					parts = append(parts, fmt.Sprintf("**Resolution time:** %v", resolutionTime))
				}
				parts = append(parts, "")
			}
		}
	}

	return strings.Join(parts, "\n")
}
