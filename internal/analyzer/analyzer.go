// Package analyzer implements the retrieval-augmented incident
// analysis pipeline: optimize the query, retrieve similar historical
// incidents, enrich them with attachments, assemble the grounding
// context, invoke the model and parse its structured output.
package analyzer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ziadkadry99/incident-rag/internal/apperr"
	"github.com/ziadkadry99/incident-rag/internal/bedrock"
	"github.com/ziadkadry99/incident-rag/internal/retrieval"
)

const (
	analysisMaxTokens = 4096
	// Low temperature keeps the analysis deterministic.
	analysisTemperature = 0.3
)

// Invoker is the generation backend. Satisfied by *bedrock.Client.
type Invoker interface {
	Invoke(ctx context.Context, req bedrock.QueryRequest) (*bedrock.QueryResponse, error)
}

// AttachmentLister lists the attachment filenames of an incident.
// Satisfied by *storage.AttachmentStore.
type AttachmentLister interface {
	ForIncident(ctx context.Context, incidentID string) ([]string, error)
}

// Analyzer runs the analysis pipeline. All collaborators are injected;
// attachments may be nil when no blob store is configured.
type Analyzer struct {
	invoker     Invoker
	retriever   retrieval.Retriever
	attachments AttachmentLister
	logger      *zap.Logger
}

// New creates an Analyzer.
func New(invoker Invoker, retriever retrieval.Retriever, attachments AttachmentLister, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		invoker:     invoker,
		retriever:   retriever,
		attachments: attachments,
		logger:      logger,
	}
}

// Analyze runs the full pipeline for one incident. Validation and
// backend errors propagate; optimization and parse failures degrade
// gracefully per their stage policies.
func (a *Analyzer) Analyze(ctx context.Context, req IncidentAnalysisRequest) (*IncidentAnalysisResponse, error) {
	if strings.TrimSpace(req.IncidentDescription) == "" {
		return nil, apperr.Validation("incident_description is required")
	}

	maxSimilar := req.MaxSimilarIncidents
	if maxSimilar <= 0 {
		maxSimilar = DefaultMaxSimilarIncidents
	}

	a.logger.Info("starting incident analysis",
		zap.String("incident_id", orNew(req.IncidentID)),
		zap.Int("max_similar", maxSimilar))

	originalQuery := req.IncidentDescription
	optimizedQuery := originalQuery
	if req.OptimizeQuery {
		optimizedQuery = a.optimizeQuery(ctx, originalQuery)
	}

	incidents, err := a.retriever.Retrieve(ctx, optimizedQuery, maxSimilar)
	if err != nil {
		return nil, fmt.Errorf("retrieving similar incidents: %w", err)
	}
	a.logger.Info("similar incidents found", zap.Int("count", len(incidents)))

	if req.IncludeAttachments && a.attachments != nil {
		a.enrichAttachments(ctx, incidents)
	}

	grounding := BuildContext(req, incidents)

	modelResp, err := a.invoker.Invoke(ctx, bedrock.QueryRequest{
		Prompt:      analysisPrompt(grounding),
		MaxTokens:   analysisMaxTokens,
		Temperature: analysisTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("invoking analysis model: %w", err)
	}

	resp := ParseAnalysisResponse(modelResp.Response, incidents)
	resp.ModelID = modelResp.ModelID
	resp.InputTokens = modelResp.InputTokens
	resp.OutputTokens = modelResp.OutputTokens
	resp.OriginalQuery = originalQuery
	resp.OptimizedQuery = optimizedQuery

	a.logger.Info("analysis completed",
		zap.Float64("confidence", resp.ConfidenceScore),
		zap.Int("total_tokens", resp.InputTokens+resp.OutputTokens))

	return resp, nil
}

// enrichAttachments fills each incident's attachment list with one
// lookup per record. A failed lookup leaves that record's list empty
// and does not affect the others.
func (a *Analyzer) enrichAttachments(ctx context.Context, incidents []retrieval.SimilarIncident) {
	for i := range incidents {
		attachments, err := a.attachments.ForIncident(ctx, incidents[i].IncidentID)
		if err != nil {
			a.logger.Warn("could not list attachments",
				zap.String("incident_id", incidents[i].IncidentID),
				zap.Error(err))
			continue
		}
		incidents[i].Attachments = attachments
	}
}

func orNew(incidentID string) string {
	if incidentID == "" {
		return "new"
	}
	return incidentID
}
