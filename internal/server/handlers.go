package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/incident-rag/internal/analyzer"
	"github.com/ziadkadry99/incident-rag/internal/apperr"
	"github.com/ziadkadry99/incident-rag/internal/bedrock"
	"github.com/ziadkadry99/incident-rag/internal/document"
	"github.com/ziadkadry99/incident-rag/internal/history"
)

type queryRequest struct {
	Prompt      string              `json:"prompt"`
	Documents   []document.Document `json:"documents,omitempty"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Temperature float64             `json:"temperature,omitempty"`
}

type modelInfo struct {
	ModelID      string `json:"model_id"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
	StopReason   string `json:"stop_reason,omitempty"`
}

type queryResponse struct {
	Response  string    `json:"response"`
	ModelInfo modelInfo `json:"model_info"`
}

type analyzeRequest struct {
	IncidentDescription string `json:"incident_description"`
	IncidentID          string `json:"incident_id,omitempty"`
	MaxSimilarIncidents int    `json:"max_similar_incidents,omitempty"`
	IncludeAttachments  *bool  `json:"include_attachments,omitempty"`
	OptimizeQuery       *bool  `json:"optimize_query,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

type healthResponse struct {
	Status                  string   `json:"status"`
	ModelID                 string   `json:"model_id"`
	Region                  string   `json:"region"`
	KnowledgeBaseConfigured bool     `json:"knowledge_base_configured"`
	S3BucketConfigured      bool     `json:"s3_bucket_configured"`
	Issues                  []string `json:"issues,omitempty"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, apperr.Validation("invalid request body: %v", err))
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		s.writeError(w, apperr.Validation("prompt is required"))
		return
	}

	resp, err := s.querier.Invoke(r.Context(), bedrock.QueryRequest{
		Prompt:      req.Prompt,
		Documents:   req.Documents,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, queryResponse{
		Response: resp.Response,
		ModelInfo: modelInfo{
			ModelID:      resp.ModelID,
			InputTokens:  resp.InputTokens,
			OutputTokens: resp.OutputTokens,
			StopReason:   resp.StopReason,
		},
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, apperr.Validation("invalid request body: %v", err))
		return
	}

	analysisReq := analyzer.IncidentAnalysisRequest{
		IncidentDescription: req.IncidentDescription,
		IncidentID:          req.IncidentID,
		MaxSimilarIncidents: req.MaxSimilarIncidents,
		IncludeAttachments:  true,
		OptimizeQuery:       true,
	}
	if req.IncludeAttachments != nil {
		analysisReq.IncludeAttachments = *req.IncludeAttachments
	}
	if req.OptimizeQuery != nil {
		analysisReq.OptimizeQuery = *req.OptimizeQuery
	}

	resp, err := s.analyzer.Analyze(r.Context(), analysisReq)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if s.history != nil {
		rec := history.Record{
			CreatedAt:      time.Now().UTC(),
			IncidentID:     req.IncidentID,
			OriginalQuery:  resp.OriginalQuery,
			OptimizedQuery: resp.OptimizedQuery,
			Diagnosis:      resp.Diagnosis,
			Confidence:     resp.ConfidenceScore,
			SimilarCount:   len(resp.SimilarIncidents),
			InputTokens:    resp.InputTokens,
			OutputTokens:   resp.OutputTokens,
			ModelID:        resp.ModelID,
		}
		if _, err := s.history.Add(r.Context(), rec); err != nil {
			s.logger.Warn("failed to record analysis in history", zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, apperr.Validation("history store is not configured"))
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeError(w, apperr.Validation("limit must be a positive integer"))
			return
		}
		limit = n
	}

	records, err := s.history.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": records})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:                  "healthy",
		ModelID:                 s.cfg.ModelID,
		Region:                  s.cfg.Region,
		KnowledgeBaseConfigured: s.cfg.KnowledgeBaseConfigured,
		S3BucketConfigured:      s.cfg.S3BucketConfigured,
	}
	if !s.cfg.KnowledgeBaseConfigured {
		resp.Issues = append(resp.Issues, "knowledge base ID is not configured")
	}
	if !s.cfg.S3BucketConfigured {
		resp.Issues = append(resp.Issues, "S3 bucket for attachments is not configured")
	}
	if len(resp.Issues) > 0 {
		resp.Status = "degraded"
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := errorResponse{Error: err.Error()}
	if kind, ok := apperr.KindOf(err); ok {
		body.Kind = string(kind)
		switch kind {
		case apperr.KindValidation:
			status = http.StatusBadRequest
		case apperr.KindBackend:
			status = http.StatusBadGateway
		case apperr.KindProcessing:
			status = http.StatusUnprocessableEntity
		}
	}
	if status >= 500 {
		s.logger.Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
