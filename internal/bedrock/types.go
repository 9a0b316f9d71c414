package bedrock

import "github.com/ziadkadry99/incident-rag/internal/document"

// QueryRequest is one user turn: an instruction, the documents to
// ground it on (order significant) and the sampling parameters.
type QueryRequest struct {
	Prompt      string              `json:"prompt"`
	Documents   []document.Document `json:"documents,omitempty"`
	MaxTokens   int                 `json:"max_tokens"`
	Temperature float64             `json:"temperature"`
}

// QueryResponse carries the generated text plus usage accounting.
type QueryResponse struct {
	Response     string         `json:"response"`
	ModelID      string         `json:"model_id"`
	InputTokens  int            `json:"input_tokens"`
	OutputTokens int            `json:"output_tokens"`
	StopReason   string         `json:"stop_reason,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}
