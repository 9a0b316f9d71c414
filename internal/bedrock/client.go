// Package bedrock wraps the AWS Bedrock runtime behind the invocation
// client used by both the query surface and the incident analyzer: it
// builds the Anthropic Messages envelope, parses the structured
// response and maps transport errors to the backend error kind.
package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsbedrock "github.com/aws/aws-sdk-go-v2/service/bedrock"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"github.com/ziadkadry99/incident-rag/internal/apperr"
)

// RuntimeAPI is the slice of the Bedrock runtime client the invocation
// path needs. Satisfied by *bedrockruntime.Client.
type RuntimeAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// ControlAPI is the slice of the Bedrock control-plane client used by
// the health check. Satisfied by *bedrock.Client.
type ControlAPI interface {
	ListFoundationModels(ctx context.Context, params *awsbedrock.ListFoundationModelsInput, optFns ...func(*awsbedrock.Options)) (*awsbedrock.ListFoundationModelsOutput, error)
}

// Client invokes a Claude model through Bedrock.
type Client struct {
	runtime RuntimeAPI
	control ControlAPI
	modelID string
	logger  *zap.Logger
}

// New creates a Client from an AWS config.
func New(cfg aws.Config, modelID string, logger *zap.Logger) *Client {
	return &Client{
		runtime: bedrockruntime.NewFromConfig(cfg),
		control: awsbedrock.NewFromConfig(cfg),
		modelID: modelID,
		logger:  logger,
	}
}

// NewWithAPI creates a Client with explicit API implementations.
// Used by tests and by callers that already hold service clients.
func NewWithAPI(runtime RuntimeAPI, control ControlAPI, modelID string, logger *zap.Logger) *Client {
	return &Client{runtime: runtime, control: control, modelID: modelID, logger: logger}
}

// ModelID returns the configured model identifier.
func (c *Client) ModelID() string { return c.modelID }

// responseBody is the Messages API response shape.
type responseBody struct {
	Content    []contentBlock `json:"content"`
	Model      string         `json:"model"`
	Role       string         `json:"role"`
	StopReason string         `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Invoke sends the request to the model and returns the parsed
// response. Backend failures surface as backend errors carrying the
// service code and message; anything else propagates wrapped.
func (c *Client) Invoke(ctx context.Context, req QueryRequest) (*QueryResponse, error) {
	body := invokeBody{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        req.MaxTokens,
		Temperature:      req.Temperature,
		Messages:         BuildMessages(req),
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshalling invoke body: %w", err)
	}

	c.logger.Info("invoking model",
		zap.String("model_id", c.modelID),
		zap.Int("documents", len(req.Documents)))

	out, err := c.runtime.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		ContentType: aws.String("application/json"),
		Body:        raw,
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			c.logger.Error("bedrock invocation failed",
				zap.String("code", apiErr.ErrorCode()),
				zap.String("message", apiErr.ErrorMessage()))
			return nil, apperr.Backend(apiErr.ErrorCode(), apiErr.ErrorMessage(), err)
		}
		return nil, fmt.Errorf("invoking model: %w", err)
	}

	var parsed responseBody
	if err := json.Unmarshal(out.Body, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshalling model response: %w", err)
	}

	// A response may carry multiple text fragments; they are joined
	// in order with no separator.
	var text string
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	resp := &QueryResponse{
		Response:     text,
		ModelID:      c.modelID,
		InputTokens:  parsed.Usage.InputTokens,
		OutputTokens: parsed.Usage.OutputTokens,
		StopReason:   parsed.StopReason,
		Metadata: map[string]any{
			"model": parsed.Model,
			"role":  parsed.Role,
		},
	}

	c.logger.Info("model response received",
		zap.Int("input_tokens", resp.InputTokens),
		zap.Int("output_tokens", resp.OutputTokens))

	return resp, nil
}

// CheckConnection verifies the backend is reachable by listing the
// available foundation models. Diagnostics only, never on the hot path.
func (c *Client) CheckConnection(ctx context.Context) bool {
	out, err := c.control.ListFoundationModels(ctx, &awsbedrock.ListFoundationModelsInput{})
	if err != nil {
		c.logger.Error("bedrock connection check failed", zap.Error(err))
		return false
	}
	c.logger.Info("bedrock connection ok",
		zap.Int("models_available", len(out.ModelSummaries)))
	return true
}
