package retrieval

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/document"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"github.com/ziadkadry99/incident-rag/internal/apperr"
)

// RetrieveAPI is the slice of the Bedrock agent runtime client the
// Knowledge Base retriever needs. Satisfied by *bedrockagentruntime.Client.
type RetrieveAPI interface {
	Retrieve(ctx context.Context, params *bedrockagentruntime.RetrieveInput, optFns ...func(*bedrockagentruntime.Options)) (*bedrockagentruntime.RetrieveOutput, error)
}

// KnowledgeBase retrieves similar incidents from a Bedrock Knowledge
// Base using hybrid (semantic + keyword) search.
type KnowledgeBase struct {
	api    RetrieveAPI
	kbID   string
	logger *zap.Logger
}

// NewKnowledgeBase creates a KnowledgeBase retriever from an AWS config.
func NewKnowledgeBase(cfg aws.Config, knowledgeBaseID string, logger *zap.Logger) *KnowledgeBase {
	return &KnowledgeBase{
		api:    bedrockagentruntime.NewFromConfig(cfg),
		kbID:   knowledgeBaseID,
		logger: logger,
	}
}

// NewKnowledgeBaseWithAPI creates a KnowledgeBase with an explicit API
// implementation, for tests.
func NewKnowledgeBaseWithAPI(api RetrieveAPI, knowledgeBaseID string, logger *zap.Logger) *KnowledgeBase {
	return &KnowledgeBase{api: api, kbID: knowledgeBaseID, logger: logger}
}

// Retrieve implements Retriever.
func (k *KnowledgeBase) Retrieve(ctx context.Context, query string, maxResults int) ([]SimilarIncident, error) {
	k.logger.Info("searching knowledge base",
		zap.String("knowledge_base_id", k.kbID),
		zap.Int("max_results", maxResults))

	out, err := k.api.Retrieve(ctx, &bedrockagentruntime.RetrieveInput{
		KnowledgeBaseId: aws.String(k.kbID),
		RetrievalQuery:  &types.KnowledgeBaseQuery{Text: aws.String(query)},
		RetrievalConfiguration: &types.KnowledgeBaseRetrievalConfiguration{
			VectorSearchConfiguration: &types.KnowledgeBaseVectorSearchConfiguration{
				NumberOfResults:    aws.Int32(int32(maxResults)),
				OverrideSearchType: types.SearchTypeHybrid,
			},
		},
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			return nil, apperr.Backend(apiErr.ErrorCode(), apiErr.ErrorMessage(), err)
		}
		return nil, apperr.Backend("", err.Error(), err)
	}

	incidents := make([]SimilarIncident, 0, len(out.RetrievalResults))
	for _, result := range out.RetrievalResults {
		var content string
		if result.Content != nil && result.Content.Text != nil {
			content = *result.Content.Text
		}
		var score float64
		if result.Score != nil {
			score = *result.Score
		}

		incident := incidentFromHit(content, score, decodeMetadata(result.Metadata))
		incidents = append(incidents, incident)

		k.logger.Debug("similar incident",
			zap.String("incident_id", incident.IncidentID),
			zap.Float64("score", score))
	}

	return incidents, nil
}

// decodeMetadata turns the smithy document metadata into a plain map.
// A value that is itself a JSON-encoded string is parsed; on parse
// failure the raw string is kept. Undecodable values are dropped
// rather than failing the whole hit.
func decodeMetadata(raw map[string]document.Interface) map[string]any {
	metadata := make(map[string]any, len(raw))
	for key, value := range raw {
		var decoded any
		if err := value.UnmarshalSmithyDocument(&decoded); err != nil {
			continue
		}
		if s, ok := decoded.(string); ok && looksLikeJSONObject(s) {
			// Flatten a JSON-object-encoded metadata blob; a blob
			// that fails to parse contributes nothing.
			for nk, nv := range ParseMetadataString(s) {
				metadata[nk] = nv
			}
			continue
		}
		metadata[key] = decoded
	}
	return metadata
}

func looksLikeJSONObject(s string) bool {
	return len(s) > 1 && s[0] == '{'
}
