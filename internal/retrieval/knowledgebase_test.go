package retrieval

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/document"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"github.com/ziadkadry99/incident-rag/internal/apperr"
)

type fakeRetrieveAPI struct {
	lastInput *bedrockagentruntime.RetrieveInput
	output    *bedrockagentruntime.RetrieveOutput
	err       error
}

func (f *fakeRetrieveAPI) Retrieve(ctx context.Context, params *bedrockagentruntime.RetrieveInput, optFns ...func(*bedrockagentruntime.Options)) (*bedrockagentruntime.RetrieveOutput, error) {
	f.lastInput = params
	if f.err != nil {
		return nil, f.err
	}
	return f.output, nil
}

// jsonDoc is a minimal smithy document for tests. The embedded
// document.Interface satisfies the package-private isSmithyDocument
// marker method; it is never invoked.
type jsonDoc struct {
	document.Interface
	raw []byte
}

func (d jsonDoc) MarshalSmithyDocument() ([]byte, error) { return d.raw, nil }

func (d jsonDoc) UnmarshalSmithyDocument(v interface{}) error { return json.Unmarshal(d.raw, v) }

func TestKnowledgeBaseRetrieve(t *testing.T) {
	api := &fakeRetrieveAPI{
		output: &bedrockagentruntime.RetrieveOutput{
			RetrievalResults: []types.KnowledgeBaseRetrievalResult{
				{
					Content: &types.RetrievalResultContent{Text: aws.String("db primary went down")},
					Score:   aws.Float64(0.87),
					Metadata: map[string]document.Interface{
						"incident_id": jsonDoc{raw: []byte(`"INC-100"`)},
						"title":       jsonDoc{raw: []byte(`"Primary outage"`)},
					},
				},
				{
					Content: &types.RetrievalResultContent{Text: aws.String("disk filled up")},
					Score:   aws.Float64(0.55),
				},
			},
		},
	}
	kb := NewKnowledgeBaseWithAPI(api, "KB123", zap.NewNop())

	incidents, err := kb.Retrieve(context.Background(), "database down", 5)
	if err != nil {
		t.Fatalf("Retrieve() error: %v", err)
	}
	if len(incidents) != 2 {
		t.Fatalf("len(incidents) = %d, want 2", len(incidents))
	}

	if incidents[0].IncidentID != "INC-100" || incidents[0].Title != "Primary outage" {
		t.Errorf("incident 0 = %+v", incidents[0])
	}
	if incidents[0].Description != "db primary went down" {
		t.Errorf("Description = %q", incidents[0].Description)
	}
	if incidents[0].SimilarityScore != 0.87 {
		t.Errorf("SimilarityScore = %v", incidents[0].SimilarityScore)
	}

	// Missing metadata falls back to the defaulting table.
	if incidents[1].IncidentID != "unknown" || incidents[1].Title != "Sin título" {
		t.Errorf("incident 1 defaults = %+v", incidents[1])
	}

	if got := aws.ToString(api.lastInput.KnowledgeBaseId); got != "KB123" {
		t.Errorf("KnowledgeBaseId = %q", got)
	}
	vsc := api.lastInput.RetrievalConfiguration.VectorSearchConfiguration
	if aws.ToInt32(vsc.NumberOfResults) != 5 {
		t.Errorf("NumberOfResults = %d, want 5", aws.ToInt32(vsc.NumberOfResults))
	}
	if vsc.OverrideSearchType != types.SearchTypeHybrid {
		t.Errorf("OverrideSearchType = %v, want hybrid", vsc.OverrideSearchType)
	}
}

func TestKnowledgeBaseRetrieveFlattensJSONMetadata(t *testing.T) {
	blob := `"{\"incident_id\": \"INC-9\", \"severity\": \"high\"}"`
	api := &fakeRetrieveAPI{
		output: &bedrockagentruntime.RetrieveOutput{
			RetrievalResults: []types.KnowledgeBaseRetrievalResult{
				{
					Content:  &types.RetrievalResultContent{Text: aws.String("text")},
					Score:    aws.Float64(0.4),
					Metadata: map[string]document.Interface{"blob": jsonDoc{raw: []byte(blob)}},
				},
			},
		},
	}
	kb := NewKnowledgeBaseWithAPI(api, "KB123", zap.NewNop())

	incidents, err := kb.Retrieve(context.Background(), "q", 1)
	if err != nil {
		t.Fatalf("Retrieve() error: %v", err)
	}
	if incidents[0].IncidentID != "INC-9" {
		t.Errorf("IncidentID = %q, want INC-9 (flattened)", incidents[0].IncidentID)
	}
	if incidents[0].Metadata["severity"] != "high" {
		t.Errorf("severity = %v, want high", incidents[0].Metadata["severity"])
	}
}

func TestKnowledgeBaseRetrieveBackendError(t *testing.T) {
	api := &fakeRetrieveAPI{err: &smithy.GenericAPIError{Code: "AccessDeniedException", Message: "no"}}
	kb := NewKnowledgeBaseWithAPI(api, "KB123", zap.NewNop())

	_, err := kb.Retrieve(context.Background(), "q", 3)
	if err == nil {
		t.Fatal("expected error")
	}
	kind, ok := apperr.KindOf(err)
	if !ok || kind != apperr.KindBackend {
		t.Errorf("error kind = %v, %v, want backend", kind, ok)
	}

	var classified *apperr.Error
	if errors.As(err, &classified) && classified.Code != "AccessDeniedException" {
		t.Errorf("Code = %q, want AccessDeniedException", classified.Code)
	}
}
