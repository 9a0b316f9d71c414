package bedrock

import (
	"fmt"

	"github.com/ziadkadry99/incident-rag/internal/document"
)

// anthropicVersion is the Bedrock protocol tag for the Messages API.
const anthropicVersion = "bedrock-2023-05-31"

type invokeBody struct {
	AnthropicVersion string    `json:"anthropic_version"`
	MaxTokens        int       `json:"max_tokens"`
	Temperature      float64   `json:"temperature"`
	Messages         []message `json:"messages"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *blockSource `json:"source,omitempty"`
}

type blockSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// BuildMessages assembles the single user turn: one content block per
// document in request order, instruction text last. Documents always
// precede the instruction; the model expects grounding before the
// question. Documents with neither payload nor extracted text are
// silently skipped.
func BuildMessages(req QueryRequest) []message {
	var content []contentBlock

	for _, doc := range req.Documents {
		switch {
		case doc.Kind == document.KindPDF && doc.Base64Content != "":
			content = append(content, contentBlock{
				Type: "document",
				Source: &blockSource{
					Type:      "base64",
					MediaType: "application/pdf",
					Data:      doc.Base64Content,
				},
			})
		case doc.Kind == document.KindImage && doc.Base64Content != "":
			mediaType := doc.MediaType
			if mediaType == "" {
				mediaType = "image/jpeg"
			}
			content = append(content, contentBlock{
				Type: "image",
				Source: &blockSource{
					Type:      "base64",
					MediaType: mediaType,
					Data:      doc.Base64Content,
				},
			})
		case doc.Content != "":
			content = append(content, contentBlock{
				Type: "text",
				Text: fmt.Sprintf("=== Content of %s ===\n\n%s", doc.FileName, doc.Content),
			})
		}
	}

	content = append(content, contentBlock{Type: "text", Text: req.Prompt})

	return []message{{Role: "user", Content: content}}
}
