// Package document normalizes heterogeneous input files into a uniform
// representation suitable for multimodal model consumption: PDFs and
// images become inline base64 payloads, spreadsheets, Word documents
// and plain text become extracted text.
package document

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ziadkadry99/incident-rag/internal/apperr"
)

const (
	// Bedrock inline document limits.
	maxPDFBytes   = 32 << 20
	maxImageBytes = 5 << 20
)

// Processor converts files on disk into Documents. It performs no
// network calls; its only side effects are file reads.
type Processor struct {
	logger *zap.Logger
}

// NewProcessor creates a Processor. logger must not be nil.
func NewProcessor(logger *zap.Logger) *Processor {
	return &Processor{logger: logger}
}

// Process normalizes the file at path into a Document, or fails with a
// validation error (missing file, unsupported or oversized input) or a
// processing error (corrupt file).
func (p *Processor) Process(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperr.Validation("file does not exist: %s", path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	kind := DetectKind(path)
	if kind == KindUnknown {
		return nil, apperr.Validation("unsupported file type: %s", filepath.Base(path))
	}

	doc := &Document{
		FilePath:  path,
		FileName:  filepath.Base(path),
		Kind:      kind,
		SizeBytes: info.Size(),
	}

	p.logger.Info("processing document",
		zap.String("file", doc.FileName),
		zap.String("kind", string(kind)),
		zap.Int64("size_bytes", doc.SizeBytes))

	switch kind {
	case KindPDF:
		err = p.processPDF(doc)
	case KindImage:
		err = p.processImage(doc)
	case KindSpreadsheet:
		err = p.processSpreadsheet(doc)
	case KindWord:
		err = p.processWord(doc)
	case KindText:
		err = p.processText(doc)
	}
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// encodeBase64 reads the full file and encodes it as the inline payload.
func encodeBase64(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
