package document

import (
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"github.com/ziadkadry99/incident-rag/internal/apperr"
)

// processPDF encodes the PDF as an inline payload and extracts per-page
// text as best effort. Extraction failure is non-fatal: the model can
// read the inline payload directly, the text is only a reference.
func (p *Processor) processPDF(doc *Document) error {
	if !strings.HasSuffix(strings.ToLower(doc.FilePath), ".pdf") {
		return apperr.Validation("file must have a .pdf extension: %s", doc.FileName)
	}
	if doc.SizeBytes > maxPDFBytes {
		return apperr.Validation("%s exceeds the %d MiB limit for PDF files (size: %d bytes)",
			doc.FileName, maxPDFBytes>>20, doc.SizeBytes)
	}

	payload, err := encodeBase64(doc.FilePath)
	if err != nil {
		return apperr.Processing(err, "encoding PDF %s", doc.FileName)
	}
	doc.Base64Content = payload
	doc.MediaType = "application/pdf"

	text, err := extractPDFText(doc.FilePath, doc.SizeBytes)
	if err != nil {
		p.logger.Warn("could not extract text from PDF",
			zap.String("file", doc.FileName), zap.Error(err))
		return nil
	}
	doc.Content = text

	return nil
}

// extractPDFText concatenates the plain text of every page, separated
// by blank lines. Pages that fail to decode are skipped.
func extractPDFText(path string, size int64) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	reader, err := pdf.NewReader(f, size)
	if err != nil {
		return "", err
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil || text == "" {
			continue
		}
		pages = append(pages, text)
	}

	return strings.Join(pages, "\n\n"), nil
}
