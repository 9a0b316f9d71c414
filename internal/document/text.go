package document

import (
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/ziadkadry99/incident-rag/internal/apperr"
)

// processText reads the file as UTF-8, falling back to a Latin-1
// decode when the bytes are not valid UTF-8.
func (p *Processor) processText(doc *Document) error {
	data, err := os.ReadFile(doc.FilePath)
	if err != nil {
		return apperr.Processing(err, "reading text file %s", doc.FileName)
	}

	if utf8.Valid(data) {
		doc.Content = string(data)
		return nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return apperr.Processing(err, "decoding text file %s", doc.FileName)
	}
	doc.Content = string(decoded)
	return nil
}
