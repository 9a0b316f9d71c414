package document

import (
	"fmt"
	"os"
	"strings"

	docx "github.com/fumiama/go-docx"

	"github.com/ziadkadry99/incident-rag/internal/apperr"
)

// processWord concatenates non-empty paragraph texts in order, then
// appends a `=== TABLES ===` section with each table rendered as
// pipe-joined cells per row.
func (p *Processor) processWord(doc *Document) error {
	text, err := extractWordText(doc.FilePath)
	if err != nil {
		return apperr.Processing(err, "processing Word document %s", doc.FileName)
	}
	doc.Content = text
	return nil
}

func extractWordText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}

	parsed, err := docx.Parse(f, info.Size())
	if err != nil {
		return "", fmt.Errorf("parsing docx: %w", err)
	}

	var parts []string
	var tables []string
	for _, item := range parsed.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			if text := strings.TrimSpace(it.String()); text != "" {
				parts = append(parts, text)
			}
		case *docx.Table:
			tables = append(tables, renderTable(it))
		}
	}

	if len(tables) > 0 {
		parts = append(parts, "\n=== TABLES ===\n")
		parts = append(parts, tables...)
	}

	return strings.Join(parts, "\n\n"), nil
}

// renderTable joins cell text with " | " per row and rows with newlines.
func renderTable(table *docx.Table) string {
	var rows []string
	for _, row := range table.TableRows {
		var cells []string
		for _, cell := range row.TableCells {
			var texts []string
			for _, para := range cell.Paragraphs {
				texts = append(texts, para.String())
			}
			cells = append(cells, strings.Join(texts, " "))
		}
		rows = append(rows, strings.Join(cells, " | "))
	}
	return strings.Join(rows, "\n")
}
