package document

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ziadkadry99/incident-rag/internal/apperr"
)

// processSpreadsheet renders every sheet as a header line followed by a
// flat textual table. Spreadsheets are not natively supported by the
// model, so only extracted text is populated.
func (p *Processor) processSpreadsheet(doc *Document) error {
	var (
		text string
		err  error
	)
	if strings.EqualFold(filepath.Ext(doc.FilePath), ".csv") {
		text, err = extractCSV(doc.FilePath)
	} else {
		text, err = extractWorkbook(doc.FilePath)
	}
	if err != nil {
		return apperr.Processing(err, "processing spreadsheet %s", doc.FileName)
	}
	doc.Content = text
	return nil
}

// extractWorkbook reads every sheet of an xlsx/xls workbook.
func extractWorkbook(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	var sheets []string
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return "", fmt.Errorf("reading sheet %q: %w", name, err)
		}
		sheets = append(sheets, renderSheet(name, rows))
	}

	return strings.Join(sheets, "\n\n"), nil
}

// extractCSV reads a csv file as a single sheet named after the file.
func extractCSV(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("reading csv: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return renderSheet(name, rows), nil
}

// renderSheet produces the `=== Sheet: <name> ===` header followed by
// the rows as tab-separated text.
func renderSheet(name string, rows [][]string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Sheet: %s ===\n\n", name)
	for i, row := range rows {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(strings.Join(row, "\t"))
	}
	return sb.String()
}
