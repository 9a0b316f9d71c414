package document

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/ziadkadry99/incident-rag/internal/apperr"
)

func newTestProcessor() *Processor {
	return NewProcessor(zap.NewNop())
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestProcessMissingFile(t *testing.T) {
	_, err := newTestProcessor().Process(filepath.Join(t.TempDir(), "nope.txt"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if kind, ok := apperr.KindOf(err); !ok || kind != apperr.KindValidation {
		t.Errorf("error kind = %v, %v, want validation", kind, ok)
	}
}

func TestProcessUnsupportedExtension(t *testing.T) {
	path := writeFile(t, "archive.zip", []byte("PK"))

	_, err := newTestProcessor().Process(path)
	if err == nil {
		t.Fatal("expected error for unsupported extension")
	}
	if kind, ok := apperr.KindOf(err); !ok || kind != apperr.KindValidation {
		t.Errorf("error kind = %v, %v, want validation", kind, ok)
	}
}

func TestProcessTextUTF8(t *testing.T) {
	content := "database connection refused\nretrying in 5s\n"
	path := writeFile(t, "incident.txt", []byte(content))

	doc, err := newTestProcessor().Process(path)
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}

	if doc.Kind != KindText {
		t.Errorf("Kind = %v, want %v", doc.Kind, KindText)
	}
	if doc.Content != content {
		t.Errorf("Content = %q, want %q", doc.Content, content)
	}
	if doc.Base64Content != "" {
		t.Error("text documents must not carry an inline payload")
	}
	if doc.FileName != "incident.txt" {
		t.Errorf("FileName = %q, want incident.txt", doc.FileName)
	}
}

func TestProcessTextLatin1Fallback(t *testing.T) {
	// "conexión" with a Latin-1 encoded ó (0xF3), invalid as UTF-8.
	raw := []byte{'c', 'o', 'n', 'e', 'x', 'i', 0xF3, 'n'}
	path := writeFile(t, "log.txt", raw)

	doc, err := newTestProcessor().Process(path)
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	if doc.Content != "conexión" {
		t.Errorf("Content = %q, want %q", doc.Content, "conexión")
	}
}

func TestProcessCSV(t *testing.T) {
	csvData := "id,severity\nINC-1,high\nINC-2,low\n"
	path := writeFile(t, "incidents.csv", []byte(csvData))

	doc, err := newTestProcessor().Process(path)
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}

	if doc.Kind != KindSpreadsheet {
		t.Errorf("Kind = %v, want %v", doc.Kind, KindSpreadsheet)
	}
	want := "=== Sheet: incidents ===\n\nid\tseverity\nINC-1\thigh\nINC-2\tlow"
	if doc.Content != want {
		t.Errorf("Content = %q, want %q", doc.Content, want)
	}
}

func TestProcessImagePNG(t *testing.T) {
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	path := writeFile(t, "screenshot.png", buf.Bytes())

	doc, err := newTestProcessor().Process(path)
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}

	if doc.Kind != KindImage {
		t.Errorf("Kind = %v, want %v", doc.Kind, KindImage)
	}
	if doc.MediaType != "image/png" {
		t.Errorf("MediaType = %q, want image/png", doc.MediaType)
	}
	decoded, err := base64.StdEncoding.DecodeString(doc.Base64Content)
	if err != nil {
		t.Fatalf("payload is not valid base64: %v", err)
	}
	if !bytes.Equal(decoded, buf.Bytes()) {
		t.Error("payload does not round-trip to the original bytes")
	}
	if doc.Content != "" {
		t.Error("images must not carry extracted text")
	}
}

func TestProcessImageUndecodable(t *testing.T) {
	path := writeFile(t, "broken.png", []byte("not a png at all"))

	_, err := newTestProcessor().Process(path)
	if err == nil {
		t.Fatal("expected error for undecodable image")
	}
	if kind, ok := apperr.KindOf(err); !ok || kind != apperr.KindProcessing {
		t.Errorf("error kind = %v, %v, want processing", kind, ok)
	}
}

func TestProcessImageTooLarge(t *testing.T) {
	path := writeFile(t, "huge.jpg", make([]byte, maxImageBytes+1))

	_, err := newTestProcessor().Process(path)
	if err == nil {
		t.Fatal("expected error for oversized image")
	}
	if kind, ok := apperr.KindOf(err); !ok || kind != apperr.KindValidation {
		t.Errorf("error kind = %v, %v, want validation", kind, ok)
	}
	if !strings.Contains(err.Error(), "5 MiB") {
		t.Errorf("error should mention the limit, got %q", err.Error())
	}
}

func TestProcessImageAtSizeLimit(t *testing.T) {
	// A decodable PNG header padded to exactly the limit: size checks
	// are strict greater-than, and DecodeConfig reads only the header.
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	data := make([]byte, maxImageBytes)
	copy(data, buf.Bytes())
	path := writeFile(t, "exact.png", data)

	doc, err := newTestProcessor().Process(path)
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	if doc.SizeBytes != maxImageBytes {
		t.Errorf("SizeBytes = %d, want %d", doc.SizeBytes, maxImageBytes)
	}
	if doc.MediaType != "image/png" {
		t.Errorf("MediaType = %q, want image/png", doc.MediaType)
	}
}

func TestProcessPDFAtSizeLimit(t *testing.T) {
	path := writeFile(t, "exact.pdf", make([]byte, maxPDFBytes))

	doc, err := newTestProcessor().Process(path)
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	if doc.Base64Content == "" {
		t.Error("inline payload should be populated at the size limit")
	}
	if doc.MediaType != "application/pdf" {
		t.Errorf("MediaType = %q, want application/pdf", doc.MediaType)
	}
}

func TestProcessPDFTooLarge(t *testing.T) {
	path := writeFile(t, "huge.pdf", make([]byte, maxPDFBytes+1))

	_, err := newTestProcessor().Process(path)
	if err == nil {
		t.Fatal("expected error for oversized PDF")
	}
	if kind, ok := apperr.KindOf(err); !ok || kind != apperr.KindValidation {
		t.Errorf("error kind = %v, %v, want validation", kind, ok)
	}
	if !strings.Contains(err.Error(), "32 MiB") {
		t.Errorf("error should mention the limit, got %q", err.Error())
	}
}

func TestProcessPDFTextExtractionBestEffort(t *testing.T) {
	// Not a parseable PDF; the inline payload must still be produced
	// and extraction failure must not surface as an error.
	raw := []byte("%PDF-1.4 garbage body")
	path := writeFile(t, "report.pdf", raw)

	doc, err := newTestProcessor().Process(path)
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}

	if doc.MediaType != "application/pdf" {
		t.Errorf("MediaType = %q, want application/pdf", doc.MediaType)
	}
	if doc.Base64Content != base64.StdEncoding.EncodeToString(raw) {
		t.Error("inline payload does not match the file bytes")
	}
	if doc.Content != "" {
		t.Errorf("Content = %q, want empty after failed extraction", doc.Content)
	}
}

func TestProcessCorruptSpreadsheet(t *testing.T) {
	path := writeFile(t, "data.xlsx", []byte("not a zip"))

	_, err := newTestProcessor().Process(path)
	if err == nil {
		t.Fatal("expected error for corrupt workbook")
	}
	if kind, ok := apperr.KindOf(err); !ok || kind != apperr.KindProcessing {
		t.Errorf("error kind = %v, %v, want processing", kind, ok)
	}
}

func TestProcessCorruptWord(t *testing.T) {
	path := writeFile(t, "notes.docx", []byte("not a zip"))

	_, err := newTestProcessor().Process(path)
	if err == nil {
		t.Fatal("expected error for corrupt document")
	}
	if kind, ok := apperr.KindOf(err); !ok || kind != apperr.KindProcessing {
		t.Errorf("error kind = %v, %v, want processing", kind, ok)
	}
}
