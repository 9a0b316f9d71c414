package document

// Kind categorizes a normalized input file.
type Kind string

const (
	KindPDF         Kind = "pdf"
	KindImage       Kind = "image"
	KindSpreadsheet Kind = "spreadsheet"
	KindWord        Kind = "word"
	KindText        Kind = "text"
	KindUnknown     Kind = "unknown"
)

// Document is one normalized input file, ready for prompt assembly.
// Exactly one of Content / Base64Content is populated per kind: PDF and
// IMAGE always carry the inline base64 payload (PDF may additionally
// carry best-effort extracted text), the text-based kinds carry only
// extracted text. Immutable after construction.
type Document struct {
	FilePath      string `json:"file_path"`
	FileName      string `json:"file_name"`
	Kind          Kind   `json:"document_type"`
	Content       string `json:"content,omitempty"`
	Base64Content string `json:"base64_content,omitempty"`
	MediaType     string `json:"mime_type,omitempty"`
	SizeBytes     int64  `json:"size_bytes"`
}
