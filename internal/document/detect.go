package document

import (
	"path/filepath"
	"strings"
)

// kindByExtension is the fixed classification table. Classification is
// strictly by lowercase extension; anything else is KindUnknown.
var kindByExtension = map[string]Kind{
	".pdf":  KindPDF,
	".jpg":  KindImage,
	".jpeg": KindImage,
	".png":  KindImage,
	".gif":  KindImage,
	".webp": KindImage,
	".xlsx": KindSpreadsheet,
	".xls":  KindSpreadsheet,
	".csv":  KindSpreadsheet,
	".docx": KindWord,
	".doc":  KindWord,
	".txt":  KindText,
	".md":   KindText,
}

// mediaTypeByImageExtension supplies the default media type for image
// payloads when none is otherwise known.
var mediaTypeByImageExtension = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// DetectKind classifies a file path by its extension.
func DetectKind(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	if kind, ok := kindByExtension[ext]; ok {
		return kind
	}
	return KindUnknown
}
