package document

import (
	"image"
	"os"
	"path/filepath"
	"strings"

	// Registered decoders for the supported image formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"go.uber.org/zap"
	_ "golang.org/x/image/webp"

	"github.com/ziadkadry99/incident-rag/internal/apperr"
)

// processImage validates size and decodability, then encodes the image
// bytes as the inline payload.
func (p *Processor) processImage(doc *Document) error {
	ext := strings.ToLower(filepath.Ext(doc.FilePath))
	if _, ok := mediaTypeByImageExtension[ext]; !ok {
		return apperr.Validation("invalid image extension %q for %s", ext, doc.FileName)
	}
	if doc.SizeBytes > maxImageBytes {
		return apperr.Validation("%s exceeds the %d MiB limit for images (size: %d bytes)",
			doc.FileName, maxImageBytes>>20, doc.SizeBytes)
	}

	format, err := decodeImageConfig(doc.FilePath)
	if err != nil {
		return apperr.Processing(err, "cannot decode image %s", doc.FileName)
	}
	p.logger.Debug("image validated",
		zap.String("file", doc.FileName), zap.String("format", format))

	payload, err := encodeBase64(doc.FilePath)
	if err != nil {
		return apperr.Processing(err, "encoding image %s", doc.FileName)
	}
	doc.Base64Content = payload

	if doc.MediaType == "" {
		mediaType, ok := mediaTypeByImageExtension[ext]
		if !ok {
			mediaType = "image/jpeg"
		}
		doc.MediaType = mediaType
	}

	return nil
}

// decodeImageConfig verifies the file is a decodable image without
// loading the full pixel data.
func decodeImageConfig(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	_, format, err := image.DecodeConfig(f)
	if err != nil {
		return "", err
	}
	return format, nil
}
