package tools

import (
	qrcode "github.com/skip2/go-qrcode"

	"github.com/yourusername/challenge-blueprint/internal/models"
)

const (
	minQRSize    = 64
	maxQRSize    = 1024
	maxQRContent = 2048
)

// QRCodePNG encodes content as a square PNG of size pixels with medium error correction.
func QRCodePNG(content string, size int) ([]byte, error) {
	if content == "" || len(content) > maxQRContent {
		return nil, &models.ValidationError{Field: "content", Reason: "must be between 1 and 2048 bytes"}
	}
	if size < minQRSize || size > maxQRSize {
		return nil, &models.ValidationError{Field: "size", Reason: "must be between 64 and 1024"}
	}
	return qrcode.Encode(content, qrcode.Medium, size)
}
