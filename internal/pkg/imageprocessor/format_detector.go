package imageprocessor

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/ManuelReschke/PixelShrink/app/models"
)

// decodable lists the mime types the server can decode for cropping and
// compositing.
var decodable = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
}

// DetectMime sniffs the mime type from the payload, ignoring parameters.
func DetectMime(data []byte) string {
	m := mimetype.Detect(data).String()
	if i := strings.IndexByte(m, ';'); i >= 0 {
		m = m[:i]
	}
	return m
}

// IsDecodable reports whether images of the given mime type can be decoded.
func IsDecodable(mime string) bool {
	return decodable[strings.ToLower(mime)]
}

// FormatForMime maps a mime type to an output format. Only JPEG and PNG have one.
func FormatForMime(mime string) (models.OutputFormat, bool) {
	switch strings.ToLower(mime) {
	case "image/jpeg", "image/jpg":
		return models.FormatJPEG, true
	case "image/png":
		return models.FormatPNG, true
	}
	return "", false
}
