package upload

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

// MaxFileSize is the largest upload accepted.
const MaxFileSize int64 = 20 << 20

// MaxRequestSize is the HTTP body limit of the server. It stays well above
// MaxFileSize so oversized files reach ValidateSize and get a proper
// InputTooLarge answer instead of a dropped connection.
const MaxRequestSize = 256 << 20

// TooLargeMessage is shown whenever a file exceeds MaxFileSize.
const TooLargeMessage = "File size exceeds 20MB. Please choose a smaller file."

var (
	ErrInputTooLarge   = errors.New("file is too large")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrEmptyFile       = errors.New("file is empty")
)

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	// Note: SVG is intentionally excluded due to XSS risk without sanitization
}

var allowedMime = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
}

// ValidateSize rejects uploads above MaxFileSize before any further work.
func ValidateSize(size int64) error {
	if size <= 0 {
		return ErrEmptyFile
	}
	if size > MaxFileSize {
		return fmt.Errorf("%w: %s exceeds the %dMB limit", ErrInputTooLarge, humanize.IBytes(uint64(size)), MaxFileSize>>20)
	}
	return nil
}

// ValidateImageBySniff checks the provided filename (extension) and the first bytes (head)
// against a whitelist of image types. Returns detected mime or an error.
// An empty filename skips the extension check.
func ValidateImageBySniff(filename string, head []byte) (string, error) {
	if filename != "" {
		ext := strings.ToLower(filepath.Ext(filename))
		if !allowedExt[ext] {
			return "", fmt.Errorf("%w: only JPG, JPEG, PNG, GIF, WEBP and BMP are supported", ErrUnsupportedType)
		}
	}

	detected := mimetype.Detect(head)

	// Block obvious scriptable types regardless of extension
	if detected.Is("text/html") || detected.Is("application/xhtml+xml") {
		return "", fmt.Errorf("%w: HTML content is not allowed", ErrUnsupportedType)
	}
	if detected.Is("image/svg+xml") || detected.Is("text/xml") || detected.Is("application/xml") {
		// Block SVG/XML until sanitizer is available
		return "", fmt.Errorf("%w: SVG/XML is not supported", ErrUnsupportedType)
	}

	mime := detected.String()
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	if allowedMime[mime] {
		return mime, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mime)
}

// Validate runs the size check and then the content sniff.
func Validate(filename string, data []byte) (string, error) {
	if err := ValidateSize(int64(len(data))); err != nil {
		return "", err
	}
	return ValidateImageBySniff(filename, data)
}
