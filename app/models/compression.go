package models

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

// OutputFormat is the encoding requested from the compression service.
type OutputFormat string

const (
	FormatJPEG OutputFormat = "jpeg"
	FormatPNG  OutputFormat = "png"
)

// CompressionLevel is the qualitative aggressiveness passed to the service.
type CompressionLevel string

const (
	LevelLow    CompressionLevel = "low"
	LevelMedium CompressionLevel = "medium"
	LevelHigh   CompressionLevel = "high"
)

// ParseOutputFormat accepts "jpeg", "jpg", "png" and the matching mime types.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "jpeg", "jpg", "image/jpeg":
		return FormatJPEG, nil
	case "png", "image/png":
		return FormatPNG, nil
	}
	return "", fmt.Errorf("unsupported output format %q", s)
}

// Extension returns the conventional file extension without the dot.
func (f OutputFormat) Extension() string {
	if f == FormatPNG {
		return "png"
	}
	return "jpg"
}

// MimeType returns the mime type for the format.
func (f OutputFormat) MimeType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/jpeg"
}

// DownloadName is the file name offered for the compressed result.
func (f OutputFormat) DownloadName() string {
	return "compressed_image." + f.Extension()
}

// ParseCompressionLevel accepts low, medium and high (case-insensitive).
func ParseCompressionLevel(s string) (CompressionLevel, error) {
	switch l := CompressionLevel(strings.ToLower(strings.TrimSpace(s))); l {
	case LevelLow, LevelMedium, LevelHigh:
		return l, nil
	}
	return "", fmt.Errorf("unsupported compression level %q", s)
}

// CompressionSettings is pure configuration for one compression request.
type CompressionSettings struct {
	OutputFormat OutputFormat     `json:"output_format" validate:"required,oneof=jpeg png"`
	Level        CompressionLevel `json:"level" validate:"required,oneof=low medium high"`
}

// DefaultCompressionSettings matches the initial picker state of the UI.
func DefaultCompressionSettings() CompressionSettings {
	return CompressionSettings{OutputFormat: FormatJPEG, Level: LevelMedium}
}

var settingsValidator = validator.New()

// Validate validates the settings
func (s CompressionSettings) Validate() error {
	return settingsValidator.Struct(s)
}

// SizeReduction compares the byte sizes of an original and its compressed
// counterpart. Percent is negative when the file grew.
type SizeReduction struct {
	OriginalBytes   int64   `json:"original_bytes"`
	CompressedBytes int64   `json:"compressed_bytes"`
	Percent         float64 `json:"percent"`
	Ratio           float64 `json:"ratio"`
	Reduced         bool    `json:"reduced"`
}

// NewSizeReduction computes the reduction between two byte sizes.
func NewSizeReduction(original, compressed int64) SizeReduction {
	r := SizeReduction{OriginalBytes: original, CompressedBytes: compressed}
	if original > 0 {
		r.Percent = float64(original-compressed) / float64(original) * 100
	}
	if compressed > 0 {
		r.Ratio = math.Round(float64(original)/float64(compressed)*10) / 10
	}
	r.Reduced = compressed > 0 && compressed < original
	return r
}

// Message is the user-facing summary of the reduction.
func (r SizeReduction) Message() string {
	if r.Reduced {
		return fmt.Sprintf("Success! File size reduced by %.1f%%.", r.Percent)
	}
	if r.CompressedBytes == r.OriginalBytes {
		return "The compressed image did not reduce the file size."
	}
	return fmt.Sprintf("The compressed image did not reduce the file size (%.1f%% larger).", -r.Percent)
}

// CompressionResult is a successful compression together with the settings
// that produced it.
type CompressionResult struct {
	Asset     ImageAsset          `json:"asset"`
	Settings  CompressionSettings `json:"settings"`
	Reduction SizeReduction       `json:"reduction"`
}
