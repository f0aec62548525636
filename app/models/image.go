package models

import (
	"encoding/base64"
	"fmt"
)

// ImageAsset is one encoded image at rest. Assets are never mutated after
// construction; crops and re-compressions produce new assets.
type ImageAsset struct {
	Data     []byte         `json:"-"`
	MimeType string         `json:"mime_type"`
	Width    int            `json:"width"`
	Height   int            `json:"height"`
	ByteSize int64          `json:"byte_size"`
	Metadata *ImageMetadata `json:"metadata,omitempty"`
}

// NewImageAsset builds an asset and measures its size from the payload itself.
func NewImageAsset(data []byte, mimeType string, width, height int) ImageAsset {
	return ImageAsset{
		Data:     data,
		MimeType: mimeType,
		Width:    width,
		Height:   height,
		ByteSize: int64(len(data)),
	}
}

// IsZero reports whether the asset holds no image.
func (a ImageAsset) IsZero() bool {
	return len(a.Data) == 0
}

// DataURL renders the asset as a data: URL for inline previews.
func (a ImageAsset) DataURL() string {
	if a.IsZero() {
		return ""
	}
	return fmt.Sprintf("data:%s;base64,%s", a.MimeType, base64.StdEncoding.EncodeToString(a.Data))
}

// AspectRatio returns width/height or 0 for an asset without dimensions.
func (a ImageAsset) AspectRatio() float64 {
	if a.Height == 0 {
		return 0
	}
	return float64(a.Width) / float64(a.Height)
}

// WithMetadata returns a copy of the asset carrying the given metadata.
func (a ImageAsset) WithMetadata(meta *ImageMetadata) ImageAsset {
	a.Metadata = meta
	return a
}
