package imageprocessor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PixelShrink/app/models"
)

// ErrUndecodable is returned when the payload is not an image we can read.
var ErrUndecodable = errors.New("image could not be decoded")

// NewAsset materializes encoded bytes into an ImageAsset. Width and height
// are the displayed dimensions, so an EXIF rotation of 90 degrees swaps them.
func NewAsset(data []byte) (models.ImageAsset, error) {
	if len(data) == 0 {
		return models.ImageAsset{}, fmt.Errorf("%w: empty payload", ErrUndecodable)
	}

	mime := DetectMime(data)
	if !IsDecodable(mime) {
		return models.ImageAsset{}, fmt.Errorf("%w: %s", ErrUndecodable, mime)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return models.ImageAsset{}, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}

	width, height := cfg.Width, cfg.Height
	meta, err := ExtractMetadata(data)
	if err != nil {
		log.Warnf("[ImageProcessor] metadata extraction failed: %v", err)
	}
	if meta != nil && SwapsAxes(meta.Orientation) {
		width, height = height, width
	}

	asset := models.NewImageAsset(data, mime, width, height)
	return asset.WithMetadata(meta), nil
}
