// Package cropper cuts the same region out of an original and compressed image pair.
package cropper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/sync/errgroup"

	// additional decoders for uploaded originals
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/ManuelReschke/PixelShrink/app/models"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/geometry"
)

const DefaultJPEGQuality = 92

var (
	ErrCropDecodeFailure = errors.New("crop: source image could not be decoded")
	ErrEmptyRegion       = errors.New("crop: region is empty")
)

// Cropper extracts the same region from an original/compressed pair.
type Cropper interface {
	Crop(ctx context.Context, original, compressed models.ImageAsset, rect geometry.Rect, format models.OutputFormat) (models.ImageAsset, models.ImageAsset, error)
}

// Engine crops with disintegration/imaging.
type Engine struct {
	JPEGQuality int
}

// New returns an engine encoding JPEG output at the given quality (1-100).
func New(jpegQuality int) *Engine {
	if jpegQuality < 1 || jpegQuality > 100 {
		jpegQuality = DefaultJPEGQuality
	}
	return &Engine{JPEGQuality: jpegQuality}
}

// Crop cuts rect (natural space of the original) out of both images and
// re-encodes each to format. Both results have the size of rect. The two
// crops run concurrently; either both succeed or an error is returned.
func (e *Engine) Crop(ctx context.Context, original, compressed models.ImageAsset, rect geometry.Rect, format models.OutputFormat) (models.ImageAsset, models.ImageAsset, error) {
	bounds := geometry.Size{Width: float64(original.Width), Height: float64(original.Height)}
	region := rect.ClampToBounds(bounds).Pixels()
	if region.Dx() < 1 || region.Dy() < 1 {
		return models.ImageAsset{}, models.ImageAsset{}, ErrEmptyRegion
	}

	var croppedOriginal, croppedCompressed models.ImageAsset
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		img, err := decode(gctx, original.Data)
		if err != nil {
			return fmt.Errorf("%w: original: %v", ErrCropDecodeFailure, err)
		}
		out, err := e.encode(gctx, imaging.Crop(img, region), format)
		if err != nil {
			return fmt.Errorf("crop: encode original: %w", err)
		}
		croppedOriginal = out
		return nil
	})

	g.Go(func() error {
		img, err := decode(gctx, compressed.Data)
		if err != nil {
			return fmt.Errorf("%w: compressed: %v", ErrCropDecodeFailure, err)
		}
		out, err := e.encode(gctx, cropAligned(img, rect, bounds, region), format)
		if err != nil {
			return fmt.Errorf("crop: encode compressed: %w", err)
		}
		croppedCompressed = out
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Warn(fmt.Sprintf("[Cropper] crop %v failed: %v", region, err))
		return models.ImageAsset{}, models.ImageAsset{}, err
	}

	return croppedOriginal, croppedCompressed, nil
}

// cropAligned cuts the region matching rect out of an image that may differ in
// resolution from the original, then resizes it to the original region size.
func cropAligned(img image.Image, rect geometry.Rect, bounds geometry.Size, region image.Rectangle) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == int(bounds.Width) && b.Dy() == int(bounds.Height) {
		return imaging.Crop(img, region)
	}

	sx := float64(b.Dx()) / bounds.Width
	sy := float64(b.Dy()) / bounds.Height
	scaled := rect.ClampToBounds(bounds).ScaleAxes(sx, sy).Pixels()
	if scaled.Dx() < 1 || scaled.Dy() < 1 {
		scaled = image.Rect(scaled.Min.X, scaled.Min.Y, scaled.Min.X+1, scaled.Min.Y+1)
	}
	cropped := imaging.Crop(img, scaled.Add(b.Min))
	return imaging.Resize(cropped, region.Dx(), region.Dy(), imaging.Lanczos)
}

func decode(ctx context.Context, data []byte) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("empty image data")
	}
	return imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
}

func (e *Engine) encode(ctx context.Context, img *image.NRGBA, format models.OutputFormat) (models.ImageAsset, error) {
	if err := ctx.Err(); err != nil {
		return models.ImageAsset{}, err
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case models.FormatPNG:
		err = imaging.Encode(&buf, img, imaging.PNG)
	default:
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(e.JPEGQuality))
	}
	if err != nil {
		return models.ImageAsset{}, err
	}

	b := img.Bounds()
	return models.NewImageAsset(buf.Bytes(), format.MimeType(), b.Dx(), b.Dy()), nil
}
