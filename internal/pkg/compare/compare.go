// Package compare derives the before/after presentation from the two assets
// and the compare state. Nothing is cached; callers re-render on every state
// change.
package compare

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/ManuelReschke/PixelShrink/app/models"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/geometry"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/viewport"
)

// Roles of the rendered layers
const (
	RoleOriginal   = "original"
	RoleCompressed = "compressed"
)

// DividerWidth is the width in pixels of the slider line in snapshots.
const DividerWidth = 2

var ErrNoCompressed = errors.New("compare: no compressed image")

// Layer is one image element of the layout.
type Layer struct {
	Role        string  `json:"role"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AspectRatio float64 `json:"aspect_ratio"`
	ClipPath    string  `json:"clip_path,omitempty"`
}

// Divider is the draggable slider line.
type Divider struct {
	LeftPercent float64 `json:"left_percent"`
}

// Layout is everything a client needs to draw the comparison.
type Layout struct {
	Mode    viewport.CompareMode `json:"mode"`
	Active  bool                 `json:"active"`
	Base    *Layer               `json:"base,omitempty"`
	Overlay *Layer               `json:"overlay,omitempty"`
	Divider *Divider             `json:"divider,omitempty"`
	Panels  []Layer              `json:"panels,omitempty"`
}

func layer(role string, a models.ImageAsset) Layer {
	return Layer{Role: role, Width: a.Width, Height: a.Height, AspectRatio: a.AspectRatio()}
}

// ClipPath returns the CSS inset that reveals percent% of the overlay from the left.
func ClipPath(percent float64) string {
	p := geometry.Clamp(percent, 0, 100)
	return fmt.Sprintf("inset(0 %s%% 0 0)", trimFloat(100-p))
}

// Render composes the layout for the current compare state. Without a
// compressed asset, or with compare switched off, only the original is shown.
func Render(original, compressed models.ImageAsset, cs viewport.CompareState) Layout {
	mode := cs.Mode
	if mode == "" {
		mode = viewport.CompareSlider
	}
	out := Layout{Mode: mode}
	base := layer(RoleOriginal, original)

	if !cs.Active || compressed.IsZero() {
		out.Base = &base
		return out
	}
	out.Active = true

	switch mode {
	case viewport.CompareSideBySide:
		out.Panels = []Layer{base, layer(RoleCompressed, compressed)}
	default:
		percent := geometry.Clamp(cs.SliderPercent, 0, 100)
		overlay := layer(RoleCompressed, compressed)
		overlay.ClipPath = ClipPath(percent)
		out.Base = &base
		out.Overlay = &overlay
		out.Divider = &Divider{LeftPercent: percent}
	}
	return out
}

// TransformCSS is the transform applied to the image stack for the current
// zoom and pan.
func TransformCSS(s viewport.State) string {
	scale := s.Scale
	if scale <= 0 {
		scale = 1
	}
	return fmt.Sprintf("scale(%s) translate(%spx, %spx)",
		trimFloat(scale), trimFloat(s.Offset.X/scale), trimFloat(s.Offset.Y/scale))
}

// Composite renders a PNG snapshot of the slider view: the compressed image
// left of the divider over the original, at the original's resolution.
func Composite(ctx context.Context, original, compressed models.ImageAsset, percent float64) ([]byte, error) {
	if compressed.IsZero() {
		return nil, ErrNoCompressed
	}
	base, err := imaging.Decode(bytes.NewReader(original.Data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("compare: decode original: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	top, err := imaging.Decode(bytes.NewReader(compressed.Data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("compare: decode compressed: %w", err)
	}

	b := base.Bounds()
	w, h := b.Dx(), b.Dy()
	if tb := top.Bounds(); tb.Dx() != w || tb.Dy() != h {
		top = imaging.Resize(top, w, h, imaging.Lanczos)
	}

	cut := int(math.Round(float64(w) * geometry.Clamp(percent, 0, 100) / 100))
	canvas := imaging.Clone(base)
	if cut > 0 {
		canvas = imaging.Paste(canvas, imaging.Crop(top, image.Rect(0, 0, cut, h)), image.Pt(0, 0))
	}
	line := imaging.New(DividerWidth, h, color.White)
	canvas = imaging.Paste(canvas, line, image.Pt(cut-DividerWidth/2, 0))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.PNG); err != nil {
		return nil, fmt.Errorf("compare: encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.4f", v)
	for len(s) > 1 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	if s == "-0" {
		s = "0"
	}
	return s
}
