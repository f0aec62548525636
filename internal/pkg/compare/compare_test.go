package compare

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PixelShrink/app/models"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/geometry"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/viewport"
)

func solid(t *testing.T, w, h int, c color.Color) models.ImageAsset {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(w, h, c), imaging.PNG))
	return models.NewImageAsset(buf.Bytes(), "image/png", w, h)
}

func TestRenderSlider(t *testing.T) {
	original := models.NewImageAsset([]byte{1}, "image/png", 400, 200)
	compressed := models.NewImageAsset([]byte{2}, "image/jpeg", 400, 200)

	l := Render(original, compressed, viewport.CompareState{Active: true, Mode: viewport.CompareSlider, SliderPercent: 30})
	assert.True(t, l.Active)
	require.NotNil(t, l.Base)
	require.NotNil(t, l.Overlay)
	require.NotNil(t, l.Divider)
	assert.Equal(t, RoleOriginal, l.Base.Role)
	assert.Empty(t, l.Base.ClipPath)
	assert.Equal(t, RoleCompressed, l.Overlay.Role)
	assert.Equal(t, "inset(0 70% 0 0)", l.Overlay.ClipPath)
	assert.Equal(t, 30.0, l.Divider.LeftPercent)
	assert.Empty(t, l.Panels)
}

func TestRenderSliderRecomputesEveryCall(t *testing.T) {
	original := models.NewImageAsset([]byte{1}, "image/png", 10, 10)
	compressed := models.NewImageAsset([]byte{2}, "image/png", 10, 10)
	cs := viewport.CompareState{Active: true, Mode: viewport.CompareSlider}

	for _, p := range []float64{0, 12.5, 50, 100, 140} {
		cs.SliderPercent = p
		l := Render(original, compressed, cs)
		want := geometry.Clamp(p, 0, 100)
		assert.Equal(t, want, l.Divider.LeftPercent)
	}
}

func TestRenderSideBySide(t *testing.T) {
	original := models.NewImageAsset([]byte{1}, "image/png", 400, 200)
	compressed := models.NewImageAsset([]byte{2}, "image/jpeg", 300, 300)

	l := Render(original, compressed, viewport.CompareState{Active: true, Mode: viewport.CompareSideBySide, SliderPercent: 30})
	require.Len(t, l.Panels, 2)
	assert.Nil(t, l.Overlay)
	assert.Nil(t, l.Divider)
	assert.Equal(t, 2.0, l.Panels[0].AspectRatio)
	assert.Equal(t, 1.0, l.Panels[1].AspectRatio)
	for _, p := range l.Panels {
		assert.Empty(t, p.ClipPath)
	}
}

func TestRenderInactiveShowsOriginalOnly(t *testing.T) {
	original := models.NewImageAsset([]byte{1}, "image/png", 400, 200)

	l := Render(original, models.ImageAsset{}, viewport.CompareState{Active: true, Mode: viewport.CompareSlider})
	assert.False(t, l.Active)
	require.NotNil(t, l.Base)
	assert.Nil(t, l.Overlay)

	l = Render(original, original, viewport.CompareState{})
	assert.False(t, l.Active)
	assert.Equal(t, viewport.CompareSlider, l.Mode)
}

func TestClipPath(t *testing.T) {
	assert.Equal(t, "inset(0 100% 0 0)", ClipPath(0))
	assert.Equal(t, "inset(0 0% 0 0)", ClipPath(100))
	assert.Equal(t, "inset(0 66.6667% 0 0)", ClipPath(33.33333333))
	assert.Equal(t, "inset(0 0% 0 0)", ClipPath(250))
}

func TestTransformCSS(t *testing.T) {
	s := viewport.NewState()
	assert.Equal(t, "scale(1) translate(0px, 0px)", TransformCSS(s))

	s.Scale = 2
	s.Offset = geometry.Point{X: 50, Y: -20}
	assert.Equal(t, "scale(2) translate(25px, -10px)", TransformCSS(s))
}

func TestComposite(t *testing.T) {
	original := solid(t, 100, 20, color.NRGBA{R: 255, A: 255})
	compressed := solid(t, 50, 10, color.NRGBA{G: 255, A: 255})

	data, err := Composite(context.Background(), original, compressed, 40)
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 100, 20), img.Bounds())

	// Left of the divider shows the compressed (green), right the original (red).
	r, g, _, _ := img.At(10, 10).RGBA()
	assert.Zero(t, r)
	assert.Equal(t, uint32(0xffff), g)

	r, g, _, _ = img.At(80, 10).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Zero(t, g)

	// The divider is white.
	r, g, b, _ := img.At(40, 10).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff}, []uint32{r, g, b})
}

func TestCompositeWithoutCompressed(t *testing.T) {
	original := solid(t, 10, 10, color.White)
	_, err := Composite(context.Background(), original, models.ImageAsset{}, 50)
	assert.ErrorIs(t, err, ErrNoCompressed)
}
