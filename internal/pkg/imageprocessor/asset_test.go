package imageprocessor_test

import (
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PixelShrink/app/models"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/imageprocessor"
)

func TestNewAsset(t *testing.T) {
	tests := []struct {
		name   string
		format imaging.Format
		mime   string
	}{
		{"png", imaging.PNG, "image/png"},
		{"jpeg", imaging.JPEG, "image/jpeg"},
		{"gif", imaging.GIF, "image/gif"},
		{"bmp", imaging.BMP, "image/bmp"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data := encodeTestImage(t, 64, 48, tc.format)

			asset, err := imageprocessor.NewAsset(data)
			require.NoError(t, err)
			assert.Equal(t, tc.mime, asset.MimeType)
			assert.Equal(t, 64, asset.Width)
			assert.Equal(t, 48, asset.Height)
			assert.Equal(t, int64(len(data)), asset.ByteSize)
			assert.Nil(t, asset.Metadata)
		})
	}
}

func TestNewAssetSwapsAxesForRotatedJPEG(t *testing.T) {
	data := withOrientation(encodeTestImage(t, 80, 20, imaging.JPEG), 6)

	asset, err := imageprocessor.NewAsset(data)
	require.NoError(t, err)
	assert.Equal(t, 20, asset.Width)
	assert.Equal(t, 80, asset.Height)
	require.NotNil(t, asset.Metadata)
	assert.Equal(t, 6, asset.Metadata.Orientation)
}

func TestNewAssetRejectsNonImages(t *testing.T) {
	for name, data := range map[string][]byte{
		"empty": nil,
		"text":  []byte("just some text, not an image"),
		"html":  []byte("<html><body>hi</body></html>"),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := imageprocessor.NewAsset(data)
			assert.ErrorIs(t, err, imageprocessor.ErrUndecodable)
		})
	}
}

func TestNewAssetRejectsTruncatedPNG(t *testing.T) {
	data := encodeTestImage(t, 10, 10, imaging.PNG)
	_, err := imageprocessor.NewAsset(data[:20])
	assert.ErrorIs(t, err, imageprocessor.ErrUndecodable)
}

func TestFormatForMime(t *testing.T) {
	f, ok := imageprocessor.FormatForMime("image/jpeg")
	assert.True(t, ok)
	assert.Equal(t, models.FormatJPEG, f)

	f, ok = imageprocessor.FormatForMime("IMAGE/PNG")
	assert.True(t, ok)
	assert.Equal(t, models.FormatPNG, f)

	_, ok = imageprocessor.FormatForMime("image/webp")
	assert.False(t, ok)
}
