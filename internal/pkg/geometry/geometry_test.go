package geometry

import (
	"image"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampOffset(t *testing.T) {
	tests := []struct {
		name      string
		candidate Point
		container Size
		scaled    Size
		want      Point
	}{
		{
			name:      "image smaller than container cannot pan",
			candidate: Point{X: 40, Y: -30},
			container: Size{Width: 800, Height: 600},
			scaled:    Size{Width: 400, Height: 300},
			want:      Point{X: 0, Y: 0},
		},
		{
			name:      "offset inside overscroll is kept",
			candidate: Point{X: 50, Y: -20},
			container: Size{Width: 800, Height: 600},
			scaled:    Size{Width: 1200, Height: 900},
			want:      Point{X: 50, Y: -20},
		},
		{
			name:      "offset beyond overscroll is bounded by half the overflow",
			candidate: Point{X: 500, Y: -500},
			container: Size{Width: 800, Height: 600},
			scaled:    Size{Width: 1200, Height: 900},
			want:      Point{X: 200, Y: -150},
		},
		{
			name:      "axes are independent",
			candidate: Point{X: -999, Y: 999},
			container: Size{Width: 800, Height: 600},
			scaled:    Size{Width: 1000, Height: 500},
			want:      Point{X: -100, Y: 0},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClampOffset(tc.candidate, tc.container, tc.scaled))
		})
	}
}

func TestClampOffsetIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		o := Point{X: rng.Float64()*4000 - 2000, Y: rng.Float64()*4000 - 2000}
		c := Size{Width: rng.Float64() * 2000, Height: rng.Float64() * 2000}
		s := Size{Width: rng.Float64() * 4000, Height: rng.Float64() * 4000}

		once := ClampOffset(o, c, s)
		twice := ClampOffset(once, c, s)
		assert.Equal(t, once, twice)
	}
}

func TestToNaturalPointRoundTrip(t *testing.T) {
	container := Rect{X: 20, Y: 10, Width: 800, Height: 600}
	natural := Size{Width: 800, Height: 600}

	for _, p := range []Point{{X: 20, Y: 10}, {X: 420, Y: 310}, {X: 819.5, Y: 609.25}, {X: 123.4, Y: 567.8}} {
		n := ToNaturalPoint(p, container, natural, 1, Point{})
		back := ToViewportPoint(n, container, natural, 1, Point{})
		assert.InDelta(t, p.X, back.X, 1e-9)
		assert.InDelta(t, p.Y, back.Y, 1e-9)
	}
}

func TestToNaturalPointCenteredScaledAndPanned(t *testing.T) {
	container := Rect{X: 0, Y: 0, Width: 1000, Height: 800}
	natural := Size{Width: 400, Height: 200}

	// At scale 2 the image is 800x400, centered: origin (100, 200).
	n := ToNaturalPoint(Point{X: 100, Y: 200}, container, natural, 2, Point{})
	assert.Equal(t, Point{X: 0, Y: 0}, n)

	n = ToNaturalPoint(Point{X: 500, Y: 400}, container, natural, 2, Point{})
	assert.Equal(t, Point{X: 200, Y: 100}, n)

	// Panning right by 50 moves the image, so the same pointer sees content further left.
	n = ToNaturalPoint(Point{X: 500, Y: 400}, container, natural, 2, Point{X: 50, Y: 0})
	assert.Equal(t, Point{X: 175, Y: 100}, n)
}

func TestToNaturalPointClamps(t *testing.T) {
	container := Rect{Width: 1000, Height: 1000}
	natural := Size{Width: 100, Height: 50}

	assert.Equal(t, Point{X: 0, Y: 0}, ToNaturalPoint(Point{X: -10, Y: -10}, container, natural, 1, Point{}))
	assert.Equal(t, Point{X: 100, Y: 50}, ToNaturalPoint(Point{X: 2000, Y: 2000}, container, natural, 1, Point{}))
}

func TestRectFromPoints(t *testing.T) {
	r := RectFromPoints(Point{X: 110, Y: 160}, Point{X: 10, Y: 10})
	assert.Equal(t, Rect{X: 10, Y: 10, Width: 100, Height: 150}, r)
	assert.True(t, r.Confirmable())
	assert.Equal(t, image.Rect(10, 10, 110, 160), r.Pixels())

	assert.False(t, RectFromPoints(Point{X: 5, Y: 5}, Point{X: 5.5, Y: 50}).Confirmable())
}

func TestRectClampToBounds(t *testing.T) {
	r := Rect{X: -10, Y: 20, Width: 50, Height: 200}.ClampToBounds(Size{Width: 30, Height: 100})
	assert.Equal(t, Rect{X: 0, Y: 20, Width: 30, Height: 80}, r)

	outside := Rect{X: 200, Y: 200, Width: 10, Height: 10}.ClampToBounds(Size{Width: 30, Height: 100})
	assert.False(t, outside.Confirmable())
}

func TestContainFit(t *testing.T) {
	assert.Equal(t, 1.0, ContainFit(Size{Width: 1000, Height: 1000}, Size{Width: 100, Height: 100}, 0.9))
	assert.InDelta(t, 0.45, ContainFit(Size{Width: 1000, Height: 1000}, Size{Width: 2000, Height: 1000}, 0.9), 1e-9)
	assert.Equal(t, 1.0, ContainFit(Size{}, Size{Width: 10, Height: 10}, 0.9))
}
