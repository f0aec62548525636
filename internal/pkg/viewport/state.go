package viewport

import (
	"github.com/ManuelReschke/PixelShrink/internal/pkg/geometry"
)

// Scale limits and zoom steps
const (
	MinScale = 0.5
	MaxScale = 8.0

	ZoomStep         = 1.2
	WheelSensitivity = 0.0015

	// ContainFraction is the share of the container the image occupies at scale 1.
	ContainFraction = 0.9

	DefaultSliderPercent = 50.0
)

// Phase is the coarse state of the interaction machine.
type Phase string

const (
	PhaseClosed          Phase = "closed"
	PhaseIdle            Phase = "idle"
	PhaseDragging        Phase = "dragging"
	PhaseCroppingIdle    Phase = "cropping-idle"
	PhaseCroppingDrawing Phase = "cropping-drawing"
)

// CompareMode selects how original and compressed are composed.
type CompareMode string

const (
	CompareSlider     CompareMode = "slider"
	CompareSideBySide CompareMode = "side-by-side"
)

// CompareState drives the comparison renderer.
type CompareState struct {
	Active        bool        `json:"active"`
	Mode          CompareMode `json:"mode"`
	SliderPercent float64     `json:"slider_percent"`
}

// CropState lives entirely in natural image space.
type CropState struct {
	Active  bool            `json:"active"`
	Drawing bool            `json:"drawing"`
	Anchor  *geometry.Point `json:"anchor"`
	Rect    *geometry.Rect  `json:"rect"`
}

// State is the full viewport state. Values are treated as immutable:
// HandleEvent returns a new State and never writes through the pointers of
// the one it was given.
type State struct {
	Open      bool          `json:"open"`
	Container geometry.Rect `json:"container"`
	Natural   geometry.Size `json:"natural"`
	// Fit scales natural pixels to viewport pixels at Scale 1.
	Fit float64 `json:"fit"`

	Scale      float64        `json:"scale"`
	Offset     geometry.Point `json:"offset"`
	IsDragging bool           `json:"is_dragging"`
	DragAnchor geometry.Point `json:"drag_anchor"`
	SpaceHeld  bool           `json:"space_held"`

	Compare CompareState `json:"compare"`
	Crop    CropState    `json:"crop"`
}

// NewState returns a closed viewport with identity transform.
func NewState() State {
	return State{
		Fit:   1,
		Scale: 1,
		Compare: CompareState{
			Mode:          CompareSlider,
			SliderPercent: DefaultSliderPercent,
		},
	}
}

// Phase derives the machine phase from the state fields.
func (s State) Phase() Phase {
	switch {
	case !s.Open:
		return PhaseClosed
	case s.Crop.Active && s.Crop.Drawing:
		return PhaseCroppingDrawing
	case s.Crop.Active:
		return PhaseCroppingIdle
	case s.IsDragging:
		return PhaseDragging
	}
	return PhaseIdle
}

// DisplayScale is the number of viewport pixels per natural pixel.
func (s State) DisplayScale() float64 {
	fit := s.Fit
	if fit <= 0 {
		fit = 1
	}
	return fit * s.Scale
}

// ScaledSize is the on-screen size of the image.
func (s State) ScaledSize() geometry.Size {
	return s.Natural.Scaled(s.DisplayScale())
}

// ImageRect is where the image is drawn, in viewport space: centred in the
// container, sized by DisplayScale and shifted by Offset.
func (s State) ImageRect() geometry.Rect {
	o := geometry.ToViewportPoint(geometry.Point{}, s.Container, s.Natural, s.DisplayScale(), s.Offset)
	size := s.ScaledSize()
	return geometry.Rect{X: o.X, Y: o.Y, Width: size.Width, Height: size.Height}
}

// NaturalPoint maps a viewport pointer position into natural image space.
func (s State) NaturalPoint(p geometry.Point) geometry.Point {
	return geometry.ToNaturalPoint(p, s.Container, s.Natural, s.DisplayScale(), s.Offset)
}

// CanDrag reports whether a pointer-down would start panning.
func (s State) CanDrag() bool {
	if !s.Open || s.Crop.Active {
		return false
	}
	if s.Compare.Active && s.Compare.Mode == CompareSlider {
		return false
	}
	return s.Scale > 1 || s.SpaceHeld
}

// ConfirmableRect returns the crop rectangle when a confirm is allowed.
func (s State) ConfirmableRect() (geometry.Rect, bool) {
	if !s.Open || !s.Crop.Active || s.Crop.Drawing || s.Crop.Rect == nil {
		return geometry.Rect{}, false
	}
	r := s.Crop.Rect.ClampToBounds(s.Natural)
	if !r.Confirmable() {
		return geometry.Rect{}, false
	}
	return r, true
}

// Cursor is the CSS cursor matching the current phase.
func (s State) Cursor() string {
	switch s.Phase() {
	case PhaseDragging:
		return "grabbing"
	case PhaseCroppingIdle, PhaseCroppingDrawing:
		return "crosshair"
	case PhaseIdle:
		if s.CanDrag() {
			return "grab"
		}
	}
	return "default"
}

// CropOverlay returns the crop rectangle in viewport space for drawing the
// selection box.
func (s State) CropOverlay() (geometry.Rect, bool) {
	if !s.Crop.Active || s.Crop.Rect == nil {
		return geometry.Rect{}, false
	}
	r := *s.Crop.Rect
	a := geometry.ToViewportPoint(r.Origin(), s.Container, s.Natural, s.DisplayScale(), s.Offset)
	f := s.DisplayScale()
	return geometry.Rect{X: a.X, Y: a.Y, Width: r.Width * f, Height: r.Height * f}, true
}
