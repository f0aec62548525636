// Package viewport implements the pan/zoom/compare/crop interaction model of
// the image detail view as a pure state machine, independent of any input or
// rendering runtime.
package viewport

import (
	"math"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/geometry"
)

// EventType names an input the machine understands.
type EventType string

const (
	EventOpen          EventType = "open"
	EventResize        EventType = "resize"
	EventClose         EventType = "close"
	EventWheel         EventType = "wheel"
	EventPointerDown   EventType = "pointer-down"
	EventPointerMove   EventType = "pointer-move"
	EventPointerUp     EventType = "pointer-up"
	EventPointerLeave  EventType = "pointer-leave"
	EventKeyDown       EventType = "key-down"
	EventKeyUp         EventType = "key-up"
	EventZoomIn        EventType = "zoom-in"
	EventZoomOut       EventType = "zoom-out"
	EventResetView     EventType = "reset"
	EventCompareToggle EventType = "compare-toggle"
	EventCompareMode   EventType = "compare-mode"
	EventSliderMove    EventType = "slider-move"
	EventCropStart     EventType = "crop-start"
	EventCropCancel    EventType = "crop-cancel"
)

// Keys with special meaning
const (
	KeyEscape = "Escape"
	KeySpace  = " "
)

// Event is one input. Only the fields relevant for its Type are read.
type Event struct {
	Type      EventType       `json:"type" validate:"required"`
	Pointer   *geometry.Point `json:"pointer,omitempty"`
	DeltaY    float64         `json:"delta_y,omitempty"`
	Key       string          `json:"key,omitempty"`
	Container *geometry.Rect  `json:"container,omitempty"`
	Natural   *geometry.Size  `json:"natural,omitempty"`
	Mode      CompareMode     `json:"mode,omitempty"`
	Percent   *float64        `json:"percent,omitempty"`
}

// HandleEvent applies one event and returns the resulting state. Events that
// are meaningless in the current phase return s unchanged.
func HandleEvent(s State, e Event) State {
	// Escape and explicit close are reachable from every phase.
	if e.Type == EventClose || (e.Type == EventKeyDown && isEscape(e.Key)) {
		return closed(s)
	}

	if e.Type == EventOpen {
		return open(s, e)
	}

	if !s.Open {
		return s
	}

	switch e.Type {
	case EventResize:
		return resize(s, e)
	case EventKeyDown:
		if e.Key == KeySpace || e.Key == "Space" {
			s.SpaceHeld = true
		}
		return s
	case EventKeyUp:
		if e.Key == KeySpace || e.Key == "Space" {
			s.SpaceHeld = false
		}
		return s
	case EventWheel:
		return wheel(s, e)
	case EventZoomIn:
		return zoomTo(s, s.Scale*ZoomStep, nil)
	case EventZoomOut:
		return zoomTo(s, s.Scale/ZoomStep, nil)
	case EventResetView:
		return resetView(s)
	case EventPointerDown:
		return pointerDown(s, e)
	case EventPointerMove:
		return pointerMove(s, e)
	case EventPointerUp, EventPointerLeave:
		return pointerUp(s)
	case EventCompareToggle:
		s.Compare.Active = !s.Compare.Active
		if s.Compare.Active && s.Compare.Mode == CompareSlider {
			s.IsDragging = false
		}
		return s
	case EventCompareMode:
		if e.Mode == CompareSlider || e.Mode == CompareSideBySide {
			s.Compare.Mode = e.Mode
			s.Compare.Active = true
			s.IsDragging = false
		}
		return s
	case EventSliderMove:
		return sliderMove(s, e)
	case EventCropStart:
		return cropStart(s)
	case EventCropCancel:
		s.Crop = CropState{}
		return s
	}

	return s
}

// HandleEvents folds a batch of events in order.
func HandleEvents(s State, events ...Event) State {
	for _, e := range events {
		s = HandleEvent(s, e)
	}
	return s
}

func isEscape(key string) bool {
	return key == KeyEscape || key == "Esc"
}

func open(s State, e Event) State {
	next := NewState()
	next.Open = true
	if e.Container != nil {
		next.Container = *e.Container
	} else {
		next.Container = s.Container
	}
	if e.Natural != nil {
		next.Natural = *e.Natural
	} else {
		next.Natural = s.Natural
	}
	next.Fit = geometry.ContainFit(next.Container.Size(), next.Natural, ContainFraction)
	return next
}

func closed(s State) State {
	s.Open = false
	s.IsDragging = false
	s.SpaceHeld = false
	s.Crop = CropState{}
	return s
}

func resize(s State, e Event) State {
	if e.Container != nil {
		s.Container = *e.Container
	}
	if e.Natural != nil {
		s.Natural = *e.Natural
	}
	s.Fit = geometry.ContainFit(s.Container.Size(), s.Natural, ContainFraction)
	s.Offset = geometry.ClampOffset(s.Offset, s.Container.Size(), s.ScaledSize())
	return s
}

func clampScale(v float64) float64 {
	if math.IsNaN(v) {
		return 1
	}
	return geometry.Clamp(v, MinScale, MaxScale)
}

func wheel(s State, e Event) State {
	if s.Crop.Active {
		return s
	}
	return zoomTo(s, s.Scale*math.Exp(-e.DeltaY*WheelSensitivity), e.Pointer)
}

// zoomTo changes the scale. With a focal point the natural pixel under it
// stays put, then the offset is re-clamped for the new scaled size.
func zoomTo(s State, scale float64, focal *geometry.Point) State {
	if s.Crop.Active {
		return s
	}
	scale = clampScale(scale)
	offset := s.Offset
	if focal != nil && !s.Natural.IsZero() {
		n := s.NaturalPoint(*focal)
		next := s
		next.Scale = scale
		moved := geometry.ToViewportPoint(n, s.Container, s.Natural, next.DisplayScale(), offset)
		offset = offset.Add(focal.Sub(moved))
	}
	s.Scale = scale
	s.Offset = geometry.ClampOffset(offset, s.Container.Size(), s.ScaledSize())
	if !s.CanDrag() {
		s.IsDragging = false
	}
	return s
}

func resetView(s State) State {
	s.Scale = 1
	s.Offset = geometry.Point{}
	s.IsDragging = false
	s.DragAnchor = geometry.Point{}
	return s
}

func pointerDown(s State, e Event) State {
	if e.Pointer == nil {
		return s
	}
	p := *e.Pointer

	if s.Crop.Active {
		if s.Crop.Drawing {
			return s
		}
		anchor := s.NaturalPoint(p)
		rect := geometry.RectFromPoints(anchor, anchor)
		s.Crop = CropState{Active: true, Drawing: true, Anchor: &anchor, Rect: &rect}
		return s
	}

	if !s.CanDrag() {
		return s
	}
	s.IsDragging = true
	s.DragAnchor = p.Sub(s.Offset)
	return s
}

func pointerMove(s State, e Event) State {
	if e.Pointer == nil {
		return s
	}
	p := *e.Pointer

	if s.Crop.Active {
		if !s.Crop.Drawing || s.Crop.Anchor == nil {
			return s
		}
		rect := geometry.RectFromPoints(*s.Crop.Anchor, s.NaturalPoint(p))
		s.Crop.Rect = &rect
		return s
	}

	if !s.IsDragging {
		return s
	}
	s.Offset = geometry.ClampOffset(p.Sub(s.DragAnchor), s.Container.Size(), s.ScaledSize())
	return s
}

// pointerUp ends a drag or a crop stroke. Leaving the container while drawing
// finishes the stroke as well so the machine cannot get stuck in drawing.
func pointerUp(s State) State {
	s.IsDragging = false
	if s.Crop.Active && s.Crop.Drawing {
		s.Crop.Drawing = false
	}
	return s
}

func sliderMove(s State, e Event) State {
	switch {
	case e.Percent != nil:
		s.Compare.SliderPercent = geometry.Clamp(*e.Percent, 0, 100)
	case e.Pointer != nil && s.Container.Width > 0:
		x := e.Pointer.X - s.Container.X
		s.Compare.SliderPercent = geometry.Clamp(x/s.Container.Width*100, 0, 100)
	}
	return s
}

func cropStart(s State) State {
	s = resetView(s)
	s.SpaceHeld = false
	s.Crop = CropState{Active: true}
	return s
}
