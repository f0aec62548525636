package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/compare"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/geometry"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/statistics"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/viewport"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/workspace"
)

// OpenViewerRequest describes the viewer container in client pixels.
type OpenViewerRequest struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width" validate:"gt=0"`
	Height float64 `json:"height" validate:"gt=0"`
}

// EventsRequest carries one or more viewer inputs.
type EventsRequest struct {
	Events []viewport.Event `json:"events" validate:"required,min=1,dive"`
}

// ViewerResponse is the viewer state plus everything needed to draw it.
type ViewerResponse struct {
	State       viewport.State      `json:"state"`
	Phase       viewport.Phase      `json:"phase"`
	Cursor      string              `json:"cursor"`
	Transform   string              `json:"transform"`
	CropOverlay *geometry.Rect      `json:"crop_overlay,omitempty"`
	CropRect    *geometry.Rect      `json:"crop_rect,omitempty"`
	ImageBox    *geometry.Rect      `json:"image_box,omitempty"`
	CropBox     *geometry.Rect      `json:"crop_box,omitempty"`
	Layout      *compare.Layout     `json:"layout,omitempty"`
	Workspace   *workspace.Snapshot `json:"workspace,omitempty"`
}

func viewerResponse(w *workspace.Workspace, s viewport.State) ViewerResponse {
	resp := ViewerResponse{
		State:     s,
		Phase:     s.Phase(),
		Cursor:    s.Cursor(),
		Transform: compare.TransformCSS(s),
	}
	if r, ok := s.CropOverlay(); ok {
		resp.CropOverlay = &r
	}
	if r, ok := s.ConfirmableRect(); ok {
		resp.CropRect = &r
	}
	// boxes relative to the container so the page can position elements
	// inside the stage without repeating the geometry
	if s.Open {
		box := stageRelative(s.ImageRect(), s.Container)
		resp.ImageBox = &box
		if resp.CropOverlay != nil {
			crop := stageRelative(*resp.CropOverlay, s.Container)
			resp.CropBox = &crop
		}
	}
	original, okOriginal := w.Original()
	result, okResult := w.Result()
	if s.Open && okOriginal && okResult {
		layout := compare.Render(original, result.Asset, s.Compare)
		resp.Layout = &layout
	}
	return resp
}

func stageRelative(r, container geometry.Rect) geometry.Rect {
	return geometry.Rect{X: r.X - container.X, Y: r.Y - container.Y, Width: r.Width, Height: r.Height}
}

// HandleOpenViewer opens the detail viewer over the current pair.
func HandleOpenViewer(c *fiber.Ctx) error {
	var req OpenViewerRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid request body", "")
	}
	if err := validate.Struct(req); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error(), "")
	}
	w := currentWorkspace(c)
	s, err := w.OpenViewer(geometry.Rect{X: req.X, Y: req.Y, Width: req.Width, Height: req.Height})
	if err != nil {
		return actionErrorResponse(c, "", err)
	}
	return c.JSON(viewerResponse(w, s))
}

// HandleViewerEvents feeds inputs to the viewer state machine.
func HandleViewerEvents(c *fiber.Ctx) error {
	var req EventsRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid request body", "")
	}
	if err := validate.Struct(req); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error(), "")
	}
	w := currentWorkspace(c)
	s, err := w.Dispatch(req.Events...)
	if err != nil {
		return actionErrorResponse(c, "", err)
	}
	return c.JSON(viewerResponse(w, s))
}

// HandleConfirmCrop applies the drawn crop to both images.
func HandleConfirmCrop(c *fiber.Ctx) error {
	w := currentWorkspace(c)
	applied, err := w.ConfirmCrop(c.UserContext(), services.Cropper)
	if err != nil {
		return actionErrorResponse(c, workspace.ActionCrop, err)
	}
	if applied {
		statistics.RecordCrop()
	}
	resp := viewerResponse(w, w.Viewer())
	snap := w.Snapshot()
	resp.Workspace = &snap
	return c.JSON(fiber.Map{"applied": applied, "viewer": resp})
}

// HandleCloseViewer closes the viewer.
func HandleCloseViewer(c *fiber.Ctx) error {
	w := currentWorkspace(c)
	return c.JSON(viewerResponse(w, w.CloseViewer()))
}

// HandleSnapshot renders the slider comparison as a PNG. The split comes
// from ?percent= or, without it, from the viewer's slider.
func HandleSnapshot(c *fiber.Ctx) error {
	w := currentWorkspace(c)
	original, ok := w.Original()
	if !ok {
		return actionErrorResponse(c, "", workspace.ErrNoOriginal)
	}
	result, ok := w.Result()
	if !ok {
		return actionErrorResponse(c, "", workspace.ErrNoCompressed)
	}

	percent := w.Viewer().Compare.SliderPercent
	if q := c.Query("percent"); q != "" {
		percent = geometry.Clamp(c.QueryFloat("percent", percent), 0, 100)
	}

	data, err := compare.Composite(c.UserContext(), original, result.Asset, percent)
	if err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "snapshot_failed", err.Error(), "")
	}
	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Send(data)
}
