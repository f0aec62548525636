package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/compressor"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/constants"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/cropper"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/flash"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/imageprocessor"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/requestctx"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/upload"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/workspace"
)

// ErrorResponse is the JSON error body of every API endpoint.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
}

func jsonError(c *fiber.Ctx, status int, code, message string, action workspace.Action) error {
	return c.Status(status).JSON(ErrorResponse{Error: code, Message: message, Action: string(action)})
}

// currentWorkspace returns the request's workspace. Without the middleware a
// throwaway workspace is used so handlers never see nil.
func currentWorkspace(c *fiber.Ctx) *workspace.Workspace {
	if w := requestctx.GetWorkspace(c); w != nil {
		return w
	}
	w := services.Store.Create()
	requestctx.SetWorkspace(c, w)
	return w
}

// actionErrorResponse maps a workspace error to status and code.
func actionErrorResponse(c *fiber.Ctx, action workspace.Action, err error) error {
	var f *compressor.Failure
	switch {
	case errors.Is(err, workspace.ErrBusy):
		return jsonError(c, fiber.StatusConflict, "busy", err.Error(), action)
	case errors.Is(err, workspace.ErrStaleResult):
		return jsonError(c, fiber.StatusConflict, "stale_result", err.Error(), action)
	case errors.Is(err, workspace.ErrNoOriginal):
		return jsonError(c, fiber.StatusBadRequest, "no_image", err.Error(), action)
	case errors.Is(err, workspace.ErrNoCompressed):
		return jsonError(c, fiber.StatusBadRequest, "no_compressed_image", err.Error(), action)
	case errors.Is(err, workspace.ErrViewerClosed):
		return jsonError(c, fiber.StatusConflict, "viewer_closed", err.Error(), action)
	case errors.Is(err, upload.ErrInputTooLarge):
		return jsonError(c, fiber.StatusRequestEntityTooLarge, "input_too_large", upload.TooLargeMessage, action)
	case errors.Is(err, upload.ErrUnsupportedType), errors.Is(err, upload.ErrEmptyFile):
		return jsonError(c, fiber.StatusUnsupportedMediaType, "unsupported_type", err.Error(), action)
	case errors.Is(err, imageprocessor.ErrUndecodable):
		return jsonError(c, fiber.StatusUnprocessableEntity, "undecodable", err.Error(), action)
	case errors.Is(err, cropper.ErrCropDecodeFailure):
		return jsonError(c, fiber.StatusUnprocessableEntity, "crop_decode_failure", err.Error(), action)
	case errors.As(err, &f):
		status := fiber.StatusUnprocessableEntity
		if f.Kind == compressor.KindTransportError {
			status = fiber.StatusBadGateway
		}
		return jsonError(c, status, string(f.Kind), f.UserMessage(), action)
	}
	return jsonError(c, fiber.StatusInternalServerError, "internal_error", err.Error(), action)
}

// ErrorHandler is the Fiber error handler of the app. Bodies rejected by the
// server's body limit get the same input_too_large answer as oversized files
// caught by the upload validation.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var e *fiber.Error
	if errors.As(err, &e) && e.Code == fiber.StatusRequestEntityTooLarge {
		if strings.HasPrefix(c.Path(), constants.APIPrefix) {
			return jsonError(c, fiber.StatusRequestEntityTooLarge, "input_too_large", upload.TooLargeMessage, workspace.ActionUpload)
		}
		return flash.RedirectError(c, constants.PublicRoute, upload.TooLargeMessage)
	}
	return fiber.DefaultErrorHandler(c, err)
}
