package controllers

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PixelShrink/app/models"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/compressor"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/statistics"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/upload"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/workspace"
)

// SettingsRequest is the body of PUT /workspace/settings and the settings
// fields of the HTML form.
type SettingsRequest struct {
	OutputFormat string `json:"output_format" form:"output_format" validate:"required,oneof=jpeg jpg png image/jpeg image/png"`
	Level        string `json:"level" form:"level" validate:"required,oneof=low medium high"`
}

func (r SettingsRequest) toSettings() (models.CompressionSettings, error) {
	format, err := models.ParseOutputFormat(r.OutputFormat)
	if err != nil {
		return models.CompressionSettings{}, err
	}
	level, err := models.ParseCompressionLevel(r.Level)
	if err != nil {
		return models.CompressionSettings{}, err
	}
	return models.CompressionSettings{OutputFormat: format, Level: level}, nil
}

// HandleGetWorkspace returns the current workspace snapshot.
func HandleGetWorkspace(c *fiber.Ctx) error {
	return c.JSON(currentWorkspace(c).Snapshot())
}

// HandleSelectImage accepts a multipart "file" and makes it the original.
func HandleSelectImage(c *fiber.Ctx) error {
	w := currentWorkspace(c)
	data, filename, err := readUpload(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error(), workspace.ActionUpload)
	}
	if _, err := w.Select(filename, data); err != nil {
		return actionErrorResponse(c, workspace.ActionUpload, err)
	}
	return c.Status(fiber.StatusCreated).JSON(w.Snapshot())
}

// readUpload reads at most one byte past the size limit so oversized files
// are reported as too large without buffering them completely.
func readUpload(c *fiber.Ctx) ([]byte, string, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, "", fiber.NewError(fiber.StatusBadRequest, "multipart field 'file' is required")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, upload.MaxFileSize+1))
	if err != nil {
		return nil, "", err
	}
	return data, fh.Filename, nil
}

// HandleUpdateSettings validates and stores new compression settings.
func HandleUpdateSettings(c *fiber.Ctx) error {
	var req SettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid request body", "")
	}
	if err := validate.Struct(req); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error(), "")
	}
	settings, err := req.toSettings()
	if err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error(), "")
	}
	w := currentWorkspace(c)
	if err := w.UpdateSettings(settings); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error(), "")
	}
	return c.JSON(w.Snapshot())
}

// HandleCompress runs one compression request for the workspace.
func HandleCompress(c *fiber.Ctx) error {
	if services.Compressor == nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "compressor_unavailable", "compression service is not configured", workspace.ActionCompress)
	}
	w := currentWorkspace(c)
	result, err := w.Compress(c.UserContext(), services.Compressor, services.CompressTimeout)
	if err != nil {
		var f *compressor.Failure
		if errors.As(err, &f) {
			statistics.RecordFailure()
		}
		return actionErrorResponse(c, workspace.ActionCompress, err)
	}
	statistics.RecordCompression(*result)
	return c.JSON(w.Snapshot())
}

// HandleStartOver clears the workspace, keeping its settings.
func HandleStartOver(c *fiber.Ctx) error {
	w := currentWorkspace(c)
	w.StartOver()
	return c.JSON(w.Snapshot())
}

// HandleDismissError clears the inline error of one action.
func HandleDismissError(c *fiber.Ctx) error {
	action, err := workspace.ParseAction(c.Params("action"))
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "unknown_action", err.Error(), "")
	}
	w := currentWorkspace(c)
	w.DismissError(action)
	return c.JSON(w.Snapshot())
}

// HandleGetOriginal streams the original image.
func HandleGetOriginal(c *fiber.Ctx) error {
	original, ok := currentWorkspace(c).Original()
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "no_image", workspace.ErrNoOriginal.Error(), "")
	}
	return sendAsset(c, original)
}

// HandleGetCompressed streams the compressed image.
func HandleGetCompressed(c *fiber.Ctx) error {
	result, ok := currentWorkspace(c).Result()
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "no_compressed_image", workspace.ErrNoCompressed.Error(), "")
	}
	return sendAsset(c, result.Asset)
}

// HandleDownload sends the compressed image as compressed_image.<ext>.
func HandleDownload(c *fiber.Ctx) error {
	result, ok := currentWorkspace(c).Result()
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "no_compressed_image", workspace.ErrNoCompressed.Error(), "")
	}
	c.Attachment(workspace.DownloadFormat(result).DownloadName())
	return sendAsset(c, result.Asset)
}

func sendAsset(c *fiber.Ctx, a models.ImageAsset) error {
	c.Set(fiber.HeaderContentType, a.MimeType)
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Send(a.Data)
}
