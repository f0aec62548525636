package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/compressor"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/env"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/flash"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/statistics"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/theme"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/viewmodel"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/workspace"
)

func layout(c *fiber.Ctx) viewmodel.Layout {
	msg := flash.Get(c)
	isError := false
	if msg != nil {
		isError = msg["type"] == "error"
	}
	csrfToken, _ := c.Locals("csrf").(string)
	return viewmodel.Layout{
		Page:    "PixelShrink",
		Theme:   string(theme.Current()),
		IsError: isError,
		Msg:     msg,
		IsDev:   env.IsDev(),
		CSRF:    csrfToken,
	}
}

// HandleIndex renders the single page of the app.
func HandleIndex(c *fiber.Ctx) error {
	vm := viewmodel.NewWorkspace(layout(c), currentWorkspace(c).Snapshot())
	return c.Render("index", vm)
}

// HandleUploadForm is the non-JS upload path: the form posts the file and
// the settings, errors travel back in a flash cookie.
func HandleUploadForm(c *fiber.Ctx) error {
	w := currentWorkspace(c)
	if err := applyFormSettings(c, w); err != nil {
		return flash.RedirectError(c, "/", err.Error())
	}

	data, filename, err := readUpload(c)
	if err != nil {
		return flash.RedirectError(c, "/", "Please choose an image file.")
	}
	if _, err := w.Select(filename, data); err != nil {
		if e := w.Snapshot().Error(workspace.ActionUpload); e != nil {
			return flash.RedirectError(c, "/", e.Message)
		}
		return flash.RedirectError(c, "/", err.Error())
	}
	return c.Redirect("/")
}

// HandleCompressForm is the non-JS compress button.
func HandleCompressForm(c *fiber.Ctx) error {
	w := currentWorkspace(c)
	if err := applyFormSettings(c, w); err != nil {
		return flash.RedirectError(c, "/", err.Error())
	}
	if services.Compressor == nil {
		return flash.RedirectError(c, "/", "Compression service is not configured.")
	}

	result, err := w.Compress(c.UserContext(), services.Compressor, services.CompressTimeout)
	if err != nil {
		var f *compressor.Failure
		if errors.As(err, &f) {
			statistics.RecordFailure()
			return flash.RedirectError(c, "/", f.UserMessage())
		}
		log.Infof("[Controller] compress form: %v", err)
		return flash.RedirectError(c, "/", err.Error())
	}
	statistics.RecordCompression(*result)
	return flash.RedirectSuccess(c, "/", result.Reduction.Message())
}

// HandleStartOverForm resets the workspace from the HTML page.
func HandleStartOverForm(c *fiber.Ctx) error {
	currentWorkspace(c).StartOver()
	return c.Redirect("/")
}

// applyFormSettings stores settings when the form carries them.
func applyFormSettings(c *fiber.Ctx, w *workspace.Workspace) error {
	req := SettingsRequest{OutputFormat: c.FormValue("output_format"), Level: c.FormValue("level")}
	if req.OutputFormat == "" && req.Level == "" {
		return nil
	}
	current := w.Settings()
	if req.OutputFormat == "" {
		req.OutputFormat = string(current.OutputFormat)
	}
	if req.Level == "" {
		req.Level = string(current.Level)
	}
	if err := validate.Struct(req); err != nil {
		return errors.New("invalid compression settings")
	}
	settings, err := req.toSettings()
	if err != nil {
		return err
	}
	return w.UpdateSettings(settings)
}
