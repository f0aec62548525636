package controllers

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/compressor"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/cropper"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/workspace"
)

// Services are the collaborators the handlers work with.
type Services struct {
	Store           *workspace.Store
	Compressor      compressor.Compressor
	Cropper         cropper.Cropper
	CompressTimeout time.Duration
}

var (
	services = &Services{
		Store:           workspace.NewStore(workspace.DefaultTTL),
		Cropper:         cropper.New(cropper.DefaultJPEGQuality),
		CompressTimeout: workspace.DefaultCompressTimeout,
	}
	validate = validator.New()
)

// InitializeServices replaces the handler collaborators. Nil fields keep
// their current value.
func InitializeServices(s Services) {
	if s.Store != nil {
		services.Store = s.Store
	}
	if s.Compressor != nil {
		services.Compressor = s.Compressor
	}
	if s.Cropper != nil {
		services.Cropper = s.Cropper
	}
	if s.CompressTimeout > 0 {
		services.CompressTimeout = s.CompressTimeout
	}
}

// GetStore returns the workspace store used by the middleware.
func GetStore() *workspace.Store {
	return services.Store
}
