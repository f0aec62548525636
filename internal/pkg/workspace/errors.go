package workspace

import (
	"errors"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/compressor"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/cropper"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/imageprocessor"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/upload"
)

// Action names the user action an error belongs to.
type Action string

const (
	ActionUpload   Action = "upload"
	ActionCompress Action = "compress"
	ActionCrop     Action = "crop"
)

// ParseAction validates an action name coming from a request path.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionUpload, ActionCompress, ActionCrop:
		return Action(s), nil
	}
	return "", ErrUnknownAction
}

var (
	ErrBusy          = errors.New("a compression request is already in progress")
	ErrNoOriginal    = errors.New("no image selected")
	ErrNoCompressed  = errors.New("no compressed image available")
	ErrViewerClosed  = errors.New("viewer is not open")
	ErrStaleResult   = errors.New("result no longer matches the current images")
	ErrUnknownAction = errors.New("unknown action")
)

// ActionError is the inline error shown next to an action.
type ActionError struct {
	Action  Action `json:"action"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func uploadError(err error) *ActionError {
	e := &ActionError{Action: ActionUpload, Message: err.Error()}
	switch {
	case errors.Is(err, upload.ErrInputTooLarge):
		e.Kind = "input_too_large"
		e.Message = upload.TooLargeMessage
	case errors.Is(err, upload.ErrEmptyFile):
		e.Kind = "empty_file"
		e.Message = "The selected file is empty."
	case errors.Is(err, upload.ErrUnsupportedType):
		e.Kind = "unsupported_type"
	case errors.Is(err, imageprocessor.ErrUndecodable):
		e.Kind = "undecodable"
		e.Message = "The selected file could not be read as an image."
	default:
		e.Kind = "upload_failed"
	}
	return e
}

func compressError(f *compressor.Failure) *ActionError {
	return &ActionError{Action: ActionCompress, Kind: string(f.Kind), Message: f.UserMessage()}
}

func cropError(err error) *ActionError {
	e := &ActionError{Action: ActionCrop, Kind: "crop_failed", Message: "Cropping failed. Please try again."}
	if errors.Is(err, cropper.ErrCropDecodeFailure) {
		e.Kind = "crop_decode_failure"
		e.Message = "The images could not be decoded for cropping."
	}
	return e
}
