package viewmodel

import (
	"fmt"

	"github.com/ManuelReschke/PixelShrink/app/models"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/constants"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/statistics"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/workspace"
)

// Asset contains what the page needs to show one image
type Asset struct {
	URL        string
	MimeType   string
	Width      int
	Height     int
	SizeHuman  string
	Dimensions string

	// Metadata fields
	CameraModel  string
	TakenAt      string
	ExposureTime string
	Aperture     string
	ISO          string
	FocalLength  string
}

// Option is one entry of a settings radio group
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Workspace is the whole index page below the layout
type Workspace struct {
	Layout

	ID            string
	Original      *Asset
	Compressed    *Asset
	Formats       []Option
	Levels        []Option
	Busy          bool
	Percent       string
	Ratio         string
	Reduced       bool
	Message       string
	Download      string
	UploadError   string
	CompressError string
	CropError     string
}

// NewWorkspace builds the page model from a workspace snapshot.
func NewWorkspace(layout Layout, snap workspace.Snapshot) Workspace {
	vm := Workspace{
		Layout: layout,
		ID:     snap.ID,
		Busy:   snap.Busy,
		Formats: []Option{
			{Value: string(models.FormatJPEG), Label: "JPEG", Selected: snap.Settings.OutputFormat == models.FormatJPEG},
			{Value: string(models.FormatPNG), Label: "PNG", Selected: snap.Settings.OutputFormat == models.FormatPNG},
		},
		Levels: []Option{
			{Value: string(models.LevelLow), Label: "Low", Selected: snap.Settings.Level == models.LevelLow},
			{Value: string(models.LevelMedium), Label: "Medium", Selected: snap.Settings.Level == models.LevelMedium},
			{Value: string(models.LevelHigh), Label: "High", Selected: snap.Settings.Level == models.LevelHigh},
		},
		Download: snap.DownloadName,
	}

	if snap.Original != nil {
		vm.Original = newAsset(*snap.Original, constants.OriginalAssetRoute)
	}
	if snap.Compressed != nil {
		vm.Compressed = newAsset(*snap.Compressed, constants.CompressedAssetRoute)
	}
	if r := snap.Reduction; r != nil {
		vm.Percent = fmt.Sprintf("%.1f%%", r.Percent)
		vm.Ratio = fmt.Sprintf("%.1f:1", r.Ratio)
		vm.Reduced = r.Reduced
		vm.Message = snap.ReductionMessage
	}
	if e := snap.Error(workspace.ActionUpload); e != nil {
		vm.UploadError = e.Message
	}
	if e := snap.Error(workspace.ActionCompress); e != nil {
		vm.CompressError = e.Message
	}
	if e := snap.Error(workspace.ActionCrop); e != nil {
		vm.CropError = e.Message
	}
	return vm
}

func newAsset(a models.ImageAsset, url string) *Asset {
	out := &Asset{
		URL:        url,
		MimeType:   a.MimeType,
		Width:      a.Width,
		Height:     a.Height,
		SizeHuman:  statistics.FormatBytes(a.ByteSize),
		Dimensions: fmt.Sprintf("%d × %d", a.Width, a.Height),
	}
	if m := a.Metadata; m != nil {
		if m.CameraModel != nil {
			out.CameraModel = *m.CameraModel
		}
		if m.TakenAt != nil {
			out.TakenAt = m.TakenAt.Format("02.01.2006 15:04")
		}
		if m.ExposureTime != nil {
			out.ExposureTime = *m.ExposureTime
		}
		if m.Aperture != nil {
			out.Aperture = *m.Aperture
		}
		if m.ISO != nil {
			out.ISO = fmt.Sprintf("%d", *m.ISO)
		}
		if m.FocalLength != nil {
			out.FocalLength = *m.FocalLength
		}
	}
	return out
}
