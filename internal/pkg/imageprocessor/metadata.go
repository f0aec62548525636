package imageprocessor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"

	"github.com/ManuelReschke/PixelShrink/app/models"
)

func init() {
	// Register Nikon and Canon maker notes
	exif.RegisterParsers(mknote.All...)
}

var summaryTags = []exif.FieldName{
	exif.Model, exif.Make, exif.Software, exif.Artist,
	exif.Copyright, exif.ExposureTime, exif.FNumber, exif.ISOSpeedRatings,
	exif.FocalLength, exif.ExposureProgram, exif.MeteringMode,
	exif.Flash, exif.FocalLengthIn35mmFilm, exif.WhiteBalance,
	exif.DateTime, exif.DateTimeOriginal, exif.LensModel,
}

// ExtractMetadata reads an EXIF summary from encoded image data. Images
// without EXIF return nil and no error.
func ExtractMetadata(data []byte) (*models.ImageMetadata, error) {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		// Some images don't have EXIF data, this is not a critical error
		log.Debugf("[ImageProcessor] no EXIF data: %v", err)
		return nil, nil
	}

	meta := &models.ImageMetadata{Raw: make(map[string]string)}

	for _, tag := range summaryTags {
		if tagVal, err := x.Get(tag); err == nil {
			meta.Raw[string(tag)] = strings.Trim(tagVal.String(), `"`)
		}
	}

	if m, err := x.Get(exif.Model); err == nil {
		trimmed := strings.TrimSpace(strings.Trim(m.String(), `"`))
		meta.CameraModel = &trimmed
	}

	if dt, err := x.DateTime(); err == nil {
		meta.TakenAt = &dt
	}

	if lat, long, err := x.LatLong(); err == nil {
		meta.Latitude = &lat
		meta.Longitude = &long
	}

	if expTag, err := x.Get(exif.ExposureTime); err == nil {
		trimmed := strings.Trim(expTag.String(), `"`)
		meta.ExposureTime = &trimmed
	}

	if fTag, err := x.Get(exif.FNumber); err == nil {
		if num, den, err := fTag.Rat2(0); err == nil && den != 0 {
			aperture := fmt.Sprintf("f/%.1f", float64(num)/float64(den))
			meta.Aperture = &aperture
		} else {
			trimmed := strings.Trim(fTag.String(), `"`)
			meta.Aperture = &trimmed
		}
	}

	if isoTag, err := x.Get(exif.ISOSpeedRatings); err == nil {
		if isoVal, err := isoTag.Int(0); err == nil {
			iso := isoVal
			meta.ISO = &iso
		}
	}

	if flTag, err := x.Get(exif.FocalLength); err == nil {
		if num, den, err := flTag.Rat2(0); err == nil && den != 0 {
			focal := fmt.Sprintf("%.1fmm", float64(num)/float64(den))
			meta.FocalLength = &focal
		} else {
			trimmed := strings.Trim(flTag.String(), `"`)
			meta.FocalLength = &trimmed
		}
	}

	if oTag, err := x.Get(exif.Orientation); err == nil {
		if o, err := oTag.Int(0); err == nil {
			meta.Orientation = o
		}
	}

	if meta.IsEmpty() {
		return nil, nil
	}
	return meta, nil
}

// SwapsAxes reports whether an EXIF orientation rotates the image by 90 degrees.
func SwapsAxes(orientation int) bool {
	return orientation >= 5 && orientation <= 8
}
