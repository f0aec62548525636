package models

import "time"

// ImageMetadata is the EXIF summary shown next to the original image.
type ImageMetadata struct {
	CameraModel  *string           `json:"camera_model,omitempty"`
	TakenAt      *time.Time        `json:"taken_at,omitempty"`
	Latitude     *float64          `json:"latitude,omitempty"`
	Longitude    *float64          `json:"longitude,omitempty"`
	ExposureTime *string           `json:"exposure_time,omitempty"`
	Aperture     *string           `json:"aperture,omitempty"`
	ISO          *int              `json:"iso,omitempty"`
	FocalLength  *string           `json:"focal_length,omitempty"`
	Orientation  int               `json:"orientation,omitempty"`
	Raw          map[string]string `json:"raw,omitempty"`
}

// IsEmpty reports whether no EXIF field was found.
func (m *ImageMetadata) IsEmpty() bool {
	if m == nil {
		return true
	}
	return m.CameraModel == nil && m.TakenAt == nil && m.Latitude == nil &&
		m.ExposureTime == nil && m.Aperture == nil && m.ISO == nil &&
		m.FocalLength == nil && m.Orientation == 0 && len(m.Raw) == 0
}
