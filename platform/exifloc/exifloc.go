// Package exifloc extracts embedded GPS coordinates from photo uploads.
// This is part of the platform layer and contains no business logic.
package exifloc

import (
	"io"

	"github.com/rwcarlsen/goexif/exif"
)

// GeoTag holds a decimal-degree coordinate pair parsed from EXIF metadata.
type GeoTag struct {
	Latitude  float64
	Longitude float64
}

// FromPhoto decodes EXIF metadata from a JPEG/TIFF stream and returns the
// embedded GPS position. Returns nil when the photo carries no usable geotag;
// a missing or malformed tag is not an error.
func FromPhoto(r io.Reader) *GeoTag {
	meta, err := exif.Decode(r)
	if err != nil {
		return nil
	}

	lat, lon, err := meta.LatLong()
	if err != nil {
		return nil
	}

	return &GeoTag{Latitude: lat, Longitude: lon}
}
