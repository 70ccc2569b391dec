// Copyright 2026 The Wayfarer Authors
// SPDX-License-Identifier: Apache-2.0

package route

import (
	"context"

	"github.com/wayfarerhq/wayfarer/spatial"
)

// GeocodingResult represents a geocoding result from any provider.
type GeocodingResult struct {
	Point       spatial.Point
	Confidence  string // high, medium, low
	Provider    string
	DisplayName string
}

// Geocoder resolves a single place name to a coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, place string) (*GeocodingResult, error)
}
