// Copyright 2026 The Wayfarer Authors
//
// SPDX-License-Identifier: Apache-2.0
package spatial

import (
	"fmt"

	"github.com/twpayne/go-polyline"
)

// EncodePath encodes an ordered sequence of points using the Google
// encoded-polyline algorithm.
func EncodePath(points []Point) string {
	coords := make([][]float64, 0, len(points))
	for _, p := range points {
		coords = append(coords, []float64{p.Lat, p.Lng})
	}

	return string(polyline.EncodeCoords(coords))
}

// DecodePath decodes an encoded polyline back into points.
func DecodePath(s string) ([]Point, error) {
	coords, _, err := polyline.DecodeCoords([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("decoding polyline: %w", err)
	}

	points := make([]Point, 0, len(coords))
	for _, c := range coords {
		points = append(points, Point{Lat: c[0], Lng: c[1]})
	}

	return points, nil
}
