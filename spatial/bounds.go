// Copyright 2026 The Wayfarer Authors
//
// SPDX-License-Identifier: Apache-2.0
package spatial

import (
	"github.com/paulmach/orb"
)

// Bounds is a geographic bounding region expressed by its corners.
type Bounds struct {
	SouthWest Point `json:"southWest"`
	NorthEast Point `json:"northEast"`
}

// BoundsOf computes the bounding region that contains every point.
// ok is false when points is empty.
func BoundsOf(points []Point) (b Bounds, ok bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}

	mp := make(orb.MultiPoint, 0, len(points))
	for _, p := range points {
		mp = append(mp, orb.Point{p.Lng, p.Lat})
	}

	bound := mp.Bound()

	return Bounds{
		SouthWest: Point{Lat: bound.Min.Lat(), Lng: bound.Min.Lon()},
		NorthEast: Point{Lat: bound.Max.Lat(), Lng: bound.Max.Lon()},
	}, true
}

// IsPoint reports whether the bounds collapse to a single point.
func (b Bounds) IsPoint() bool {
	return b.SouthWest == b.NorthEast
}

// Center returns the geometric center of the bounds.
func (b Bounds) Center() Point {
	bound := b.orb()
	c := bound.Center()

	return Point{Lat: c.Lat(), Lng: c.Lon()}
}

// Pad grows the bounds by frac of its span on every side. A collapsed
// bounds is returned unchanged since there is no span to scale.
func (b Bounds) Pad(frac float64) Bounds {
	if b.IsPoint() {
		return b
	}

	latPad := (b.NorthEast.Lat - b.SouthWest.Lat) * frac
	lngPad := (b.NorthEast.Lng - b.SouthWest.Lng) * frac

	return Bounds{
		SouthWest: Point{Lat: b.SouthWest.Lat - latPad, Lng: b.SouthWest.Lng - lngPad},
		NorthEast: Point{Lat: b.NorthEast.Lat + latPad, Lng: b.NorthEast.Lng + lngPad},
	}
}

func (b Bounds) orb() orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.SouthWest.Lng, b.SouthWest.Lat},
		Max: orb.Point{b.NorthEast.Lng, b.NorthEast.Lat},
	}
}
