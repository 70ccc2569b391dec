// Copyright 2026 The Wayfarer Authors
// SPDX-License-Identifier: Apache-2.0

// Package render turns resolution results into drawable primitives: a
// map description for resolved routes, a schematic view with a deep
// link when nothing resolved.
package render

import (
	"errors"

	"github.com/samber/lo"

	"github.com/wayfarerhq/wayfarer/route"
	"github.com/wayfarerhq/wayfarer/spatial"
)

// ErrNothingResolved means the result carries no stops to draw.
var ErrNothingResolved = errors.New("nothing resolved to draw")

const (
	endpointMarkerSize = 40
	stopMarkerSize     = 32

	originColor       = "#1a73e8"
	destinationColor  = "#d93025"
	intermediateColor = "#f9ab00"

	// fraction of the bounds span added on every side
	viewportPadding = 0.10
)

// Marker is one drawable stop.
type Marker struct {
	Role   route.Role    `json:"role"`
	Label  string        `json:"label"`
	Point  spatial.Point `json:"point"`
	SizePx int           `json:"sizePx"`
	Color  string        `json:"color"`
}

// MapView describes everything a map surface needs to draw a resolved
// route. Viewport is nil when all stops collapse to a single point; the
// surface should center on Center instead of fitting bounds.
type MapView struct {
	Markers  []Marker        `json:"markers"`
	Path     string          `json:"path,omitempty"` // encoded polyline
	Viewport *spatial.Bounds `json:"viewport,omitempty"`
	Center   spatial.Point   `json:"center"`
}

// AssembleMap builds the drawable view for a resolved route. It fails
// only on a tier-none result; callers should render the fallback then.
func AssembleMap(result *route.RouteResult) (*MapView, error) {
	if result == nil || result.Tier == route.TierNone || len(result.Stops) == 0 {
		return nil, ErrNothingResolved
	}

	markers := lo.Map(result.Stops, func(stop route.Stop, _ int) Marker {
		return Marker{
			Role:   stop.Role,
			Label:  stop.Label,
			Point:  stop.Point,
			SizePx: markerSize(stop.Role),
			Color:  markerColor(stop.Role),
		}
	})

	points := lo.Map(result.Stops, func(stop route.Stop, _ int) spatial.Point {
		return stop.Point
	})

	view := &MapView{
		Markers: markers,
		Path:    normalizePath(result, points),
	}

	bounds, ok := spatial.BoundsOf(points)
	if !ok {
		return view, nil
	}

	view.Center = bounds.Center()

	if !bounds.IsPoint() {
		padded := bounds.Pad(viewportPadding)
		view.Viewport = &padded
	}

	return view, nil
}

// normalizePath re-encodes the connecting path so the transport always
// carries a polyline this module produced. A provider polyline that
// fails to decode degrades to straight segments through the stops.
func normalizePath(result *route.RouteResult, points []spatial.Point) string {
	if result.Path != "" {
		if decoded, err := spatial.DecodePath(result.Path); err == nil && len(decoded) >= 2 {
			return spatial.EncodePath(decoded)
		}
	}

	if len(points) >= 2 {
		return spatial.EncodePath(points)
	}

	return ""
}

func markerSize(role route.Role) int {
	if role == route.RoleIntermediate {
		return stopMarkerSize
	}

	return endpointMarkerSize
}

func markerColor(role route.Role) string {
	switch role {
	case route.RoleOrigin:
		return originColor
	case route.RoleDestination:
		return destinationColor
	default:
		return intermediateColor
	}
}
