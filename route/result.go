// Copyright 2026 The Wayfarer Authors
// SPDX-License-Identifier: Apache-2.0

// Package route resolves an ordered list of place names into a drawable
// route. Resolution degrades through tiers: a single multi-stop
// directions request, then independent per-place geocoding, then nothing.
package route

import (
	"encoding/json"

	"github.com/wayfarerhq/wayfarer/spatial"
)

// Tier identifies which stage of the degrade cascade produced a result.
type Tier int

const (
	// TierNone means nothing resolved; the caller should render a fallback.
	TierNone Tier = iota
	// TierGeocodedPoints means stops were geocoded independently.
	TierGeocodedPoints
	// TierFullRoute means the routing provider returned a complete route.
	TierFullRoute
)

func (t Tier) String() string {
	switch t {
	case TierFullRoute:
		return "full-route"
	case TierGeocodedPoints:
		return "geocoded-points"
	default:
		return "none"
	}
}

// MarshalJSON encodes the tier as its string form.
func (t Tier) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// Role tags a stop's position within the route.
type Role int

const (
	// RoleOrigin is the first resolved stop.
	RoleOrigin Role = iota
	// RoleIntermediate is any stop between origin and destination.
	RoleIntermediate
	// RoleDestination is the last resolved stop.
	RoleDestination
)

func (r Role) String() string {
	switch r {
	case RoleOrigin:
		return "origin"
	case RoleDestination:
		return "destination"
	default:
		return "intermediate"
	}
}

// MarshalJSON encodes the role as its string form.
func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// Stop is one resolved geographic point of a route. Cell is the H3 cell
// containing the point at spatial.StopCellResolution, so downstream
// consumers can group stops by proximity without re-indexing.
type Stop struct {
	Role      Role          `json:"role"`
	Label     string        `json:"label"`
	Point     spatial.Point `json:"point"`
	Cell      string        `json:"cell,omitempty"`
	SourceURL string        `json:"sourceUrl,omitempty"`
}

// RouteResult is the outcome of a Resolve call. Tier none carries no
// stops, path, or bounds.
type RouteResult struct {
	Tier   Tier            `json:"tier"`
	Stops  []Stop          `json:"stops,omitempty"`
	Path   string          `json:"path,omitempty"` // encoded polyline
	Bounds *spatial.Bounds `json:"bounds,omitempty"`
}

// PlaceReference is a structured place attachment carried alongside a
// message, supplied by an upstream provider rather than mined from text.
type PlaceReference struct {
	ProviderID string `json:"providerId,omitempty"`
	Title      string `json:"title"`
	URL        string `json:"url,omitempty"`
	Review     string `json:"review,omitempty"`
}
