// Copyright 2026 The Wayfarer Authors
// SPDX-License-Identifier: Apache-2.0

package route

import (
	"context"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/wayfarerhq/wayfarer/spatial"
	"github.com/wayfarerhq/wayfarer/utils/textutils"
)

// DefaultMaxWaypoints is the routing provider's documented limit on
// intermediate stops per request.
const DefaultMaxWaypoints = 25

// Cache fronts the geocoder with previously resolved places, keyed by
// the place's normalized name.
type Cache interface {
	Lookup(place string) (*GeocodingResult, bool)
	Store(place string, result *GeocodingResult)
}

// Engine runs the tiered resolution cascade. Resolve never returns an
// error: every failure path ends in a RouteResult with tier none.
type Engine struct {
	directions   DirectionsClient
	geocoder     Geocoder
	cache        Cache
	maxWaypoints int
	travelMode   string
}

// EngineOptions configures an Engine. Directions and Geocoder are
// required; Cache may be nil.
type EngineOptions struct {
	Directions   DirectionsClient
	Geocoder     Geocoder
	Cache        Cache
	MaxWaypoints int
	TravelMode   string
}

// NewEngine creates a resolution engine.
func NewEngine(opts EngineOptions) *Engine {
	maxWaypoints := opts.MaxWaypoints
	if maxWaypoints <= 0 {
		maxWaypoints = DefaultMaxWaypoints
	}

	mode := opts.TravelMode
	if mode == "" {
		mode = "driving"
	}

	return &Engine{
		directions:   opts.Directions,
		geocoder:     opts.Geocoder,
		cache:        opts.Cache,
		maxWaypoints: maxWaypoints,
		travelMode:   mode,
	}
}

// Resolve turns an ordered place list (and optional structured
// references) into a RouteResult. Tiers are attempted in order:
// full-route when at least two places exist, then per-place geocoding,
// then none. All state is local to the call, so concurrent or
// re-entrant invocations never see each other's slots.
func (e *Engine) Resolve(ctx context.Context, places []string, refs []PlaceReference) *RouteResult {
	if len(places) == 0 {
		places = placesFromReferences(refs)
	}

	if len(places) >= 2 {
		if result := e.resolveFullRoute(ctx, places, refs); result != nil {
			return result
		}
	}

	if len(places) >= 1 {
		if result := e.resolveGeocodedPoints(ctx, places, refs); result != nil {
			return result
		}
	}

	return &RouteResult{Tier: TierNone}
}

// resolveFullRoute issues one multi-stop directions request. Returns nil
// on any provider failure so the caller falls through to the next tier.
func (e *Engine) resolveFullRoute(ctx context.Context, places []string, refs []PlaceReference) *RouteResult {
	names := truncateWaypoints(places, e.maxWaypoints)

	resp, err := e.directions.Route(ctx, &RouteRequest{
		Origin:        names[0],
		Destination:   names[len(names)-1],
		Waypoints:     names[1 : len(names)-1],
		Mode:          e.travelMode,
		PreserveOrder: true,
	})
	if err != nil {
		if IsNotFoundError(err) {
			log.Printf("no route found for %d places, falling through", len(names))
		} else {
			log.Printf("full-route tier failed for %d places: %s", len(names), err)
		}

		return nil
	}

	// Each leg connects consecutive stops; a mismatch means the provider
	// collapsed or split stops and the labels can no longer be trusted.
	if len(resp.Legs) != len(names)-1 {
		log.Printf("full-route tier returned %d legs for %d stops, falling through",
			len(resp.Legs), len(names))

		return nil
	}

	stops := make([]Stop, 0, len(names))
	stops = append(stops, Stop{
		Label:     names[0],
		Point:     resp.Legs[0].Start,
		Cell:      spatial.CellToken(resp.Legs[0].Start),
		SourceURL: referenceURL(refs, names[0]),
	})

	for i, leg := range resp.Legs {
		stops = append(stops, Stop{
			Label:     names[i+1],
			Point:     leg.End,
			Cell:      spatial.CellToken(leg.End),
			SourceURL: referenceURL(refs, names[i+1]),
		})
	}

	assignRoles(stops)

	bounds := resp.Bounds

	return &RouteResult{
		Tier:   TierFullRoute,
		Stops:  stops,
		Path:   resp.OverviewPolyline,
		Bounds: &bounds,
	}
}

// resolveGeocodedPoints looks every place up concurrently. Results land
// in a slot array indexed by original position, so stop order matches
// the input order no matter when each lookup settles. Failed slots are
// omitted from the final sequence. Returns nil when nothing resolved.
func (e *Engine) resolveGeocodedPoints(ctx context.Context, places []string, refs []PlaceReference) *RouteResult {
	slots := make([]*GeocodingResult, len(places))

	g, gctx := errgroup.WithContext(ctx)

	for i, place := range places {
		g.Go(func() error {
			result, err := e.lookup(gctx, place)
			if err != nil {
				switch {
				case IsNotFoundError(err):
					log.Printf("no geocoding result for %q, omitting stop", place)
				case IsTimeoutError(err):
					log.Printf("geocoding %q timed out: %s", place, err)
				default:
					log.Printf("geocoding %q failed: %s", place, err)
				}

				return nil
			}

			slots[i] = result

			return nil
		})
	}

	// Goroutines never return errors; Wait is the settle barrier.
	_ = g.Wait()

	stops := make([]Stop, 0, len(places))
	points := make([]spatial.Point, 0, len(places))

	for i, slot := range slots {
		if slot == nil {
			continue
		}

		stops = append(stops, Stop{
			Label:     places[i],
			Point:     slot.Point,
			Cell:      spatial.CellToken(slot.Point),
			SourceURL: referenceURL(refs, places[i]),
		})
		points = append(points, slot.Point)
	}

	if len(stops) == 0 {
		return nil
	}

	assignRoles(stops)

	result := &RouteResult{
		Tier:  TierGeocodedPoints,
		Stops: stops,
	}

	if len(points) >= 2 {
		result.Path = spatial.EncodePath(points)
	}

	if bounds, ok := spatial.BoundsOf(points); ok {
		result.Bounds = &bounds
	}

	return result
}

// lookup consults the cache before the provider and writes successful
// provider answers back.
func (e *Engine) lookup(ctx context.Context, place string) (*GeocodingResult, error) {
	key := textutils.LowerASCIIFolding(place)

	if e.cache != nil {
		if result, ok := e.cache.Lookup(key); ok {
			return result, nil
		}
	}

	result, err := e.geocoder.Geocode(ctx, place)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		e.cache.Store(key, result)
	}

	return result, nil
}

// truncateWaypoints keeps the origin, the destination, and the first
// maxWaypoints intermediate stops. Extra stops are dropped silently.
func truncateWaypoints(places []string, maxWaypoints int) []string {
	if len(places)-2 <= maxWaypoints {
		return places
	}

	names := make([]string, 0, maxWaypoints+2)
	names = append(names, places[0])
	names = append(names, places[1:1+maxWaypoints]...)
	names = append(names, places[len(places)-1])

	return names
}

// assignRoles tags the first stop origin, the last destination, and the
// rest intermediate. Must run after failed slots are omitted.
func assignRoles(stops []Stop) {
	for i := range stops {
		switch i {
		case 0:
			stops[i].Role = RoleOrigin
		case len(stops) - 1:
			stops[i].Role = RoleDestination
		default:
			stops[i].Role = RoleIntermediate
		}
	}
}

// placesFromReferences seeds the place list from structured reference
// titles when text extraction found nothing.
func placesFromReferences(refs []PlaceReference) []string {
	seen := make(map[string]struct{}, len(refs))
	places := make([]string, 0, len(refs))

	for _, ref := range refs {
		title := strings.TrimSpace(ref.Title)
		if title == "" {
			continue
		}

		key := textutils.LowerASCIIFolding(title)
		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}
		places = append(places, title)
	}

	return places
}

// referenceURL finds the locator of the reference whose title matches a
// place name by normalized containment, either direction.
func referenceURL(refs []PlaceReference, place string) string {
	placeKey := textutils.LowerASCIIFolding(place)

	for _, ref := range refs {
		titleKey := textutils.LowerASCIIFolding(ref.Title)
		if titleKey == "" {
			continue
		}

		if strings.Contains(titleKey, placeKey) || strings.Contains(placeKey, titleKey) {
			return ref.URL
		}
	}

	return ""
}
