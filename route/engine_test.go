// Copyright 2026 The Wayfarer Authors
// SPDX-License-Identifier: Apache-2.0

package route

import (
	"context"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wayfarerhq/wayfarer/spatial"
)

// fakeGeocoder resolves from a fixed table. A gate channel per place,
// when present, blocks that lookup until the test releases it.
type fakeGeocoder struct {
	mu     sync.Mutex
	points map[string]spatial.Point
	fail   map[string]bool
	gates  map[string]chan struct{}
	calls  []string
}

func (f *fakeGeocoder) Geocode(_ context.Context, place string) (*GeocodingResult, error) {
	f.mu.Lock()
	gate := f.gates[place]
	f.calls = append(f.calls, place)
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail[place] {
		return nil, &ProviderError{Type: ErrorTypeNotFound, Message: "no results"}
	}

	point, ok := f.points[place]
	if !ok {
		return nil, &ProviderError{Type: ErrorTypeNotFound, Message: "no results"}
	}

	return &GeocodingResult{Point: point, Confidence: "high", Provider: "fake"}, nil
}

func (f *fakeGeocoder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.calls)
}

// fakeDirections returns a canned response or error and records the
// requests it saw.
type fakeDirections struct {
	mu       sync.Mutex
	resp     *RouteResponse
	err      error
	requests []*RouteRequest
}

func (f *fakeDirections) Route(_ context.Context, req *RouteRequest) (*RouteResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, req)

	if f.err != nil {
		return nil, f.err
	}

	return f.resp, nil
}

type mapCache struct {
	mu      sync.Mutex
	entries map[string]*GeocodingResult
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]*GeocodingResult)}
}

func (c *mapCache) Lookup(place string) (*GeocodingResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	result, ok := c.entries[place]

	return result, ok
}

func (c *mapCache) Store(place string, result *GeocodingResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[place] = result
}

var testPoints = map[string]spatial.Point{
	"San Francisco": {Lat: 37.7749, Lng: -122.4194},
	"Monterey":      {Lat: 36.6002, Lng: -121.8947},
	"Big Sur":       {Lat: 36.2704, Lng: -121.8081},
	"Los Angeles":   {Lat: 34.0522, Lng: -118.2437},
}

func TestResolveFullRoute(t *testing.T) {
	directions := &fakeDirections{
		resp: &RouteResponse{
			Legs: []Leg{
				{Start: testPoints["San Francisco"], End: testPoints["Monterey"]},
				{Start: testPoints["Monterey"], End: testPoints["Los Angeles"]},
			},
			OverviewPolyline: "_encoded_",
			Bounds: spatial.Bounds{
				SouthWest: spatial.Point{Lat: 34.0522, Lng: -122.4194},
				NorthEast: spatial.Point{Lat: 37.7749, Lng: -118.2437},
			},
		},
	}
	engine := NewEngine(EngineOptions{
		Directions: directions,
		Geocoder:   &fakeGeocoder{},
	})

	refs := []PlaceReference{
		{Title: "Monterey Bay Aquarium", URL: "https://maps.example/aquarium"},
	}
	got := engine.Resolve(context.Background(),
		[]string{"San Francisco", "Monterey", "Los Angeles"}, refs)

	if got.Tier != TierFullRoute {
		t.Fatalf("expected tier full-route, got %s", got.Tier)
	}

	want := []Stop{
		{Role: RoleOrigin, Label: "San Francisco", Point: testPoints["San Francisco"],
			Cell: spatial.CellToken(testPoints["San Francisco"])},
		{Role: RoleIntermediate, Label: "Monterey", Point: testPoints["Monterey"],
			Cell: spatial.CellToken(testPoints["Monterey"]), SourceURL: "https://maps.example/aquarium"},
		{Role: RoleDestination, Label: "Los Angeles", Point: testPoints["Los Angeles"],
			Cell: spatial.CellToken(testPoints["Los Angeles"])},
	}
	if diff := cmp.Diff(want, got.Stops); diff != "" {
		t.Fatalf("stops mismatch (-want +got):\n%s", diff)
	}

	if got.Path != "_encoded_" {
		t.Fatalf("expected provider polyline, got %q", got.Path)
	}

	if got.Bounds == nil || got.Bounds.NorthEast.Lat != 37.7749 {
		t.Fatalf("expected provider bounds, got %+v", got.Bounds)
	}

	req := directions.requests[0]
	if !req.PreserveOrder {
		t.Fatal("full-route request must preserve the given order")
	}

	if diff := cmp.Diff([]string{"Monterey"}, req.Waypoints); diff != "" {
		t.Fatalf("waypoints mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveFallsThroughToGeocodedPoints(t *testing.T) {
	directions := &fakeDirections{
		err: &ProviderError{Type: ErrorTypeNotFound, Message: "no routes"},
	}
	geocoder := &fakeGeocoder{points: testPoints}
	engine := NewEngine(EngineOptions{Directions: directions, Geocoder: geocoder})

	got := engine.Resolve(context.Background(),
		[]string{"San Francisco", "Los Angeles"}, nil)

	if got.Tier != TierGeocodedPoints {
		t.Fatalf("expected tier geocoded-points, got %s", got.Tier)
	}

	if len(directions.requests) != 1 {
		t.Fatalf("expected exactly one directions attempt, got %d", len(directions.requests))
	}

	if got.Path == "" {
		t.Fatal("expected a straight connecting path for two resolved points")
	}
}

func TestResolveLegCountMismatchFallsThrough(t *testing.T) {
	directions := &fakeDirections{
		resp: &RouteResponse{
			Legs: []Leg{
				{Start: testPoints["San Francisco"], End: testPoints["Los Angeles"]},
			},
		},
	}
	geocoder := &fakeGeocoder{points: testPoints}
	engine := NewEngine(EngineOptions{Directions: directions, Geocoder: geocoder})

	got := engine.Resolve(context.Background(),
		[]string{"San Francisco", "Monterey", "Los Angeles"}, nil)

	if got.Tier != TierGeocodedPoints {
		t.Fatalf("expected tier geocoded-points, got %s", got.Tier)
	}
}

func TestResolveSinglePlaceSkipsFullRoute(t *testing.T) {
	directions := &fakeDirections{}
	geocoder := &fakeGeocoder{points: testPoints}
	engine := NewEngine(EngineOptions{Directions: directions, Geocoder: geocoder})

	got := engine.Resolve(context.Background(), []string{"Monterey"}, nil)

	if len(directions.requests) != 0 {
		t.Fatalf("single place must not attempt full-route, saw %d requests",
			len(directions.requests))
	}

	if got.Tier != TierGeocodedPoints {
		t.Fatalf("expected tier geocoded-points, got %s", got.Tier)
	}

	if len(got.Stops) != 1 || got.Stops[0].Role != RoleOrigin {
		t.Fatalf("unexpected stops: %+v", got.Stops)
	}

	if got.Path != "" {
		t.Fatal("single resolved point must not carry a path")
	}
}

func TestResolveIndexStableOrder(t *testing.T) {
	gateA := make(chan struct{})
	gateB := make(chan struct{})
	gateC := make(chan struct{})
	geocoder := &fakeGeocoder{
		points: testPoints,
		gates: map[string]chan struct{}{
			"San Francisco": gateA,
			"Monterey":      gateB,
			"Los Angeles":   gateC,
		},
	}
	engine := NewEngine(EngineOptions{
		Directions: &fakeDirections{err: &ProviderError{Type: ErrorTypeNotFound}},
		Geocoder:   geocoder,
	})

	done := make(chan *RouteResult, 1)

	go func() {
		done <- engine.Resolve(context.Background(),
			[]string{"San Francisco", "Monterey", "Los Angeles"}, nil)
	}()

	// Settle in reverse of the list order.
	close(gateC)
	close(gateB)
	close(gateA)

	got := <-done

	want := []string{"San Francisco", "Monterey", "Los Angeles"}

	labels := make([]string, 0, len(got.Stops))
	for _, stop := range got.Stops {
		labels = append(labels, stop.Label)
	}

	if diff := cmp.Diff(want, labels); diff != "" {
		t.Fatalf("stop order mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveOmitsFailedSlot(t *testing.T) {
	geocoder := &fakeGeocoder{
		points: testPoints,
		fail:   map[string]bool{"Monterey": true},
	}
	engine := NewEngine(EngineOptions{
		Directions: &fakeDirections{err: &ProviderError{Type: ErrorTypeNotFound}},
		Geocoder:   geocoder,
	})

	got := engine.Resolve(context.Background(),
		[]string{"San Francisco", "Monterey", "Los Angeles"}, nil)

	want := []Stop{
		{Role: RoleOrigin, Label: "San Francisco", Point: testPoints["San Francisco"],
			Cell: spatial.CellToken(testPoints["San Francisco"])},
		{Role: RoleDestination, Label: "Los Angeles", Point: testPoints["Los Angeles"],
			Cell: spatial.CellToken(testPoints["Los Angeles"])},
	}
	if diff := cmp.Diff(want, got.Stops); diff != "" {
		t.Fatalf("stops mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveEmptyInputIsTierNone(t *testing.T) {
	engine := NewEngine(EngineOptions{
		Directions: &fakeDirections{},
		Geocoder:   &fakeGeocoder{},
	})

	got := engine.Resolve(context.Background(), nil, nil)

	if got.Tier != TierNone {
		t.Fatalf("expected tier none, got %s", got.Tier)
	}

	if len(got.Stops) != 0 || got.Path != "" || got.Bounds != nil {
		t.Fatalf("tier none must carry nothing, got %+v", got)
	}
}

func TestResolveNothingGeocodedIsTierNone(t *testing.T) {
	engine := NewEngine(EngineOptions{
		Directions: &fakeDirections{err: &ProviderError{Type: ErrorTypeNotFound}},
		Geocoder:   &fakeGeocoder{},
	})

	got := engine.Resolve(context.Background(),
		[]string{"Atlantis", "El Dorado"}, nil)

	if got.Tier != TierNone {
		t.Fatalf("expected tier none, got %s", got.Tier)
	}
}

func TestResolveSeedsFromReferences(t *testing.T) {
	geocoder := &fakeGeocoder{points: testPoints}
	engine := NewEngine(EngineOptions{
		Directions: &fakeDirections{err: &ProviderError{Type: ErrorTypeNotFound}},
		Geocoder:   geocoder,
	})

	refs := []PlaceReference{
		{Title: "San Francisco", URL: "https://maps.example/sf"},
		{Title: "Los Angeles", URL: "https://maps.example/la"},
		{Title: "los angeles", URL: "https://maps.example/dup"},
	}
	got := engine.Resolve(context.Background(), nil, refs)

	if got.Tier != TierGeocodedPoints {
		t.Fatalf("expected tier geocoded-points, got %s", got.Tier)
	}

	if len(got.Stops) != 2 {
		t.Fatalf("expected 2 stops from deduplicated titles, got %d", len(got.Stops))
	}

	if got.Stops[0].SourceURL != "https://maps.example/sf" {
		t.Fatalf("expected reference locator on seeded stop, got %q", got.Stops[0].SourceURL)
	}
}

func TestResolveTruncatesWaypoints(t *testing.T) {
	directions := &fakeDirections{
		err: &ProviderError{Type: ErrorTypeInvalidRequest, Message: "unused"},
	}
	geocoder := &fakeGeocoder{points: testPoints}
	engine := NewEngine(EngineOptions{
		Directions:   directions,
		Geocoder:     geocoder,
		MaxWaypoints: 2,
	})

	engine.Resolve(context.Background(),
		[]string{"San Francisco", "Monterey", "Big Sur", "Santa Barbara", "Los Angeles"}, nil)

	req := directions.requests[0]

	if req.Origin != "San Francisco" || req.Destination != "Los Angeles" {
		t.Fatalf("truncation must keep endpoints, got %q -> %q", req.Origin, req.Destination)
	}

	if diff := cmp.Diff([]string{"Monterey", "Big Sur"}, req.Waypoints); diff != "" {
		t.Fatalf("waypoints mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveCacheSkipsProviderOnHit(t *testing.T) {
	cache := newMapCache()
	cache.Store("monterey", &GeocodingResult{
		Point: testPoints["Monterey"], Confidence: "high", Provider: "fake",
	})

	geocoder := &fakeGeocoder{points: testPoints}
	engine := NewEngine(EngineOptions{
		Directions: &fakeDirections{err: &ProviderError{Type: ErrorTypeNotFound}},
		Geocoder:   geocoder,
		Cache:      cache,
	})

	got := engine.Resolve(context.Background(),
		[]string{"Monterey", "Los Angeles"}, nil)

	if len(got.Stops) != 2 {
		t.Fatalf("expected 2 stops, got %d", len(got.Stops))
	}

	if geocoder.callCount() != 1 {
		t.Fatalf("expected exactly one provider call, got %d", geocoder.callCount())
	}

	if _, ok := cache.Lookup("los angeles"); !ok {
		t.Fatal("provider result was not written back to the cache")
	}
}

func TestResolveInvocationsAreIndependent(t *testing.T) {
	gate := make(chan struct{})
	slowGeocoder := &fakeGeocoder{
		points: testPoints,
		gates:  map[string]chan struct{}{"San Francisco": gate},
	}
	engine := NewEngine(EngineOptions{
		Directions: &fakeDirections{err: &ProviderError{Type: ErrorTypeNotFound}},
		Geocoder:   slowGeocoder,
	})

	first := make(chan *RouteResult, 1)

	go func() {
		first <- engine.Resolve(context.Background(), []string{"San Francisco"}, nil)
	}()

	// Second invocation completes while the first is still outstanding.
	second := engine.Resolve(context.Background(), []string{"Monterey"}, nil)

	if len(second.Stops) != 1 || second.Stops[0].Label != "Monterey" {
		t.Fatalf("second invocation polluted: %+v", second.Stops)
	}

	close(gate)

	got := <-first
	if len(got.Stops) != 1 || got.Stops[0].Label != "San Francisco" {
		t.Fatalf("first invocation polluted: %+v", got.Stops)
	}
}

func TestResolveStampsStopCells(t *testing.T) {
	geocoder := &fakeGeocoder{points: testPoints}
	engine := NewEngine(EngineOptions{
		Directions: &fakeDirections{err: &ProviderError{Type: ErrorTypeNotFound}},
		Geocoder:   geocoder,
	})

	got := engine.Resolve(context.Background(),
		[]string{"San Francisco", "Los Angeles"}, nil)

	for _, stop := range got.Stops {
		if stop.Cell == "" {
			t.Fatalf("stop %q is missing its cell", stop.Label)
		}
	}

	if got.Stops[0].Cell == got.Stops[1].Cell {
		t.Fatal("distant stops must land in different cells")
	}
}
