// Copyright 2026 The Wayfarer Authors
// SPDX-License-Identifier: Apache-2.0

package placecache

import (
	"testing"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/wayfarerhq/wayfarer/route"
	"github.com/wayfarerhq/wayfarer/spatial"
)

func TestCacheMemoryOnly(t *testing.T) {
	cache := New(nil, 0)

	if _, ok := cache.Lookup("monterey"); ok {
		t.Fatal("empty cache must miss")
	}

	result := &route.GeocodingResult{
		Point:      spatial.Point{Lat: 36.6002, Lng: -121.8947},
		Confidence: "high",
		Provider:   "google_maps",
	}
	cache.Store("monterey", result)

	got, ok := cache.Lookup("monterey")
	if !ok {
		t.Fatal("expected a hit after store")
	}

	if got.Point != result.Point {
		t.Fatalf("unexpected point %+v", got.Point)
	}
}

func TestCachePromotesRepositoryHits(t *testing.T) {
	db, repo := setupTestDB(t)
	defer db.Close()

	if err := repo.Save(montereyEntry()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	cache := New(repo, 0)

	got, ok := cache.Lookup("monterey")
	if !ok {
		t.Fatal("expected a repository hit")
	}

	if got.DisplayName != "Monterey, CA, USA" {
		t.Fatalf("unexpected display name %q", got.DisplayName)
	}

	memory, durable, err := cache.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	if memory != 1 || durable != 1 {
		t.Fatalf("expected 1 hot and 1 durable entry, got %d/%d", memory, durable)
	}
}

func TestCacheNearbySortsByDistance(t *testing.T) {
	db, repo := setupTestDB(t)
	defer db.Close()

	base := spatial.Point{Lat: 36.6002, Lng: -121.8947}

	// Three places within a couple hundred meters of each other, saved
	// in a scrambled order.
	entries := []*Entry{
		{Place: "monterey wharf", Point: spatial.Point{Lat: base.Lat + 0.0010, Lng: base.Lng},
			Provider: "google_maps", Confidence: "high"},
		{Place: "monterey", Point: base,
			Provider: "google_maps", Confidence: "high"},
		{Place: "monterey marina", Point: spatial.Point{Lat: base.Lat + 0.0005, Lng: base.Lng},
			Provider: "google_maps", Confidence: "high"},
	}
	for _, entry := range entries {
		if err := repo.Save(entry); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	cache := New(repo, 0)

	got, err := cache.Nearby(base, 1)
	if err != nil {
		t.Fatalf("Nearby() error = %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("expected 3 nearby places, got %d", len(got))
	}

	wantOrder := []string{"monterey", "monterey marina", "monterey wharf"}
	for i, want := range wantOrder {
		if got[i].Place != want {
			t.Fatalf("expected %q at position %d, got %q", want, i, got[i].Place)
		}
	}

	for i := 1; i < len(got); i++ {
		if got[i].DistanceMeters < got[i-1].DistanceMeters {
			t.Fatalf("distances out of order: %f before %f",
				got[i-1].DistanceMeters, got[i].DistanceMeters)
		}
	}
}

func TestCacheNearbyNeedsRepository(t *testing.T) {
	cache := New(nil, 0)

	if _, err := cache.Nearby(spatial.Point{}, 4); err == nil {
		t.Fatal("expected an error without a repository")
	}
}

func TestCacheStorePersists(t *testing.T) {
	db, repo := setupTestDB(t)
	defer db.Close()

	cache := New(repo, 0)

	cache.Store("big sur", &route.GeocodingResult{
		Point:       spatial.Point{Lat: 36.2704, Lng: -121.8081},
		Confidence:  "medium",
		Provider:    "google_maps",
		DisplayName: "Big Sur, CA, USA",
	})

	entry, err := repo.Get("big sur")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if entry.Confidence != "medium" {
		t.Fatalf("unexpected confidence %q", entry.Confidence)
	}
}
