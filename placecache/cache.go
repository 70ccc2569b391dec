// Copyright 2026 The Wayfarer Authors
// SPDX-License-Identifier: Apache-2.0

package placecache

import (
	"database/sql"
	"errors"
	"log"
	"sort"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/wayfarerhq/wayfarer/route"
	"github.com/wayfarerhq/wayfarer/spatial"
)

// DefaultTTL is how long an in-memory entry stays hot before the next
// lookup falls through to the repository.
const DefaultTTL = 12 * time.Hour

// DefaultNearbyResolution is the H3 resolution nearby queries use when
// the caller does not pick one. Res 6 cells span a few kilometers.
const DefaultNearbyResolution = 6

// Cache layers an in-memory TTL cache over an optional repository. It
// satisfies the resolution engine's cache contract; place keys are
// assumed normalized by the caller.
type Cache struct {
	mem  *gocache.Cache
	repo Repository
}

// New creates a cache. repo may be nil for memory-only operation; a
// non-positive ttl uses DefaultTTL.
func New(repo Repository, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Cache{
		mem:  gocache.New(ttl, ttl/2),
		repo: repo,
	}
}

// Lookup returns a cached result for a place key. Repository hits are
// promoted into memory.
func (c *Cache) Lookup(place string) (*route.GeocodingResult, bool) {
	if cached, ok := c.mem.Get(place); ok {
		return cached.(*route.GeocodingResult), true
	}

	if c.repo == nil {
		return nil, false
	}

	entry, err := c.repo.Get(place)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("place cache lookup for %q failed: %s", place, err)
		}

		return nil, false
	}

	result := entry.toGeocodingResult()
	c.mem.Set(place, result, gocache.DefaultExpiration)

	return result, true
}

// Store saves a result under a place key, in memory and, when a
// repository is configured, durably. Persistence failures only log; the
// in-memory entry still serves this process.
func (c *Cache) Store(place string, result *route.GeocodingResult) {
	c.mem.Set(place, result, gocache.DefaultExpiration)

	if c.repo == nil {
		return
	}

	entry := &Entry{
		Place:       place,
		DisplayName: result.DisplayName,
		Point:       result.Point,
		Provider:    result.Provider,
		Confidence:  result.Confidence,
	}
	if err := c.repo.Save(entry); err != nil {
		log.Printf("persisting place cache entry %q failed: %s", place, err)
	}
}

// NearbyEntry pairs a cached place with its great-circle distance from
// a query point.
type NearbyEntry struct {
	*Entry
	DistanceMeters float64 `json:"distance_meters"`
}

// Nearby returns the cached places sharing the query point's H3 cell at
// the given resolution, closest first.
func (c *Cache) Nearby(point spatial.Point, res int) ([]*NearbyEntry, error) {
	if c.repo == nil {
		return nil, errors.New("nearby queries need a repository")
	}

	entries, err := c.repo.Nearby(point, res)
	if err != nil {
		return nil, err
	}

	nearby := make([]*NearbyEntry, 0, len(entries))
	for _, entry := range entries {
		nearby = append(nearby, &NearbyEntry{
			Entry:          entry,
			DistanceMeters: point.HaversineDistance(&entry.Point),
		})
	}

	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].DistanceMeters < nearby[j].DistanceMeters
	})

	return nearby, nil
}

// Stats reports the cache footprint: hot in-memory entries and, when a
// repository is configured, the durable total.
func (c *Cache) Stats() (memory int, durable int, err error) {
	memory = c.mem.ItemCount()

	if c.repo != nil {
		durable, err = c.repo.Count()
	}

	return memory, durable, err
}

func (e *Entry) toGeocodingResult() *route.GeocodingResult {
	return &route.GeocodingResult{
		Point:       e.Point,
		Confidence:  e.Confidence,
		Provider:    e.Provider,
		DisplayName: e.DisplayName,
	}
}
