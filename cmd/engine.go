// Copyright 2026 The Wayfarer Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver

	"github.com/wayfarerhq/wayfarer/placecache"
	"github.com/wayfarerhq/wayfarer/route"
	"github.com/wayfarerhq/wayfarer/server"
	"github.com/wayfarerhq/wayfarer/utils/httputils"
)

const placesDbFile = "wayfarer.duckdb"

var engineOptions = struct {
	Region       string
	Mode         string
	MaxWaypoints int
}{}

func init() {
	rootCmd.PersistentFlags().StringVar(&engineOptions.Region, "region", "",
		"ccTLD region bias for geocoding, e.g. us")
	rootCmd.PersistentFlags().StringVar(&engineOptions.Mode, "mode", "driving",
		"travel mode for directions requests")
	rootCmd.PersistentFlags().IntVar(&engineOptions.MaxWaypoints, "max-waypoints", route.DefaultMaxWaypoints,
		"maximum intermediate stops per directions request")
}

// openDatabase opens the place cache database under --db-path. With
// mustExist the caller requires a prior serve/load to have created it.
func openDatabase(mustExist bool) (*sql.DB, error) {
	if err := os.MkdirAll(rootOptions.DbPath, 0o750); err != nil {
		return nil, fmt.Errorf("creating db directory: %w", err)
	}

	dbpath := filepath.Join(rootOptions.DbPath, placesDbFile)

	if mustExist {
		if _, err := os.Stat(dbpath); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("database not found at %s - run 'serve' or 'cache load' first", dbpath)
		}
	}

	db, err := sql.Open("duckdb", dbpath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return db, nil
}

// providerHTTPClient returns nil for the provider defaults, or a client
// that dumps traffic to stderr when --verbose-http is set.
func providerHTTPClient() *http.Client {
	if !rootOptions.VerboseHTTP {
		return nil
	}

	return &http.Client{
		Transport: &httputils.LoggingRoundTripper{
			Transport: http.DefaultTransport,
			Writer:    os.Stderr,
			DumpBody:  true,
		},
	}
}

// buildEngine assembles the production engine: Google Maps clients plus
// an optional place cache.
func buildEngine(ctx context.Context, cache *placecache.Cache) (*route.Engine, error) {
	apiKey, err := server.ResolveAPIKey(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving Google Maps API key: %w", err)
	}

	httpClient := providerHTTPClient()

	opts := route.EngineOptions{
		Directions:   route.NewGoogleDirectionsClient(apiKey, httpClient),
		Geocoder:     route.NewGoogleGeocoder(apiKey, engineOptions.Region, httpClient),
		MaxWaypoints: engineOptions.MaxWaypoints,
		TravelMode:   engineOptions.Mode,
	}
	if cache != nil {
		opts.Cache = cache
	}

	return route.NewEngine(opts), nil
}
