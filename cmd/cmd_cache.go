// Copyright 2026 The Wayfarer Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wayfarerhq/wayfarer/placecache"
	"github.com/wayfarerhq/wayfarer/spatial"
	"github.com/wayfarerhq/wayfarer/utils/textutils"
)

const placesFile = "places.json"

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the durable place cache",
}

var cacheStoreCmd = &cobra.Command{
	Use:   "store",
	Short: "Export cached geocoding results to a file",
	Long:  `Exports all cached places from the database to a local JSON file. The file is sorted to minimize diffs when checking into version control.`,
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		db, err := openDatabase(true)
		if err != nil {
			return err
		}
		defer db.Close()

		repo := placecache.NewRepository(db)

		entries, err := repo.GetAllSorted()
		if err != nil {
			return fmt.Errorf("getting cached places: %w", err)
		}

		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling places: %w", err)
		}

		if err := os.WriteFile(placesFile, data, 0o600); err != nil {
			return fmt.Errorf("writing places file: %w", err)
		}

		fmt.Printf("✅ Exported %s cached places to %s\n",
			textutils.FormatInt(int64(len(entries))), placesFile)

		return nil
	},
}

var cacheLoadCmd = &cobra.Command{
	Use:   "load",
	Short: "Import cached geocoding results from a file",
	Long:  `Imports places from the local JSON file into the database if the places table is empty.`,
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		db, err := openDatabase(false)
		if err != nil {
			return err
		}
		defer db.Close()

		repo := placecache.NewRepository(db)
		if err := repo.CreateSchema(); err != nil {
			return fmt.Errorf("creating place cache schema: %w", err)
		}

		count, err := repo.Count()
		if err != nil {
			return fmt.Errorf("counting cached places: %w", err)
		}

		if count > 0 {
			fmt.Printf("Database already holds %s places, skipping import\n",
				textutils.FormatInt(int64(count)))

			return nil
		}

		data, err := os.ReadFile(placesFile)
		if err != nil {
			return fmt.Errorf("reading places file: %w", err)
		}

		var entries []*placecache.Entry
		if err := json.Unmarshal(data, &entries); err != nil {
			return fmt.Errorf("parsing places file: %w", err)
		}

		if err := repo.BulkInsert(entries); err != nil {
			return fmt.Errorf("importing places: %w", err)
		}

		fmt.Printf("✅ Imported %s places from %s\n",
			textutils.FormatInt(int64(len(entries))), placesFile)

		return nil
	},
}

var cacheNearbyOptions = struct {
	Lat float64
	Lng float64
	Res int
}{}

var cacheNearbyCmd = &cobra.Command{
	Use:   "nearby",
	Short: "List cached places around a point",
	Long:  `Lists the cached places whose H3 cell at the chosen resolution contains the given point, closest first.`,
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		db, err := openDatabase(true)
		if err != nil {
			return err
		}
		defer db.Close()

		cache := placecache.New(placecache.NewRepository(db), 0)

		point := spatial.Point{Lat: cacheNearbyOptions.Lat, Lng: cacheNearbyOptions.Lng}

		places, err := cache.Nearby(point, cacheNearbyOptions.Res)
		if err != nil {
			return fmt.Errorf("querying nearby places: %w", err)
		}

		data, err := json.MarshalIndent(places, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling nearby places: %w", err)
		}

		fmt.Println(string(data))

		return nil
	},
}

func init() {
	cacheNearbyCmd.Flags().Float64Var(&cacheNearbyOptions.Lat, "lat", 0, "latitude of the query point")
	cacheNearbyCmd.Flags().Float64Var(&cacheNearbyOptions.Lng, "lng", 0, "longitude of the query point")
	cacheNearbyCmd.Flags().IntVar(&cacheNearbyOptions.Res, "res", placecache.DefaultNearbyResolution,
		"H3 resolution (1-8), lower is a wider search")
	_ = cacheNearbyCmd.MarkFlagRequired("lat")
	_ = cacheNearbyCmd.MarkFlagRequired("lng")

	cacheCmd.AddCommand(cacheStoreCmd)
	cacheCmd.AddCommand(cacheLoadCmd)
	cacheCmd.AddCommand(cacheNearbyCmd)
	rootCmd.AddCommand(cacheCmd)
}
