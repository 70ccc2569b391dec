// Copyright 2026 The Wayfarer Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wayfarerhq/wayfarer/placecache"
	"github.com/wayfarerhq/wayfarer/server"
)

var serveOptions = struct {
	Addr string
}{}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the resolution HTTP server (local only)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := openDatabase(false)
		if err != nil {
			return err
		}
		defer db.Close()

		repo := placecache.NewRepository(db)
		if err := repo.CreateSchema(); err != nil {
			return fmt.Errorf("creating place cache schema: %w", err)
		}

		cache := placecache.New(repo, 0)

		engine, err := buildEngine(cmd.Context(), cache)
		if err != nil {
			return err
		}

		srv := server.NewServer(engine, cache, serveOptions.Addr)

		fmt.Printf("🗺️  Route resolution server starting on %s\n", serveOptions.Addr)
		fmt.Println("🔒 Local only - not exposed to internet")

		return srv.Run()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveOptions.Addr, "addr", "localhost:8080",
		"address to listen on")

	rootCmd.AddCommand(serveCmd)
}
