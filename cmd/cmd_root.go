// Copyright 2026 The Wayfarer Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})
}

var rootCmd = &cobra.Command{
	Use:   "wayfarer",
	Short: "place extraction and route resolution for trip-planning chats",
	Long: `
wayfarer mines place names out of assistant itinerary messages, resolves
them into routes through the Google Maps APIs, and produces the map or
fallback views a trip-planning surface renders.
`,
}

var rootOptions = struct {
	DbPath      string
	VerboseHTTP bool
}{}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootOptions.DbPath, "db-path", "db",
		"directory holding the place cache database")
	rootCmd.PersistentFlags().BoolVar(&rootOptions.VerboseHTTP, "verbose-http", false,
		"dump provider HTTP traffic to stderr")
}

var Version = "dev"

func Execute(version string) {
	Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
