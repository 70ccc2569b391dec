// Copyright 2026 The Wayfarer Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/wayfarerhq/wayfarer/extract"
	"github.com/wayfarerhq/wayfarer/placecache"
	"github.com/wayfarerhq/wayfarer/render"
	"github.com/wayfarerhq/wayfarer/route"
)

var resolveOptions = struct {
	HTML      bool
	Reference string
	NoCache   bool
}{}

// resolveOutput is what the one-shot command prints: the extracted
// list, the resolution, and whichever view applies.
type resolveOutput struct {
	Places   []string              `json:"places"`
	Result   *route.RouteResult    `json:"result"`
	Map      *render.MapView       `json:"map,omitempty"`
	Fallback *render.SchematicView `json:"fallback,omitempty"`
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [file]",
	Short: "Resolve one assistant message into a route",
	Long: `Reads an assistant message from a file (or stdin), extracts the place
names, resolves them into a route, and prints the result as JSON.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readMessage(args)
		if err != nil {
			return err
		}

		var list *extract.PlaceList

		if resolveOptions.HTML {
			list, err = extract.FromHTMLMessage(text)
			if err != nil {
				return fmt.Errorf("parsing html message: %w", err)
			}
		} else {
			list = extract.FromMessage(text)
		}

		reference, err := referenceByName(resolveOptions.Reference)
		if err != nil {
			return err
		}

		places := reference.Reorder(list).Names()

		cache, closeCache, err := openCache()
		if err != nil {
			return err
		}
		defer closeCache()

		engine, err := buildEngine(cmd.Context(), cache)
		if err != nil {
			return err
		}

		result := engine.Resolve(cmd.Context(), places, nil)

		output := resolveOutput{Places: places, Result: result}

		mapView, err := render.AssembleMap(result)
		if err != nil {
			output.Fallback = render.Schematic(places, nil)
		} else {
			output.Map = mapView
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(output)
	},
}

func readMessage(args []string) (string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}

		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading message file: %w", err)
	}

	return string(data), nil
}

// referenceByName maps the --reference flag to a built-in canonical
// ordering. Empty means no reordering.
func referenceByName(name string) (*extract.ReferenceRoute, error) {
	switch name {
	case "":
		return nil, nil
	case "pacific-coast-highway":
		return extract.PacificCoastHighway, nil
	default:
		return nil, fmt.Errorf("unknown reference route: %s", name)
	}
}

// openCache opens the durable place cache when the database exists,
// falling back to memory-only otherwise.
func openCache() (*placecache.Cache, func(), error) {
	if resolveOptions.NoCache {
		return placecache.New(nil, 0), func() {}, nil
	}

	db, err := openDatabase(false)
	if err != nil {
		return nil, nil, err
	}

	repo := placecache.NewRepository(db)
	if err := repo.CreateSchema(); err != nil {
		db.Close()

		return nil, nil, fmt.Errorf("creating place cache schema: %w", err)
	}

	return placecache.New(repo, 0), func() { db.Close() }, nil
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveOptions.HTML, "html", false,
		"treat the input as rendered HTML instead of markdown text")
	resolveCmd.Flags().StringVar(&resolveOptions.Reference, "reference", "",
		"canonical ordering to apply, e.g. pacific-coast-highway")
	resolveCmd.Flags().BoolVar(&resolveOptions.NoCache, "no-cache", false,
		"skip the durable place cache")

	rootCmd.AddCommand(resolveCmd)
}
