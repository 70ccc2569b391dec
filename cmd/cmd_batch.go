// Copyright 2026 The Wayfarer Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"runtime"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/wayfarerhq/wayfarer/extract"
	"github.com/wayfarerhq/wayfarer/route"
	"github.com/wayfarerhq/wayfarer/utils/textutils"
)

var batchOptions = struct {
	Output    string
	Reference string
	MaxProcs  int
}{}

// BatchMessage is one entry of a batch input file: an exported
// assistant message plus any structured references it carried.
type BatchMessage struct {
	ID        string                 `json:"id,omitempty"`
	Text      string                 `json:"text,omitempty"`
	HTML      string                 `json:"html,omitempty"`
	PlaceRefs []route.PlaceReference `json:"placeRefs,omitempty"`
}

// BatchResult pairs a message with its resolution.
type BatchResult struct {
	ID     string             `json:"id,omitempty"`
	Places []string           `json:"places"`
	Result *route.RouteResult `json:"result"`
}

var batchCmd = &cobra.Command{
	Use:   "batch <messages.json>",
	Short: "Re-resolve an export of assistant messages",
	Long: `Reads a JSON array of exported assistant messages, resolves each one
with bounded concurrency, and writes the results as JSON. Result order
matches input order.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading messages file: %w", err)
		}

		var messages []BatchMessage
		if err := json.Unmarshal(data, &messages); err != nil {
			return fmt.Errorf("parsing messages file: %w", err)
		}

		reference, err := referenceByName(batchOptions.Reference)
		if err != nil {
			return err
		}

		cache, closeCache, err := openCache()
		if err != nil {
			return err
		}
		defer closeCache()

		engine, err := buildEngine(cmd.Context(), cache)
		if err != nil {
			return err
		}

		n := len(messages)

		maxProcs := batchOptions.MaxProcs
		if maxProcs == 0 {
			maxProcs = runtime.NumCPU()
		}

		var bar *progressbar.ProgressBar
		if isatty.IsTerminal(os.Stderr.Fd()) {
			bar = progressbar.NewOptions(n,
				progressbar.OptionSetDescription("Resolving messages"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}

		var wg sync.WaitGroup

		semaphore := make(chan struct{}, maxProcs)
		results := make([]BatchResult, n)

		for i, msg := range messages {
			wg.Add(1)

			go func(i int, msg BatchMessage) {
				defer wg.Done()
				semaphore <- struct{}{}

				defer func() { <-semaphore }()

				results[i] = resolveBatchMessage(cmd, engine, reference, msg)

				if bar == nil {
					log.Printf("Resolved message %d/%d", i+1, n)
				} else if err := bar.Add(1); err != nil {
					log.Printf("updating progress bar: %s", err)
				}
			}(i, msg)
		}

		wg.Wait()

		if err := writeBatchResults(results); err != nil {
			return err
		}

		resolved := 0

		for _, r := range results {
			if r.Result.Tier != route.TierNone {
				resolved++
			}
		}

		fmt.Printf("✅ Resolved %s of %s messages\n",
			textutils.FormatInt(int64(resolved)),
			textutils.FormatInt(int64(n)))

		return nil
	},
}

func resolveBatchMessage(cmd *cobra.Command, engine *route.Engine, reference *extract.ReferenceRoute, msg BatchMessage) BatchResult {
	var list *extract.PlaceList

	if msg.HTML != "" {
		var err error

		list, err = extract.FromHTMLMessage(msg.HTML)
		if err != nil {
			log.Printf("parsing html for message %s: %s", msg.ID, err)

			list = extract.NewPlaceList()
		}
	} else {
		list = extract.FromMessage(msg.Text)
	}

	places := reference.Reorder(list).Names()

	return BatchResult{
		ID:     msg.ID,
		Places: places,
		Result: engine.Resolve(cmd.Context(), places, msg.PlaceRefs),
	}
}

func writeBatchResults(results []BatchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling results: %w", err)
	}

	if batchOptions.Output == "" || batchOptions.Output == "-" {
		_, err = os.Stdout.Write(append(data, '\n'))

		return err
	}

	if err := os.WriteFile(batchOptions.Output, data, 0o600); err != nil {
		return fmt.Errorf("writing results file: %w", err)
	}

	return nil
}

func init() {
	batchCmd.Flags().StringVarP(&batchOptions.Output, "output", "o", "-",
		"file to write results to, - for stdout")
	batchCmd.Flags().StringVar(&batchOptions.Reference, "reference", "",
		"canonical ordering to apply, e.g. pacific-coast-highway")
	batchCmd.Flags().IntVar(&batchOptions.MaxProcs, "max-procs", 0,
		"maximum concurrent resolutions, 0 for NumCPU")

	rootCmd.AddCommand(batchCmd)
}
