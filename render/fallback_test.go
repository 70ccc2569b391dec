// Copyright 2026 The Wayfarer Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wayfarerhq/wayfarer/route"
)

func TestSchematic(t *testing.T) {
	tests := []struct {
		name         string
		places       []string
		refs         []route.PlaceReference
		wantItems    []SchematicItem
		wantDeepLink string
	}{
		{
			name:   "multi-stop sequence",
			places: []string{"San Francisco", "Monterey", "Los Angeles"},
			wantItems: []SchematicItem{
				{Label: "San Francisco", Kind: KindStart},
				{Label: "Monterey", Kind: KindStop},
				{Label: "Los Angeles", Kind: KindEnd},
			},
			wantDeepLink: "https://www.google.com/maps/dir/San%20Francisco/Monterey/Los%20Angeles",
		},
		{
			name:   "single place card",
			places: []string{"Monterey"},
			wantItems: []SchematicItem{
				{Label: "Monterey", Kind: KindSingle},
			},
			wantDeepLink: "https://www.google.com/maps/search/?api=1&query=Monterey",
		},
		{
			name: "no names falls back to the reference locator",
			refs: []route.PlaceReference{
				{Title: "Monterey Bay Aquarium", URL: "https://maps.example/aquarium"},
			},
			wantDeepLink: "https://maps.example/aquarium",
		},
		{
			name:   "long labels truncated with ellipsis",
			places: []string{"Carmel-by-the-Sea Mission Ranch", "Los Angeles"},
			wantItems: []SchematicItem{
				{Label: "Carmel-by-the-Sea…", Kind: KindStart},
				{Label: "Los Angeles", Kind: KindEnd},
			},
			wantDeepLink: "https://www.google.com/maps/dir/Carmel-by-the-Sea%20Mission%20Ranch/Los%20Angeles",
		},
		{
			name:         "nothing at all",
			wantDeepLink: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Schematic(tt.places, tt.refs)

			if diff := cmp.Diff(tt.wantItems, got.Items); diff != "" {
				t.Fatalf("items mismatch (-want +got):\n%s", diff)
			}

			if got.DeepLink != tt.wantDeepLink {
				t.Fatalf("deep link mismatch:\n want %q\n  got %q", tt.wantDeepLink, got.DeepLink)
			}
		})
	}
}

func TestDeepLinkEscaping(t *testing.T) {
	got := DeepLink([]string{"Fisherman's Wharf", "Haight/Ashbury"}, nil)

	want := "https://www.google.com/maps/dir/Fisherman's%20Wharf/Haight%2FAshbury"
	if got != want {
		t.Fatalf("deep link mismatch:\n want %q\n  got %q", want, got)
	}
}

func TestTruncateLabelRuneBoundary(t *testing.T) {
	// Exactly at the limit stays intact; one over gets the ellipsis.
	exact := "São Luís Obispo xx"
	if got := truncateLabel(exact); got != exact {
		t.Fatalf("18-rune label must not be truncated, got %q", got)
	}

	if got := truncateLabel(exact + "y"); got != "São Luís Obispo x…" {
		t.Fatalf("unexpected truncation %q", got)
	}
}
