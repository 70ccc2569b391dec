// Copyright 2026 The Wayfarer Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"net/url"
	"strings"

	"github.com/samber/lo"

	"github.com/wayfarerhq/wayfarer/route"
)

const (
	googleMapsDirBase    = "https://www.google.com/maps/dir/"
	googleMapsSearchBase = "https://www.google.com/maps/search/?api=1&query="

	maxLabelRunes = 18
)

// ItemKind marks an item's place in the schematic sequence.
type ItemKind string

const (
	// KindStart is the first item of a multi-stop schematic.
	KindStart ItemKind = "start"
	// KindStop is an item between start and end.
	KindStop ItemKind = "stop"
	// KindEnd is the last item of a multi-stop schematic.
	KindEnd ItemKind = "end"
	// KindSingle is the only item of a single-place card.
	KindSingle ItemKind = "single"
)

// SchematicItem is one labeled entry of the fallback view.
type SchematicItem struct {
	Label string   `json:"label"`
	Kind  ItemKind `json:"kind"`
}

// SchematicView is the non-geographic rendering used when no tier
// resolved. DeepLink always points at the external routing product so
// the user is never left with nothing actionable.
type SchematicView struct {
	Items    []SchematicItem `json:"items,omitempty"`
	DeepLink string          `json:"deepLink,omitempty"`
}

// Schematic builds the fallback view from the ordered place list and
// the structured references that accompanied the message.
func Schematic(places []string, refs []route.PlaceReference) *SchematicView {
	view := &SchematicView{DeepLink: DeepLink(places, refs)}

	switch {
	case len(places) >= 2:
		view.Items = lo.Map(places, func(place string, i int) SchematicItem {
			kind := KindStop
			if i == 0 {
				kind = KindStart
			} else if i == len(places)-1 {
				kind = KindEnd
			}

			return SchematicItem{Label: truncateLabel(place), Kind: kind}
		})
	case len(places) == 1:
		view.Items = []SchematicItem{
			{Label: truncateLabel(places[0]), Kind: KindSingle},
		}
	}

	return view
}

// DeepLink builds a link into the external routing product: a
// directions URL for multiple places, a search URL for one, or the
// first structured reference's own locator when no names exist.
func DeepLink(places []string, refs []route.PlaceReference) string {
	switch {
	case len(places) >= 2:
		segments := lo.Map(places, func(place string, _ int) string {
			return url.PathEscape(place)
		})

		return googleMapsDirBase + strings.Join(segments, "/")
	case len(places) == 1:
		return googleMapsSearchBase + url.QueryEscape(places[0])
	}

	for _, ref := range refs {
		if ref.URL != "" {
			return ref.URL
		}
	}

	return ""
}

// truncateLabel caps a display label at maxLabelRunes, ellipsis
// included.
func truncateLabel(label string) string {
	runes := []rune(label)
	if len(runes) <= maxLabelRunes {
		return label
	}

	return string(runes[:maxLabelRunes-1]) + "…"
}
