// Copyright 2026 The Wayfarer Authors
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"github.com/wayfarerhq/wayfarer/utils/textutils"
)

// ReferenceRoute is a well-known itinerary used to normalize the
// narrative order of extracted names. Aliases map a short form to the
// stop it stands for (both sides normalized at match time).
type ReferenceRoute struct {
	Name    string
	Stops   []string
	Aliases map[string]string
}

// PacificCoastHighway is the reference corridor shipped as the default
// for coastal California itineraries.
var PacificCoastHighway = &ReferenceRoute{
	Name: "Pacific Coast Highway",
	Stops: []string{
		"San Francisco",
		"Half Moon Bay",
		"Santa Cruz",
		"Monterey",
		"Carmel-by-the-Sea",
		"Big Sur",
		"San Simeon",
		"Morro Bay",
		"San Luis Obispo",
		"Santa Barbara",
		"Malibu",
		"Santa Monica",
		"Los Angeles",
	},
	Aliases: map[string]string{
		"SF":            "San Francisco",
		"LA":            "Los Angeles",
		"SLO":           "San Luis Obispo",
		"Carmel":        "Carmel-by-the-Sea",
		"Hearst Castle": "San Simeon",
	},
}

// Reorder returns a place list sorted to the reference's stop order.
// Names the reference knows (directly or through an alias) come first in
// reference order; everything else keeps its original relative order at
// the tail. A nil or empty reference is the identity.
func (r *ReferenceRoute) Reorder(list *PlaceList) *PlaceList {
	if r == nil || len(r.Stops) == 0 || list == nil {
		return list
	}

	aliases := make(map[string]string, len(r.Aliases))
	for short, full := range r.Aliases {
		aliases[textutils.LowerASCIIFolding(short)] = textutils.LowerASCIIFolding(full)
	}

	names := list.Names()
	consumed := make([]bool, len(names))
	out := NewPlaceList()

	for _, stop := range r.Stops {
		stopKey := textutils.LowerASCIIFolding(stop)

		for i, name := range names {
			if consumed[i] {
				continue
			}

			nameKey := textutils.LowerASCIIFolding(name)
			if nameKey == stopKey || aliases[nameKey] == stopKey {
				out.Add(name)
				consumed[i] = true

				break
			}
		}
	}

	for i, name := range names {
		if !consumed[i] {
			out.Add(name)
		}
	}

	return out
}
