// Copyright 2026 The Wayfarer Authors
//
// SPDX-License-Identifier: Apache-2.0
package spatial

import (
	"fmt"

	"github.com/uber/h3-go/v4"
)

const (
	// MinCellResolution and MaxCellResolution bound the H3 resolutions
	// the place cache indexes.
	MinCellResolution = 1
	MaxCellResolution = 8

	// StopCellResolution is the resolution stops are tagged at. Res 8
	// cells are a few hundred meters across, fine enough to tell two
	// stops in the same city apart.
	StopCellResolution = 8
)

// CellID returns the H3 cell containing p at the given resolution.
func CellID(p Point, res int) (uint64, error) {
	if res < MinCellResolution || res > MaxCellResolution {
		return 0, fmt.Errorf("h3 resolution %d out of range [%d,%d]",
			res, MinCellResolution, MaxCellResolution)
	}

	cell, err := h3.LatLngToCell(h3.NewLatLng(p.Lat, p.Lng), res)
	if err != nil {
		return 0, fmt.Errorf("error converting to h3 cell at res %d: %w", res, err)
	}

	return uint64(cell), nil
}

// CellToken returns the canonical hex form of the cell containing p at
// StopCellResolution, or empty when the point cannot be indexed.
func CellToken(p Point) string {
	cell, err := h3.LatLngToCell(h3.NewLatLng(p.Lat, p.Lng), StopCellResolution)
	if err != nil {
		return ""
	}

	return cell.String()
}
