// Copyright 2026 The Wayfarer Authors
// SPDX-License-Identifier: Apache-2.0

// Package extract mines candidate place names out of assistant message
// text. The patterns target the two shapes assistants reliably produce
// when describing an itinerary: enumerated emphasized items and
// emphasized lead-ins followed by a colon.
package extract

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/wayfarerhq/wayfarer/utils/htmlutils"
	"github.com/wayfarerhq/wayfarer/utils/textutils"
)

var (
	// "3. **Big Sur:** dramatic cliffs"
	enumeratedRule = regexp.MustCompile(`(?m)^\s*\d+\.\s+\*\*([^*\n]+?)\*\*`)
	// "**Monterey:** famous aquarium" (not necessarily enumerated)
	emphasisColonRule = regexp.MustCompile(`\*\*([^*\n]+?)\s*:\s*\*\*`)

	// bare "lat, lng" pairs are coordinates the assistant echoed, not names
	coordinatePair = regexp.MustCompile(`^-?\d+(?:\.\d+)?\s*,\s*-?\d+(?:\.\d+)?$`)
)

// Descriptive keywords the assistant uses to talk about the route itself.
// A candidate equal to one of these, or containing one as a standalone
// token, is not a place name.
var stopWords = []string{
	"route",
	"scenic stops",
	"scenic stop",
	"stops",
	"stop",
	"waypoint",
	"destination",
	"origin",
	"start",
	"end",
	"directions",
	"map",
	"location",
	"place",
	"places",
}

// PlaceList is an ordered sequence of unique place names. Insertion order
// encodes presumed travel order; identity is the accent-folded lowercase
// text, so a later duplicate never reorders an earlier entry.
type PlaceList struct {
	names []string
	seen  map[string]struct{}
}

// NewPlaceList creates an empty PlaceList.
func NewPlaceList(names ...string) *PlaceList {
	l := &PlaceList{seen: make(map[string]struct{})}
	for _, name := range names {
		l.Add(name)
	}

	return l
}

// Add appends a name unless its normalized identity is already present.
// It reports whether the name was inserted.
func (l *PlaceList) Add(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}

	key := textutils.LowerASCIIFolding(name)
	if _, ok := l.seen[key]; ok {
		return false
	}

	l.seen[key] = struct{}{}
	l.names = append(l.names, name)

	return true
}

// Contains reports whether a name is present by normalized identity.
func (l *PlaceList) Contains(name string) bool {
	_, ok := l.seen[textutils.LowerASCIIFolding(name)]

	return ok
}

// Names returns the places in insertion order.
func (l *PlaceList) Names() []string {
	return l.names
}

// Len returns the number of places.
func (l *PlaceList) Len() int {
	return len(l.names)
}

// rawCandidate is a span pulled from text by a pattern rule. It only
// lives long enough to survive (or not) the validity filter.
type rawCandidate struct {
	span string
	pos  int
}

// FromMessage extracts an ordered place list from an assistant message.
// Pure function of the text: both pattern rules run over the whole
// input, candidates are validated, and survivors are kept in order of
// first appearance.
func FromMessage(text string) *PlaceList {
	candidates := make([]rawCandidate, 0, 8)

	for _, rule := range []*regexp.Regexp{enumeratedRule, emphasisColonRule} {
		for _, m := range rule.FindAllStringSubmatchIndex(text, -1) {
			span := strings.TrimRight(text[m[2]:m[3]], ":;")
			candidates = append(candidates, rawCandidate{span: span, pos: m[2]})
		}
	}

	// Both rules can fire on the same logical item; position order makes
	// "first occurrence wins" well defined across rules.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].pos < candidates[j].pos
	})

	list := NewPlaceList()

	for _, c := range candidates {
		if IsValidPlaceName(c.span) {
			list.Add(c.span)
		}
	}

	return list
}

// FromHTMLMessage extracts places from a message that a chat surface has
// already rendered to HTML. The markup is flattened back to
// markdown-shaped text so the same pattern rules apply.
func FromHTMLMessage(fragment string) (*PlaceList, error) {
	text, err := htmlutils.Flatten(fragment)
	if err != nil {
		return nil, err
	}

	return FromMessage(text), nil
}

// IsValidPlaceName applies the validity filter: minimum length, the
// descriptive stop-word set, and bare coordinate pairs.
func IsValidPlaceName(candidate string) bool {
	normalized := textutils.LowerASCIIFolding(candidate)
	if len([]rune(normalized)) < 2 {
		return false
	}

	if coordinatePair.MatchString(normalized) {
		return false
	}

	for _, word := range stopWords {
		if normalized == word || containsStandalone(normalized, word) {
			return false
		}
	}

	return true
}

// containsStandalone reports whether phrase appears in s as a contiguous
// run of whole tokens.
func containsStandalone(s, phrase string) bool {
	want := strings.Fields(phrase)
	if len(want) == 1 {
		return textutils.ContainsToken(s, want[0])
	}

	have := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	for i := 0; i+len(want) <= len(have); i++ {
		match := true

		for j, w := range want {
			if have[i+j] != w {
				match = false

				break
			}
		}

		if match {
			return true
		}
	}

	return false
}
