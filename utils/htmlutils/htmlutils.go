// Copyright 2026 The Wayfarer Authors
// SPDX-License-Identifier: Apache-2.0

// Package htmlutils converts rendered chat markup back into the
// markdown-shaped text the extraction patterns operate on.
package htmlutils

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Flatten parses an HTML fragment and rewrites it as plain text with
// markdown-style emphasis: <strong>/<b> spans become **span**, and <li>
// items become enumerated "N. …" lines. Chat surfaces render assistant
// markdown to HTML before persisting it, so extraction must accept both
// shapes and see the same text.
func Flatten(fragment string) (string, error) {
	node, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("parsing message markup: %w", err)
	}

	sb := strings.Builder{}
	itemNo := 0
	flattenNode(node, &sb, &itemNo)

	return strings.TrimSpace(sb.String()), nil
}

func flattenNode(n *html.Node, sb *strings.Builder, itemNo *int) {
	if n.Type == html.TextNode {
		writeSpaced(sb, n.Data)

		return
	}

	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "strong", "b":
			text := strings.Builder{}
			collectText(n, &text)

			if span := strings.TrimSpace(text.String()); span != "" {
				writeSpaced(sb, "**"+span+"**")
			}

			return
		case "li":
			*itemNo++

			sb.WriteString("\n")
			sb.WriteString(fmt.Sprintf("%d. ", *itemNo))
		case "ol", "ul":
			*itemNo = 0
		case "p", "br", "div":
			sb.WriteString("\n")
		}
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		flattenNode(child, sb, itemNo)
	}
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		writeSpaced(sb, n.Data)
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, sb)
	}
}

// trailing whitespace so enumerated prefixes stay glued to their line.
func writeSpaced(sb *strings.Builder, s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}

	if sb.Len() > 0 {
		last := sb.String()[sb.Len()-1]
		if last != '\n' && last != ' ' {
			sb.WriteByte(' ')
		}
	}

	sb.WriteString(s)
}
