package tui

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// truncateEnd shortens s to at most limit characters, appending an ellipsis
// if truncation occurs. Handles negative or tiny limits gracefully.
func truncateEnd(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 1 {
		return "…"
	}
	return string(r[:limit-1]) + "…"
}

// truncateMiddle shortens s to at most limit characters by preserving the
// start and end of the string with a single ellipsis in the middle.
// Useful for URLs where both ends carry meaning.
func truncateMiddle(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	n := len(r)
	if n <= limit {
		return s
	}
	if limit <= 1 {
		return "…"
	}
	keep := limit - 1
	left := keep / 2
	right := keep - left
	if left <= 0 {
		return "…" + string(r[n-right:])
	}
	return string(r[:left]) + "…" + string(r[n-right:])
}

var plainText = bluemonday.StrictPolicy()

// plainDescription turns the catalog's HTML-flavoured description into
// single-spaced text. Paragraph and line breaks become blank lines.
func plainDescription(s string) string {
	for _, tag := range []string{"<br>", "<br/>", "<br />", "</p>"} {
		s = strings.ReplaceAll(s, tag, "\n\n")
	}
	s = html.UnescapeString(plainText.Sanitize(s))

	var paragraphs []string
	for _, p := range strings.Split(s, "\n\n") {
		if p = strings.Join(strings.Fields(p), " "); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return strings.Join(paragraphs, "\n\n")
}

// sanitizeSearchInput trims, limits and collapses whitespace in a search term.
func sanitizeSearchInput(input string) string {
	input = strings.Join(strings.Fields(input), " ")
	if r := []rune(input); len(r) > 256 {
		input = strings.TrimSpace(string(r[:256]))
	}
	return input
}
