package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pders01/folio/internal/catalog"
)

func TestDetailMarkdown(t *testing.T) {
	book := catalog.Book{
		ID:            "d1",
		Title:         "Dune",
		Authors:       []string{"Frank Herbert"},
		Description:   "<p>Set on the desert planet <b>Arrakis</b>.</p><p>A classic.</p>",
		Identifiers:   []catalog.Identifier{{Type: "ISBN_10", Identifier: "0441013597"}, {Type: "ISBN_13", Identifier: "9780441013593"}},
		Publisher:     "Ace",
		PublishedDate: "2005-08-02",
		PageCount:     528,
		Categories:    []string{"Fiction"},
		AverageRating: 4.5,
		RatingsCount:  120,
		Thumbnail:     "https://books.test/dune.jpg",
	}
	opts := detailOptions{toggleKey: "ctrl+t", buyKey: "ctrl+b", store: "Amazon"}

	md := detailMarkdown(book, opts)
	assert.True(t, strings.HasPrefix(md, "# Dune\n"))
	assert.Contains(t, md, "**Authors:** Frank Herbert")
	assert.Contains(t, md, "**ISBN-13:** 9780441013593")
	assert.Contains(t, md, "**Published:** Ace (2005-08-02)")
	assert.Contains(t, md, "**Pages:** 528")
	assert.Contains(t, md, "**Rating:** 4.5/5 (120 ratings)")
	assert.Contains(t, md, "**Cover:** https://books.test/dune.jpg")
	assert.Contains(t, md, "Set on the desert planet Arrakis.\n\nA classic.")
	assert.NotContains(t, md, "<b>")
	assert.Contains(t, md, "Not in your wishlist • ctrl+t: add")

	opts.wished = true
	md = detailMarkdown(book, opts)
	assert.Contains(t, md, "In your wishlist** • ctrl+t: remove • ctrl+b: buy on Amazon")
}

func TestDetailMarkdownPlaceholders(t *testing.T) {
	md := detailMarkdown(catalog.Book{ID: "x"}, detailOptions{toggleKey: "ctrl+t"})

	assert.Contains(t, md, "# Untitled")
	assert.Contains(t, md, "**Authors:** "+catalog.UnknownAuthor)
	assert.Contains(t, md, "**ISBN-13:** "+catalog.NotAvailable)
	assert.Contains(t, md, catalog.NoDescription)
	assert.Contains(t, md, catalog.PlaceholderThumbnail)
	assert.NotContains(t, md, "**Pages:**")
	assert.NotContains(t, md, "**Published:**")
}

func TestDetailMarkdownTruncatesDescription(t *testing.T) {
	book := catalog.Book{ID: "x", Title: "Long", Description: strings.Repeat("word ", 100)}
	md := detailMarkdown(book, detailOptions{maxDesc: 20})
	assert.Contains(t, md, "word word word word…")
}

func TestPlainDescription(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "A  tale\tof two cities", want: "A tale of two cities"},
		{name: "tags", in: "<i>Emma</i> by <b>Austen</b>", want: "Emma by Austen"},
		{name: "paragraphs", in: "<p>One.</p><p>Two.</p>", want: "One.\n\nTwo."},
		{name: "line breaks", in: "One.<br>Two.", want: "One.\n\nTwo."},
		{name: "entities", in: "Cats &amp; Dogs", want: "Cats & Dogs"},
		{name: "script removed", in: "Safe<script>alert(1)</script>", want: "Safe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, plainDescription(tt.in))
		})
	}
}

func TestSanitizeSearchInput(t *testing.T) {
	assert.Equal(t, "the hobbit", sanitizeSearchInput("  the \t hobbit\n"))
	assert.Equal(t, "", sanitizeSearchInput("   "))
	assert.Len(t, []rune(sanitizeSearchInput(strings.Repeat("é", 300))), 256)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "", truncateEnd("abc", 0))
	assert.Equal(t, "abc", truncateEnd("abc", 3))
	assert.Equal(t, "ab…", truncateEnd("abcd", 3))
	assert.Equal(t, "https…/dune", truncateMiddle("https://books.test/dune", 11))
	assert.Equal(t, "…", truncateMiddle("abcdef", 1))
}

func TestPublishedYear(t *testing.T) {
	assert.Equal(t, "2005", publishedYear("2005-08-02"))
	assert.Equal(t, "199", publishedYear("199"))
	assert.Equal(t, "", publishedYear(""))
}
