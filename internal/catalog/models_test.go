package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookDefaults(t *testing.T) {
	var b Book

	assert.Equal(t, UnknownAuthor, b.AuthorLine())
	assert.Equal(t, NotAvailable, b.ISBN13())
	assert.Equal(t, PlaceholderThumbnail, b.ThumbnailURL())
	assert.Equal(t, NoDescription, b.DescriptionText())
}

func TestBookAccessors(t *testing.T) {
	b := Book{
		Authors:     []string{"Frank Herbert", " ", "Brian Herbert"},
		Description: "Desert planet.",
		Thumbnail:   "http://books.google.com/thumb.jpg",
		Identifiers: []Identifier{
			{Type: "ISBN_10", Identifier: "0441013597"},
			{Type: "ISBN_13", Identifier: "9780441013593"},
		},
	}

	assert.Equal(t, "Frank Herbert, Brian Herbert", b.AuthorLine())
	assert.Equal(t, "9780441013593", b.ISBN13())
	assert.Equal(t, "http://books.google.com/thumb.jpg", b.ThumbnailURL())
	assert.Equal(t, "Desert planet.", b.DescriptionText())
}

func TestVolumeToBook(t *testing.T) {
	var v volume
	v.ID = "abc"
	v.VolumeInfo.Title = "  Dune "
	v.VolumeInfo.ImageLinks.SmallThumbnail = "small.jpg"
	v.VolumeInfo.PageCount = 412

	b := v.toBook()
	assert.Equal(t, "abc", b.ID)
	assert.Equal(t, "Dune", b.Title)
	assert.Equal(t, "small.jpg", b.Thumbnail, "falls back to the small thumbnail")
	assert.Equal(t, 412, b.PageCount)
	assert.Empty(t, b.Authors)
}
