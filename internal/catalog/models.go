package catalog

import "strings"

// Placeholders used when a catalog record leaves a field out.
const (
	UnknownAuthor        = "Unknown Author"
	NotAvailable         = "N/A"
	NoDescription        = "No description available"
	PlaceholderThumbnail = "https://placehold.co/400x600?text=No+Image"
)

type Identifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

// Book is a catalog entry. It is never mutated after decoding.
type Book struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Authors       []string     `json:"authors,omitempty"`
	Description   string       `json:"description,omitempty"`
	Thumbnail     string       `json:"thumbnail,omitempty"`
	Identifiers   []Identifier `json:"identifiers,omitempty"`
	Categories    []string     `json:"categories,omitempty"`
	Publisher     string       `json:"publisher,omitempty"`
	PublishedDate string       `json:"published_date,omitempty"`
	PageCount     int          `json:"page_count,omitempty"`
	Language      string       `json:"language,omitempty"`
	AverageRating float64      `json:"average_rating,omitempty"`
	RatingsCount  int          `json:"ratings_count,omitempty"`
}

// AuthorLine joins the authors, or returns UnknownAuthor.
func (b Book) AuthorLine() string {
	var names []string
	for _, a := range b.Authors {
		if a = strings.TrimSpace(a); a != "" {
			names = append(names, a)
		}
	}
	if len(names) == 0 {
		return UnknownAuthor
	}
	return strings.Join(names, ", ")
}

// ISBN13 returns the ISBN-13 identifier, or NotAvailable.
func (b Book) ISBN13() string {
	for _, id := range b.Identifiers {
		if id.Type == "ISBN_13" && id.Identifier != "" {
			return id.Identifier
		}
	}
	return NotAvailable
}

// ThumbnailURL returns the thumbnail, or PlaceholderThumbnail.
func (b Book) ThumbnailURL() string {
	if b.Thumbnail == "" {
		return PlaceholderThumbnail
	}
	return b.Thumbnail
}

// DescriptionText returns the description, or NoDescription.
func (b Book) DescriptionText() string {
	if strings.TrimSpace(b.Description) == "" {
		return NoDescription
	}
	return b.Description
}

// ResultPage is one page of catalog results.
type ResultPage struct {
	Items []Book
	// NextOffset is the startIndex of the following page.
	NextOffset int
	// TotalItems is the catalog's estimate and may differ between calls.
	TotalItems int
	// Exhausted is set when offset+len(Items) reaches TotalItems.
	Exhausted bool
}

// Wire format of the volumes endpoint.
type volumesResponse struct {
	Kind       string   `json:"kind"`
	TotalItems int      `json:"totalItems"`
	Items      []volume `json:"items"`
}

type volume struct {
	ID         string `json:"id"`
	VolumeInfo struct {
		Title               string       `json:"title"`
		Authors             []string     `json:"authors"`
		Publisher           string       `json:"publisher"`
		PublishedDate       string       `json:"publishedDate"`
		Description         string       `json:"description"`
		IndustryIdentifiers []Identifier `json:"industryIdentifiers"`
		PageCount           int          `json:"pageCount"`
		Categories          []string     `json:"categories"`
		AverageRating       float64      `json:"averageRating"`
		RatingsCount        int          `json:"ratingsCount"`
		Language            string       `json:"language"`
		ImageLinks          struct {
			SmallThumbnail string `json:"smallThumbnail"`
			Thumbnail      string `json:"thumbnail"`
		} `json:"imageLinks"`
	} `json:"volumeInfo"`
}

func (v volume) toBook() Book {
	info := v.VolumeInfo
	thumb := info.ImageLinks.Thumbnail
	if thumb == "" {
		thumb = info.ImageLinks.SmallThumbnail
	}
	return Book{
		ID:            v.ID,
		Title:         strings.TrimSpace(info.Title),
		Authors:       info.Authors,
		Description:   info.Description,
		Thumbnail:     thumb,
		Identifiers:   info.IndustryIdentifiers,
		Categories:    info.Categories,
		Publisher:     info.Publisher,
		PublishedDate: info.PublishedDate,
		PageCount:     info.PageCount,
		Language:      info.Language,
		AverageRating: info.AverageRating,
		RatingsCount:  info.RatingsCount,
	}
}
