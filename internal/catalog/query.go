package catalog

import "strings"

// AllGenres is the genre selector value that applies no subject filter.
const AllGenres = "All Genres"

// MatchAll is sent when neither a title term nor a genre is set.
const MatchAll = "*"

// Genres lists the selectable genres, AllGenres first.
var Genres = []string{
	AllGenres,
	"Adventure",
	"Art",
	"Biography",
	"Business",
	"Crime",
	"Drama",
	"Fantasy",
	"Fiction",
	"Historical Fiction",
	"Horror",
	"Mystery",
	"Philosophy",
	"Poetry",
	"Psychology",
	"Romance",
	"Science",
	"Science Fiction",
	"Self-Help",
	"Technology",
	"Thriller",
}

// IsGenre reports whether g is one of Genres.
func IsGenre(g string) bool {
	for _, known := range Genres {
		if known == g {
			return true
		}
	}
	return false
}

// BuildQuery composes the fielded catalog query for a title term and genre.
//
//	BuildQuery("dune", "Science Fiction") == "intitle:dune+subject:science fiction"
//	BuildQuery("", AllGenres)             == "*"
func BuildQuery(term, genre string) string {
	var clauses []string
	if t := strings.TrimSpace(term); t != "" {
		clauses = append(clauses, "intitle:"+t)
	}
	if genre != "" && genre != AllGenres {
		clauses = append(clauses, "subject:"+strings.ToLower(genre))
	}
	if len(clauses) == 0 {
		return MatchAll
	}
	return strings.Join(clauses, "+")
}
