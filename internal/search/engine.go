package search

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/pders01/folio/internal/catalog"
)

// Result represents a search match with relevance scoring
type Result struct {
	Book    catalog.Book
	Score   float64
	Matches []Match
}

// Match represents where text was found
type Match struct {
	Field  string // "title", "authors", "categories", "description"
	Text   string // matched text snippet
	Weight float64
}

// Engine scores books in memory without an index
type Engine struct {
	source Source
}

// NewEngine creates a new search engine
func NewEngine(source Source) *Engine {
	return &Engine{source: source}
}

// Search scores every book in the source against query. A limit of zero
// or less returns all matches.
func (e *Engine) Search(query string, limit int) ([]*Result, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []*Result{}, nil
	}

	terms := tokenize(query)
	if len(terms) == 0 {
		return []*Result{}, nil
	}

	var results []*Result
	for _, book := range e.source.Items() {
		if result := e.searchBook(book, terms); result != nil {
			results = append(results, result)
		}
	}

	// Highest score first, wishlist order among equals
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	if results == nil {
		results = []*Result{}
	}
	return results, nil
}

func (e *Engine) searchBook(book catalog.Book, terms []string) *Result {
	var matches []Match
	var totalScore float64

	fields := []struct {
		name   string
		text   string
		weight float64
	}{
		{"title", book.Title, 4.0},
		{"authors", strings.Join(book.Authors, ", "), 3.0},
		{"categories", strings.Join(book.Categories, ", "), 1.5},
		{"description", book.Description, 1.0},
	}

	for _, f := range fields {
		score := e.scoreField(f.text, terms, f.weight)
		if score <= 0 {
			continue
		}
		text := f.text
		if f.name == "description" {
			text = e.findBestSnippet(f.text, terms, 150)
		}
		matches = append(matches, Match{Field: f.name, Text: text, Weight: score})
		totalScore += score
	}

	if totalScore > 0 {
		return &Result{
			Book:    book,
			Score:   totalScore,
			Matches: matches,
		}
	}
	return nil
}

// scoreField calculates relevance score for a field
func (e *Engine) scoreField(text string, terms []string, weight float64) float64 {
	if text == "" {
		return 0
	}

	lower := strings.ToLower(text)
	words := tokenize(text)
	if len(words) == 0 {
		return 0
	}

	var score float64
	matchedTerms := 0

	for _, term := range terms {
		// Phrase match
		if strings.Contains(lower, term) {
			score += 2.0
			matchedTerms++
		}

		for _, word := range words {
			switch {
			case word == term:
				score += 1.5
				matchedTerms++
			case strings.HasPrefix(word, term) || strings.HasSuffix(word, term):
				score += 1.0
				matchedTerms++
			case strings.Contains(word, term):
				score += 0.5
				matchedTerms++
			}
		}
	}

	if len(terms) > 1 && matchedTerms > 1 {
		score *= 1.0 + float64(matchedTerms)/float64(len(terms))
	}

	tf := float64(matchedTerms) / float64(len(words))
	score *= 1.0 + math.Log(1.0+tf)

	return score * weight
}

// findBestSnippet finds the most relevant text snippet containing search terms
func (e *Engine) findBestSnippet(text string, terms []string, maxLength int) string {
	if text == "" {
		return ""
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	windowSize := maxLength / 8 // approximate words per snippet
	if windowSize == 0 || windowSize >= len(words) {
		return truncate(text, maxLength)
	}

	bestScore := 0.0
	bestStart := 0
	for i := 0; i <= len(words)-windowSize; i++ {
		window := strings.ToLower(strings.Join(words[i:i+windowSize], " "))
		score := 0.0
		for _, term := range terms {
			if strings.Contains(window, term) {
				score += 1.0
			}
		}
		if score > bestScore {
			bestScore = score
			bestStart = i
		}
	}

	snippet := strings.Join(words[bestStart:bestStart+windowSize], " ")
	return truncate(snippet, maxLength)
}

// tokenize breaks text into lower-cased terms, skipping single characters
func tokenize(text string) []string {
	var terms []string
	var current strings.Builder
	n := 0

	flush := func() {
		if n > 1 {
			terms = append(terms, current.String())
		}
		current.Reset()
		n = 0
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(unicode.ToLower(r))
			n++
		} else if n > 0 {
			flush()
		}
	}
	flush()

	return terms
}

// truncate limits text to maxLen runes, ellipsis included
func truncate(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen <= 1 {
		return "…"
	}
	return string(runes[:maxLen-1]) + "…"
}
