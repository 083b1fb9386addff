package browse

import (
	"github.com/pders01/folio/internal/catalog"
)

// Status is the fetch status of the current result set.
type Status int

const (
	Idle Status = iota
	LoadingInitial
	LoadingMore
	Ready
	Error
	Exhausted
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case LoadingInitial:
		return "loading"
	case LoadingMore:
		return "loading more"
	case Ready:
		return "ready"
	case Error:
		return "error"
	case Exhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Loading reports whether a fetch is in flight.
func (s Status) Loading() bool {
	return s == LoadingInitial || s == LoadingMore
}

// Criteria identifies a query session. Any change starts a new one.
type Criteria struct {
	Term  string
	Genre string
}

// DefaultCriteria matches every book in every genre.
func DefaultCriteria() Criteria {
	return Criteria{Genre: catalog.AllGenres}
}

// Query renders the criteria as a catalog query string.
func (c Criteria) Query() string {
	return catalog.BuildQuery(c.Term, c.Genre)
}

// Tag identifies one issued fetch. Responses carry it back so that
// results for an outdated request can be recognised and dropped.
type Tag struct {
	Generation uint64
	Criteria   Criteria
	Offset     int
}

// FetchRequest asks the caller to fetch one page and report the outcome
// with PageLoaded or PageFailed carrying the same Tag.
type FetchRequest struct {
	Tag      Tag
	Query    string
	Offset   int
	PageSize int
}

// State is a snapshot of the browse session.
type State struct {
	Status   Status
	Criteria Criteria
	Results  []catalog.Book
	// Offset is the startIndex of the next page to request.
	Offset int
	// Total is the most recently reported catalog total.
	Total int
	Err   error
}

// ErrorMessage returns the failure description, or "" when not in Error.
func (s State) ErrorMessage() string {
	if s.Status != Error || s.Err == nil {
		return ""
	}
	return s.Err.Error()
}
