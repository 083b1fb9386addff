package browse

import "github.com/pders01/folio/internal/catalog"

// Event is an input to Machine.Apply.
type Event interface {
	isEvent()
}

// CriteriaChanged discards the current result set and starts over.
type CriteriaChanged struct {
	Criteria Criteria
}

// LoadMore requests the next page.
type LoadMore struct{}

// PageLoaded reports a successful fetch.
type PageLoaded struct {
	Tag  Tag
	Page *catalog.ResultPage
}

// PageFailed reports a failed fetch.
type PageFailed struct {
	Tag Tag
	Err error
}

// Retry re-issues the request that put the machine into Error.
type Retry struct{}

func (CriteriaChanged) isEvent() {}
func (LoadMore) isEvent()        {}
func (PageLoaded) isEvent()      {}
func (PageFailed) isEvent()      {}
func (Retry) isEvent()           {}
