package browse

import (
	"errors"

	"github.com/pders01/folio/internal/catalog"
	"github.com/pders01/folio/internal/debuglog"
)

// DefaultPageSize is the number of books requested per page.
const DefaultPageSize = 12

// Machine owns the browse State. It performs no I/O: every transition
// that needs a page returns a FetchRequest for the caller to run.
type Machine struct {
	pageSize   int
	state      State
	generation uint64
	inFlight   *Tag
	failed     *Tag
	seen       map[string]struct{}
	log        *debuglog.FieldLogger
}

// NewMachine returns an Idle machine. A non-positive pageSize uses DefaultPageSize.
func NewMachine(pageSize int) *Machine {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Machine{
		pageSize: pageSize,
		state:    State{Status: Idle, Criteria: DefaultCriteria()},
		seen:     make(map[string]struct{}),
		log:      debuglog.For("browse"),
	}
}

// State returns the current snapshot. Results must not be modified.
func (m *Machine) State() State {
	return m.state
}

// PageSize returns the number of books requested per fetch.
func (m *Machine) PageSize() int {
	return m.pageSize
}

// InFlight returns the tag of the outstanding request, if any.
func (m *Machine) InFlight() (Tag, bool) {
	if m.inFlight == nil {
		return Tag{}, false
	}
	return *m.inFlight, true
}

// Apply runs one transition. The returned request is non-nil when the
// transition needs a page fetched.
func (m *Machine) Apply(ev Event) *FetchRequest {
	switch e := ev.(type) {
	case CriteriaChanged:
		return m.reset(e.Criteria)
	case LoadMore:
		return m.loadMore()
	case PageLoaded:
		m.pageLoaded(e)
	case PageFailed:
		m.pageFailed(e)
	case Retry:
		return m.retry()
	}
	return nil
}

func (m *Machine) reset(c Criteria) *FetchRequest {
	m.state = State{Status: LoadingInitial, Criteria: c}
	m.seen = make(map[string]struct{})
	m.failed = nil
	m.log.With("query", c.Query()).Debugf("criteria changed")
	return m.issue(0)
}

func (m *Machine) loadMore() *FetchRequest {
	if m.state.Status != Ready {
		return nil
	}
	m.state.Status = LoadingMore
	return m.issue(m.state.Offset)
}

func (m *Machine) retry() *FetchRequest {
	if m.state.Status != Error || m.failed == nil {
		return nil
	}
	offset := m.failed.Offset
	m.failed = nil
	m.state.Err = nil
	if offset == 0 {
		m.state.Status = LoadingInitial
	} else {
		m.state.Status = LoadingMore
	}
	m.log.With("offset", offset).Infof("retrying")
	return m.issue(offset)
}

func (m *Machine) issue(offset int) *FetchRequest {
	m.generation++
	tag := Tag{Generation: m.generation, Criteria: m.state.Criteria, Offset: offset}
	m.inFlight = &tag
	return &FetchRequest{
		Tag:      tag,
		Query:    tag.Criteria.Query(),
		Offset:   offset,
		PageSize: m.pageSize,
	}
}

func (m *Machine) current(tag Tag) bool {
	return m.inFlight != nil && *m.inFlight == tag
}

func (m *Machine) pageLoaded(e PageLoaded) {
	if !m.current(e.Tag) {
		m.log.With("generation", e.Tag.Generation).Debugf("dropping stale page")
		return
	}
	m.inFlight = nil

	var items []catalog.Book
	if e.Page != nil {
		items = e.Page.Items
		m.state.Total = e.Page.TotalItems
	}

	if m.state.Status == LoadingInitial {
		m.state.Results = nil
		m.seen = make(map[string]struct{})
		m.state.Offset = m.pageSize
	} else {
		m.state.Offset += m.pageSize
	}
	m.appendUnique(items)

	if len(m.state.Results) >= m.state.Total {
		m.state.Status = Exhausted
	} else {
		m.state.Status = Ready
	}
	m.log.With("offset", m.state.Offset).Debugf("page applied, %d of %d", len(m.state.Results), m.state.Total)
}

func (m *Machine) appendUnique(items []catalog.Book) {
	for _, b := range items {
		if _, dup := m.seen[b.ID]; dup {
			continue
		}
		m.seen[b.ID] = struct{}{}
		m.state.Results = append(m.state.Results, b)
	}
}

func (m *Machine) pageFailed(e PageFailed) {
	if !m.current(e.Tag) {
		m.log.With("generation", e.Tag.Generation).Debugf("dropping stale failure")
		return
	}
	tag := *m.inFlight
	m.inFlight = nil
	m.failed = &tag

	err := e.Err
	if err == nil {
		err = errors.New("unknown error")
	}
	m.state.Status = Error
	m.state.Err = err
	m.log.With("offset", tag.Offset).Warnf("fetch failed: %v", err)
}
