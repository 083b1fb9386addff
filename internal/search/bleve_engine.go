package search

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pders01/folio/internal/catalog"
	"github.com/pders01/folio/internal/debuglog"
)

// BleveEngine searches a Bleve full-text index of the source.
type BleveEngine struct {
	source Source
	idx    bleve.Index
	log    *debuglog.FieldLogger
}

// field boosts for match queries; prefix queries use slightly less
var bleveFields = []struct {
	name  string
	boost float64
}{
	{"title", 4.0},
	{"authors", 3.0},
	{"categories", 1.5},
	{"description", 1.0},
}

// NewBleveEngine creates or opens a Bleve index at indexPath and indexes
// the books currently in source. An empty indexPath keeps the index in memory.
func NewBleveEngine(source Source, indexPath string) (*BleveEngine, error) {
	var idx bleve.Index
	var err error

	if indexPath == "" {
		idx, err = bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("creating in-memory index: %w", err)
		}
	} else {
		if mkErr := os.MkdirAll(filepath.Dir(indexPath), 0o755); mkErr != nil {
			return nil, fmt.Errorf("creating index directory: %w", mkErr)
		}
		idx, err = bleve.Open(indexPath)
		if err != nil {
			idx, err = bleve.New(indexPath, buildIndexMapping())
			if err != nil {
				return nil, fmt.Errorf("creating index at %s: %w", indexPath, err)
			}
		}
	}

	be := &BleveEngine{source: source, idx: idx, log: debuglog.For("search")}
	if err := be.sync(source.Items()); err != nil {
		idx.Close()
		return nil, err
	}
	return be, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	title := bleve.NewTextFieldMapping()
	title.Analyzer = standard.Name
	title.Store = true
	title.IncludeTermVectors = true

	authors := bleve.NewTextFieldMapping()
	authors.Analyzer = standard.Name
	authors.Store = true

	categories := bleve.NewTextFieldMapping()
	categories.Analyzer = standard.Name
	categories.Store = false

	desc := bleve.NewTextFieldMapping()
	desc.Analyzer = standard.Name
	desc.Store = false
	desc.IncludeTermVectors = false

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("authors", authors)
	dm.AddFieldMappingsAt("categories", categories)
	dm.AddFieldMappingsAt("description", desc)

	im.DefaultMapping = dm
	return im
}

func bookDoc(b catalog.Book) map[string]any {
	return map[string]any{
		"title":       b.Title,
		"authors":     strings.Join(b.Authors, ", "),
		"categories":  strings.Join(b.Categories, ", "),
		"description": b.Description,
	}
}

// sync makes the index hold exactly books.
func (b *BleveEngine) sync(books []catalog.Book) error {
	keep := make(map[string]struct{}, len(books))
	batch := b.idx.NewBatch()
	for _, book := range books {
		keep[book.ID] = struct{}{}
		if err := batch.Index(book.ID, bookDoc(book)); err != nil {
			return fmt.Errorf("indexing %s: %w", book.ID, err)
		}
	}

	existing, err := b.docIDs()
	if err != nil {
		return err
	}
	for _, id := range existing {
		if _, ok := keep[id]; !ok {
			batch.Delete(id)
		}
	}

	if err := b.idx.Batch(batch); err != nil {
		return fmt.Errorf("writing index batch: %w", err)
	}
	b.log.Debugf("indexed %d books", len(books))
	return nil
}

func (b *BleveEngine) docIDs() ([]string, error) {
	var ids []string
	from := 0
	size := 1000
	for {
		req := bleve.NewSearchRequestOptions(bleve.NewMatchAllQuery(), size, from, false)
		req.Fields = []string{}
		res, err := b.idx.Search(req)
		if err != nil {
			return nil, fmt.Errorf("listing index: %w", err)
		}
		for _, h := range res.Hits {
			ids = append(ids, h.ID)
		}
		if len(res.Hits) < size {
			return ids, nil
		}
		from += size
	}
}

func (b *BleveEngine) Search(query string, limit int) ([]*Result, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []*Result{}, nil
	}

	var qs []bleveQuery.Query
	for _, tok := range tokenize(query) {
		for _, f := range bleveFields {
			mq := bleve.NewMatchQuery(tok)
			mq.SetField(f.name)
			mq.SetBoost(f.boost)
			qs = append(qs, mq)

			pq := bleve.NewPrefixQuery(tok)
			pq.SetField(f.name)
			pq.SetBoost(f.boost * 0.8)
			qs = append(qs, pq)
		}
	}
	if len(qs) == 0 {
		return []*Result{}, nil
	}

	size := limit
	if size <= 0 {
		count, err := b.DocCount()
		if err != nil {
			return nil, err
		}
		size = count
	}

	srch := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(qs...), size, 0, false)
	srch.Fields = []string{"title", "authors"}
	res, err := b.idx.Search(srch)
	if err != nil {
		return nil, err
	}

	out := make([]*Result, 0, len(res.Hits))
	for _, h := range res.Hits {
		book, ok := b.source.Get(h.ID)
		if !ok {
			// index is ahead of the source; rebuilt on next change
			continue
		}
		r := &Result{Book: book, Score: h.Score}
		if t, ok := h.Fields["title"].(string); ok && t != "" {
			r.Matches = append(r.Matches, Match{Field: "title", Text: t, Weight: h.Score})
		}
		out = append(out, r)
	}
	return out, nil
}

// OnSourceChanged reindexes after a wishlist mutation.
func (b *BleveEngine) OnSourceChanged(books []catalog.Book) {
	if err := b.sync(books); err != nil {
		b.log.Warnf("reindex failed: %v", err)
	}
}

// DocCount reports total documents in the index.
func (b *BleveEngine) DocCount() (int, error) {
	count, err := b.idx.DocCount()
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (b *BleveEngine) Close() error {
	return b.idx.Close()
}
