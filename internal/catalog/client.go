package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/pders01/folio/internal/config"
	"github.com/pders01/folio/internal/debuglog"
)

const (
	defaultTimeout     = 15 * time.Second
	defaultSimilarSize = 64
	similarPageSize    = 10
	maxBodyBytes       = 4 << 20
)

// Client queries the remote book catalog.
type Client struct {
	baseURL   string
	orderBy   string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
	similar   *lru.Cache[string, []Book]
	log       *debuglog.FieldLogger
}

func NewClient(cfg *config.Config) *Client {
	timeout := cfg.Catalog.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	size := cfg.Catalog.SimilarCacheSize
	if size <= 0 {
		size = defaultSimilarSize
	}
	// lru.New only fails for non-positive sizes
	similar, _ := lru.New[string, []Book](size)

	var limiter *rate.Limiter
	if rps := cfg.Catalog.RequestsPerSecond; rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}

	orderBy := cfg.Catalog.OrderBy
	if orderBy == "" {
		orderBy = "relevance"
	}

	return &Client{
		baseURL:   cfg.Catalog.BaseURL,
		orderBy:   orderBy,
		userAgent: cfg.Catalog.UserAgent,
		client:    &http.Client{Timeout: timeout},
		limiter:   limiter,
		similar:   similar,
		log:       debuglog.For("catalog"),
	}
}

// SetHTTPClient replaces the underlying HTTP client, mainly for tests.
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.client = hc
}

// Fetch requests one page of results for query starting at offset.
// Items are returned in catalog order; TotalItems is passed through as reported.
func (c *Client) Fetch(ctx context.Context, query string, offset, pageSize int) (*ResultPage, error) {
	if offset < 0 {
		return nil, fmt.Errorf("offset must not be negative, got %d", offset)
	}
	if pageSize <= 0 {
		return nil, fmt.Errorf("page size must be positive, got %d", pageSize)
	}

	endpoint, err := c.volumesURL(query, offset, pageSize)
	if err != nil {
		return nil, err
	}

	if c.limiter != nil {
		if waitErr := c.limiter.Wait(ctx); waitErr != nil {
			return nil, &NetworkError{Op: "waiting for rate limiter", Err: waitErr}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	log := c.log.With("offset", offset).With("q", query)
	log.Debugf("fetching page")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Warnf("transport error: %v", err)
		return nil, &NetworkError{Op: "sending request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		log.Warnf("HTTP %d", resp.StatusCode)
		return nil, &NetworkError{StatusCode: resp.StatusCode}
	}

	var body volumesResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		log.Warnf("decode error: %v", err)
		return nil, &NetworkError{Op: "decoding response", Err: err}
	}

	items := make([]Book, 0, len(body.Items))
	for _, v := range body.Items {
		items = append(items, v.toBook())
	}

	page := &ResultPage{
		Items:      items,
		NextOffset: offset + pageSize,
		TotalItems: body.TotalItems,
		Exhausted:  offset+len(items) >= body.TotalItems,
	}
	log.Debugf("received %d items, total %d", len(items), body.TotalItems)
	return page, nil
}

// Similar returns books matching title as free text, without the book itself.
// Results are memoized per title.
func (c *Client) Similar(ctx context.Context, book Book) ([]Book, error) {
	if book.Title == "" {
		return []Book{}, nil
	}

	found, ok := c.similar.Get(book.Title)
	if !ok {
		page, err := c.Fetch(ctx, book.Title, 0, similarPageSize)
		if err != nil {
			return nil, err
		}
		found = page.Items
		c.similar.Add(book.Title, found)
	}

	out := make([]Book, 0, len(found))
	for _, b := range found {
		if b.ID != book.ID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (c *Client) volumesURL(query string, offset, pageSize int) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parsing catalog base URL: %w", err)
	}
	if query == "" {
		query = MatchAll
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("maxResults", strconv.Itoa(pageSize))
	q.Set("startIndex", strconv.Itoa(offset))
	q.Set("orderBy", c.orderBy)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
