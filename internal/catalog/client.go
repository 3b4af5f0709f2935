// Package catalog provides the client for the upstream product search
// endpoint, including normalization of its heterogeneous records and a
// process-local TTL cache.
//
// The client never returns an error to its caller: upstream failures
// (timeout, non-success status, malformed body) degrade to an empty result
// and are surfaced through logging only. The cache and normalization make
// repeated searches cheap and deterministic.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Jpduker/Edible-AI-Agent/internal/log"
)

const (
	// searchPath is the upstream search endpoint, relative to the base URL.
	searchPath = "/api/search/"

	// maxKeywordLen bounds the keyword forwarded upstream.
	maxKeywordLen = 100

	// userAgent identifies this service to the upstream API.
	userAgent = "EdibleGiftConcierge/1.0"
)

// Config contains the required parameters for a catalog Client.
type Config struct {
	BaseURL         string
	Timeout         time.Duration // per-request upstream timeout
	CacheTTL        time.Duration
	CacheMaxEntries int
	Logger          log.Logger

	// Clock overrides time.Now for cache TTL tests. Nil means time.Now.
	Clock func() time.Time

	// HTTPClient overrides the default client. Its Timeout is ignored;
	// the per-request timeout comes from Config.Timeout via context.
	HTTPClient *http.Client
}

func (cfg Config) validate() error {
	if cfg.BaseURL == "" {
		return errors.New("base URL is required")
	}
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	return nil
}

// Client searches the upstream catalog and caches normalized results.
// Construct once per process; the cache and its lifecycle belong to the
// client instance, not to a package global.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	cache   *searchCache
	logger  log.Logger
}

// New creates a catalog client. Zero-value durations fall back to 10s
// timeout and a 2 minute TTL; a zero entry cap falls back to 100.
func New(cfg Config) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	maxEntries := cfg.CacheMaxEntries
	if maxEntries <= 0 {
		maxEntries = 100
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		baseURL: cfg.BaseURL,
		timeout: timeout,
		http:    httpClient,
		cache:   newSearchCache(ttl, maxEntries, clock),
		logger:  cfg.Logger,
	}, nil
}

// searchRequest is the upstream request body.
type searchRequest struct {
	Keyword string `json:"keyword"`
	ZipCode string `json:"zipCode,omitempty"`
}

// Search returns normalized, orderable products for the keyword, consulting
// the cache first. Never returns an error: any upstream failure yields an
// empty slice and a log entry.
func (c *Client) Search(ctx context.Context, keyword, zip string) []Product {
	key := cacheKey(keyword, zip)
	if products, ok := c.cache.get(key); ok {
		c.logger.Debug("cache_hit", "keyword", keyword, "zip", zip, "count", len(products))
		return products
	}

	records, err := c.fetch(ctx, keyword, zip)
	if err != nil {
		c.logger.Error("catalog_search_failed", "keyword", keyword, "error", err)
		return []Product{}
	}

	products := make([]Product, 0, len(records))
	for _, r := range records {
		if !r.Orderable() {
			continue
		}
		products = append(products, Normalize(c.baseURL, r))
	}

	c.cache.put(key, products)
	c.logger.Debug("catalog_search", "keyword", keyword, "zip", zip, "count", len(products))
	return products
}

// CacheSize reports the number of live cache entries. Intended for tests
// and health reporting.
func (c *Client) CacheSize() int {
	return c.cache.len()
}

// fetch issues the upstream search call with the configured timeout.
// A non-2xx status or non-array body is an error; the caller degrades it to
// an empty result.
func (c *Client) fetch(ctx context.Context, keyword, zip string) ([]SearchRecord, error) {
	trimmed := keyword
	if len(trimmed) > maxKeywordLen {
		trimmed = trimmed[:maxKeywordLen]
	}

	body, err := json.Marshal(searchRequest{Keyword: trimmed, ZipCode: zip})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+searchPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("upstream status %d", resp.StatusCode)
	}

	var records []SearchRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		// Anything other than a JSON array is treated as empty per the
		// upstream contract.
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return records, nil
}
