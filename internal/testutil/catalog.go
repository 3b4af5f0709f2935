package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/Jpduker/Edible-AI-Agent/internal/catalog"
)

// StaticCatalog is an in-memory catalog searcher. Searches return the
// products registered for the first keyword that matches as a substring,
// so tests control results without an HTTP stub.
//
// Safe for concurrent use.
type StaticCatalog struct {
	mu       sync.Mutex
	byKey    []catalogRule
	fallback []catalog.Product
	queries  []CatalogQuery
}

type catalogRule struct {
	keyword  string
	products []catalog.Product
}

// CatalogQuery records one Search invocation.
type CatalogQuery struct {
	Keyword string
	Zip     string
}

// NewStaticCatalog creates a catalog whose unmatched searches return
// fallback (which may be nil for empty results).
func NewStaticCatalog(fallback ...catalog.Product) *StaticCatalog {
	return &StaticCatalog{fallback: fallback}
}

// Add registers products returned when a search keyword contains keyword
// (case-insensitive). First registered match wins.
func (s *StaticCatalog) Add(keyword string, products ...catalog.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byKey = append(s.byKey, catalogRule{
		keyword:  strings.ToLower(keyword),
		products: products,
	})
}

// Search implements the concierge Searcher contract.
func (s *StaticCatalog) Search(_ context.Context, keyword, zip string) []catalog.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queries = append(s.queries, CatalogQuery{Keyword: keyword, Zip: zip})

	lower := strings.ToLower(keyword)
	for _, rule := range s.byKey {
		if strings.Contains(lower, rule.keyword) {
			return append([]catalog.Product(nil), rule.products...)
		}
	}
	return append([]catalog.Product(nil), s.fallback...)
}

// Queries returns a copy of all recorded searches.
func (s *StaticCatalog) Queries() []CatalogQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]CatalogQuery, len(s.queries))
	copy(cp, s.queries)
	return cp
}
