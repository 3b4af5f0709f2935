package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Jpduker/Edible-AI-Agent/internal/catalog"
	"github.com/Jpduker/Edible-AI-Agent/internal/log"
)

// Searcher is the catalog dependency of the search endpoint. Satisfied by
// *catalog.Client.
type Searcher interface {
	Search(ctx context.Context, keyword, zip string) []catalog.Product
}

// SearchHandler proxies direct catalog searches for collaborator UI,
// returning normalized products instead of raw upstream records.
type SearchHandler struct {
	catalog Searcher
	logger  log.Logger
}

// RegisterRoutes registers search routes on the given mux.
func (h *SearchHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/search", h.handleSearch)
}

type searchRequest struct {
	Keyword string `json:"keyword"`
	ZipCode string `json:"zipCode,omitempty"`
}

type searchResponse struct {
	Keyword     string            `json:"keyword"`
	ResultCount int               `json:"resultCount"`
	Products    []catalog.Product `json:"products"`
}

func (h *SearchHandler) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Keyword) == "" {
		writeError(w, http.StatusBadRequest, "A valid keyword string is required.")
		return
	}

	products := h.catalog.Search(r.Context(), req.Keyword, req.ZipCode)
	if products == nil {
		products = []catalog.Product{}
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Keyword:     req.Keyword,
		ResultCount: len(products),
		Products:    products,
	})
}
