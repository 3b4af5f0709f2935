package api

import (
	"encoding/json"
	"net/http"

	"github.com/Jpduker/Edible-AI-Agent/internal/giftcontext"
	"github.com/Jpduker/Edible-AI-Agent/internal/log"
)

// ContextHandler serves the gift planner sidebar: it recomputes the
// structured gift context from the user's turns on every call. Extraction
// is a pure function, so there is nothing to cache or invalidate.
type ContextHandler struct {
	logger log.Logger
}

// RegisterRoutes registers gift context routes on the given mux.
func (h *ContextHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/gift-context", h.handleContext)
}

type contextRequest struct {
	// Messages holds the user-authored turns in chronological order.
	Messages []string `json:"messages"`
}

type contextResponse struct {
	Context      giftcontext.Context `json:"context"`
	Completeness int                 `json:"completeness"`
}

func (h *ContextHandler) handleContext(w http.ResponseWriter, r *http.Request) {
	var req contextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Messages == nil {
		writeError(w, http.StatusBadRequest, badRequestMessage)
		return
	}

	ctx := giftcontext.Extract(req.Messages)
	writeJSON(w, http.StatusOK, contextResponse{
		Context:      ctx,
		Completeness: giftcontext.Completeness(ctx),
	})
}
