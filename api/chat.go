package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/firebase/genkit/go/ai"

	"github.com/Jpduker/Edible-AI-Agent/internal/concierge"
	"github.com/Jpduker/Edible-AI-Agent/internal/log"
	"github.com/Jpduker/Edible-AI-Agent/internal/ratelimit"
)

// User-safe error strings. Internal detail never leaves the logs.
const (
	throttledMessage  = "Too many requests. Please wait a moment and try again."
	badRequestMessage = "Messages array is required."
	apologyMessage    = "I'm having a moment, please try again shortly! 🍓"
)

// Responder runs the reasoning loop. Satisfied by *concierge.Concierge.
type Responder interface {
	RespondStream(ctx context.Context, messages []*ai.Message, callback concierge.StreamCallback) (*concierge.Response, error)
}

// ChatHandler handles the conversational endpoint.
type ChatHandler struct {
	responder  Responder
	limiter    *ratelimit.Limiter
	logger     log.Logger
	trustProxy bool
	unknownKey string
}

// RegisterRoutes registers chat routes on the given mux.
func (h *ChatHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/chat", h.handleChat)
}

type chatRequest struct {
	Messages []concierge.InputMessage `json:"messages"`
}

// sseEvent is one Server-Sent Event frame.
// Event types: "chunk" (partial text), "done" (final output), "error".
type sseEvent struct {
	Event string `json:"-"`
	Data  any    `json:"-"`
}

type sseChunkData struct {
	Text string `json:"text"`
}

type sseDoneData struct {
	Response     string   `json:"response"`
	QuickReplies []string `json:"quickReplies,omitempty"`
}

type sseErrorData struct {
	Message string `json:"message"`
}

// handleChat admits, validates, then streams the reasoning loop's output as
// SSE. Admission and validation failures are plain JSON errors; once the
// stream has started, failures become terminal error events.
func (h *ChatHandler) handleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	key := callerKey(r, h.trustProxy, h.unknownKey)
	if !h.limiter.Admit(key) {
		h.logger.Warn("request throttled",
			"caller", key,
			"requestId", requestID(ctx))
		writeError(w, http.StatusTooManyRequests, throttledMessage)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Messages == nil {
		writeError(w, http.StatusBadRequest, badRequestMessage)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.logger.Error("streaming not supported")
		writeError(w, http.StatusInternalServerError, apologyMessage)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	h.logger.Info("chat_request",
		"caller", key,
		"messageCount", len(req.Messages),
		"requestId", requestID(ctx))

	callback := func(ctx context.Context, chunk *ai.ModelResponseChunk) error {
		if chunk == nil {
			return nil
		}
		for _, part := range chunk.Content {
			if part.Text != "" {
				h.writeEvent(w, flusher, sseEvent{Event: "chunk", Data: sseChunkData{Text: part.Text}})
			}
		}
		return ctx.Err()
	}

	resp, err := h.responder.RespondStream(ctx, concierge.BuildMessages(req.Messages), callback)
	if err != nil {
		h.logger.Error("chat failed",
			"error", err,
			"caller", key,
			"requestId", requestID(ctx))
		h.writeEvent(w, flusher, sseEvent{Event: "error", Data: sseErrorData{Message: apologyMessage}})
		return
	}

	h.writeEvent(w, flusher, sseEvent{Event: "done", Data: sseDoneData{
		Response:     resp.Text,
		QuickReplies: resp.QuickReplies,
	}})
}

func (h *ChatHandler) writeEvent(w http.ResponseWriter, flusher http.Flusher, ev sseEvent) {
	data, err := json.Marshal(ev.Data)
	if err != nil {
		h.logger.Error("failed to encode SSE event", "event", ev.Event, "error", err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Event, data)
	flusher.Flush()
}
