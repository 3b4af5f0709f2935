// Package concierge drives the bounded tool-calling loop between the
// language model and the catalog tools. It trims the conversation before it
// reaches the model, enforces strict post-filters on tool outputs, and
// finalizes the assistant text with its quick-reply suffix.
package concierge

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"golang.org/x/time/rate"

	"github.com/Jpduker/Edible-AI-Agent/internal/log"
)

// FallbackResponse is returned when the model produces no usable text.
const FallbackResponse = "I'm sorry, I couldn't come up with a response just now. Could you try rephrasing that?"

// DefaultMaxToolSteps bounds the reasoning loop.
const DefaultMaxToolSteps = 5

// StreamCallback receives each chunk of a streaming response. Returning an
// error aborts the stream.
type StreamCallback func(ctx context.Context, chunk *ai.ModelResponseChunk) error

// Response is the finalized result of one reasoning loop.
type Response struct {
	// Text is the assistant prose with the quick-reply suffix stripped.
	Text string
	// QuickReplies holds the parsed suggestion options, if any.
	QuickReplies []string
	// ToolRequests are the tool invocations made during the loop.
	ToolRequests []*ai.ToolRequest
}

// Config carries the required dependencies for a Concierge.
type Config struct {
	Genkit    *genkit.Genkit
	Catalog   Searcher
	Logger    log.Logger
	ModelName string

	MaxToolSteps   int // reasoning loop ceiling (default 5)
	TokenThreshold int // trim threshold in estimated tokens (default 80000)

	Retry   RetryConfig   // zero value uses defaults
	Breaker BreakerConfig // zero value uses defaults

	// Pacer throttles outbound model calls across all requests. Nil gets
	// a default of 10 calls/sec sustained with a burst of 30.
	Pacer *rate.Limiter

	// Now overrides the clock used for the prompt's date line.
	Now func() time.Time
}

func (cfg Config) validate() error {
	if cfg.Genkit == nil {
		return errors.New("genkit instance is required")
	}
	if cfg.Catalog == nil {
		return errors.New("catalog searcher is required")
	}
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	if cfg.ModelName == "" {
		return errors.New("model name is required")
	}
	return nil
}

// Concierge is the per-process orchestrator. It is stateless per request;
// the breaker and pacer are the only shared mutable state, and both are
// safe for concurrent use.
type Concierge struct {
	g         *genkit.Genkit
	catalog   Searcher
	logger    log.Logger
	modelName string

	maxToolSteps   int
	tokenThreshold int

	retry   RetryConfig
	breaker *Breaker
	pacer   *rate.Limiter

	toolRefs []ai.ToolRef
	now      func() time.Time
}

// New builds a Concierge and registers its catalog tools with Genkit.
// Tool registration is global to the Genkit instance, so construct at most
// one Concierge per instance.
func New(cfg Config) (*Concierge, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	maxToolSteps := cfg.MaxToolSteps
	if maxToolSteps <= 0 {
		maxToolSteps = DefaultMaxToolSteps
	}
	tokenThreshold := cfg.TokenThreshold
	if tokenThreshold <= 0 {
		tokenThreshold = DefaultTokenThreshold
	}
	retry := cfg.Retry
	if retry.MaxRetries == 0 {
		retry = DefaultRetryConfig()
	}
	pacer := cfg.Pacer
	if pacer == nil {
		pacer = rate.NewLimiter(10, 30)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	c := &Concierge{
		g:              cfg.Genkit,
		catalog:        cfg.Catalog,
		logger:         cfg.Logger,
		modelName:      cfg.ModelName,
		maxToolSteps:   maxToolSteps,
		tokenThreshold: tokenThreshold,
		retry:          retry,
		breaker:        NewBreaker(cfg.Breaker),
		pacer:          pacer,
		now:            now,
	}
	c.toolRefs = c.defineTools(cfg.Genkit)

	c.logger.Info("concierge initialized",
		"model", c.modelName,
		"maxToolSteps", c.maxToolSteps,
		"promptVersion", PromptVersion)

	return c, nil
}

// Respond runs the reasoning loop without streaming.
func (c *Concierge) Respond(ctx context.Context, messages []*ai.Message) (*Response, error) {
	return c.RespondStream(ctx, messages, nil)
}

// RespondStream runs the reasoning loop, streaming chunks through callback
// when it is non-nil. The finalized response is returned either way.
func (c *Concierge) RespondStream(ctx context.Context, messages []*ai.Message, callback StreamCallback) (*Response, error) {
	trimmed := Trim(messages, c.tokenThreshold)
	if len(trimmed) != len(messages) {
		c.logger.Warn("conversation_trimmed",
			"originalMessages", len(messages),
			"keptMessages", len(trimmed),
			"estimatedTokens", EstimateTokens(messages))
	}

	opts := []ai.GenerateOption{
		ai.WithModelName(c.modelName),
		ai.WithSystem(systemPrompt(c.now())),
		ai.WithMessages(trimmed...),
		ai.WithTools(c.toolRefs...),
		ai.WithMaxTurns(c.maxToolSteps),
	}
	if callback != nil {
		opts = append(opts, ai.WithStreaming(ai.ModelStreamCallback(callback)))
	}

	if err := c.breaker.Allow(); err != nil {
		c.logger.Warn("model call rejected",
			"state", c.breaker.State().String())
		return nil, err
	}

	resp, err := c.generateWithRetry(ctx, opts)
	if err != nil {
		c.breaker.Failure()
		return nil, err
	}
	c.breaker.Success()

	text := resp.Text()
	toolRequests := resp.ToolRequests()

	// Empty text alongside tool requests is valid mid-loop behaviour; only
	// a fully empty response gets the fallback.
	if strings.TrimSpace(text) == "" && len(toolRequests) == 0 {
		c.logger.Warn("model returned empty response")
		text = FallbackResponse
	}

	c.observeResponse(text, resp.FinishReason, len(toolRequests))

	prose, replies := SplitQuickReplies(text)
	return &Response{
		Text:         prose,
		QuickReplies: replies,
		ToolRequests: toolRequests,
	}, nil
}

// observeResponse records quality signals for the finished loop. A long
// response without a quick-reply suffix is an anomaly worth flagging, not
// an error.
func (c *Concierge) observeResponse(text string, finishReason ai.FinishReason, toolCallCount int) {
	hasReplies := HasQuickReplies(text)
	wordCount := len(strings.Fields(text))

	if !hasReplies && wordCount > 20 {
		c.logger.Warn("missing_quick_replies",
			"finishReason", string(finishReason),
			"wordCount", wordCount,
			"promptVersion", PromptVersion)
	}

	c.logger.Info("response_complete",
		"finishReason", string(finishReason),
		"wordCount", wordCount,
		"toolCallCount", toolCallCount,
		"hasQuickReplies", hasReplies,
		"promptVersion", PromptVersion)
}
