// Package testutil provides deterministic fakes for testing the reasoning
// loop and its collaborators without network access.
package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// MockModelName is the model name the mock registers under.
const MockModelName = "mock/concierge-model"

// MockModel provides scripted model responses for testing. It matches the
// last user message against registered patterns and returns the scripted
// text or tool requests.
//
// Safe for concurrent use.
type MockModel struct {
	mu       sync.Mutex
	rules    []mockRule
	fallback string
	calls    []MockCall
}

type mockRule struct {
	pattern  string            // lowercase substring matched in the user message
	response string            // final text
	tools    []*ai.ToolRequest // tool requests to emit before the final text
}

// MockCall records one invocation of the mock model.
type MockCall struct {
	UserMessage string
	Response    string
	ToolPhase   bool // true when the call carried tool responses back
}

// NewMockModel creates a mock with the given fallback text, returned when
// no pattern matches.
func NewMockModel(fallback string) *MockModel {
	return &MockModel{fallback: fallback}
}

// AddResponse registers a pattern and the text returned when the last user
// message contains it (case-insensitive). First registered match wins.
func (m *MockModel) AddResponse(pattern, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, mockRule{
		pattern:  strings.ToLower(pattern),
		response: response,
	})
}

// AddToolResponse registers a pattern that first emits the given tool
// requests. Once tool results come back, the mock returns finalText,
// terminating the loop the way a real model would.
func (m *MockModel) AddToolResponse(pattern string, tools []*ai.ToolRequest, finalText string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, mockRule{
		pattern:  strings.ToLower(pattern),
		response: finalText,
		tools:    tools,
	})
}

// Calls returns a copy of all recorded calls.
func (m *MockModel) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]MockCall, len(m.calls))
	copy(cp, m.calls)
	return cp
}

// Register registers the mock as a Genkit model.
func (m *MockModel) Register(g *genkit.Genkit) ai.Model {
	return genkit.DefineModel(g, MockModelName, &ai.ModelOptions{
		Label: "Mock Concierge Model",
		Supports: &ai.ModelSupports{
			Multiturn:  true,
			Tools:      true,
			SystemRole: true,
		},
	}, m.generate)
}

func (m *MockModel) generate(ctx context.Context, req *ai.ModelRequest, cb ai.ModelStreamCallback) (*ai.ModelResponse, error) {
	userText := lastUserText(req.Messages)
	toolPhase := hasToolResponse(req.Messages)

	m.mu.Lock()
	var matched *mockRule
	lower := strings.ToLower(userText)
	for i := range m.rules {
		if strings.Contains(lower, m.rules[i].pattern) {
			matched = &m.rules[i]
			break
		}
	}
	responseText := m.fallback
	if matched != nil {
		responseText = matched.response
	}
	m.calls = append(m.calls, MockCall{
		UserMessage: userText,
		Response:    responseText,
		ToolPhase:   toolPhase,
	})
	m.mu.Unlock()

	var parts []*ai.Part
	// Emit tool requests only on the first pass. After tool results come
	// back the mock must produce text, or the loop would never terminate.
	if matched != nil && len(matched.tools) > 0 && !toolPhase {
		for _, tr := range matched.tools {
			parts = append(parts, &ai.Part{
				Kind:        ai.PartToolRequest,
				ToolRequest: tr,
			})
		}
	} else {
		if cb != nil {
			if err := cb(ctx, &ai.ModelResponseChunk{
				Content: []*ai.Part{ai.NewTextPart(responseText)},
			}); err != nil {
				return nil, err
			}
		}
		parts = append(parts, ai.NewTextPart(responseText))
	}

	return &ai.ModelResponse{
		Request:      req,
		FinishReason: ai.FinishReasonStop,
		Message: &ai.Message{
			Role:    ai.RoleModel,
			Content: parts,
		},
	}, nil
}

func lastUserText(messages []*ai.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == ai.RoleUser {
			return messages[i].Text()
		}
	}
	return ""
}

func hasToolResponse(messages []*ai.Message) bool {
	for _, msg := range messages {
		for _, part := range msg.Content {
			if part.ToolResponse != nil {
				return true
			}
		}
	}
	return false
}
