package concierge

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core"
	"github.com/firebase/genkit/go/genkit"
)

// FlowName is the registered name of the chat flow in Genkit.
const FlowName = "concierge/chat"

// InputMessage is one conversation turn as received from the caller.
type InputMessage struct {
	Role    string `json:"role"`    // "user" or "assistant"
	Content string `json:"content"` // text content
}

// Input is the chat flow input.
type Input struct {
	Messages []InputMessage `json:"messages"`
}

// Output is the chat flow output.
type Output struct {
	Response     string   `json:"response"`
	QuickReplies []string `json:"quickReplies,omitempty"`
}

// StreamChunk carries one partial text fragment of a streaming response.
type StreamChunk struct {
	Text string `json:"text"`
}

// Flow is the chat flow type, exported for use with genkit.Handler.
type Flow = core.Flow[Input, Output, StreamChunk]

// BuildMessages converts caller turns to model messages. Unknown roles map
// to user so stray input cannot impersonate the model.
func BuildMessages(input []InputMessage) []*ai.Message {
	messages := make([]*ai.Message, len(input))
	for i, m := range input {
		if m.Role == "assistant" || m.Role == "model" {
			messages[i] = ai.NewModelMessage(ai.NewTextPart(m.Content))
			continue
		}
		messages[i] = ai.NewUserMessage(ai.NewTextPart(m.Content))
	}
	return messages
}

// DefineFlow registers the Genkit streaming flow wrapping the reasoning
// loop. Flow registration is global to the Genkit instance; call once.
func (c *Concierge) DefineFlow(g *genkit.Genkit) *Flow {
	return genkit.DefineStreamingFlow(g, FlowName,
		func(ctx context.Context, input Input, streamCb func(context.Context, StreamChunk) error) (Output, error) {
			var callback StreamCallback
			if streamCb != nil {
				callback = func(ctx context.Context, chunk *ai.ModelResponseChunk) error {
					if chunk == nil {
						return nil
					}
					for _, part := range chunk.Content {
						if part.Text == "" {
							continue
						}
						if err := streamCb(ctx, StreamChunk{Text: part.Text}); err != nil {
							return err
						}
					}
					return nil
				}
			}

			resp, err := c.RespondStream(ctx, BuildMessages(input.Messages), callback)
			if err != nil {
				return Output{}, fmt.Errorf("chat flow: %w", err)
			}

			return Output{
				Response:     resp.Text,
				QuickReplies: resp.QuickReplies,
			}, nil
		},
	)
}
