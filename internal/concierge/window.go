package concierge

import (
	"encoding/json"

	"github.com/firebase/genkit/go/ai"
)

// Token estimation uses serialized length over a fixed divisor instead of an
// exact tokenizer. The proxy is deliberately conservative: over-trimming is
// acceptable, context overflow is not.
const (
	// DefaultTokenThreshold is the estimated token count above which the
	// conversation is trimmed.
	DefaultTokenThreshold = 80000

	charsPerToken = 4

	// minKeepTail is the minimum number of trailing messages preserved by
	// a trim.
	minKeepTail = 10
)

// EstimateTokens approximates the token count of a message list from its
// serialized length.
func EstimateTokens(messages []*ai.Message) int {
	data, err := json.Marshal(messages)
	if err != nil {
		return 0
	}
	return (len(data) + charsPerToken - 1) / charsPerToken
}

// Trim bounds the conversation sent to the model. If the estimate is at or
// below threshold the input is returned unchanged. Otherwise it keeps the
// first message, which establishes the original intent, plus the trailing
// max(10, 60% of length) messages, dropping the middle.
//
// This is a lossy one-shot transform: the result's estimate is not
// re-checked. The most recent message is always preserved.
func Trim(messages []*ai.Message, threshold int) []*ai.Message {
	if threshold <= 0 {
		threshold = DefaultTokenThreshold
	}
	if EstimateTokens(messages) <= threshold {
		return messages
	}

	keepLast := len(messages) * 6 / 10
	if keepLast < minKeepTail {
		keepLast = minKeepTail
	}
	if keepLast >= len(messages)-1 {
		// Nothing in the middle to drop.
		return messages
	}

	trimmed := make([]*ai.Message, 0, keepLast+1)
	trimmed = append(trimmed, messages[0])
	trimmed = append(trimmed, messages[len(messages)-keepLast:]...)
	return trimmed
}
