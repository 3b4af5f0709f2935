package concierge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "rate limit", err: errors.New("Rate Limit exceeded for project"), want: true},
		{name: "quota", err: errors.New("quota exceeded"), want: true},
		{name: "http 429", err: errors.New("googleapi: Error 429"), want: true},
		{name: "http 503", err: errors.New("503 Service Unavailable"), want: true},
		{name: "timeout", err: errors.New("context deadline exceeded: timeout"), want: true},
		{name: "connection reset", err: errors.New("read: connection reset by peer"), want: true},
		{name: "bad request", err: errors.New("400 invalid argument"), want: false},
		{name: "auth failure", err: errors.New("401 unauthorized"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, retryable(tt.err))
		})
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultRetryConfig()
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Less(t, cfg.InitialInterval, cfg.MaxInterval)
}
