package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jpduker/Edible-AI-Agent/internal/log"
)

func TestCallerKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		trustProxy bool
		want       string
	}{
		{
			name:       "direct connection uses socket host",
			remoteAddr: "203.0.113.7:54321",
			want:       "203.0.113.7",
		},
		{
			name:       "forwarded header ignored without trust",
			remoteAddr: "203.0.113.7:54321",
			forwarded:  "198.51.100.1",
			want:       "203.0.113.7",
		},
		{
			name:       "trusted proxy uses first forwarded entry",
			remoteAddr: "10.0.0.1:443",
			forwarded:  "198.51.100.1, 10.0.0.2, 10.0.0.1",
			trustProxy: true,
			want:       "198.51.100.1",
		},
		{
			name:       "trusted proxy trims whitespace",
			remoteAddr: "10.0.0.1:443",
			forwarded:  "  198.51.100.1  ,10.0.0.2",
			trustProxy: true,
			want:       "198.51.100.1",
		},
		{
			name:       "trusted proxy without header falls back to unknown",
			remoteAddr: "10.0.0.1:443",
			trustProxy: true,
			want:       "anon",
		},
		{
			name:       "trusted proxy with empty header falls back to unknown",
			remoteAddr: "10.0.0.1:443",
			forwarded:  "   ",
			trustProxy: true,
			want:       "anon",
		},
		{
			name:       "malformed socket address falls back to unknown",
			remoteAddr: "not-an-address",
			want:       "anon",
		},
		{
			name:       "empty socket address falls back to unknown",
			remoteAddr: "",
			want:       "anon",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}

			assert.Equal(t, tt.want, callerKey(r, tt.trustProxy, "anon"))
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("assigns an ID when the client sends none", func(t *testing.T) {
		t.Parallel()

		var seen string
		handler := requestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = requestID(r.Context())
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
	})

	t.Run("keeps the client-supplied ID", func(t *testing.T) {
		t.Parallel()

		var seen string
		handler := requestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = requestID(r.Context())
		}))

		r := httptest.NewRequest(http.MethodGet, "/health", nil)
		r.Header.Set("X-Request-ID", "trace-42")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)

		assert.Equal(t, "trace-42", seen)
		assert.Equal(t, "trace-42", rec.Header().Get("X-Request-ID"))
	})
}

func TestRequestIDMissing(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	assert.Empty(t, requestID(r.Context()))
}

func TestRecoveryMiddleware(t *testing.T) {
	t.Parallel()

	handler := recoveryMiddleware(log.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestChainOrder(t *testing.T) {
	t.Parallel()

	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mark("outer"), mark("inner"))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}
