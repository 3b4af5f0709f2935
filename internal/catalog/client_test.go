package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jpduker/Edible-AI-Agent/internal/log"
)

// fakeClock is an adjustable clock for TTL tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// upstreamStub counts calls and serves a fixed JSON body.
type upstreamStub struct {
	mu    sync.Mutex
	calls int
	body  string
	code  int
}

func (u *upstreamStub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		u.mu.Lock()
		u.calls++
		u.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(u.code)
		fmt.Fprint(w, u.body)
	}
}

func (u *upstreamStub) callCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.calls
}

func newTestClient(t *testing.T, baseURL string, clock *fakeClock) *Client {
	t.Helper()
	cfg := Config{
		BaseURL: baseURL,
		Logger:  log.NewNop(),
	}
	if clock != nil {
		cfg.Clock = clock.Now
	}
	client, err := New(cfg)
	require.NoError(t, err)
	return client
}

func TestSearch_CacheHitWithinTTL(t *testing.T) {
	t.Parallel()

	stub := &upstreamStub{code: http.StatusOK, body: `[{"id":"1","name":"Berry Box","minPrice":39.99}]`}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	client := newTestClient(t, srv.URL, nil)
	ctx := context.Background()

	first := client.Search(ctx, "berry", "")
	second := client.Search(ctx, "berry", "")

	require.Len(t, first, 1)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, stub.callCount(), "second search within TTL must not call upstream")
}

func TestSearch_CacheKeyNormalization(t *testing.T) {
	t.Parallel()

	stub := &upstreamStub{code: http.StatusOK, body: `[{"id":"1","name":"Berry Box","minPrice":39.99}]`}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	client := newTestClient(t, srv.URL, nil)
	ctx := context.Background()

	client.Search(ctx, "  Berry ", "")
	client.Search(ctx, "berry", "")

	assert.Equal(t, 1, stub.callCount(), "keyword case and whitespace share one cache entry")
}

func TestSearch_ZipPartOfCacheKey(t *testing.T) {
	t.Parallel()

	stub := &upstreamStub{code: http.StatusOK, body: `[]`}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	client := newTestClient(t, srv.URL, nil)
	ctx := context.Background()

	client.Search(ctx, "berry", "10001")
	client.Search(ctx, "berry", "94103")

	assert.Equal(t, 2, stub.callCount())
}

func TestSearch_TTLExpiry(t *testing.T) {
	t.Parallel()

	stub := &upstreamStub{code: http.StatusOK, body: `[{"id":"1","name":"Berry Box","minPrice":39.99}]`}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	clock := newFakeClock()
	client := newTestClient(t, srv.URL, clock)
	ctx := context.Background()

	client.Search(ctx, "berry", "")
	clock.Advance(2*time.Minute + time.Second)
	client.Search(ctx, "berry", "")

	assert.Equal(t, 2, stub.callCount(), "expired entry must trigger a fresh upstream call")
}

func TestSearch_FiltersUnorderableRecords(t *testing.T) {
	t.Parallel()

	stub := &upstreamStub{code: http.StatusOK, body: `[
		{"id":"1","name":"Live Box","minPrice":39.99,"liveSku":true},
		{"id":"2","name":"Dead Box","minPrice":29.99,"liveSku":false},
		{"id":"3","name":"Implicit Box","minPrice":19.99}
	]`}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	client := newTestClient(t, srv.URL, nil)
	products := client.Search(context.Background(), "box", "")

	require.Len(t, products, 2)
	assert.Equal(t, "Live Box", products[0].Name)
	assert.Equal(t, "Implicit Box", products[1].Name)
}

func TestSearch_UpstreamErrorsYieldEmpty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		code int
		body string
	}{
		{name: "server error", code: http.StatusInternalServerError, body: `{"error":"boom"}`},
		{name: "bad gateway", code: http.StatusBadGateway, body: ``},
		{name: "non-array body", code: http.StatusOK, body: `{"unexpected":"object"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			stub := &upstreamStub{code: tt.code, body: tt.body}
			srv := httptest.NewServer(stub.handler())
			defer srv.Close()

			client := newTestClient(t, srv.URL, nil)
			products := client.Search(context.Background(), "berry", "")

			assert.NotNil(t, products)
			assert.Empty(t, products)
		})
	}
}

func TestSearch_TimeoutYieldsEmpty(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()
	defer close(release)

	client, err := New(Config{
		BaseURL: srv.URL,
		Timeout: 50 * time.Millisecond,
		Logger:  log.NewNop(),
	})
	require.NoError(t, err)

	start := time.Now()
	products := client.Search(context.Background(), "berry", "")

	assert.Empty(t, products)
	assert.Less(t, time.Since(start), 5*time.Second, "timeout must abort the call")
}

func TestSearch_ErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	stub := &upstreamStub{code: http.StatusInternalServerError, body: ``}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	client := newTestClient(t, srv.URL, nil)
	ctx := context.Background()

	client.Search(ctx, "berry", "")
	client.Search(ctx, "berry", "")

	assert.Equal(t, 2, stub.callCount(), "failed calls must not populate the cache")
}

func TestSearch_KeywordTruncatedUpstream(t *testing.T) {
	t.Parallel()

	var gotLen int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Keyword string `json:"keyword"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			gotLen = len(req.Keyword)
		}
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, nil)
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	client.Search(context.Background(), string(long), "")

	assert.Equal(t, maxKeywordLen, gotLen)
}

func TestCache_EvictsOldestBeyondCap(t *testing.T) {
	t.Parallel()

	stub := &upstreamStub{code: http.StatusOK, body: `[]`}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	client, err := New(Config{
		BaseURL:         srv.URL,
		CacheMaxEntries: 3,
		Logger:          log.NewNop(),
	})
	require.NoError(t, err)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		client.Search(ctx, fmt.Sprintf("keyword-%d", i), "")
	}
	assert.Equal(t, 3, client.CacheSize())

	// The oldest entry was evicted: searching it again calls upstream.
	before := stub.callCount()
	client.Search(ctx, "keyword-0", "")
	assert.Equal(t, before+1, stub.callCount())

	// The newest entry survived: no extra upstream call.
	before = stub.callCount()
	client.Search(ctx, "keyword-3", "")
	assert.Equal(t, before, stub.callCount())
}
