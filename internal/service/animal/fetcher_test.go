package animal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// upstream поднимает фейковый API, который всегда отвечает body со статусом status.
func upstream(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newTestFetcher(t *testing.T, timeout time.Duration, providers ...ProviderConfig) *Fetcher {
	t.Helper()
	reg, err := NewRegistry(providers...)
	require.NoError(t, err)
	return NewFetcher(reg, timeout, zaptest.NewLogger(t).Sugar())
}

func TestNewFetcher_DefaultTimeout(t *testing.T) {
	reg, err := NewRegistry(ProviderConfig{Category: "dog", Endpoint: "http://dog", Shape: Flat("url")})
	require.NoError(t, err)

	assert.Equal(t, DefaultTimeout, NewFetcher(reg, 0, zaptest.NewLogger(t).Sugar()).http.Timeout)
	assert.Equal(t, DefaultTimeout, NewFetcher(reg, -time.Second, zaptest.NewLogger(t).Sugar()).http.Timeout)
	assert.Equal(t, 5*time.Second, DefaultTimeout)
	assert.Equal(t, 2*time.Second, NewFetcher(reg, 2*time.Second, zaptest.NewLogger(t).Sugar()).http.Timeout)
}

func TestFetcher_FlatKey_Success(t *testing.T) {
	srv, hits := upstream(t, http.StatusOK, `{"url": "X", "fileSizeBytes": 1024}`)
	f := newTestFetcher(t, time.Second, ProviderConfig{Category: "dog", Endpoint: srv.URL, Shape: Flat("url")})

	res := f.Fetch(context.Background(), "dog")

	require.True(t, res.OK(), res.Message())
	assert.Equal(t, "X", res.ImageURL)
	assert.Equal(t, "dog", res.Category)
	assert.Equal(t, int32(1), hits.Load())
}

func TestFetcher_FirstOfArrayKey_TakesFirstElement(t *testing.T) {
	srv, hits := upstream(t, http.StatusOK, `[{"url": "X"}, {"url": "Y"}]`)
	f := newTestFetcher(t, time.Second, ProviderConfig{Category: "cat", Endpoint: srv.URL, Shape: FirstOfArray("url")})

	res := f.Fetch(context.Background(), "cat")

	require.True(t, res.OK(), res.Message())
	assert.Equal(t, "X", res.ImageURL)
	assert.Equal(t, int32(1), hits.Load())
}

func TestFetcher_MalformedResponses(t *testing.T) {
	tests := []struct {
		name  string
		shape ResponseShape
		body  string
	}{
		{name: "empty array", shape: FirstOfArray("url"), body: `[]`},
		{name: "array for flat", shape: Flat("url"), body: `[{"url": "X"}]`},
		{name: "object for array", shape: FirstOfArray("url"), body: `{"url": "X"}`},
		{name: "first element not object", shape: FirstOfArray("url"), body: `["X"]`},
		{name: "missing key", shape: Flat("image"), body: `{"link": "X"}`},
		{name: "missing key in first element", shape: FirstOfArray("url"), body: `[{"id": "a"}, {"url": "Y"}]`},
		{name: "key is number", shape: Flat("url"), body: `{"url": 42}`},
		{name: "key is null", shape: Flat("url"), body: `{"url": null}`},
		{name: "key is empty", shape: Flat("url"), body: `{"url": ""}`},
		{name: "not json", shape: Flat("url"), body: `<html>oops</html>`},
		{name: "empty body", shape: Flat("url"), body: ``},
		{name: "truncated json", shape: Flat("url"), body: `{"url": "X"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := upstream(t, http.StatusOK, tt.body)
			f := newTestFetcher(t, time.Second, ProviderConfig{Category: "any", Endpoint: srv.URL, Shape: tt.shape})

			res := f.Fetch(context.Background(), "any")

			assert.False(t, res.OK())
			require.NotNil(t, res.Err)
			assert.Equal(t, MalformedResponse, res.Kind())
			assert.Empty(t, res.ImageURL)
			assert.NotEmpty(t, res.Message())
		})
	}
}

func TestFetcher_NonSuccessStatus(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv, hits := upstream(t, status, `{"url": "X"}`)
			f := newTestFetcher(t, time.Second, ProviderConfig{Category: "dog", Endpoint: srv.URL, Shape: Flat("url")})

			res := f.Fetch(context.Background(), "dog")

			assert.Equal(t, NetworkError, res.Kind())
			assert.Empty(t, res.ImageURL)
			assert.Equal(t, int32(1), hits.Load(), "no retries expected")
		})
	}
}

func TestFetcher_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	f := newTestFetcher(t, 50*time.Millisecond, ProviderConfig{Category: "fox", Endpoint: srv.URL, Shape: Flat("image")})

	start := time.Now()
	res := f.Fetch(context.Background(), "fox")

	assert.Equal(t, NetworkError, res.Kind())
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestFetcher_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	f := newTestFetcher(t, time.Second, ProviderConfig{Category: "dog", Endpoint: endpoint, Shape: Flat("url")})

	res := f.Fetch(context.Background(), "dog")
	assert.Equal(t, NetworkError, res.Kind())
}

func TestFetcher_UnknownCategory_NoNetworkCall(t *testing.T) {
	srv, hits := upstream(t, http.StatusOK, `{"url": "X"}`)
	f := newTestFetcher(t, time.Second, ProviderConfig{Category: "dog", Endpoint: srv.URL, Shape: Flat("url")})

	res := f.Fetch(context.Background(), "unknown-category")

	assert.Equal(t, UnknownCategory, res.Kind())
	assert.Equal(t, "unknown-category", res.Category)
	assert.Equal(t, int32(0), hits.Load())
}

func TestFetcher_EachRegisteredCategoryHitsItsOwnEndpoint(t *testing.T) {
	dog, dogHits := upstream(t, http.StatusOK, `{"url": "https://random.dog/a.jpg"}`)
	cat, catHits := upstream(t, http.StatusOK, `[{"id": "1", "url": "https://cdn2.thecatapi.com/b.jpg"}]`)
	fox, foxHits := upstream(t, http.StatusOK, `{"image": "https://randomfox.ca/images/1.jpg", "link": "https://randomfox.ca/?i=1"}`)

	f := newTestFetcher(t, time.Second,
		ProviderConfig{Category: CategoryDog, Endpoint: dog.URL, Shape: Flat("url")},
		ProviderConfig{Category: CategoryCat, Endpoint: cat.URL, Shape: FirstOfArray("url")},
		ProviderConfig{Category: CategoryFox, Endpoint: fox.URL, Shape: Flat("image")},
	)

	want := map[string]string{
		CategoryDog: "https://random.dog/a.jpg",
		CategoryCat: "https://cdn2.thecatapi.com/b.jpg",
		CategoryFox: "https://randomfox.ca/images/1.jpg",
	}
	for _, c := range f.Registry().Categories() {
		res := f.Fetch(context.Background(), c)
		require.True(t, res.OK(), res.Message())
		assert.Equal(t, want[c], res.ImageURL)
	}

	assert.Equal(t, int32(1), dogHits.Load())
	assert.Equal(t, int32(1), catHits.Load())
	assert.Equal(t, int32(1), foxHits.Load())
}

func TestFetcher_RepeatedCallsAreIndependent(t *testing.T) {
	var n atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if n.Add(1) == 1 {
			_, _ = w.Write([]byte(`{"url": "first"}`))
			return
		}
		_, _ = w.Write([]byte(`{"url": "second"}`))
	}))
	defer srv.Close()

	f := newTestFetcher(t, time.Second, ProviderConfig{Category: "dog", Endpoint: srv.URL, Shape: Flat("url")})

	first := f.Fetch(context.Background(), "dog")
	second := f.Fetch(context.Background(), "dog")

	assert.Equal(t, "first", first.ImageURL)
	assert.Equal(t, "second", second.ImageURL)
	assert.Equal(t, int32(2), n.Load())
}

func TestFetcher_CancelledContext(t *testing.T) {
	srv, _ := upstream(t, http.StatusOK, `{"url": "X"}`)
	f := newTestFetcher(t, time.Second, ProviderConfig{Category: "dog", Endpoint: srv.URL, Shape: Flat("url")})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := f.Fetch(ctx, "dog")
	assert.Equal(t, NetworkError, res.Kind())
	assert.ErrorIs(t, res.Err, context.Canceled)
}
