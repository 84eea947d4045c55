package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articlePage = `<html><body><article><p>Cold email works when lists are clean and verified before every send.</p></article></body></html>`

func newArticleServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(articlePage))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestCachedFetcher_SecondFetchFromCache(t *testing.T) {
	var hits atomic.Int32
	server := newArticleServer(t, &hits)
	fetcher := NewCachedFetcher(nil)

	first, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	assert.Contains(t, first.Text, "Cold email works")
	assert.Contains(t, first.ArticleHTML, "<p>")

	second, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.PageID, second.PageID)
	assert.Equal(t, int32(1), hits.Load())
}

func TestCachedFetcher_TTLExpiry(t *testing.T) {
	var hits atomic.Int32
	server := newArticleServer(t, &hits)

	fetcher := NewCachedFetcher(&CachedFetcherConfig{CacheTTL: time.Minute})
	current := time.Now()
	fetcher.now = func() time.Time { return current }

	_, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	current = current.Add(2 * time.Minute)

	result, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.False(t, result.FromCache)
	assert.Equal(t, int32(2), hits.Load())
}

func TestCachedFetcher_SkipCache(t *testing.T) {
	var hits atomic.Int32
	server := newArticleServer(t, &hits)

	fetcher := NewCachedFetcher(&CachedFetcherConfig{SkipCache: true})

	for i := 0; i < 2; i++ {
		result, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.False(t, result.FromCache)
	}
	assert.Equal(t, int32(2), hits.Load())
}

func TestCachedFetcher_Invalidate(t *testing.T) {
	var hits atomic.Int32
	server := newArticleServer(t, &hits)
	fetcher := NewCachedFetcher(nil)

	_, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	fetcher.InvalidateCache(server.URL)

	result, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.False(t, result.FromCache)
	assert.Equal(t, int32(2), hits.Load())
}

func TestCachedFetcher_FetchMultiple(t *testing.T) {
	var hits atomic.Int32
	server := newArticleServer(t, &hits)
	fetcher := NewCachedFetcher(nil)

	urls := []string{server.URL, server.URL + "/second", "not-a-url"}
	results, errs := fetcher.FetchMultiple(context.Background(), urls)

	require.Len(t, results, 3)
	require.Len(t, errs, 3)
	assert.NotNil(t, results[0])
	assert.NotNil(t, results[1])
	assert.Nil(t, results[2])
	assert.Error(t, errs[2])
}
