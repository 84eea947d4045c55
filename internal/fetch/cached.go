// Package fetch provides URL fetching with optional in-memory caching.
package fetch

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultCacheTTL is how long a fetched article stays fresh.
const DefaultCacheTTL = time.Hour

// CachedFetcher wraps URL fetching with in-memory caching. Repeated
// enhancement runs against the same article reuse the first fetch instead of
// hammering the publisher.
type CachedFetcher struct {
	mu        sync.Mutex
	entries   map[string]*cacheEntry
	options   *Options
	cacheTTL  time.Duration
	skipCache bool // For testing or forcing fresh fetches
	now       func() time.Time
}

type cacheEntry struct {
	result    *Result
	pageID    uuid.UUID
	fetchedAt time.Time
}

// CachedFetcherConfig holds configuration for the cached fetcher.
type CachedFetcherConfig struct {
	CacheTTL  time.Duration
	SkipCache bool
	Options   *Options
}

// DefaultCachedFetcherConfig returns sensible defaults.
func DefaultCachedFetcherConfig() *CachedFetcherConfig {
	return &CachedFetcherConfig{
		CacheTTL:  DefaultCacheTTL,
		SkipCache: false,
		Options:   DefaultOptions(),
	}
}

// NewCachedFetcher creates a new cached fetcher.
func NewCachedFetcher(config *CachedFetcherConfig) *CachedFetcher {
	if config == nil {
		config = DefaultCachedFetcherConfig()
	}
	if config.Options == nil {
		config.Options = DefaultOptions()
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = DefaultCacheTTL
	}
	return &CachedFetcher{
		entries:   make(map[string]*cacheEntry),
		options:   config.Options,
		cacheTTL:  config.CacheTTL,
		skipCache: config.SkipCache,
		now:       time.Now,
	}
}

// CachedResult extends Result with cache metadata.
type CachedResult struct {
	*Result
	FromCache bool      // Whether this result came from cache
	PageID    uuid.UUID // Stable ID for the cached page
}

// Fetch retrieves a URL, using cache if available and fresh.
// Returns cached content if within TTL, otherwise fetches fresh content and caches it.
func (f *CachedFetcher) Fetch(ctx context.Context, urlStr string) (*CachedResult, error) {
	if !f.skipCache {
		if cached := f.lookup(urlStr); cached != nil {
			return cached, nil
		}
	}

	result, err := URL(ctx, urlStr, f.options)
	if err != nil {
		return nil, err
	}

	// Extract article text alongside the raw HTML
	platform := DetectPlatform(urlStr)
	text, _ := ExtractMainText(result.HTML, PlatformContentSelectors(platform), PlatformNoiseSelectors(platform)...)
	result.Text = text
	articleHTML, _ := ExtractArticleHTML(result.HTML, PlatformContentSelectors(platform), PlatformNoiseSelectors(platform)...)
	result.ArticleHTML = articleHTML

	pageID := uuid.New()
	f.store(urlStr, result, pageID)

	return &CachedResult{
		Result:    result,
		FromCache: false,
		PageID:    pageID,
	}, nil
}

// FetchMultiple fetches multiple URLs with caching.
// Returns results in the same order as input URLs. Failed fetches are nil in the result slice.
func (f *CachedFetcher) FetchMultiple(ctx context.Context, urls []string) ([]*CachedResult, []error) {
	results := make([]*CachedResult, len(urls))
	errors := make([]error, len(urls))

	for i, url := range urls {
		result, err := f.Fetch(ctx, url)
		if err != nil {
			errors[i] = err
		} else {
			results[i] = result
		}
	}

	return results, errors
}

// InvalidateCache drops a cached page, forcing a re-fetch on next request.
func (f *CachedFetcher) InvalidateCache(urlStr string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, urlStr)
}

func (f *CachedFetcher) lookup(urlStr string) *CachedResult {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry, ok := f.entries[urlStr]
	if !ok {
		return nil
	}
	if f.now().Sub(entry.fetchedAt) > f.cacheTTL {
		delete(f.entries, urlStr)
		return nil
	}
	return &CachedResult{
		Result:    entry.result,
		FromCache: true,
		PageID:    entry.pageID,
	}
}

func (f *CachedFetcher) store(urlStr string, result *Result, pageID uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[urlStr] = &cacheEntry{
		result:    result,
		pageID:    pageID,
		fetchedAt: f.now(),
	}
}
