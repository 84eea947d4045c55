package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL_Success(t *testing.T) {
	// Create test server
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html><body><h1>Test</h1></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.HTML, "<h1>Test</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
}

func TestURL_InvalidURL(t *testing.T) {
	_, err := URL(context.Background(), "not-a-valid-url", nil)
	require.Error(t, err)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "invalid URL")
}

func TestURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.NotNil(t, result) // Result is returned even on error
	assert.Equal(t, http.StatusNotFound, result.StatusCode)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "404")
}

func TestExtractMainText_WithArticleElement(t *testing.T) {
	html := `
	<html>
		<body>
			<nav>Navigation</nav>
			<article>
				<h1>Cold Email Deliverability</h1>
				<p>Bounce rates kill sender reputation.</p>
			</article>
			<footer>Footer</footer>
		</body>
	</html>`

	text, err := ExtractMainText(html, ArticleSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "Cold Email Deliverability")
	assert.Contains(t, text, "Bounce rates")
	assert.NotContains(t, text, "Navigation")
	assert.NotContains(t, text, "Footer")
}

func TestExtractMainText_FallbackToBody(t *testing.T) {
	html := `
	<html>
		<body>
			<div>Some content here.</div>
		</body>
	</html>`

	text, err := ExtractMainText(html, ArticleSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "Some content here")
}

func TestExtractArticleHTML_KeepsParagraphTags(t *testing.T) {
	html := `
	<html>
		<body>
			<div class="sidebar">Sidebar junk</div>
			<div class="post-content">
				<h2>Why Lists Go Stale</h2>
				<p>People change jobs every few years.</p>
			</div>
		</body>
	</html>`

	articleHTML, err := ExtractArticleHTML(html, ArticleSelectors())
	require.NoError(t, err)
	assert.Contains(t, articleHTML, "<h2>Why Lists Go Stale</h2>")
	assert.Contains(t, articleHTML, "<p>People change jobs every few years.</p>")
	assert.NotContains(t, articleHTML, "Sidebar junk")
}

func TestExtractArticleHTML_NoiseSelectors(t *testing.T) {
	html := `
	<html>
		<body>
			<article>
				<p>Real paragraph.</p>
				<div class="subscribe-widget">Subscribe now!</div>
			</article>
		</body>
	</html>`

	articleHTML, err := ExtractArticleHTML(html, ArticleSelectors(), ".subscribe-widget")
	require.NoError(t, err)
	assert.Contains(t, articleHTML, "Real paragraph.")
	assert.NotContains(t, articleHTML, "Subscribe now!")
}

func TestArticleSelectors(t *testing.T) {
	selectors := ArticleSelectors()
	assert.Contains(t, selectors, "article")
	assert.Contains(t, selectors, ".post-content")
}

func TestDefaultTextSelectors(t *testing.T) {
	selectors := DefaultTextSelectors()
	assert.Contains(t, selectors, "main")
	assert.Contains(t, selectors, "article")
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser("short"))
	assert.True(t, ShouldUseBrowser("   "))

	long := make([]byte, MinContentLength+1)
	for i := range long {
		long[i] = 'a'
	}
	assert.False(t, ShouldUseBrowser(string(long)))
}
