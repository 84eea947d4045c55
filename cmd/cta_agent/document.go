package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mwhitman/cta-engine/internal/catalog"
	"github.com/mwhitman/cta-engine/internal/fetch"
	"github.com/mwhitman/cta-engine/internal/llm"
	"github.com/mwhitman/cta-engine/internal/oracle"
	"github.com/mwhitman/cta-engine/internal/types"
)

// detectFormat infers the content format from an explicit flag value or the
// file extension. URLs are always treated as HTML.
func detectFormat(explicit, path string) (types.ContentFormat, error) {
	switch explicit {
	case "html":
		return types.FormatHTML, nil
	case "markdown", "md":
		return types.FormatMarkdown, nil
	case "text", "txt":
		return types.FormatText, nil
	case "":
	default:
		return "", fmt.Errorf("unknown format %q (want html, markdown, or text)", explicit)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return types.FormatHTML, nil
	case ".md", ".markdown":
		return types.FormatMarkdown, nil
	default:
		return types.FormatText, nil
	}
}

// loadDocumentFromFile reads an article from disk.
func loadDocumentFromFile(path, format string) (types.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Document{}, fmt.Errorf("failed to read article %s: %w", path, err)
	}

	contentFormat, err := detectFormat(format, path)
	if err != nil {
		return types.Document{}, err
	}

	return types.Document{Content: string(data), Format: contentFormat}, nil
}

// loadDocumentFromURL fetches an article from the web, optionally rendering
// script-heavy pages in a headless browser.
func loadDocumentFromURL(ctx context.Context, articleURL string, useBrowser, verbose bool) (types.Document, error) {
	fetcher := fetch.NewCachedFetcher(nil)
	result, err := fetcher.Fetch(ctx, articleURL)
	if err != nil {
		return types.Document{}, fmt.Errorf("failed to fetch article: %w", err)
	}

	articleHTML := result.ArticleHTML
	if useBrowser && fetch.ShouldUseBrowser(result.Text) {
		if verbose {
			fmt.Printf("Static fetch too thin (%d chars), rendering with browser...\n", len(result.Text))
		}
		rendered, err := fetch.BrowserSimple(ctx, articleURL, verbose)
		if err != nil {
			return types.Document{}, fmt.Errorf("browser rendering failed: %w", err)
		}
		platform := fetch.DetectPlatform(articleURL)
		articleHTML, err = fetch.ExtractArticleHTML(rendered, fetch.PlatformContentSelectors(platform), fetch.PlatformNoiseSelectors(platform)...)
		if err != nil {
			return types.Document{}, err
		}
	}

	if strings.TrimSpace(articleHTML) == "" {
		return types.Document{}, fmt.Errorf("no article content found at %s", articleURL)
	}

	return types.Document{Content: articleHTML, Format: types.FormatHTML}, nil
}

// loadOffers loads the catalog file, falling back to the built-in catalog.
func loadOffers(path string, verbose bool) ([]types.Offer, error) {
	if path == "" {
		if verbose {
			fmt.Printf("No catalog provided, using built-in offers\n")
		}
		return catalog.Default(), nil
	}
	return catalog.Load(path)
}

// buildOracle constructs the Gemini-backed oracle. The returned close function
// releases the underlying client.
func buildOracle(ctx context.Context, apiKey string) (oracle.Oracle, func(), error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, nil, fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}

	client, err := llm.NewClient(ctx, nil, apiKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return oracle.NewLLMOracle(client), func() { _ = client.Close() }, nil
}
