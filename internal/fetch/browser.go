// Package fetch - browser.go renders client-side articles in a headless
// browser when plain HTTP fetching comes back without a usable body.
package fetch

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// MinContentLength is the shortest extracted text accepted from a plain HTTP
// fetch. Anything below it is assumed to be an app shell waiting for
// JavaScript to hydrate the article.
const MinContentLength = 500

// articlePollInterval is how often the renderer re-checks for article content.
const articlePollInterval = 250 * time.Millisecond

// ShouldUseBrowser reports whether the extracted text is too short to be a
// real article body.
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// overlaySelectors target the dialogs blog platforms put between the reader
// and the article: cookie consent, subscribe prompts, paywall teasers.
var overlaySelectors = []string{
	`button[id*="accept"], button[class*="accept"]`,
	`button[aria-label*="close"], button[class*="close"]`,
	`[class*="subscribe"] button[class*="dismiss"]`,
	`[data-testid="maybeLater"]`,
}

// WithBrowser renders url in a headless browser and returns the hydrated DOM.
// Instead of a fixed settle delay it polls for a recognizable article
// container, then scrolls the page once so lazy-loaded paragraphs attach
// before the HTML is captured. Requires Chrome/Chromium on the system.
func WithBrowser(ctx context.Context, url string, timeout time.Duration, verbose bool) (string, error) {
	if verbose {
		log.Printf("[BROWSER] Rendering %s", url)
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		waitForArticleBody(timeout/3),
		dismissOverlays(),
		// One full-page scroll triggers lazy paragraph and image loading
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
		chromedp.Sleep(articlePollInterval),
		chromedp.Evaluate(`window.scrollTo(0, 0)`, nil),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	if verbose {
		log.Printf("[BROWSER] Rendered HTML: %d bytes", len(html))
	}

	return html, nil
}

// BrowserSimple renders with the default 30 second timeout.
func BrowserSimple(ctx context.Context, url string, verbose bool) (string, error) {
	return WithBrowser(ctx, url, 30*time.Second, verbose)
}

// waitForArticleBody polls until one of the known article containers is
// attached to the DOM. Giving up is not an error; extraction falls back to
// the body element downstream.
func waitForArticleBody(maxWait time.Duration) chromedp.ActionFunc {
	return func(ctx context.Context) error {
		deadline := time.Now().Add(maxWait)
		script := articleProbeScript()
		for {
			var found bool
			if err := chromedp.Evaluate(script, &found).Do(ctx); err != nil {
				return err
			}
			if found || time.Now().After(deadline) {
				return nil
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(articlePollInterval):
			}
		}
	}
}

// articleProbeScript builds the expression that detects a rendered article.
func articleProbeScript() string {
	return fmt.Sprintf("document.querySelector(%q) !== null", strings.Join(ArticleSelectors(), ", "))
}

// dismissOverlays clicks through reader-blocking dialogs. Selectors that
// match nothing are skipped silently.
func dismissOverlays() chromedp.ActionFunc {
	return func(ctx context.Context) error {
		for _, selector := range overlaySelectors {
			clickCtx, cancel := context.WithTimeout(ctx, articlePollInterval)
			_ = chromedp.Click(selector, chromedp.NodeVisible).Do(clickCtx)
			cancel()
		}
		return nil
	}
}
