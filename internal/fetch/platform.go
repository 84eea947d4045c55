// Package fetch - platform.go provides blog platform detection and platform-specific selectors.
package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known blog hosting platform.
type Platform string

const (
	// PlatformMedium is the Medium publishing platform
	PlatformMedium Platform = "medium"
	// PlatformSubstack is the Substack newsletter platform
	PlatformSubstack Platform = "substack"
	// PlatformGhost is the Ghost publishing platform
	PlatformGhost Platform = "ghost"
	// PlatformWordPress is a WordPress-hosted blog
	PlatformWordPress Platform = "wordpress"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

// DetectPlatform identifies the blog platform from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Host)

	// Medium patterns
	if strings.Contains(host, "medium.com") ||
		strings.HasSuffix(host, ".medium.com") {
		return PlatformMedium
	}

	// Substack patterns
	if strings.Contains(host, "substack.com") {
		return PlatformSubstack
	}

	// Ghost patterns
	if strings.Contains(host, "ghost.io") {
		return PlatformGhost
	}

	// WordPress patterns
	if strings.Contains(host, "wordpress.com") ||
		strings.Contains(host, "wp.com") {
		return PlatformWordPress
	}

	return PlatformUnknown
}

// PlatformContentSelectors returns content selectors optimized for a specific platform.
func PlatformContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformMedium:
		return []string{
			"article section",
			"article",
			".postArticle-content",
			".section-content",
		}
	case PlatformSubstack:
		return []string{
			".available-content",
			".body.markup",
			".post-content",
			"article",
		}
	case PlatformGhost:
		return []string{
			".gh-content",
			".post-content",
			".post-full-content",
			"article",
		}
	case PlatformWordPress:
		return []string{
			".entry-content",
			".post-content",
			".wp-block-post-content",
			"article",
		}
	default:
		return ArticleSelectors()
	}
}

// PlatformNoiseSelectors returns noise exclusion selectors for a specific platform.
func PlatformNoiseSelectors(platform Platform) []string {
	// Common noise selectors for all platforms
	common := []string{
		// Subscription and signup prompts
		".subscribe-widget",
		".subscription-widget",
		".signup-form",
		".newsletter-signup",
		".email-capture",

		// Engagement chrome
		".social-share",
		".share-buttons",
		".social-links",
		".comments",
		".comments-section",
		".related-posts",
		".author-bio",

		// Cookie and GDPR
		".cookie-banner",
		".cookie-consent",
		".gdpr-notice",
	}

	// Platform-specific noise selectors
	switch platform {
	case PlatformMedium:
		return append(common,
			".js-postMetaLockup",
			".js-actionMultirecommend",
			".metabar",
			".js-stickyFooter",
		)
	case PlatformSubstack:
		return append(common,
			".subscribe-dialog",
			".paywall",
			".post-ufi",
			".subscription-widget-wrap",
		)
	case PlatformGhost:
		return append(common,
			".gh-signup",
			".gh-subscribe",
			".gh-post-upgrade-cta",
		)
	case PlatformWordPress:
		return append(common,
			".jp-relatedposts",
			".sharedaddy",
			".wp-block-comments",
		)
	default:
		return common
	}
}
