// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Article    string `json:"article,omitempty"`     // Path to article file
	ArticleURL string `json:"article_url,omitempty"` // URL to fetch the article from
	Catalog    string `json:"catalog,omitempty"`     // Path to the offer catalog JSON
	Output     string `json:"output,omitempty"`      // Path to write the enhanced article

	// Campaign
	Campaign       string `json:"campaign,omitempty"`        // Campaign type for UTM tagging
	TargetKeyword  string `json:"target_keyword,omitempty"`  // Keyword used for utm_term
	CompetitorName string `json:"competitor_name,omitempty"` // Competitor for conquesting campaigns
	ProviderDomain string `json:"provider_domain,omitempty"` // Expected host suffix for CTA URLs

	// Limits
	MaxCTAs    int `json:"max_ctas,omitempty"`    // Maximum CTAs per article
	MinSpacing int `json:"min_spacing,omitempty"` // Minimum chunk gap between insertions

	// Behavior
	APIKey              string  `json:"api_key,omitempty"`              // Gemini API key
	UseBrowser          bool    `json:"use_browser,omitempty"`          // Use headless browser for SPA sites
	Verbose             bool    `json:"verbose,omitempty"`              // Print detailed debug information
	ConfidenceThreshold float64 `json:"confidence_threshold,omitempty"` // Minimum match confidence (0-100)
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	// Validate mutually exclusive fields
	if c.Article != "" && c.ArticleURL != "" {
		return fmt.Errorf("config error: 'article' and 'article_url' are mutually exclusive")
	}

	// Validate numeric ranges
	if c.MaxCTAs < 0 {
		return fmt.Errorf("config error: 'max_ctas' must be non-negative")
	}
	if c.MinSpacing < 0 {
		return fmt.Errorf("config error: 'min_spacing' must be non-negative")
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 100 {
		return fmt.Errorf("config error: 'confidence_threshold' must be between 0 and 100")
	}

	// Validate file paths exist (if specified)
	if c.Article != "" {
		if _, err := os.Stat(c.Article); os.IsNotExist(err) {
			return fmt.Errorf("config error: article file not found: %s", c.Article)
		}
	}

	if c.Catalog != "" {
		if _, err := os.Stat(c.Catalog); os.IsNotExist(err) {
			return fmt.Errorf("config error: catalog file not found: %s", c.Catalog)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty string fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Article == "" {
		result.Article = defaults.Article
	}
	if result.ArticleURL == "" {
		result.ArticleURL = defaults.ArticleURL
	}
	if result.Catalog == "" {
		result.Catalog = defaults.Catalog
	}
	if result.Output == "" {
		result.Output = defaults.Output
	}
	if result.Campaign == "" {
		result.Campaign = defaults.Campaign
	}
	if result.TargetKeyword == "" {
		result.TargetKeyword = defaults.TargetKeyword
	}
	if result.CompetitorName == "" {
		result.CompetitorName = defaults.CompetitorName
	}
	if result.ProviderDomain == "" {
		result.ProviderDomain = defaults.ProviderDomain
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}

	// Int fields: use default if zero
	if result.MaxCTAs == 0 {
		result.MaxCTAs = defaults.MaxCTAs
	}
	if result.MinSpacing == 0 {
		result.MinSpacing = defaults.MinSpacing
	}

	// Float fields
	if result.ConfidenceThreshold == 0 {
		result.ConfidenceThreshold = defaults.ConfidenceThreshold
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
