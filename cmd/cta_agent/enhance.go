package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mwhitman/cta-engine/internal/composing"
	"github.com/mwhitman/cta-engine/internal/config"
	"github.com/mwhitman/cta-engine/internal/insertion"
	"github.com/mwhitman/cta-engine/internal/matching"
	"github.com/mwhitman/cta-engine/internal/pipeline"
	"github.com/mwhitman/cta-engine/internal/types"
)

var enhanceCommand = &cobra.Command{
	Use:   "enhance",
	Short: "Run the full CTA enhancement pipeline on an article",
	Long: `Chunks an article, annotates it for marketing signals, matches chunks against
the offer catalog, composes tracked CTAs, and splices them into the content.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runEnhanceCmd,
}

var (
	enhanceConfigPath string
	enhanceArticle    string
	enhanceURL        string
	enhanceFormat     string
	enhanceCatalog    string
	enhanceOutput     string
	enhanceCampaign   string
	enhanceKeyword    string
	enhanceCompetitor string
	enhanceProvider   string
	enhanceMaxCTAs    int
	enhanceSpacing    int
	enhanceThreshold  float64
	enhanceAPIKey     string
	enhanceBrowser    bool
	enhanceVerbose    bool
)

func init() {
	// Config file flag (processed first)
	enhanceCommand.Flags().StringVar(&enhanceConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	enhanceCommand.Flags().StringVarP(&enhanceArticle, "article", "a", "", "Path to article file (mutually exclusive with --url)")
	enhanceCommand.Flags().StringVar(&enhanceURL, "url", "", "URL to fetch the article from (mutually exclusive with --article)")
	enhanceCommand.Flags().StringVarP(&enhanceFormat, "format", "f", "", "Content format: html, markdown, or text (default inferred from extension)")
	enhanceCommand.Flags().StringVar(&enhanceCatalog, "catalog", "", "Path to offer catalog JSON (default built-in catalog)")
	enhanceCommand.Flags().StringVarP(&enhanceOutput, "output", "o", "", "Path to write the enhanced article (default stdout)")
	enhanceCommand.Flags().StringVar(&enhanceCampaign, "campaign", "", "Campaign type: blog_creator, reddit_content_creator, or competitor_conquesting")
	enhanceCommand.Flags().StringVar(&enhanceKeyword, "target-keyword", "", "Target keyword for utm_term tagging")
	enhanceCommand.Flags().StringVar(&enhanceCompetitor, "competitor", "", "Competitor name for conquesting campaigns")
	enhanceCommand.Flags().StringVar(&enhanceProvider, "provider-domain", "", "Expected host of CTA destination URLs, flagged by the quality gate on mismatch")
	enhanceCommand.Flags().IntVar(&enhanceMaxCTAs, "max-ctas", 0, "Maximum CTAs per article")
	enhanceCommand.Flags().IntVar(&enhanceSpacing, "min-spacing", 0, "Minimum chunk gap between insertions")
	enhanceCommand.Flags().Float64Var(&enhanceThreshold, "threshold", 0, "Minimum match confidence (0-100)")
	enhanceCommand.Flags().BoolVar(&enhanceBrowser, "use-browser", false, "Use headless browser for script-rendered pages (requires Chrome)")
	enhanceCommand.Flags().BoolVarP(&enhanceVerbose, "verbose", "v", false, "Print detailed debug information")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	enhanceCommand.Flags().StringVar(&enhanceAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	rootCmd.AddCommand(enhanceCommand)
}

// resolveEnhanceConfig merges the enhance command's flags over a loaded config
// file. Flags that were set on the command line win; everything else falls
// back to the file value.
func resolveEnhanceConfig(cmd *cobra.Command, fileCfg config.Config) config.Config {
	overrides := config.Config{}
	if cmd.Flags().Changed("article") {
		overrides.Article = enhanceArticle
	}
	if cmd.Flags().Changed("url") {
		overrides.ArticleURL = enhanceURL
	}
	if cmd.Flags().Changed("catalog") {
		overrides.Catalog = enhanceCatalog
	}
	if cmd.Flags().Changed("output") {
		overrides.Output = enhanceOutput
	}
	if cmd.Flags().Changed("campaign") {
		overrides.Campaign = enhanceCampaign
	}
	if cmd.Flags().Changed("target-keyword") {
		overrides.TargetKeyword = enhanceKeyword
	}
	if cmd.Flags().Changed("competitor") {
		overrides.CompetitorName = enhanceCompetitor
	}
	if cmd.Flags().Changed("provider-domain") {
		overrides.ProviderDomain = enhanceProvider
	}
	if cmd.Flags().Changed("max-ctas") {
		overrides.MaxCTAs = enhanceMaxCTAs
	}
	if cmd.Flags().Changed("min-spacing") {
		overrides.MinSpacing = enhanceSpacing
	}
	if cmd.Flags().Changed("threshold") {
		overrides.ConfidenceThreshold = enhanceThreshold
	}
	if cmd.Flags().Changed("api-key") {
		overrides.APIKey = enhanceAPIKey
	}

	cfg := overrides.MergeWithDefaults(fileCfg)

	// Bool fields are not merged by emptiness; the flag wins only when set
	cfg.UseBrowser = fileCfg.UseBrowser
	cfg.Verbose = fileCfg.Verbose
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = enhanceBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = enhanceVerbose
	}

	return cfg
}

func runEnhanceCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var fileCfg config.Config
	if enhanceConfigPath != "" {
		loadedCfg, err := config.LoadConfig(enhanceConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if err := loadedCfg.Validate(); err != nil {
			return err
		}

		fileCfg = *loadedCfg
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	cfg := resolveEnhanceConfig(cmd, fileCfg)
	if cfg.Verbose && enhanceConfigPath != "" {
		fmt.Printf("Loaded config from: %s\n", enhanceConfigPath)
	}

	// Step 3: Validate required fields
	if cfg.Article == "" && cfg.ArticleURL == "" {
		return fmt.Errorf("either --article or --url must be provided (via flag or config)")
	}
	if cfg.Article != "" && cfg.ArticleURL != "" {
		return fmt.Errorf("--article and --url are mutually exclusive; provide only one")
	}

	// Step 4: Load inputs
	var doc types.Document
	var err error
	if cfg.ArticleURL != "" {
		fmt.Printf("Fetching article from %s...\n", cfg.ArticleURL)
		doc, err = loadDocumentFromURL(ctx, cfg.ArticleURL, cfg.UseBrowser, cfg.Verbose)
	} else {
		doc, err = loadDocumentFromFile(cfg.Article, enhanceFormat)
	}
	if err != nil {
		return err
	}

	offers, err := loadOffers(cfg.Catalog, cfg.Verbose)
	if err != nil {
		return err
	}

	// Step 5: Build oracle and run the pipeline
	textOracle, closeOracle, err := buildOracle(ctx, cfg.APIKey)
	if err != nil {
		return err
	}
	defer closeOracle()

	enhancer := pipeline.NewEnhancer(textOracle)
	enhanced, err := enhancer.Enhance(ctx, pipeline.EnhanceOptions{
		Document:      doc,
		Offers:        offers,
		MatcherConfig: matching.Config{MinConfidenceThreshold: cfg.ConfidenceThreshold},
		ComposeOptions: composing.Options{
			TargetKeyword:  cfg.TargetKeyword,
			CampaignType:   types.CampaignType(cfg.Campaign),
			CompetitorName: cfg.CompetitorName,
		},
		Constraints: insertion.Constraints{
			MaxCTAsPerArticle: cfg.MaxCTAs,
			MinCTASpacing:     cfg.MinSpacing,
		},
		ProviderDomain: cfg.ProviderDomain,
		Verbose:        cfg.Verbose,
	})
	if err != nil {
		return err
	}

	// Step 6: Write the enhanced article
	if cfg.Output != "" {
		if err := os.WriteFile(cfg.Output, []byte(enhanced.EnhancedContent), 0o644); err != nil {
			return fmt.Errorf("failed to write output %s: %w", cfg.Output, err)
		}
		fmt.Printf("Enhanced article written to %s (%d CTAs inserted)\n", cfg.Output, enhanced.TotalInsertions)
		return nil
	}

	fmt.Println(enhanced.EnhancedContent)
	return nil
}
