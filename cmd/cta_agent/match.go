package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mwhitman/cta-engine/internal/annotation"
	"github.com/mwhitman/cta-engine/internal/chunking"
	"github.com/mwhitman/cta-engine/internal/matching"
	"github.com/mwhitman/cta-engine/internal/observability"
)

var matchCommand = &cobra.Command{
	Use:   "match",
	Short: "Annotate an article and print its offer matches",
	Long:  "Runs chunking, annotation, and matching against the offer catalog, then prints the match table without composing or inserting any CTAs.",
	RunE:  runMatchCmd,
}

var (
	matchArticle   string
	matchFormat    string
	matchCatalog   string
	matchThreshold float64
	matchAPIKey    string
)

func init() {
	matchCommand.Flags().StringVarP(&matchArticle, "article", "a", "", "Path to article file (required)")
	matchCommand.Flags().StringVarP(&matchFormat, "format", "f", "", "Content format: html, markdown, or text (default inferred from extension)")
	matchCommand.Flags().StringVar(&matchCatalog, "catalog", "", "Path to offer catalog JSON (default built-in catalog)")
	matchCommand.Flags().Float64Var(&matchThreshold, "threshold", 0, "Minimum match confidence (0-100)")
	matchCommand.Flags().StringVar(&matchAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	_ = matchCommand.MarkFlagRequired("article")

	rootCmd.AddCommand(matchCommand)
}

func runMatchCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	doc, err := loadDocumentFromFile(matchArticle, matchFormat)
	if err != nil {
		return err
	}

	offers, err := loadOffers(matchCatalog, true)
	if err != nil {
		return err
	}

	textOracle, closeOracle, err := buildOracle(ctx, matchAPIKey)
	if err != nil {
		return err
	}
	defer closeOracle()

	chunked, err := chunking.Chunk(doc)
	if err != nil {
		return err
	}
	fmt.Printf("Chunked article into %d chunks\n", len(chunked.Chunks))

	annotator := annotation.NewAnnotator(textOracle, annotation.Config{})
	annotated, succeeded, err := annotator.Annotate(ctx, chunked.Chunks)
	if err != nil {
		return err
	}
	fmt.Printf("Annotated %d of %d chunks\n", succeeded, len(annotated))

	matcher := matching.NewMatcher(textOracle, matching.Config{MinConfidenceThreshold: matchThreshold})
	result, err := matcher.Match(ctx, annotated, offers)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintChunks(annotated)
	printer.PrintMatches(result.Matches)

	if len(result.Unmatched) > 0 {
		fmt.Printf("Unmatched candidate chunks: %v\n", result.Unmatched)
	}
	return nil
}
