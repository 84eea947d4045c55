// Package pipeline provides the high-level orchestration for article
// enhancement: chunk, annotate, match, compose, select, splice.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mwhitman/cta-engine/internal/annotation"
	"github.com/mwhitman/cta-engine/internal/chunking"
	"github.com/mwhitman/cta-engine/internal/composing"
	"github.com/mwhitman/cta-engine/internal/insertion"
	"github.com/mwhitman/cta-engine/internal/matching"
	"github.com/mwhitman/cta-engine/internal/observability"
	"github.com/mwhitman/cta-engine/internal/oracle"
	"github.com/mwhitman/cta-engine/internal/types"
)

// MaxContentBytes is the largest article the pipeline accepts.
const MaxContentBytes = 500 * 1024

// Input validation errors. These are the only errors that abort a run; any
// internal failure either degrades gracefully or is wrapped as ErrProcessing.
var (
	ErrContentRequired   = errors.New("content is required")
	ErrContentTooLarge   = errors.New("content too large")
	ErrNoValidParagraphs = errors.New("no valid paragraphs found")
	ErrProcessing        = errors.New("processing failed, please retry")
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Pipeline step names for progress events.
const (
	StepChunk    = "chunk"
	StepAnnotate = "annotate"
	StepMatch    = "match"
	StepCompose  = "compose"
	StepSelect   = "select"
	StepSplice   = "splice"
)

// EnhanceOptions holds configuration for one enhancement run.
type EnhanceOptions struct {
	Document types.Document
	Offers   []types.Offer

	AnnotationConfig annotation.Config
	MatcherConfig    matching.Config
	ComposerConfig   composing.Config
	ComposeOptions   composing.Options
	Constraints      insertion.Constraints

	// ProviderDomain, when set, is the host every composed CTA URL must
	// belong to; the quality gate reports a violation otherwise.
	ProviderDomain string

	Verbose    bool
	OnProgress ProgressCallback
}

// Enhancer runs the enhancement pipeline against an injected oracle.
type Enhancer struct {
	oracle oracle.Oracle
	out    io.Writer
}

// NewEnhancer creates an Enhancer writing progress output to stdout.
func NewEnhancer(o oracle.Oracle) *Enhancer {
	return &Enhancer{oracle: o, out: os.Stdout}
}

// SetOutput redirects step output, mainly for tests.
func (e *Enhancer) SetOutput(out io.Writer) {
	e.out = out
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *EnhanceOptions, runID, step, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{
			Step:    step,
			Message: message,
			RunID:   runID,
			Content: content,
		})
	}
}

// Enhance orchestrates the full enhancement pipeline. A document that yields
// no insertions still returns successfully with the content unchanged.
func (e *Enhancer) Enhance(ctx context.Context, opts EnhanceOptions) (*types.EnhancedDocument, error) {
	if err := validateInput(&opts.Document); err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	printer := observability.NewPrinter(e.out)

	// Step 1: Chunk
	fmt.Fprintf(e.out, "Step 1/6: Chunking article (%d bytes, %s)...\n", len(opts.Document.Content), opts.Document.Format)
	chunked, err := chunking.Chunk(opts.Document)
	if err != nil {
		return nil, e.internalError("chunking", err)
	}
	if len(chunked.Chunks) == 0 {
		return nil, ErrNoValidParagraphs
	}
	emitProgress(&opts, runID, StepChunk,
		fmt.Sprintf("Split article into %d chunks", len(chunked.Chunks)), nil)

	// Step 2: Annotate
	fmt.Fprintf(e.out, "Step 2/6: Annotating %d chunks...\n", len(chunked.Chunks))
	annotator := annotation.NewAnnotator(e.oracle, opts.AnnotationConfig)
	annotated, succeeded, err := annotator.Annotate(ctx, chunked.Chunks)
	if err != nil {
		return nil, e.internalError("annotation", err)
	}
	if succeeded < len(annotated) {
		fmt.Fprintf(e.out, "Warning: %d of %d chunks could not be annotated, continuing with defaults\n",
			len(annotated)-succeeded, len(annotated))
	}
	if opts.Verbose {
		printer.PrintChunks(annotated)
	}
	emitProgress(&opts, runID, StepAnnotate,
		fmt.Sprintf("Annotated %d of %d chunks", succeeded, len(annotated)), nil)

	// Step 3: Match
	fmt.Fprintf(e.out, "Step 3/6: Matching chunks against %d offers...\n", len(opts.Offers))
	matcher := matching.NewMatcher(e.oracle, opts.MatcherConfig)
	matchResult, err := matcher.Match(ctx, annotated, opts.Offers)
	if err != nil {
		return nil, e.internalError("matching", err)
	}
	if opts.Verbose {
		printer.PrintMatches(matchResult.Matches)
	}
	emitProgress(&opts, runID, StepMatch,
		fmt.Sprintf("Found %d matches (%d chunks unmatched)", len(matchResult.Matches), len(matchResult.Unmatched)), nil)

	if len(matchResult.Matches) == 0 {
		fmt.Fprintf(e.out, "No offers matched; returning article unchanged.\n")
		return e.passthrough(opts.Document, chunked.Blocks)
	}

	// Step 4: Compose CTAs for the best match of each chunk
	best := bestMatchPerChunk(matchResult.Matches)
	fmt.Fprintf(e.out, "Step 4/6: Composing CTAs for %d matched chunks...\n", len(best))
	composer := composing.NewComposer(e.oracle, opts.ComposerConfig)

	var candidates []insertion.Candidate
	var compositions []types.CompositionResult
	for _, chunk := range annotated {
		match, ok := best[chunk.ID]
		if !ok {
			continue
		}
		composed, err := composer.Compose(ctx, match, opts.ComposeOptions)
		if err != nil {
			fmt.Fprintf(e.out, "Warning: composing CTA for %s failed: %v\n", chunk.ID, err)
			continue
		}
		// Quality gate: issues are surfaced, not fatal; the candidate still
		// goes to selection.
		if report := composing.ValidateCTA(composed.Primary, opts.ProviderDomain); !report.Valid {
			fmt.Fprintf(e.out, "Warning: CTA for %s scored %.0f on quality checks: %s\n",
				chunk.ID, report.QualityScore, strings.Join(report.Issues, "; "))
		}
		candidates = append(candidates, insertion.Candidate{
			Chunk:       chunk,
			Match:       match,
			Composition: *composed,
		})
		compositions = append(compositions, *composed)
	}
	if opts.Verbose {
		printer.PrintCompositions(compositions)
	}
	emitProgress(&opts, runID, StepCompose,
		fmt.Sprintf("Composed %d CTAs", len(candidates)), nil)

	if len(candidates) == 0 {
		fmt.Fprintf(e.out, "No CTAs could be composed; returning article unchanged.\n")
		return e.passthrough(opts.Document, chunked.Blocks)
	}

	// Step 5: Select insertion points
	fmt.Fprintf(e.out, "Step 5/6: Selecting insertion points...\n")
	points := insertion.SelectInsertionPoints(candidates, opts.Constraints)
	emitProgress(&opts, runID, StepSelect,
		fmt.Sprintf("Selected %d insertion points", len(points)), nil)

	// Step 6: Splice
	fmt.Fprintf(e.out, "Step 6/6: Splicing %d CTAs into article...\n", len(points))
	enhanced, err := insertion.Splice(opts.Document, chunked.Blocks, points)
	if err != nil {
		return nil, e.internalError("splicing", err)
	}
	if opts.Verbose {
		printer.PrintEnhancedDocument(enhanced)
	}
	emitProgress(&opts, runID, StepSplice,
		fmt.Sprintf("Inserted %d CTAs", enhanced.TotalInsertions), enhanced)

	fmt.Fprintf(e.out, "Done! Inserted %d CTAs.\n", enhanced.TotalInsertions)
	return enhanced, nil
}

var docValidate = validator.New(validator.WithRequiredStructEnabled())

// validateInput enforces the document-level input contract.
func validateInput(doc *types.Document) error {
	if len(doc.Content) == 0 {
		return ErrContentRequired
	}
	if len(doc.Content) > MaxContentBytes {
		return fmt.Errorf("%w: %d bytes exceeds %d byte limit", ErrContentTooLarge, len(doc.Content), MaxContentBytes)
	}
	if err := docValidate.Struct(doc); err != nil {
		return fmt.Errorf("unsupported content format %q", doc.Format)
	}
	return nil
}

// internalError logs the underlying failure and returns the generic retry
// error so callers never see stage internals.
func (e *Enhancer) internalError(stage string, err error) error {
	fmt.Fprintf(e.out, "Error: %s stage failed: %v\n", stage, err)
	return ErrProcessing
}

// passthrough builds an unmodified result for runs that produced nothing to
// insert.
func (e *Enhancer) passthrough(doc types.Document, blocks []types.Block) (*types.EnhancedDocument, error) {
	return insertion.Splice(doc, blocks, nil)
}

// bestMatchPerChunk keeps the highest-confidence match for each chunk.
func bestMatchPerChunk(matches []types.Match) map[string]types.Match {
	best := make(map[string]types.Match, len(matches))
	for _, match := range matches {
		if current, ok := best[match.ChunkID]; !ok || match.ConfidenceScore > current.ConfidenceScore {
			best[match.ChunkID] = match
		}
	}
	return best
}
