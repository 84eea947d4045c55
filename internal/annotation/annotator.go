// Package annotation attaches oracle-derived metadata to chunks. Chunks are
// processed in fixed-size batches with an enforced pause between batches so
// the external oracle's rate limits are respected: at most BatchSize calls in
// flight, then wait.
package annotation

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/mwhitman/cta-engine/internal/oracle"
	"github.com/mwhitman/cta-engine/internal/types"
)

const (
	// DefaultBatchSize is the number of concurrent oracle calls per batch.
	DefaultBatchSize = 3
	// DefaultBatchInterval is the minimum spacing between batch starts.
	DefaultBatchInterval = 1 * time.Second
)

// Config tunes the batching discipline. Any batch size and interval are
// acceptable as long as they bound concurrent external calls.
type Config struct {
	BatchSize     int
	BatchInterval time.Duration
}

// DefaultConfig returns the reference batching policy.
func DefaultConfig() Config {
	return Config{
		BatchSize:     DefaultBatchSize,
		BatchInterval: DefaultBatchInterval,
	}
}

// Annotator runs chunk annotation against the text-understanding oracle.
type Annotator struct {
	oracle     oracle.Oracle
	categories []types.Category
	batchSize  int
	limiter    *rate.Limiter
}

// NewAnnotator creates an annotator using the closed category taxonomy.
func NewAnnotator(o oracle.Oracle, cfg Config) *Annotator {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BatchInterval <= 0 {
		cfg.BatchInterval = DefaultBatchInterval
	}
	return &Annotator{
		oracle:     o,
		categories: types.AllCategories(),
		batchSize:  cfg.BatchSize,
		limiter:    rate.NewLimiter(rate.Every(cfg.BatchInterval), 1),
	}
}

// Annotate fills in the Annotation field of every chunk, in place on a copy
// of the slice. A failed oracle call attaches a default empty annotation and
// never aborts the batch or the run; the returned count reports how many
// chunks were annotated successfully. The only error returned is context
// cancellation.
func (a *Annotator) Annotate(ctx context.Context, chunks []types.Chunk) ([]types.Chunk, int, error) {
	annotated := make([]types.Chunk, len(chunks))
	copy(annotated, chunks)

	succeeded := 0
	for start := 0; start < len(annotated); start += a.batchSize {
		// The limiter enforces the inter-batch pause; the first batch
		// proceeds immediately on the initial token.
		if err := a.limiter.Wait(ctx); err != nil {
			return annotated, succeeded, fmt.Errorf("annotation cancelled: %w", err)
		}

		end := start + a.batchSize
		if end > len(annotated) {
			end = len(annotated)
		}

		results := make([]*types.Annotation, end-start)
		g, gCtx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			g.Go(func() error {
				ann, err := a.oracle.AnnotateChunk(gCtx, annotated[i].Content, a.categories)
				if err != nil {
					// Per-chunk failure is isolated: default annotation,
					// keep going.
					return nil
				}
				ann.ClampConfidence()
				results[i-start] = ann
				return nil
			})
		}
		// Goroutines only return nil; Wait is for synchronization.
		_ = g.Wait()

		if err := ctx.Err(); err != nil {
			return annotated, succeeded, fmt.Errorf("annotation cancelled: %w", err)
		}

		for i := start; i < end; i++ {
			if results[i-start] != nil {
				annotated[i].Annotation = results[i-start]
				succeeded++
			} else {
				annotated[i].Annotation = &types.Annotation{}
			}
		}
	}

	return annotated, succeeded, nil
}
