package annotation

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhitman/cta-engine/internal/oracle"
	"github.com/mwhitman/cta-engine/internal/types"
)

func makeChunks(n int) []types.Chunk {
	chunks := make([]types.Chunk, n)
	for i := range chunks {
		chunks[i] = types.Chunk{
			ID:       fmt.Sprintf("chunk_%03d", i),
			Content:  fmt.Sprintf("Paragraph %d about cold outreach and response rates.", i),
			Position: i,
		}
	}
	return chunks
}

func fastConfig() Config {
	return Config{BatchSize: 3, BatchInterval: time.Millisecond}
}

func TestAnnotate_AllSucceed(t *testing.T) {
	annotator := NewAnnotator(&oracle.Fake{}, fastConfig())

	annotated, succeeded, err := annotator.Annotate(context.Background(), makeChunks(5))
	require.NoError(t, err)

	assert.Equal(t, 5, succeeded)
	for _, c := range annotated {
		require.NotNil(t, c.Annotation)
		assert.True(t, c.Annotation.IsCandidate)
	}
}

func TestAnnotate_FailedChunkGetsDefaultAnnotation(t *testing.T) {
	fake := &oracle.Fake{
		AnnotateFunc: func(_ context.Context, text string, _ []types.Category) (*types.Annotation, error) {
			if text == "Paragraph 2 about cold outreach and response rates." {
				return nil, fmt.Errorf("oracle unavailable")
			}
			return &types.Annotation{ConfidenceScore: 90, IsCandidate: true}, nil
		},
	}
	annotator := NewAnnotator(fake, fastConfig())

	annotated, succeeded, err := annotator.Annotate(context.Background(), makeChunks(5))
	require.NoError(t, err)

	assert.Equal(t, 4, succeeded)
	require.NotNil(t, annotated[2].Annotation)
	assert.False(t, annotated[2].Annotation.IsCandidate)
	assert.Zero(t, annotated[2].Annotation.ConfidenceScore)
	assert.Empty(t, annotated[2].Annotation.Themes)

	// The failure never leaks into neighboring chunks
	assert.True(t, annotated[1].Annotation.IsCandidate)
	assert.True(t, annotated[3].Annotation.IsCandidate)
}

func TestAnnotate_ClampsConfidence(t *testing.T) {
	fake := &oracle.Fake{
		AnnotateFunc: func(context.Context, string, []types.Category) (*types.Annotation, error) {
			return &types.Annotation{ConfidenceScore: 250, IsCandidate: true}, nil
		},
	}
	annotator := NewAnnotator(fake, fastConfig())

	annotated, _, err := annotator.Annotate(context.Background(), makeChunks(1))
	require.NoError(t, err)
	assert.Equal(t, 100.0, annotated[0].Annotation.ConfidenceScore)
}

func TestAnnotate_BoundedConcurrency(t *testing.T) {
	var inFlight, maxInFlight int64
	var mu sync.Mutex

	fake := &oracle.Fake{
		AnnotateFunc: func(context.Context, string, []types.Category) (*types.Annotation, error) {
			current := atomic.AddInt64(&inFlight, 1)
			mu.Lock()
			if current > maxInFlight {
				maxInFlight = current
			}
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt64(&inFlight, -1)
			return &types.Annotation{IsCandidate: true}, nil
		},
	}
	annotator := NewAnnotator(fake, Config{BatchSize: 3, BatchInterval: time.Millisecond})

	_, succeeded, err := annotator.Annotate(context.Background(), makeChunks(10))
	require.NoError(t, err)
	assert.Equal(t, 10, succeeded)

	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, maxInFlight, int64(3))
}

func TestAnnotate_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls int64
	fake := &oracle.Fake{
		AnnotateFunc: func(context.Context, string, []types.Category) (*types.Annotation, error) {
			if atomic.AddInt64(&calls, 1) == 3 {
				cancel()
			}
			return &types.Annotation{IsCandidate: true}, nil
		},
	}
	annotator := NewAnnotator(fake, Config{BatchSize: 3, BatchInterval: time.Hour})

	_, _, err := annotator.Annotate(ctx, makeChunks(9))
	assert.ErrorIs(t, err, context.Canceled)
	// The second batch never started; the run stopped at the pause
	assert.LessOrEqual(t, atomic.LoadInt64(&calls), int64(3))
}

func TestAnnotate_EmptyInput(t *testing.T) {
	annotator := NewAnnotator(&oracle.Fake{}, fastConfig())
	annotated, succeeded, err := annotator.Annotate(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, annotated)
	assert.Zero(t, succeeded)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultBatchSize, cfg.BatchSize)
	assert.Equal(t, DefaultBatchInterval, cfg.BatchInterval)
}
