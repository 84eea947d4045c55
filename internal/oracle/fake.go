package oracle

import (
	"context"
	"fmt"

	"github.com/mwhitman/cta-engine/internal/types"
)

// Fake is a deterministic Oracle for tests. Each capability can be overridden
// per test; unset capabilities return fixed, reproducible values.
type Fake struct {
	AnnotateFunc   func(ctx context.Context, text string, categories []types.Category) (*types.Annotation, error)
	SimilarityFunc func(ctx context.Context, chunkText string, offers []types.Offer) ([]float64, error)
	AnchorFunc     func(ctx context.Context, req AnchorRequest) (*AnchorResult, error)
}

// AnnotateChunk returns a fixed candidate annotation unless overridden.
func (f *Fake) AnnotateChunk(ctx context.Context, text string, categories []types.Category) (*types.Annotation, error) {
	if f.AnnotateFunc != nil {
		return f.AnnotateFunc(ctx, text, categories)
	}
	return &types.Annotation{
		Themes:                []string{"outreach"},
		PainPoints:            []string{"low response rates"},
		SolutionOpportunities: []string{"automation"},
		ContextClues:          []string{"b2b"},
		ConfidenceScore:       80,
		IsCandidate:           true,
	}, nil
}

// ScoreSimilarity returns 75 for every offer unless overridden.
func (f *Fake) ScoreSimilarity(ctx context.Context, chunkText string, offers []types.Offer) ([]float64, error) {
	if f.SimilarityFunc != nil {
		return f.SimilarityFunc(ctx, chunkText, offers)
	}
	scores := make([]float64, len(offers))
	for i := range scores {
		scores[i] = 75
	}
	return scores, nil
}

// GenerateAnchorText returns stable anchor text derived from the request
// unless overridden.
func (f *Fake) GenerateAnchorText(ctx context.Context, req AnchorRequest) (*AnchorResult, error) {
	if f.AnchorFunc != nil {
		return f.AnchorFunc(ctx, req)
	}
	return &AnchorResult{
		AnchorText:    fmt.Sprintf("Discover %s today", req.OfferTitle),
		Confidence:    85,
		ContextualFit: 80,
		Style:         req.Style,
	}, nil
}
