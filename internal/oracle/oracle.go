// Package oracle defines the text-understanding oracle consumed by the
// pipeline: chunk annotation, offer similarity scoring, and anchor text
// generation. The interface is injected so matching and composition logic is
// testable with a deterministic fake; the production implementation delegates
// to the LLM client.
package oracle

import (
	"context"

	"github.com/mwhitman/cta-engine/internal/types"
)

// AnchorRequest describes one anchor text generation call.
type AnchorRequest struct {
	OfferTitle       string
	OfferDescription string
	TargetKeyword    string
	Style            types.AnchorStyle
	MaxLength        int
	IncludeValueProp bool
}

// AnchorResult is the generator's response for one anchor request.
type AnchorResult struct {
	AnchorText    string
	Confidence    float64 // 0-100
	ContextualFit float64 // 0-100
	Style         types.AnchorStyle
}

// Oracle is the external text-understanding boundary. Responses are
// untrusted: implementations must return an error rather than panic on
// malformed provider output, and callers must treat every error as
// recoverable.
type Oracle interface {
	// AnnotateChunk analyzes one chunk of article text against the closed
	// category taxonomy.
	AnnotateChunk(ctx context.Context, text string, categories []types.Category) (*types.Annotation, error)

	// ScoreSimilarity scores a chunk against a list of offers, returning one
	// 0-100 score per offer in input order.
	ScoreSimilarity(ctx context.Context, chunkText string, offers []types.Offer) ([]float64, error)

	// GenerateAnchorText produces anchor text for a CTA in the requested style.
	GenerateAnchorText(ctx context.Context, req AnchorRequest) (*AnchorResult, error)
}
