package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhitman/cta-engine/internal/composing"
	"github.com/mwhitman/cta-engine/internal/matching"
	"github.com/mwhitman/cta-engine/internal/oracle"
	"github.com/mwhitman/cta-engine/internal/types"
)

const testParagraph = "Our email campaigns suffer when the bounce rate climbs and deliverability drops through the floor."

func testArticle(paragraphs int) types.Document {
	parts := make([]string, paragraphs)
	for i := range parts {
		parts[i] = fmt.Sprintf("Section %d. %s", i+1, testParagraph)
	}
	return types.Document{
		Content: strings.Join(parts, "\n\n"),
		Format:  types.FormatMarkdown,
	}
}

func testOffers() []types.Offer {
	return []types.Offer{
		{
			ID:                "offer_verify",
			Title:             "VerifyStack",
			Description:       "Email list cleaning",
			URL:               "https://verifystack.example.com/signup",
			Category:          types.CategoryEmailVerification,
			PainPointKeywords: []string{"bounce rate", "spam folder"},
			SolutionKeywords:  []string{"email verification"},
			ContextClues:      []string{"deliverability"},
			Priority:          9,
		},
	}
}

func matchingAnnotation() *types.Annotation {
	return &types.Annotation{
		Themes:                []string{"email", "verification"},
		PainPoints:            []string{"bounce rate"},
		SolutionOpportunities: []string{"email verification"},
		ConfidenceScore:       85,
		IsCandidate:           true,
	}
}

func newTestEnhancer(fake *oracle.Fake) (*Enhancer, *bytes.Buffer) {
	enhancer := NewEnhancer(fake)
	var buf bytes.Buffer
	enhancer.SetOutput(&buf)
	return enhancer, &buf
}

func TestEnhance_EndToEnd(t *testing.T) {
	fake := &oracle.Fake{
		AnnotateFunc: func(context.Context, string, []types.Category) (*types.Annotation, error) {
			return matchingAnnotation(), nil
		},
	}
	enhancer, _ := newTestEnhancer(fake)

	var events []ProgressEvent
	enhanced, err := enhancer.Enhance(context.Background(), EnhanceOptions{
		Document:      testArticle(5),
		Offers:        testOffers(),
		MatcherConfig: matching.Config{MinConfidenceThreshold: 60},
		OnProgress:    func(e ProgressEvent) { events = append(events, e) },
	})
	require.NoError(t, err)

	// Five qualifying chunks, capped at three insertions with spacing
	assert.Equal(t, 3, enhanced.TotalInsertions)
	assert.Contains(t, enhanced.EnhancedContent, "[Discover VerifyStack today](")
	assert.Contains(t, enhanced.EnhancedContent, "utm_campaign=blog_creator")
	assert.Contains(t, enhanced.EnhancedContent, "utm_medium=contextual_cta")
	assert.Equal(t, testArticle(5).Content, enhanced.OriginalContent)
	assert.Greater(t, enhanced.EnhancedWordCount, enhanced.OriginalWordCount)
	assert.Greater(t, enhanced.AverageConfidence, 0.0)

	// Spacing invariant across selected positions
	var positions []int
	for _, ins := range enhanced.Insertions {
		if ins.InsertionSuccess {
			positions = append(positions, ins.ChunkPosition)
		}
	}
	require.Len(t, positions, 3)
	for i := 1; i < len(positions); i++ {
		assert.GreaterOrEqual(t, positions[i]-positions[i-1], 2)
	}

	// All six steps reported with a stable run ID
	steps := make(map[string]bool)
	for _, e := range events {
		steps[e.Step] = true
		assert.Equal(t, events[0].RunID, e.RunID)
	}
	assert.NotEmpty(t, events[0].RunID)
	for _, step := range []string{StepChunk, StepAnnotate, StepMatch, StepCompose, StepSelect, StepSplice} {
		assert.True(t, steps[step], "missing step %s", step)
	}
}

func TestEnhance_HTMLArticle(t *testing.T) {
	fake := &oracle.Fake{
		AnnotateFunc: func(context.Context, string, []types.Category) (*types.Annotation, error) {
			return matchingAnnotation(), nil
		},
	}
	enhancer, _ := newTestEnhancer(fake)

	doc := types.Document{
		Content: "<article><p>First point. " + testParagraph + "</p><p>Second point. " + testParagraph + "</p></article>",
		Format:  types.FormatHTML,
	}

	enhanced, err := enhancer.Enhance(context.Background(), EnhanceOptions{
		Document:      doc,
		Offers:        testOffers(),
		MatcherConfig: matching.Config{MinConfidenceThreshold: 60},
	})
	require.NoError(t, err)

	require.GreaterOrEqual(t, enhanced.TotalInsertions, 1)
	assert.Contains(t, enhanced.EnhancedContent, `<div class="contextual-cta">`)
	assert.Contains(t, enhanced.EnhancedContent, `rel="sponsored"`)
}

func TestEnhance_EmptyContent(t *testing.T) {
	enhancer, _ := newTestEnhancer(&oracle.Fake{})

	_, err := enhancer.Enhance(context.Background(), EnhanceOptions{
		Document: types.Document{Format: types.FormatText},
	})
	assert.ErrorIs(t, err, ErrContentRequired)
}

func TestEnhance_ContentTooLarge(t *testing.T) {
	enhancer, _ := newTestEnhancer(&oracle.Fake{})

	doc := types.Document{
		Content: strings.Repeat("a", MaxContentBytes+1),
		Format:  types.FormatText,
	}
	_, err := enhancer.Enhance(context.Background(), EnhanceOptions{Document: doc})
	assert.ErrorIs(t, err, ErrContentTooLarge)
}

func TestEnhance_UnsupportedFormat(t *testing.T) {
	enhancer, _ := newTestEnhancer(&oracle.Fake{})

	doc := types.Document{Content: testParagraph, Format: "docx"}
	_, err := enhancer.Enhance(context.Background(), EnhanceOptions{Document: doc})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported content format")
}

func TestEnhance_NoMatchesPassesThrough(t *testing.T) {
	fake := &oracle.Fake{
		AnnotateFunc: func(context.Context, string, []types.Category) (*types.Annotation, error) {
			return &types.Annotation{ConfidenceScore: 90, IsCandidate: false}, nil
		},
	}
	enhancer, out := newTestEnhancer(fake)

	doc := testArticle(3)
	enhanced, err := enhancer.Enhance(context.Background(), EnhanceOptions{
		Document: doc,
		Offers:   testOffers(),
	})
	require.NoError(t, err)

	assert.Zero(t, enhanced.TotalInsertions)
	assert.Equal(t, doc.Content, enhanced.EnhancedContent)
	assert.Contains(t, out.String(), "returning article unchanged")
}

func TestEnhance_AnnotationFailuresDegrade(t *testing.T) {
	fake := &oracle.Fake{
		AnnotateFunc: func(context.Context, string, []types.Category) (*types.Annotation, error) {
			return nil, fmt.Errorf("model unavailable")
		},
	}
	enhancer, out := newTestEnhancer(fake)

	doc := testArticle(3)
	enhanced, err := enhancer.Enhance(context.Background(), EnhanceOptions{
		Document: doc,
		Offers:   testOffers(),
	})
	require.NoError(t, err)

	// Default annotations are not candidates, so nothing is inserted
	assert.Zero(t, enhanced.TotalInsertions)
	assert.Equal(t, doc.Content, enhanced.EnhancedContent)
	assert.Contains(t, out.String(), "could not be annotated")
}

func TestEnhance_ComposeFailureDegrades(t *testing.T) {
	fake := &oracle.Fake{
		AnnotateFunc: func(context.Context, string, []types.Category) (*types.Annotation, error) {
			return matchingAnnotation(), nil
		},
		AnchorFunc: func(context.Context, oracle.AnchorRequest) (*oracle.AnchorResult, error) {
			return nil, fmt.Errorf("generator down")
		},
	}
	enhancer, out := newTestEnhancer(fake)

	doc := testArticle(3)
	enhanced, err := enhancer.Enhance(context.Background(), EnhanceOptions{
		Document:      doc,
		Offers:        testOffers(),
		MatcherConfig: matching.Config{MinConfidenceThreshold: 60},
	})
	require.NoError(t, err)

	assert.Zero(t, enhanced.TotalInsertions)
	assert.Equal(t, doc.Content, enhanced.EnhancedContent)
	assert.Contains(t, out.String(), "No CTAs could be composed")
}

func TestEnhance_QualityGateReportsDomainMismatch(t *testing.T) {
	fake := &oracle.Fake{
		AnnotateFunc: func(context.Context, string, []types.Category) (*types.Annotation, error) {
			return matchingAnnotation(), nil
		},
	}
	enhancer, out := newTestEnhancer(fake)

	enhanced, err := enhancer.Enhance(context.Background(), EnhanceOptions{
		Document:       testArticle(3),
		Offers:         testOffers(),
		MatcherConfig:  matching.Config{MinConfidenceThreshold: 60},
		ComposeOptions: composing.Options{TargetKeyword: "email verification"},
		ProviderDomain: "othervendor.example.org",
	})
	require.NoError(t, err)

	// The gate flags every composed CTA but never rejects them
	assert.Contains(t, out.String(), "quality checks")
	assert.Contains(t, out.String(), "does not match provider domain")
	assert.Greater(t, enhanced.TotalInsertions, 0)
}

func TestEnhance_QualityGateQuietOnMatchingDomain(t *testing.T) {
	fake := &oracle.Fake{
		AnnotateFunc: func(context.Context, string, []types.Category) (*types.Annotation, error) {
			return matchingAnnotation(), nil
		},
	}
	enhancer, out := newTestEnhancer(fake)

	_, err := enhancer.Enhance(context.Background(), EnhanceOptions{
		Document:       testArticle(3),
		Offers:         testOffers(),
		MatcherConfig:  matching.Config{MinConfidenceThreshold: 60},
		ComposeOptions: composing.Options{TargetKeyword: "email verification"},
		ProviderDomain: "example.com",
	})
	require.NoError(t, err)
	assert.NotContains(t, out.String(), "quality checks")
}

func TestBestMatchPerChunk(t *testing.T) {
	matches := []types.Match{
		{ChunkID: "chunk_000", Offer: types.Offer{ID: "a"}, ConfidenceScore: 70},
		{ChunkID: "chunk_000", Offer: types.Offer{ID: "b"}, ConfidenceScore: 85},
		{ChunkID: "chunk_001", Offer: types.Offer{ID: "a"}, ConfidenceScore: 75},
	}

	best := bestMatchPerChunk(matches)

	require.Len(t, best, 2)
	assert.Equal(t, "b", best["chunk_000"].Offer.ID)
	assert.Equal(t, "a", best["chunk_001"].Offer.ID)
}
