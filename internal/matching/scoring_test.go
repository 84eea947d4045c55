package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mwhitman/cta-engine/internal/types"
)

func TestKeywordScore_FullMatch(t *testing.T) {
	offer := &types.Offer{
		PainPointKeywords: []string{"low response rates"},
	}
	chunkText := "Most teams see low response rates because their lists are stale."

	score, matched := keywordScore(chunkText, offer)

	// Single pain-point keyword, full match: 30/30 -> 100
	assert.InDelta(t, 100.0, score, 0.01)
	assert.Equal(t, []string{"low response rates"}, matched)
}

func TestKeywordScore_PartialMatch(t *testing.T) {
	offer := &types.Offer{
		PainPointKeywords: []string{"bounced emails"},
	}
	chunkText := "Too many emails never reach the inbox."

	score, matched := keywordScore(chunkText, offer)

	// Partial match: 15/30 -> 50
	assert.InDelta(t, 50.0, score, 0.01)
	assert.Equal(t, []string{"bounced emails"}, matched)
}

func TestKeywordScore_MixedKeywordKinds(t *testing.T) {
	offer := &types.Offer{
		PainPointKeywords: []string{"stale data"},
		SolutionKeywords:  []string{"email verification"},
		ContextClues:      []string{"b2b"},
	}
	chunkText := "B2B teams fighting stale data should adopt email verification early."

	score, matched := keywordScore(chunkText, offer)

	// 30 + 20 + 5 out of max 55 -> 100
	assert.InDelta(t, 100.0, score, 0.01)
	assert.Len(t, matched, 3)
}

func TestKeywordScore_NoKeywords(t *testing.T) {
	score, matched := keywordScore("anything", &types.Offer{})
	assert.Zero(t, score)
	assert.Empty(t, matched)
}

func TestKeywordScore_NoMatches(t *testing.T) {
	offer := &types.Offer{PainPointKeywords: []string{"churn"}}
	score, matched := keywordScore("completely unrelated prose", offer)
	assert.Zero(t, score)
	assert.Empty(t, matched)
}

func TestContextRelevance_FullAlignment(t *testing.T) {
	annotation := &types.Annotation{
		Themes:                []string{"lead generation", "pipeline"},
		PainPoints:            []string{"not enough qualified leads"},
		SolutionOpportunities: []string{"prospecting automation"},
	}
	offer := &types.Offer{
		Category:          types.CategoryLeadGeneration,
		PainPointKeywords: []string{"qualified leads"},
		SolutionKeywords:  []string{"prospecting"},
	}

	score := contextRelevance(annotation, offer)

	// Themes contain both category tokens (2*25=50), pain points align (20),
	// opportunities align (20): 0.4*50 + 0.35*20 + 0.25*20 = 32
	assert.InDelta(t, 32.0, score, 0.01)
}

func TestContextRelevance_NilAnnotation(t *testing.T) {
	assert.Zero(t, contextRelevance(nil, &types.Offer{Category: types.CategoryColdOutreach}))
}

func TestContextRelevance_CappedIncrements(t *testing.T) {
	annotation := &types.Annotation{
		PainPoints: []string{"deliverability", "bounces", "spam folder", "blacklists", "reputation", "throttling"},
	}
	offer := &types.Offer{
		Category: types.CategoryEmailVerification,
		PainPointKeywords: []string{
			"deliverability", "bounces", "spam folder", "blacklists", "reputation", "throttling",
		},
	}

	score := contextRelevance(annotation, offer)

	// Pain alignment saturates at 100: contribution capped at 0.35*100
	assert.LessOrEqual(t, score, 100.0)
	assert.InDelta(t, 35.0, score-themeAlignmentWeight*cappedAlignment(annotation.Themes, offer.Category.Tokens(), themeIncrement), 0.01)
}

func TestFallbackSemanticScore_Deterministic(t *testing.T) {
	offer := &types.Offer{
		Category:          types.CategoryColdOutreach,
		PainPointKeywords: []string{"response rates"},
		SolutionKeywords:  []string{"sequencing"},
	}
	text := "Improving response rates starts with better outreach sequencing."

	first := fallbackSemanticScore(text, offer)
	second := fallbackSemanticScore(text, offer)

	assert.Equal(t, first, second)
	assert.GreaterOrEqual(t, first, fallbackFloor)
	assert.LessOrEqual(t, first, 100.0)
}

func TestFallbackSemanticScore_NoKeywords(t *testing.T) {
	offer := &types.Offer{Category: types.Category("")}
	score := fallbackSemanticScore("text", offer)
	assert.GreaterOrEqual(t, score, fallbackFloor)
}

func TestFallbackSemanticScore_BaseShift(t *testing.T) {
	// Zero overlap still lands on the base of the shifted band
	offer := &types.Offer{
		Category:          types.CategoryDataEnrichment,
		PainPointKeywords: []string{"zzzz"},
	}
	score := fallbackSemanticScore("completely unrelated", offer)
	assert.InDelta(t, fallbackBase, score, 0.01)
}

func TestMatchKeyword(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		keyword  string
		expected keywordMatch
	}{
		{"full multiword", "low response rates hurt", "response rates", matchFull},
		{"partial multiword", "rates are falling", "response rates", matchPartial},
		{"no match", "unrelated", "response rates", matchNone},
		{"empty keyword", "anything", "", matchNone},
		{"single word", "verification tools", "verification", matchFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, matchKeyword(tt.text, tt.keyword))
		})
	}
}
