package matching

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mwhitman/cta-engine/internal/oracle"
	"github.com/mwhitman/cta-engine/internal/types"
)

// Matcher scores CTA-eligible chunks against the offer catalog.
type Matcher struct {
	oracle oracle.Oracle
	config Config
}

// NewMatcher creates a matcher; zero config fields take defaults.
func NewMatcher(o oracle.Oracle, cfg Config) *Matcher {
	return &Matcher{oracle: o, config: cfg.withDefaults()}
}

// Result is the matcher output: all matches in document order, plus the IDs
// of candidate chunks that matched nothing. An unmatched chunk is a normal
// outcome, not an error.
type Result struct {
	Matches   []types.Match
	Unmatched []string
}

// Match scores every annotated candidate chunk against the catalog and
// returns threshold-filtered matches, at most MaxMatchesPerChunk per chunk.
// Non-candidate chunks are skipped; the oracle being unavailable degrades to
// the deterministic fallback, never to an error.
func (m *Matcher) Match(ctx context.Context, chunks []types.Chunk, offers []types.Offer) (*Result, error) {
	candidates := m.prefilterOffers(offers)

	result := &Result{}
	for i := range chunks {
		chunk := &chunks[i]
		if !chunk.IsCandidate() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("matching cancelled: %w", err)
		}

		matches := m.matchChunk(ctx, chunk, candidates)
		if len(matches) == 0 {
			result.Unmatched = append(result.Unmatched, chunk.ID)
			continue
		}
		result.Matches = append(result.Matches, matches...)
	}

	return result, nil
}

// prefilterOffers drops offers below the priority cutoff, applies category
// preferences, and orders the rest by priority plus a preferred-category
// bonus so the strongest offers are scored first.
func (m *Matcher) prefilterOffers(offers []types.Offer) []types.Offer {
	preferred := make(map[types.Category]bool, len(m.config.CategoryPreferences))
	for _, c := range m.config.CategoryPreferences {
		preferred[c] = true
	}

	var kept []types.Offer
	for _, offer := range offers {
		if offer.Priority < minOfferPriority {
			continue
		}
		if len(preferred) > 0 && !preferred[offer.Category] {
			continue
		}
		kept = append(kept, offer)
	}

	rank := func(o types.Offer) int {
		r := o.Priority
		if preferred[o.Category] {
			r += preferredCategoryBonus
		}
		return r
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return rank(kept[i]) > rank(kept[j])
	})

	return kept
}

// matchChunk scores one chunk against the pre-filtered offers.
func (m *Matcher) matchChunk(ctx context.Context, chunk *types.Chunk, offers []types.Offer) []types.Match {
	if len(offers) == 0 {
		return nil
	}

	semanticScores := m.semanticScores(ctx, chunk, offers)

	var matches []types.Match
	for i := range offers {
		offer := &offers[i]

		semantic := semanticScores[i]
		keyword, matchedKeywords := keywordScore(chunk.Content, offer)
		relevance := contextRelevance(chunk.Annotation, offer)

		multiplier := 1.0
		if offer.Priority >= boostPriorityFloor {
			multiplier = m.config.PriorityBoost
		}

		confidence := (semantic*m.config.SemanticWeight +
			keyword*m.config.KeywordWeight +
			relevance*m.config.ContextWeight) * multiplier
		if confidence > 100 {
			confidence = 100
		}

		if confidence < m.config.MinConfidenceThreshold {
			continue
		}

		matches = append(matches, types.Match{
			ChunkID:            chunk.ID,
			Offer:              *offer,
			ConfidenceScore:    confidence,
			MatchReasons:       matchReasons(semantic, keyword, relevance, matchedKeywords, multiplier > 1),
			SemanticSimilarity: semantic,
			KeywordScore:       keyword,
			MatchedKeywords:    matchedKeywords,
			ContextRelevance:   relevance,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].ConfidenceScore > matches[j].ConfidenceScore
	})
	if len(matches) > m.config.MaxMatchesPerChunk {
		matches = matches[:m.config.MaxMatchesPerChunk]
	}

	return matches
}

// semanticScores asks the oracle for similarity scores, falling back to the
// deterministic keyword heuristic when the call fails or returns a malformed
// response. The oracle boundary is untrusted.
func (m *Matcher) semanticScores(ctx context.Context, chunk *types.Chunk, offers []types.Offer) []float64 {
	scores, err := m.oracle.ScoreSimilarity(ctx, chunk.Content, offers)
	if err == nil && len(scores) == len(offers) {
		return scores
	}

	fallback := make([]float64, len(offers))
	for i := range offers {
		fallback[i] = fallbackSemanticScore(chunk.Content, &offers[i])
	}
	return fallback
}

// matchReasons derives human-readable explanations from the score bands
// crossed. Reasons are for explainability and debugging; they are never used
// in scoring.
func matchReasons(semantic, keyword, relevance float64, matchedKeywords []string, boosted bool) []string {
	var reasons []string

	switch {
	case semantic >= 80:
		reasons = append(reasons, "strong semantic similarity to offer")
	case semantic >= 60:
		reasons = append(reasons, "moderate semantic similarity to offer")
	}

	if keyword >= 50 && len(matchedKeywords) > 0 {
		reasons = append(reasons, fmt.Sprintf("keyword overlap: %s", strings.Join(matchedKeywords, ", ")))
	} else if keyword > 0 && len(matchedKeywords) > 0 {
		reasons = append(reasons, fmt.Sprintf("partial keyword overlap: %s", strings.Join(matchedKeywords, ", ")))
	}

	if relevance >= 50 {
		reasons = append(reasons, "chunk context aligns with offer category")
	}

	if boosted {
		reasons = append(reasons, "high-priority offer boost applied")
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "combined score above threshold")
	}

	return reasons
}
