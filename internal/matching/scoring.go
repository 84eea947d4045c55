package matching

import (
	"strings"

	"github.com/mwhitman/cta-engine/internal/types"
)

// Keyword score weights. A full match means every word of the keyword
// appears in the chunk text; a partial match means at least one word does.
const (
	painPointFullWeight    = 30.0
	painPointPartialWeight = 15.0
	solutionFullWeight     = 20.0
	solutionPartialWeight  = 10.0
	contextClueWeight      = 5.0
)

// Context relevance sub-weights and per-keyword increments.
const (
	themeAlignmentWeight       = 0.40
	painPointAlignmentWeight   = 0.35
	opportunityAlignmentWeight = 0.25

	themeIncrement     = 25.0
	alignmentIncrement = 20.0
)

// Deterministic fallback constants used when the oracle is unavailable: the
// keyword-overlap ratio is shifted onto a 40-100 band with a floor of 30.
const (
	fallbackBase  = 40.0
	fallbackSpan  = 60.0
	fallbackFloor = 30.0
)

// keywordScore computes the weighted string-containment score (0-100) of an
// offer's keyword set against the chunk text, normalized by the theoretical
// maximum for that offer. Returns the score and the matched keywords.
func keywordScore(chunkText string, offer *types.Offer) (float64, []string) {
	text := strings.ToLower(chunkText)

	maxScore := painPointFullWeight*float64(len(offer.PainPointKeywords)) +
		solutionFullWeight*float64(len(offer.SolutionKeywords)) +
		contextClueWeight*float64(len(offer.ContextClues))
	if maxScore == 0 {
		return 0, nil
	}

	score := 0.0
	var matched []string

	for _, keyword := range offer.PainPointKeywords {
		switch matchKeyword(text, keyword) {
		case matchFull:
			score += painPointFullWeight
			matched = append(matched, keyword)
		case matchPartial:
			score += painPointPartialWeight
			matched = append(matched, keyword)
		}
	}

	for _, keyword := range offer.SolutionKeywords {
		switch matchKeyword(text, keyword) {
		case matchFull:
			score += solutionFullWeight
			matched = append(matched, keyword)
		case matchPartial:
			score += solutionPartialWeight
			matched = append(matched, keyword)
		}
	}

	for _, clue := range offer.ContextClues {
		if strings.Contains(text, strings.ToLower(clue)) {
			score += contextClueWeight
			matched = append(matched, clue)
		}
	}

	normalized := score / maxScore * 100
	if normalized > 100 {
		normalized = 100
	}
	return normalized, matched
}

type keywordMatch int

const (
	matchNone keywordMatch = iota
	matchPartial
	matchFull
)

// matchKeyword classifies how a multi-word keyword appears in the text:
// full when every word is present, partial when at least one is.
func matchKeyword(text, keyword string) keywordMatch {
	words := strings.Fields(strings.ToLower(keyword))
	if len(words) == 0 {
		return matchNone
	}

	found := 0
	for _, word := range words {
		if strings.Contains(text, word) {
			found++
		}
	}

	switch {
	case found == len(words):
		return matchFull
	case found > 0:
		return matchPartial
	default:
		return matchNone
	}
}

// contextRelevance computes the 0-100 alignment between an offer and a
// chunk's annotation: theme alignment (40%), pain-point alignment (35%) and
// opportunity alignment (25%), each a capped sum of per-keyword increments.
func contextRelevance(annotation *types.Annotation, offer *types.Offer) float64 {
	if annotation == nil {
		return 0
	}

	themeAlign := cappedAlignment(annotation.Themes, categoryTokens(offer.Category), themeIncrement)
	painAlign := cappedAlignment(annotation.PainPoints, offer.PainPointKeywords, alignmentIncrement)
	oppAlign := cappedAlignment(annotation.SolutionOpportunities, offer.SolutionKeywords, alignmentIncrement)

	return themeAlignmentWeight*themeAlign +
		painPointAlignmentWeight*painAlign +
		opportunityAlignmentWeight*oppAlign
}

// cappedAlignment adds increment for every keyword found in any of the
// annotated values (case-insensitive containment either way), capped at 100.
func cappedAlignment(values, keywords []string, increment float64) float64 {
	score := 0.0
	for _, keyword := range keywords {
		kw := strings.ToLower(keyword)
		for _, value := range values {
			v := strings.ToLower(value)
			if strings.Contains(v, kw) || strings.Contains(kw, v) {
				score += increment
				break
			}
		}
		if score >= 100 {
			return 100
		}
	}
	return score
}

// categoryTokens returns the offer category name split into words, used as
// theme-alignment keywords.
func categoryTokens(category types.Category) []string {
	return category.Tokens()
}

// fallbackSemanticScore is the deterministic stand-in for oracle similarity
// scoring: a keyword-overlap ratio against the offer's combined keyword set
// and category tokens, base-shifted by 40 onto a 40-100 band, floored at 30.
// The same inputs always produce the same score so tests are reproducible.
func fallbackSemanticScore(chunkText string, offer *types.Offer) float64 {
	text := strings.ToLower(chunkText)

	keywords := make([]string, 0, len(offer.PainPointKeywords)+len(offer.SolutionKeywords)+2)
	keywords = append(keywords, offer.PainPointKeywords...)
	keywords = append(keywords, offer.SolutionKeywords...)
	keywords = append(keywords, categoryTokens(offer.Category)...)

	if len(keywords) == 0 {
		return fallbackFloor
	}

	matches := 0
	for _, keyword := range keywords {
		if matchKeyword(text, keyword) != matchNone {
			matches++
		}
	}

	ratio := float64(matches) / float64(len(keywords))
	score := fallbackBase + ratio*fallbackSpan
	if score < fallbackFloor {
		score = fallbackFloor
	}
	if score > 100 {
		score = 100
	}
	return score
}
