// Package insertion decides where CTAs go and rewrites the document. The
// selector ranks eligible chunks and enforces the per-article cap and the
// spacing constraint; the splicer applies the chosen insertions without
// touching any other content.
package insertion

import (
	"sort"

	"github.com/mwhitman/cta-engine/internal/types"
)

// Default selection constraints.
const (
	DefaultMaxCTAsPerArticle   = 3
	DefaultMinCTASpacing       = 2
	DefaultConfidenceThreshold = 60.0
)

// Insertion score weights: chunk annotation confidence and match quality
// contribute equally.
const (
	chunkConfidenceWeight = 0.5
	matchQualityWeight    = 0.5
)

// Constraints bounds how many CTAs land in one article and how close
// together they may sit.
type Constraints struct {
	MaxCTAsPerArticle int
	// MinCTASpacing is the minimum chunk-position gap between two selected
	// insertion points.
	MinCTASpacing int
	// ConfidenceThreshold applies to the insertion score, which is distinct
	// from CTA composition confidence.
	ConfidenceThreshold float64
}

// DefaultConstraints returns the reference selection constraints.
func DefaultConstraints() Constraints {
	return Constraints{
		MaxCTAsPerArticle:   DefaultMaxCTAsPerArticle,
		MinCTASpacing:       DefaultMinCTASpacing,
		ConfidenceThreshold: DefaultConfidenceThreshold,
	}
}

func (c Constraints) withDefaults() Constraints {
	if c.MaxCTAsPerArticle == 0 {
		c.MaxCTAsPerArticle = DefaultMaxCTAsPerArticle
	}
	if c.MinCTASpacing == 0 {
		c.MinCTASpacing = DefaultMinCTASpacing
	}
	if c.ConfidenceThreshold == 0 {
		c.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	return c
}

// Candidate pairs a chunk with its best match and composed CTA.
type Candidate struct {
	Chunk       types.Chunk
	Match       types.Match
	Composition types.CompositionResult
}

// InsertionPoint is one accepted (chunk, CTA) pair.
type InsertionPoint struct {
	Chunk types.Chunk
	CTA   types.ContextualCTA
	Score float64
}

// SelectInsertionPoints ranks candidates by insertion score and greedily
// accepts the highest-scoring ones that satisfy the spacing constraint,
// stopping at the per-article cap. The result is ordered by chunk position.
// Zero qualifying points is a normal outcome, not an error.
func SelectInsertionPoints(candidates []Candidate, constraints Constraints) []InsertionPoint {
	constraints = constraints.withDefaults()

	scored := make([]InsertionPoint, 0, len(candidates))
	for _, cand := range candidates {
		score := insertionScore(&cand)
		if score < constraints.ConfidenceThreshold {
			continue
		}
		scored = append(scored, InsertionPoint{
			Chunk: cand.Chunk,
			CTA:   cand.Composition.Primary,
			Score: score,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	var selected []InsertionPoint
	for _, point := range scored {
		if len(selected) >= constraints.MaxCTAsPerArticle {
			break
		}
		if conflictsWithSelected(point, selected, constraints.MinCTASpacing) {
			continue
		}
		selected = append(selected, point)
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Chunk.Position < selected[j].Chunk.Position
	})

	return selected
}

// insertionScore combines chunk annotation confidence with match quality.
func insertionScore(cand *Candidate) float64 {
	chunkConfidence := 0.0
	if cand.Chunk.Annotation != nil {
		chunkConfidence = cand.Chunk.Annotation.ConfidenceScore
	}
	return chunkConfidenceWeight*chunkConfidence + matchQualityWeight*cand.Match.ConfidenceScore
}

// conflictsWithSelected reports whether a point sits closer than minSpacing
// to any already-selected point.
func conflictsWithSelected(point InsertionPoint, selected []InsertionPoint, minSpacing int) bool {
	for _, other := range selected {
		gap := point.Chunk.Position - other.Chunk.Position
		if gap < 0 {
			gap = -gap
		}
		if gap < minSpacing {
			return true
		}
	}
	return false
}
