// Package matching scores annotated chunks against the offer catalog and
// produces threshold-filtered matches. Three independent signals feed each
// score: oracle-estimated semantic similarity, keyword overlap, and
// category/context alignment, combined via configurable weights.
package matching

import "github.com/mwhitman/cta-engine/internal/types"

// Default configuration values. The weights are empirical tuning values;
// they conventionally sum to 1 but are not required to.
const (
	DefaultMinConfidenceThreshold = 70.0
	DefaultMaxMatchesPerChunk     = 2
	DefaultSemanticWeight         = 0.4
	DefaultKeywordWeight          = 0.3
	DefaultContextWeight          = 0.3
	DefaultPriorityBoost          = 1.2

	// minOfferPriority drops low-priority offers before scoring.
	minOfferPriority = 6
	// boostPriorityFloor is the priority at which PriorityBoost kicks in.
	boostPriorityFloor = 9
	// preferredCategoryBonus is added to priority when ordering offers in a
	// preferred category.
	preferredCategoryBonus = 2
)

// Config tunes the matcher. Zero values are replaced with defaults by
// NewMatcher, so callers can set only what they care about.
type Config struct {
	MinConfidenceThreshold float64
	MaxMatchesPerChunk     int
	SemanticWeight         float64
	KeywordWeight          float64
	ContextWeight          float64
	PriorityBoost          float64
	// CategoryPreferences, when non-empty, restricts matching to these
	// categories and favors them when ordering candidate offers.
	CategoryPreferences []types.Category
}

// DefaultConfig returns the reference matcher configuration.
func DefaultConfig() Config {
	return Config{
		MinConfidenceThreshold: DefaultMinConfidenceThreshold,
		MaxMatchesPerChunk:     DefaultMaxMatchesPerChunk,
		SemanticWeight:         DefaultSemanticWeight,
		KeywordWeight:          DefaultKeywordWeight,
		ContextWeight:          DefaultContextWeight,
		PriorityBoost:          DefaultPriorityBoost,
	}
}

// withDefaults fills zero values from the reference configuration.
func (c Config) withDefaults() Config {
	if c.MinConfidenceThreshold == 0 {
		c.MinConfidenceThreshold = DefaultMinConfidenceThreshold
	}
	if c.MaxMatchesPerChunk == 0 {
		c.MaxMatchesPerChunk = DefaultMaxMatchesPerChunk
	}
	if c.SemanticWeight == 0 {
		c.SemanticWeight = DefaultSemanticWeight
	}
	if c.KeywordWeight == 0 {
		c.KeywordWeight = DefaultKeywordWeight
	}
	if c.ContextWeight == 0 {
		c.ContextWeight = DefaultContextWeight
	}
	if c.PriorityBoost == 0 {
		c.PriorityBoost = DefaultPriorityBoost
	}
	return c
}
