package types

// Annotation holds the oracle-derived metadata for one chunk. Fields are
// filled in exactly once by the annotator; a failed oracle call leaves the
// zero value (empty lists, zero confidence, not a candidate).
type Annotation struct {
	Themes                []string `json:"themes"`
	PainPoints            []string `json:"pain_points"`
	SolutionOpportunities []string `json:"solution_opportunities"`
	ContextClues          []string `json:"context_clues"`
	ConfidenceScore       float64  `json:"confidence_score"` // 0-100
	IsCandidate           bool     `json:"is_candidate"`
}

// ClampConfidence forces ConfidenceScore into the [0,100] range.
func (a *Annotation) ClampConfidence() {
	if a.ConfidenceScore < 0 {
		a.ConfidenceScore = 0
	}
	if a.ConfidenceScore > 100 {
		a.ConfidenceScore = 100
	}
}

// Chunk is a paragraph-sized span of article content, the atomic unit of
// analysis. Position is the 0-based index in the chunk sequence (strictly
// increasing and contiguous); BlockIndex points back into the document's
// block list so the splicer can locate the owning paragraph by index.
type Chunk struct {
	ID         string      `json:"id"`
	Content    string      `json:"content"`
	Position   int         `json:"position"`
	BlockIndex int         `json:"block_index"`
	WordCount  int         `json:"word_count"`
	Annotation *Annotation `json:"annotation,omitempty"`
}

// IsAnnotated reports whether the annotator has attached metadata.
func (c *Chunk) IsAnnotated() bool {
	return c.Annotation != nil
}

// IsCandidate reports whether the chunk is an oracle-approved CTA site.
func (c *Chunk) IsCandidate() bool {
	return c.Annotation != nil && c.Annotation.IsCandidate
}
