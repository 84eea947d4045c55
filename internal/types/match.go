package types

// Match is a scored pairing of one chunk to one offer. Matches are produced
// fresh per analysis run and never mutated; many matches may reference the
// same chunk or offer, but composition picks at most one primary per chunk.
type Match struct {
	ChunkID            string   `json:"chunk_id"`
	Offer              Offer    `json:"offer"`
	ConfidenceScore    float64  `json:"confidence_score"` // 0-100, already threshold-filtered
	MatchReasons       []string `json:"match_reasons"`
	SemanticSimilarity float64  `json:"semantic_similarity"` // 0-100
	KeywordScore       float64  `json:"keyword_score"`       // 0-100
	MatchedKeywords    []string `json:"matched_keywords"`
	ContextRelevance   float64  `json:"context_relevance"` // 0-100
}
