// Package types defines the shared data structures passed between pipeline stages.
package types

import "strings"

// ContentFormat identifies the markup format of an input document.
type ContentFormat string

// Supported document formats
const (
	FormatHTML     ContentFormat = "html"
	FormatMarkdown ContentFormat = "markdown"
	FormatText     ContentFormat = "text"
)

// Document is the raw input to the pipeline: article content plus its format.
type Document struct {
	Content string        `json:"content" validate:"required"`
	Format  ContentFormat `json:"format" validate:"required,oneof=html markdown text"`
}

// Block is a single structural unit of the original document, in document
// order. Blocks cover the whole document (headings and short spans included)
// so the splicer can rebuild it by index without re-matching text.
type Block struct {
	Index     int    `json:"index"`
	Text      string `json:"text"`       // plain text, markup stripped
	RawMarkup string `json:"raw_markup"` // original markup for HTML documents
	IsHeading bool   `json:"is_heading"`
}

// Insertion records one attempted CTA insertion and its outcome.
type Insertion struct {
	ChunkID          string        `json:"chunk_id"`
	ChunkPosition    int           `json:"chunk_position"`
	CTA              ContextualCTA `json:"cta"`
	InsertionSuccess bool          `json:"insertion_success"`
	FailureReason    string        `json:"failure_reason,omitempty"`
	ParagraphBefore  string        `json:"paragraph_before"`
	ParagraphAfter   string        `json:"paragraph_after"`
}

// EnhancedDocument is the final pipeline output: the rewritten document plus
// a record of every insertion performed (or skipped) and aggregate metadata.
type EnhancedDocument struct {
	OriginalContent   string        `json:"original_content"`
	EnhancedContent   string        `json:"enhanced_content"`
	Format            ContentFormat `json:"format"`
	Insertions        []Insertion   `json:"insertions"`
	TotalInsertions   int           `json:"total_insertions"`
	OriginalWordCount int           `json:"original_word_count"`
	EnhancedWordCount int           `json:"enhanced_word_count"`
	CTADensity        float64       `json:"cta_density"` // insertions per 1000 words
	AverageConfidence float64       `json:"average_confidence"`
}

// CountWords returns the number of whitespace-delimited words in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
