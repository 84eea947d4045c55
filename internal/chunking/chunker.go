// Package chunking splits raw article content into an ordered sequence of
// paragraph-sized chunks for annotation, while retaining the full block list
// of the document so the splicer can rebuild it by index.
package chunking

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mwhitman/cta-engine/internal/types"
)

const (
	// minChunkChars is the minimum span length eligible for annotation;
	// shorter spans carry too little context to analyze.
	minChunkChars = 50
	// minSentenceChunkChars is the stricter minimum used by the
	// sentence-boundary fallback.
	minSentenceChunkChars = 80
	// maxSentenceChunks bounds the fallback output so a wall of unbroken
	// text cannot explode annotation cost.
	maxSentenceChunks = 10
)

// Result holds the chunker output: the complete block list of the document
// in order, and the subset of blocks eligible for annotation as chunks.
type Result struct {
	Blocks []types.Block
	Chunks []types.Chunk
}

var blankLineRe = regexp.MustCompile(`\n\s*\n`)

// Chunk splits a document into blocks and annotation-eligible chunks.
// The output is deterministic for a fixed input.
func Chunk(doc types.Document) (*Result, error) {
	if strings.TrimSpace(doc.Content) == "" {
		return nil, fmt.Errorf("document content is empty")
	}

	var blocks []types.Block
	var err error

	switch doc.Format {
	case types.FormatHTML:
		blocks, err = htmlBlocks(doc.Content)
		if err != nil {
			return nil, err
		}
	case types.FormatMarkdown:
		blocks = markdownBlocks(doc.Content)
	case types.FormatText:
		blocks = textBlocks(doc.Content)
	default:
		return nil, fmt.Errorf("unsupported content format %q", doc.Format)
	}

	chunks := chunksFromBlocks(blocks)

	// A document with no blank-line structure still deserves a best effort:
	// fall back to sentence-boundary splitting with a stricter length filter.
	if len(chunks) == 0 {
		sentenceBlocks := sentenceFallbackBlocks(doc)
		if len(sentenceBlocks) > 0 {
			blocks = sentenceBlocks
			chunks = chunksFromBlocks(blocks)
		}
	}

	return &Result{Blocks: blocks, Chunks: chunks}, nil
}

// chunksFromBlocks filters the block list down to annotation-eligible chunks:
// non-heading blocks of at least minChunkChars.
func chunksFromBlocks(blocks []types.Block) []types.Chunk {
	var chunks []types.Chunk
	for _, block := range blocks {
		if block.IsHeading || len(block.Text) < minChunkChars {
			continue
		}
		chunks = append(chunks, types.Chunk{
			ID:         fmt.Sprintf("chunk_%03d", len(chunks)),
			Content:    block.Text,
			Position:   len(chunks),
			BlockIndex: block.Index,
			WordCount:  types.CountWords(block.Text),
		})
	}
	return chunks
}

// markdownBlocks splits Markdown on blank-line boundaries. Heading blocks are
// kept in the block list for reconstruction but flagged so they are never
// annotated or targeted for insertion.
func markdownBlocks(content string) []types.Block {
	var blocks []types.Block
	for _, span := range blankLineRe.Split(content, -1) {
		trimmed := strings.TrimSpace(span)
		if trimmed == "" {
			continue
		}
		blocks = append(blocks, types.Block{
			Index:     len(blocks),
			Text:      stripInlineMarkdown(trimmed),
			RawMarkup: trimmed,
			IsHeading: isMarkdownHeading(trimmed),
		})
	}
	return blocks
}

// textBlocks splits plain text on blank-line boundaries.
func textBlocks(content string) []types.Block {
	var blocks []types.Block
	for _, span := range blankLineRe.Split(content, -1) {
		trimmed := strings.TrimSpace(span)
		if trimmed == "" {
			continue
		}
		blocks = append(blocks, types.Block{
			Index:     len(blocks),
			Text:      trimmed,
			RawMarkup: trimmed,
		})
	}
	return blocks
}

// sentenceFallbackBlocks splits the whole document text on sentence
// boundaries when blank-line splitting produced nothing usable.
func sentenceFallbackBlocks(doc types.Document) []types.Block {
	text := strings.TrimSpace(doc.Content)
	if doc.Format == types.FormatHTML {
		stripped, err := htmlText(doc.Content)
		if err == nil {
			text = stripped
		}
	}

	var blocks []types.Block
	for _, sentence := range strings.Split(text, ". ") {
		trimmed := strings.TrimSpace(sentence)
		if len(trimmed) < minSentenceChunkChars {
			continue
		}
		if !strings.HasSuffix(trimmed, ".") {
			trimmed += "."
		}
		blocks = append(blocks, types.Block{
			Index:     len(blocks),
			Text:      trimmed,
			RawMarkup: trimmed,
		})
		if len(blocks) >= maxSentenceChunks {
			break
		}
	}
	return blocks
}

var (
	markdownLinkRe     = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	markdownEmphasisRe = regexp.MustCompile("[*_`]+")
)

// stripInlineMarkdown removes link targets and emphasis markers so the
// analysis text reads as plain prose. Link anchor text is preserved.
func stripInlineMarkdown(text string) string {
	text = markdownLinkRe.ReplaceAllString(text, "$1")
	text = markdownEmphasisRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// isMarkdownHeading reports whether a block is an ATX heading (# through ######).
func isMarkdownHeading(block string) bool {
	firstLine := block
	if idx := strings.Index(block, "\n"); idx >= 0 {
		firstLine = block[:idx]
	}
	trimmed := strings.TrimSpace(firstLine)
	if !strings.HasPrefix(trimmed, "#") {
		return false
	}
	hashes := 0
	for _, r := range trimmed {
		if r != '#' {
			break
		}
		hashes++
	}
	return hashes >= 1 && hashes <= 6 && (len(trimmed) == hashes || trimmed[hashes] == ' ')
}
