package insertion

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mwhitman/cta-engine/internal/types"
)

// textMatchPrefixLen is the number of leading characters used for the
// text-containment fallback when a block's markup cannot be located
// verbatim. Position-index splicing is always tried first; two paragraphs
// sharing the same first 50 characters are ambiguous for re-matching.
const textMatchPrefixLen = 50

// Splice rewrites the document with CTAs appended to the selected
// paragraphs. Insertions are applied in reverse document-position order so
// earlier insertions never invalidate later offsets. A single insertion's
// failure is recorded and skipped; it never aborts the remaining insertions.
// Everything outside the targeted paragraphs is preserved byte-for-byte.
func Splice(doc types.Document, blocks []types.Block, points []InsertionPoint) (*types.EnhancedDocument, error) {
	ordered := make([]InsertionPoint, len(points))
	copy(ordered, points)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Chunk.Position > ordered[j].Chunk.Position
	})

	content := doc.Content
	insertions := make([]types.Insertion, 0, len(ordered))

	for _, point := range ordered {
		block, ok := blockForChunk(blocks, point.Chunk.BlockIndex)
		record := types.Insertion{
			ChunkID:         point.Chunk.ID,
			ChunkPosition:   point.Chunk.Position,
			CTA:             point.CTA,
			ParagraphBefore: point.Chunk.Content,
		}
		if !ok {
			record.FailureReason = fmt.Sprintf("no block at index %d", point.Chunk.BlockIndex)
			insertions = append(insertions, record)
			continue
		}

		updated, err := spliceOne(content, doc.Format, block, len(blocks), &point.CTA)
		if err != nil {
			record.FailureReason = err.Error()
			insertions = append(insertions, record)
			continue
		}

		content = updated
		record.InsertionSuccess = true
		record.ParagraphAfter = point.Chunk.Content + " " + point.CTA.AnchorText
		insertions = append(insertions, record)
	}

	// Report insertions in document order, not application order
	sort.SliceStable(insertions, func(i, j int) bool {
		return insertions[i].ChunkPosition < insertions[j].ChunkPosition
	})

	return buildEnhancedDocument(doc, blocks, content, insertions), nil
}

// spliceOne applies a single insertion and returns the updated content.
func spliceOne(content string, format types.ContentFormat, block *types.Block, totalBlocks int, cta *types.ContextualCTA) (string, error) {
	switch format {
	case types.FormatHTML:
		return spliceHTML(content, block, totalBlocks, cta)
	case types.FormatMarkdown:
		return spliceAfterBlock(content, block, "\n\n"+markdownCTA(cta))
	case types.FormatText:
		return spliceAfterBlock(content, block, "\n\n"+plainTextCTA(cta))
	default:
		return "", fmt.Errorf("unsupported content format %q", format)
	}
}

// spliceHTML appends the rendered CTA markup just before the closing tag of
// the owning block element. The block's recorded markup locates the element;
// if the markup cannot be found verbatim, a text-containment fallback and
// then a proportional-position fallback are tried before giving up on this
// one insertion.
func spliceHTML(content string, block *types.Block, totalBlocks int, cta *types.ContextualCTA) (string, error) {
	raw := block.RawMarkup
	if idx := strings.Index(content, raw); idx >= 0 {
		injected, ok := injectBeforeClosingTag(raw, cta.RenderedMarkup)
		if ok {
			return content[:idx] + injected + content[idx+len(raw):], nil
		}
	}

	// Fallback 1: locate the paragraph by its leading text
	prefix := block.Text
	if len(prefix) > textMatchPrefixLen {
		prefix = prefix[:textMatchPrefixLen]
	}
	if prefix != "" {
		if idx := strings.Index(content, prefix); idx >= 0 {
			if closeIdx := strings.Index(content[idx:], "</"); closeIdx >= 0 {
				at := idx + closeIdx
				return content[:at] + cta.RenderedMarkup + content[at:], nil
			}
		}
	}

	// Fallback 2: proportional position scaled by the block's document
	// fraction, snapped to the next tag boundary
	if totalBlocks > 0 && block.Index >= 0 {
		at := proportionalOffset(content, block.Index, totalBlocks)
		if at >= 0 {
			return content[:at] + cta.RenderedMarkup + content[at:], nil
		}
	}

	return "", fmt.Errorf("paragraph for chunk at block %d not found in document", block.Index)
}

// spliceAfterBlock inserts addition immediately after the block's raw span,
// for blank-line-delimited formats.
func spliceAfterBlock(content string, block *types.Block, addition string) (string, error) {
	idx := strings.Index(content, block.RawMarkup)
	if idx < 0 {
		return "", fmt.Errorf("paragraph for block %d not found in document", block.Index)
	}
	end := idx + len(block.RawMarkup)
	return content[:end] + addition + content[end:], nil
}

// injectBeforeClosingTag places markup just before the element's closing
// tag. Returns false when the block has no closing tag (e.g. bare text).
func injectBeforeClosingTag(raw, markup string) (string, bool) {
	closeIdx := strings.LastIndex(raw, "</")
	if closeIdx < 0 {
		return "", false
	}
	return raw[:closeIdx] + markup + raw[closeIdx:], true
}

// proportionalOffset estimates an insertion offset from the block's index
// fraction of the document, snapped forward to a '>' boundary so the markup
// never lands inside a tag. Returns the end of content when no boundary
// follows.
func proportionalOffset(content string, blockIndex, totalBlocks int) int {
	if len(content) == 0 {
		return -1
	}
	approx := len(content) * (blockIndex + 1) / totalBlocks
	if approx >= len(content) {
		return len(content)
	}
	if rel := strings.Index(content[approx:], ">"); rel >= 0 {
		return approx + rel + 1
	}
	return len(content)
}

// markdownCTA renders a CTA as its own Markdown paragraph.
func markdownCTA(cta *types.ContextualCTA) string {
	return fmt.Sprintf("[%s](%s)", cta.AnchorText, cta.TargetURL)
}

// plainTextCTA renders a CTA as a plain text line.
func plainTextCTA(cta *types.ContextualCTA) string {
	return fmt.Sprintf("%s: %s", cta.AnchorText, cta.TargetURL)
}

// blockForChunk finds the block a chunk points at.
func blockForChunk(blocks []types.Block, index int) (*types.Block, bool) {
	for i := range blocks {
		if blocks[i].Index == index {
			return &blocks[i], true
		}
	}
	return nil, false
}

// buildEnhancedDocument assembles the final output with aggregate metadata.
// Word counts are computed over block text so HTML markup never inflates
// them.
func buildEnhancedDocument(doc types.Document, blocks []types.Block, content string, insertions []types.Insertion) *types.EnhancedDocument {
	originalWords := 0
	for _, block := range blocks {
		originalWords += types.CountWords(block.Text)
	}

	total := 0
	confidenceSum := 0.0
	enhancedWords := originalWords
	for _, ins := range insertions {
		if !ins.InsertionSuccess {
			continue
		}
		total++
		confidenceSum += ins.CTA.Confidence
		enhancedWords += types.CountWords(ins.CTA.AnchorText)
	}

	avgConfidence := 0.0
	if total > 0 {
		avgConfidence = confidenceSum / float64(total)
	}
	density := 0.0
	if originalWords > 0 {
		density = float64(total) / (float64(originalWords) / 1000.0)
	}

	return &types.EnhancedDocument{
		OriginalContent:   doc.Content,
		EnhancedContent:   content,
		Format:            doc.Format,
		Insertions:        insertions,
		TotalInsertions:   total,
		OriginalWordCount: originalWords,
		EnhancedWordCount: enhancedWords,
		CTADensity:        density,
		AverageConfidence: avgConfidence,
	}
}
