// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/mwhitman/cta-engine/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintChunks outputs a summary of the chunked article with annotation status.
func (p *Printer) PrintChunks(chunks []types.Chunk) {
	if len(chunks) == 0 {
		return
	}

	candidates := 0
	for i := range chunks {
		if chunks[i].IsCandidate() {
			candidates++
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total chunks: %d (%d candidates)\n\n", len(chunks), candidates))

	count := min(len(chunks), maxItemsToShow)
	for i := 0; i < count; i++ {
		chunk := chunks[i]
		text := chunk.Content
		if len(text) > 45 {
			text = text[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("#%d  %s\n", chunk.Position, text))
		if chunk.Annotation != nil {
			sb.WriteString(fmt.Sprintf("    Confidence: %.0f", chunk.Annotation.ConfidenceScore))
			if chunk.IsCandidate() {
				sb.WriteString(" ✓candidate")
			}
			sb.WriteString("\n")
			if len(chunk.Annotation.PainPoints) > 0 {
				pains := strings.Join(chunk.Annotation.PainPoints, ", ")
				if len(pains) > 40 {
					pains = pains[:37] + "..."
				}
				sb.WriteString(fmt.Sprintf("    Pain: %s\n", pains))
			}
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(chunks) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more chunks", len(chunks)-maxItemsToShow))
	}

	p.printBox("ARTICLE CHUNKS", sb.String())
}

// PrintMatches outputs the top chunk-offer matches with score breakdowns.
func (p *Printer) PrintMatches(matches []types.Match) {
	if len(matches) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO MATCHES ABOVE THRESHOLD")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total matches: %d\n\n", len(matches)))

	count := min(len(matches), maxItemsToShow)
	for i := 0; i < count; i++ {
		match := matches[i]
		sb.WriteString(fmt.Sprintf("#%d  %s → %s\n", i+1, match.ChunkID, match.Offer.Title))
		sb.WriteString(fmt.Sprintf("    Score: %.1f (sem %.0f / kw %.0f / ctx %.0f)\n",
			match.ConfidenceScore, match.SemanticSimilarity, match.KeywordScore, match.ContextRelevance))
		if len(match.MatchedKeywords) > 0 {
			keywords := strings.Join(match.MatchedKeywords, ", ")
			if len(keywords) > 40 {
				keywords = keywords[:37] + "..."
			}
			sb.WriteString(fmt.Sprintf("    Keywords: %s\n", keywords))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(matches) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more matches", len(matches)-maxItemsToShow))
	}

	p.printBox("OFFER MATCHES", sb.String())
}

// PrintCompositions outputs composed CTAs with their anchor styles.
func (p *Printer) PrintCompositions(results []types.CompositionResult) {
	if len(results) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Composed %d CTAs:\n\n", len(results)))

	count := min(len(results), maxItemsToShow)
	for i := 0; i < count; i++ {
		primary := results[i].Primary
		anchor := primary.AnchorText
		if len(anchor) > 45 {
			anchor = anchor[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("• %s\n", anchor))
		sb.WriteString(fmt.Sprintf("  [%s] conf %.0f, %d alternates\n",
			primary.AnchorStyle, primary.Confidence, len(results[i].Alternatives)))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(results) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more CTAs", len(results)-maxItemsToShow))
	}

	p.printBox("COMPOSED CTAS", sb.String())
}

// PrintEnhancedDocument outputs the final enhancement summary.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintEnhancedDocument(doc *types.EnhancedDocument) {
	if doc == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Insertions: %d\n", doc.TotalInsertions))
	sb.WriteString(fmt.Sprintf("Words:      %d → %d\n", doc.OriginalWordCount, doc.EnhancedWordCount))
	sb.WriteString(fmt.Sprintf("Density:    %.2f per 1000 words\n", doc.CTADensity))
	sb.WriteString(fmt.Sprintf("Avg conf:   %.1f\n", doc.AverageConfidence))

	failed := 0
	for _, ins := range doc.Insertions {
		if !ins.InsertionSuccess {
			failed++
		}
	}
	if failed > 0 {
		sb.WriteString(fmt.Sprintf("\n⚠ %d insertions failed:\n", failed))
		for _, ins := range doc.Insertions {
			if ins.InsertionSuccess {
				continue
			}
			reason := ins.FailureReason
			if len(reason) > 40 {
				reason = reason[:37] + "..."
			}
			sb.WriteString(fmt.Sprintf("  %s: %s\n", ins.ChunkID, reason))
		}
	}

	p.printBox("ENHANCED ARTICLE", strings.TrimSuffix(sb.String(), "\n"))
}
