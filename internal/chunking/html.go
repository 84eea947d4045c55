package chunking

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mwhitman/cta-engine/internal/types"
)

// htmlBlocks parses HTML and extracts block-level elements in document order.
// Each block keeps its original markup so the splicer can locate it by index
// instead of re-matching text.
func htmlBlocks(content string) ([]types.Block, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var blocks []types.Block
	doc.Find("p, h1, h2, h3, h4, h5, h6, div").Each(func(_ int, sel *goquery.Selection) {
		// Skip container divs; only leaf divs carry paragraph text directly.
		if goquery.NodeName(sel) == "div" && sel.Find("p, div").Length() > 0 {
			return
		}

		text := normalizeSpace(sel.Text())
		if text == "" {
			return
		}

		raw, err := goquery.OuterHtml(sel)
		if err != nil {
			raw = text
		}

		blocks = append(blocks, types.Block{
			Index:     len(blocks),
			Text:      text,
			RawMarkup: strings.TrimSpace(raw),
			IsHeading: isHeadingTag(goquery.NodeName(sel)),
		})
	})

	// Markup without any block tags: treat the text content as plain text
	// and split on blank lines.
	if len(blocks) == 0 {
		text, err := htmlText(content)
		if err != nil {
			return nil, err
		}
		return textBlocks(text), nil
	}

	return blocks, nil
}

// htmlText strips all tags and returns the body text.
func htmlText(content string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	return strings.TrimSpace(doc.Text()), nil
}

func isHeadingTag(name string) bool {
	switch name {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return true
	}
	return false
}

// normalizeSpace collapses runs of whitespace into single spaces.
func normalizeSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
