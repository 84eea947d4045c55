// Package composing turns offer matches into ready-to-insert CTAs: anchor
// text generation, tracked URL construction, and pre-insertion quality
// validation.
package composing

import (
	"context"
	"fmt"
	"html"
	"math"
	"time"

	"github.com/mwhitman/cta-engine/internal/oracle"
	"github.com/mwhitman/cta-engine/internal/types"
)

// Confidence weighting defaults. Anchor text quality dominates: a good match
// with weak anchor text under-performs more than the reverse.
const (
	DefaultAnchorWeight = 0.6
	DefaultMatchWeight  = 0.3
	DefaultFitWeight    = 0.1

	// DefaultMaxAnchorLength caps generated anchor text.
	DefaultMaxAnchorLength = 80
	// maxAlternatives bounds the number of alternate compositions.
	maxAlternatives = 2
)

// alternateStyles lists the styles tried for alternates, in order, when they
// differ from the primary style.
var alternateStyles = []types.AnchorStyle{
	types.StyleActionOriented,
	types.StyleQuestionBased,
	types.StyleBenefitFocused,
}

// Config tunes composition. Zero weights take defaults; value propositions
// are included unless OmitValueProp is set, so the zero Config is the
// reference configuration.
type Config struct {
	AnchorWeight    float64
	MatchWeight     float64
	FitWeight       float64
	MaxAnchorLength int
	OmitValueProp   bool
}

// DefaultConfig returns the reference composer configuration.
func DefaultConfig() Config {
	return Config{
		AnchorWeight:    DefaultAnchorWeight,
		MatchWeight:     DefaultMatchWeight,
		FitWeight:       DefaultFitWeight,
		MaxAnchorLength: DefaultMaxAnchorLength,
	}
}

func (c Config) withDefaults() Config {
	if c.AnchorWeight == 0 {
		c.AnchorWeight = DefaultAnchorWeight
	}
	if c.MatchWeight == 0 {
		c.MatchWeight = DefaultMatchWeight
	}
	if c.FitWeight == 0 {
		c.FitWeight = DefaultFitWeight
	}
	if c.MaxAnchorLength == 0 {
		c.MaxAnchorLength = DefaultMaxAnchorLength
	}
	return c
}

// Composer generates CTAs from matches via the anchor text generator.
type Composer struct {
	oracle oracle.Oracle
	config Config
	// now is injected for deterministic CTA IDs in tests
	now func() time.Time
}

// NewComposer creates a composer; zero config fields take defaults.
func NewComposer(o oracle.Oracle, cfg Config) *Composer {
	return &Composer{oracle: o, config: cfg.withDefaults(), now: time.Now}
}

// Options carries the per-run campaign parameters for composition.
type Options struct {
	TargetKeyword  string
	CampaignType   types.CampaignType
	CompetitorName string
	// PrimaryStyle defaults to benefit_focused.
	PrimaryStyle types.AnchorStyle
}

// Compose builds the primary CTA for a match plus up to two stylistic
// alternates. A style that fails to generate is skipped; only the primary
// failing is an error.
func (c *Composer) Compose(ctx context.Context, match types.Match, opts Options) (*types.CompositionResult, error) {
	style := opts.PrimaryStyle
	if style == "" {
		style = types.StyleBenefitFocused
	}

	primary, err := c.composeOne(ctx, match, opts, style)
	if err != nil {
		return nil, fmt.Errorf("composing primary CTA for chunk %s: %w", match.ChunkID, err)
	}

	result := &types.CompositionResult{Primary: *primary}
	for _, alt := range alternateStyles {
		if alt == style || len(result.Alternatives) >= maxAlternatives {
			continue
		}
		cta, err := c.composeOne(ctx, match, opts, alt)
		if err != nil {
			// Alternate failure is non-fatal; continue with fewer
			continue
		}
		result.Alternatives = append(result.Alternatives, *cta)
	}

	return result, nil
}

// composeOne generates one CTA in one style.
func (c *Composer) composeOne(ctx context.Context, match types.Match, opts Options, style types.AnchorStyle) (*types.ContextualCTA, error) {
	anchor, err := c.oracle.GenerateAnchorText(ctx, oracle.AnchorRequest{
		OfferTitle:       match.Offer.Title,
		OfferDescription: match.Offer.Description,
		TargetKeyword:    opts.TargetKeyword,
		Style:            style,
		MaxLength:        c.config.MaxAnchorLength,
		IncludeValueProp: !c.config.OmitValueProp,
	})
	if err != nil {
		return nil, err
	}

	targetURL, err := GenerateUTMURL(match.Offer.URL, UTMOptions{
		CampaignType:   opts.CampaignType,
		TargetKeyword:  opts.TargetKeyword,
		CompetitorName: opts.CompetitorName,
	})
	if err != nil {
		return nil, err
	}

	confidence := math.Round(c.config.AnchorWeight*anchor.Confidence +
		c.config.MatchWeight*match.ConfidenceScore +
		c.config.FitWeight*anchor.ContextualFit)

	cta := &types.ContextualCTA{
		ID:          fmt.Sprintf("cta_%d_%s", c.now().UnixNano(), style),
		ChunkID:     match.ChunkID,
		OfferID:     match.Offer.ID,
		AnchorText:  anchor.AnchorText,
		AnchorStyle: style,
		TargetURL:   targetURL,
		Confidence:  confidence,
		Campaign: types.CampaignMeta{
			Type:           opts.CampaignType,
			TargetKeyword:  opts.TargetKeyword,
			CompetitorName: opts.CompetitorName,
		},
	}
	cta.RenderedMarkup = renderMarkup(cta)

	return cta, nil
}

// renderMarkup produces the self-contained HTML block for a CTA. The wrapper
// element keeps the CTA composable with arbitrary surrounding markup.
func renderMarkup(cta *types.ContextualCTA) string {
	return fmt.Sprintf(`<div class="contextual-cta"><a href="%s" rel="sponsored">%s</a></div>`,
		html.EscapeString(cta.TargetURL), html.EscapeString(cta.AnchorText))
}
