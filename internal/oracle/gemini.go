package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mwhitman/cta-engine/internal/llm"
	"github.com/mwhitman/cta-engine/internal/prompts"
	"github.com/mwhitman/cta-engine/internal/types"
)

// LLMOracle implements Oracle on top of the shared LLM client.
type LLMOracle struct {
	client llm.Client
}

// NewLLMOracle creates an oracle backed by the given LLM client.
func NewLLMOracle(client llm.Client) *LLMOracle {
	return &LLMOracle{client: client}
}

// annotationResponse mirrors the JSON shape requested by the annotation prompt.
type annotationResponse struct {
	Themes                []string `json:"themes"`
	PainPoints            []string `json:"pain_points"`
	SolutionOpportunities []string `json:"solution_opportunities"`
	ContextClues          []string `json:"context_clues"`
	ConfidenceScore       float64  `json:"confidence_score"`
	IsCandidate           bool     `json:"is_candidate"`
}

// AnnotateChunk analyzes one chunk of article text against the closed
// category taxonomy.
func (o *LLMOracle) AnnotateChunk(ctx context.Context, text string, categories []types.Category) (*types.Annotation, error) {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = string(c)
	}

	template := prompts.MustGet("annotation.json", "annotate-chunk")
	prompt := prompts.Format(template, map[string]string{
		"ChunkText":  text,
		"Categories": strings.Join(names, ", "),
	})

	jsonResp, err := o.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("annotation generation failed: %w", err)
	}

	var resp annotationResponse
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(jsonResp)), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse annotation response: %w (content: %s)", err, jsonResp)
	}

	annotation := &types.Annotation{
		Themes:                resp.Themes,
		PainPoints:            resp.PainPoints,
		SolutionOpportunities: resp.SolutionOpportunities,
		ContextClues:          resp.ContextClues,
		ConfidenceScore:       resp.ConfidenceScore,
		IsCandidate:           resp.IsCandidate,
	}
	annotation.ClampConfidence()

	return annotation, nil
}

// ScoreSimilarity scores a chunk against a list of offers, returning one
// 0-100 score per offer in input order.
func (o *LLMOracle) ScoreSimilarity(ctx context.Context, chunkText string, offers []types.Offer) ([]float64, error) {
	if len(offers) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	for i, offer := range offers {
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteString(". ")
		sb.WriteString(offer.Title)
		if offer.Description != "" {
			sb.WriteString(": ")
			sb.WriteString(offer.Description)
		}
		sb.WriteString(" (category: ")
		sb.WriteString(string(offer.Category))
		sb.WriteString(")\n")
	}

	template := prompts.MustGet("matching.json", "score-similarity")
	prompt := prompts.Format(template, map[string]string{
		"ChunkText": chunkText,
		"Offers":    sb.String(),
	})

	jsonResp, err := o.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("similarity scoring failed: %w", err)
	}

	var scores []float64
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(jsonResp)), &scores); err != nil {
		return nil, fmt.Errorf("failed to parse similarity response: %w (content: %s)", err, jsonResp)
	}
	if len(scores) != len(offers) {
		return nil, fmt.Errorf("similarity response length %d does not match offer count %d", len(scores), len(offers))
	}

	for i, s := range scores {
		if s < 0 {
			scores[i] = 0
		}
		if s > 100 {
			scores[i] = 100
		}
	}

	return scores, nil
}

// anchorResponse mirrors the JSON shape requested by the composing prompt.
type anchorResponse struct {
	AnchorText    string  `json:"anchor_text"`
	Confidence    float64 `json:"confidence"`
	ContextualFit float64 `json:"contextual_fit"`
}

// styleGuidance maps each anchor style to copywriting direction embedded in
// the prompt.
var styleGuidance = map[types.AnchorStyle]string{
	types.StyleBenefitFocused: "Lead with the concrete benefit the reader gets, e.g. 'Find verified leads in minutes'",
	types.StyleActionOriented: "Start with an imperative verb that tells the reader what to do next, e.g. 'Start your free trial'",
	types.StyleQuestionBased:  "Pose a question the paragraph leaves the reader asking, e.g. 'Tired of bounced emails?'",
}

// GenerateAnchorText produces anchor text for a CTA in the requested style.
func (o *LLMOracle) GenerateAnchorText(ctx context.Context, req AnchorRequest) (*AnchorResult, error) {
	guidance, ok := styleGuidance[req.Style]
	if !ok {
		return nil, fmt.Errorf("unknown anchor style %q", req.Style)
	}

	template := prompts.MustGet("composing.json", "generate-anchor-text")
	prompt := prompts.Format(template, map[string]string{
		"OfferTitle":       req.OfferTitle,
		"OfferDescription": req.OfferDescription,
		"TargetKeyword":    req.TargetKeyword,
		"Style":            string(req.Style),
		"StyleGuidance":    guidance,
		"MaxLength":        strconv.Itoa(req.MaxLength),
		"IncludeValueProp": strconv.FormatBool(req.IncludeValueProp),
	})

	jsonResp, err := o.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("anchor text generation failed: %w", err)
	}

	var resp anchorResponse
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(jsonResp)), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse anchor text response: %w (content: %s)", err, jsonResp)
	}
	if strings.TrimSpace(resp.AnchorText) == "" {
		return nil, fmt.Errorf("anchor text response is empty")
	}

	result := &AnchorResult{
		AnchorText:    strings.TrimSpace(resp.AnchorText),
		Confidence:    clamp100(resp.Confidence),
		ContextualFit: clamp100(resp.ContextualFit),
		Style:         req.Style,
	}

	// Enforce the caller's length constraint even if the model ignores it.
	// Cut on a rune boundary so non-ASCII anchor text stays valid UTF-8.
	if req.MaxLength > 0 {
		if runes := []rune(result.AnchorText); len(runes) > req.MaxLength {
			result.AnchorText = strings.TrimSpace(string(runes[:req.MaxLength]))
		}
	}

	return result, nil
}

func clamp100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
