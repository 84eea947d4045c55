package types

// CampaignType selects the utm_campaign value attached to tracked URLs.
type CampaignType string

// Campaign types recognized by the UTM builder
const (
	CampaignBlogCreator           CampaignType = "blog_creator"
	CampaignRedditContentCreator  CampaignType = "reddit_content_creator"
	CampaignCompetitorConquesting CampaignType = "competitor_conquesting"
)

// AnchorStyle selects the tone of generated anchor text.
type AnchorStyle string

// Anchor text styles
const (
	StyleBenefitFocused AnchorStyle = "benefit_focused"
	StyleActionOriented AnchorStyle = "action_oriented"
	StyleQuestionBased  AnchorStyle = "question_based"
)

// CampaignMeta records the campaign parameters a CTA was composed under.
type CampaignMeta struct {
	Type           CampaignType `json:"type"`
	TargetKeyword  string       `json:"target_keyword"`
	CompetitorName string       `json:"competitor_name,omitempty"`
}

// ContextualCTA is the fully composed, ready-to-insert unit. Immutable once
// produced; the splicer consumes it read-only.
type ContextualCTA struct {
	ID             string       `json:"id"`
	ChunkID        string       `json:"chunk_id"`
	OfferID        string       `json:"offer_id"`
	AnchorText     string       `json:"anchor_text"`
	AnchorStyle    AnchorStyle  `json:"anchor_style"`
	TargetURL      string       `json:"target_url"` // offer URL with UTM parameters attached
	RenderedMarkup string       `json:"rendered_markup"`
	Confidence     float64      `json:"confidence"` // 0-100 weighted combination
	Campaign       CampaignMeta `json:"campaign"`
}

// CompositionResult holds the primary CTA for a match plus up to two
// stylistic alternates.
type CompositionResult struct {
	Primary      ContextualCTA   `json:"primary"`
	Alternatives []ContextualCTA `json:"alternatives"`
}
