package composing

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/mwhitman/cta-engine/internal/types"
)

// utmMedium is the fixed utm_medium value for every tracked URL.
const utmMedium = "contextual_cta"

// UTMOptions configures tracked URL construction.
type UTMOptions struct {
	CampaignType   types.CampaignType
	TargetKeyword  string
	CompetitorName string // used only for competitor_conquesting campaigns
}

// GenerateUTMURL attaches the three UTM parameters to a base URL. The output
// is a stable wire contract consumed by external analytics dashboards: the
// parameters appear in the order utm_campaign, utm_medium, utm_term with
// exactly the values documented here. The function is pure; identical input
// yields byte-identical output.
func GenerateUTMURL(baseURL string, opts UTMOptions) (string, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("base URL %q must be absolute", baseURL)
	}

	campaign, err := campaignValue(opts.CampaignType, opts.CompetitorName)
	if err != nil {
		return "", err
	}

	params := []string{
		"utm_campaign=" + url.QueryEscape(campaign),
		"utm_medium=" + utmMedium,
		"utm_term=" + url.QueryEscape(normalizeKeyword(opts.TargetKeyword)),
	}

	// Append after any existing query, preserving its order untouched.
	query := strings.Join(params, "&")
	if parsed.RawQuery != "" {
		parsed.RawQuery = parsed.RawQuery + "&" + query
	} else {
		parsed.RawQuery = query
	}

	return parsed.String(), nil
}

// campaignValue resolves the utm_campaign string for a campaign type.
func campaignValue(campaignType types.CampaignType, competitorName string) (string, error) {
	switch campaignType {
	case types.CampaignBlogCreator, "":
		return string(types.CampaignBlogCreator), nil
	case types.CampaignRedditContentCreator:
		return string(types.CampaignRedditContentCreator), nil
	case types.CampaignCompetitorConquesting:
		return string(types.CampaignCompetitorConquesting) + "_" + competitorSlug(competitorName), nil
	default:
		return "", fmt.Errorf("unknown campaign type %q", campaignType)
	}
}

// competitorSlug reduces a competitor name to lowercase alphanumerics,
// defaulting to "generic" when nothing survives.
func competitorSlug(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return "generic"
	}
	return sb.String()
}

// normalizeKeyword lowercases the target keyword and replaces spaces with
// underscores for the utm_term value.
func normalizeKeyword(keyword string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(keyword)), " ", "_")
}
