package composing

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhitman/cta-engine/internal/types"
)

func TestGenerateUTMURL_CompetitorConquesting(t *testing.T) {
	result, err := GenerateUTMURL("https://example.com/signup", UTMOptions{
		CampaignType:   types.CampaignCompetitorConquesting,
		TargetKeyword:  "Cold Email Outreach",
		CompetitorName: "Acme Inc!",
	})
	require.NoError(t, err)

	parsed, err := url.Parse(result)
	require.NoError(t, err)
	query := parsed.Query()
	assert.Equal(t, "competitor_conquesting_acmeinc", query.Get("utm_campaign"))
	assert.Equal(t, "contextual_cta", query.Get("utm_medium"))
	assert.Equal(t, "cold_email_outreach", query.Get("utm_term"))
}

func TestGenerateUTMURL_ParameterOrder(t *testing.T) {
	result, err := GenerateUTMURL("https://example.com/signup", UTMOptions{
		CampaignType:  types.CampaignBlogCreator,
		TargetKeyword: "lead gen",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/signup?utm_campaign=blog_creator&utm_medium=contextual_cta&utm_term=lead_gen", result)
}

func TestGenerateUTMURL_Pure(t *testing.T) {
	opts := UTMOptions{
		CampaignType:   types.CampaignCompetitorConquesting,
		TargetKeyword:  "Email Verification",
		CompetitorName: "Rival Co",
	}

	first, err := GenerateUTMURL("https://example.com/product", opts)
	require.NoError(t, err)
	second, err := GenerateUTMURL("https://example.com/product", opts)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerateUTMURL_PreservesExistingQuery(t *testing.T) {
	result, err := GenerateUTMURL("https://example.com/signup?ref=partner", UTMOptions{
		CampaignType:  types.CampaignRedditContentCreator,
		TargetKeyword: "outreach",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/signup?ref=partner&utm_campaign=reddit_content_creator&utm_medium=contextual_cta&utm_term=outreach", result)
}

func TestGenerateUTMURL_DefaultCompetitorSlug(t *testing.T) {
	result, err := GenerateUTMURL("https://example.com", UTMOptions{
		CampaignType:  types.CampaignCompetitorConquesting,
		TargetKeyword: "crm",
	})
	require.NoError(t, err)

	parsed, _ := url.Parse(result)
	assert.Equal(t, "competitor_conquesting_generic", parsed.Query().Get("utm_campaign"))
}

func TestGenerateUTMURL_EmptyCampaignDefaultsToBlogCreator(t *testing.T) {
	result, err := GenerateUTMURL("https://example.com", UTMOptions{TargetKeyword: "seo"})
	require.NoError(t, err)

	parsed, _ := url.Parse(result)
	assert.Equal(t, "blog_creator", parsed.Query().Get("utm_campaign"))
}

func TestGenerateUTMURL_Errors(t *testing.T) {
	_, err := GenerateUTMURL("not a url", UTMOptions{CampaignType: types.CampaignBlogCreator})
	assert.Error(t, err)

	_, err = GenerateUTMURL("/relative/path", UTMOptions{CampaignType: types.CampaignBlogCreator})
	assert.Error(t, err)

	_, err = GenerateUTMURL("https://example.com", UTMOptions{CampaignType: "mystery"})
	assert.Error(t, err)
}

func TestCompetitorSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acme Inc!", "acmeinc"},
		{"Hub-Spot 2.0", "hubspot20"},
		{"", "generic"},
		{"!!!", "generic"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, competitorSlug(tt.in))
	}
}
