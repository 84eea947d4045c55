package types

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Category classifies an offer. The set is closed; the annotation prompt and
// the matcher both enumerate it, so adding a value means updating both.
type Category string

// Offer categories
const (
	CategoryLeadGeneration      Category = "lead_generation"
	CategoryColdOutreach        Category = "cold_outreach"
	CategoryDataEnrichment      Category = "data_enrichment"
	CategorySalesIntelligence   Category = "sales_intelligence"
	CategoryEmailVerification   Category = "email_verification"
	CategoryContentMarketing    Category = "content_marketing"
	CategoryMarketingAutomation Category = "marketing_automation"
)

// AllCategories returns the closed category set in a stable order.
func AllCategories() []Category {
	return []Category{
		CategoryLeadGeneration,
		CategoryColdOutreach,
		CategoryDataEnrichment,
		CategorySalesIntelligence,
		CategoryEmailVerification,
		CategoryContentMarketing,
		CategoryMarketingAutomation,
	}
}

// Tokens returns the category name split into its constituent words,
// e.g. "lead_generation" -> ["lead", "generation"].
func (c Category) Tokens() []string {
	return strings.Split(string(c), "_")
}

// Offer is one marketable solution from the externally-maintained catalog.
// The pipeline treats offers as read-only input.
type Offer struct {
	ID                string   `json:"id" validate:"required"`
	Title             string   `json:"title" validate:"required"`
	Description       string   `json:"description"`
	URL               string   `json:"url" validate:"required,url"`
	Category          Category `json:"category" validate:"required,oneof=lead_generation cold_outreach data_enrichment sales_intelligence email_verification content_marketing marketing_automation"`
	PainPointKeywords []string `json:"pain_point_keywords"`
	SolutionKeywords  []string `json:"solution_keywords"`
	ContextClues      []string `json:"context_clues"`
	Priority          int      `json:"priority" validate:"gte=0,lte=10"`
}

var offerValidate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the offer's required fields and closed-set constraints.
func (o *Offer) Validate() error {
	if err := offerValidate.Struct(o); err != nil {
		return fmt.Errorf("invalid offer %q: %w", o.ID, err)
	}
	return nil
}

// ValidateOffers validates a whole catalog, reporting the first invalid offer.
func ValidateOffers(offers []Offer) error {
	seen := make(map[string]bool, len(offers))
	for i := range offers {
		if err := offers[i].Validate(); err != nil {
			return err
		}
		if seen[offers[i].ID] {
			return fmt.Errorf("duplicate offer id %q", offers[i].ID)
		}
		seen[offers[i].ID] = true
	}
	return nil
}
