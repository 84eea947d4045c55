// Package catalog loads and validates the offer catalog. Catalogs are JSON
// files maintained outside this repo; every load is schema-checked before any
// offer reaches the pipeline.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/mwhitman/cta-engine/internal/types"
)

//go:embed schema.json
var catalogSchema string

// file is the on-disk catalog shape.
type file struct {
	Offers []types.Offer `json:"offers"`
}

// SchemaError reports catalog documents that fail the JSON Schema check,
// with one entry per violated field.
type SchemaError struct {
	Violations []FieldViolation
}

// FieldViolation is a single schema violation at a specific field.
type FieldViolation struct {
	Field   string
	Message string
}

func (e *SchemaError) Error() string {
	var sb strings.Builder
	sb.WriteString("catalog failed schema validation:\n")
	for i, v := range e.Violations {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, v.Field, v.Message))
	}
	return sb.String()
}

// Load reads a catalog file, validates it against the embedded schema, and
// returns its offers.
func Load(path string) ([]types.Offer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	offers, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return offers, nil
}

// Parse validates raw catalog JSON and returns its offers. Schema validation
// runs first so malformed documents surface field-level errors instead of
// unmarshal failures.
func Parse(data []byte) ([]types.Offer, error) {
	if err := checkSchema(data); err != nil {
		return nil, err
	}

	var doc file
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	if err := types.ValidateOffers(doc.Offers); err != nil {
		return nil, err
	}
	return doc.Offers, nil
}

func checkSchema(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(catalogSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if result.Valid() {
		return nil
	}

	schemaErr := &SchemaError{Violations: make([]FieldViolation, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		schemaErr.Violations = append(schemaErr.Violations, FieldViolation{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return schemaErr
}

// Default returns the built-in offer catalog used when no catalog file is
// supplied.
func Default() []types.Offer {
	return []types.Offer{
		{
			ID:          "offer_lead_finder",
			Title:       "LeadScout",
			Description: "Find verified B2B leads with direct contact details in seconds.",
			URL:         "https://app.leadscout.example.com/signup",
			Category:    types.CategoryLeadGeneration,
			PainPointKeywords: []string{
				"can't find leads", "empty pipeline", "prospecting takes forever",
				"low quality leads", "outdated contact data",
			},
			SolutionKeywords: []string{
				"lead generation", "prospect list", "b2b database", "contact finder",
			},
			ContextClues: []string{"sales team", "pipeline", "quota", "outbound"},
			Priority:     8,
		},
		{
			ID:          "offer_email_verify",
			Title:       "VerifyStack",
			Description: "Clean your email lists and protect sender reputation before every send.",
			URL:         "https://app.verifystack.example.com/signup",
			Category:    types.CategoryEmailVerification,
			PainPointKeywords: []string{
				"high bounce rate", "emails bouncing", "spam folder",
				"sender reputation", "blacklisted domain",
			},
			SolutionKeywords: []string{
				"email verification", "list cleaning", "email validation", "bounce reduction",
			},
			ContextClues: []string{"deliverability", "cold email", "email campaign"},
			Priority:     9,
		},
		{
			ID:          "offer_outreach",
			Title:       "ReachRamp",
			Description: "Automate personalized cold outreach sequences that actually get replies.",
			URL:         "https://reachramp.example.com/start",
			Category:    types.CategoryColdOutreach,
			PainPointKeywords: []string{
				"no replies", "low response rate", "manual follow ups",
				"outreach doesn't scale",
			},
			SolutionKeywords: []string{
				"cold outreach", "email sequences", "follow up automation", "personalization",
			},
			ContextClues: []string{"sdr", "booking meetings", "reply rate"},
			Priority:     7,
		},
		{
			ID:          "offer_enrichment",
			Title:       "DataForge",
			Description: "Enrich any contact list with firmographic and technographic data.",
			URL:         "https://dataforge.example.com/trial",
			Category:    types.CategoryDataEnrichment,
			PainPointKeywords: []string{
				"incomplete data", "missing fields", "stale records", "manual research",
			},
			SolutionKeywords: []string{
				"data enrichment", "firmographics", "contact enrichment", "crm hygiene",
			},
			ContextClues: []string{"crm", "segmentation", "icp"},
			Priority:     6,
		},
	}
}
