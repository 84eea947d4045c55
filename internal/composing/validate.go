package composing

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/mwhitman/cta-engine/internal/types"
)

// Validation thresholds. Each violation deducts a fixed amount from the
// quality score and records an issue string; validation is a quality gate
// used before insertion, not a hard rejection.
const (
	minValidConfidence    = 70.0
	minAnchorLength       = 10
	maxAnchorLength       = 80
	perViolationDeduction = 20.0
)

// requiredUTMParams are the parameters every tracked URL must carry.
var requiredUTMParams = []string{"utm_campaign", "utm_medium", "utm_term"}

// ValidationReport is the outcome of the pre-insertion quality gate.
type ValidationReport struct {
	Valid        bool
	QualityScore float64 // 0-100
	Issues       []string
}

// ValidateCTA checks a composed CTA against the quality gate: confidence,
// anchor length bounds, URL well-formedness, provider domain, and UTM
// parameter presence. providerDomain may be empty to skip the host check.
func ValidateCTA(cta types.ContextualCTA, providerDomain string) ValidationReport {
	report := ValidationReport{QualityScore: 100}

	fail := func(issue string) {
		report.Issues = append(report.Issues, issue)
		report.QualityScore -= perViolationDeduction
	}

	if cta.Confidence < minValidConfidence {
		fail(fmt.Sprintf("confidence %.0f below minimum %.0f", cta.Confidence, minValidConfidence))
	}

	if n := len(cta.AnchorText); n < minAnchorLength || n > maxAnchorLength {
		fail(fmt.Sprintf("anchor text length %d outside [%d,%d]", n, minAnchorLength, maxAnchorLength))
	}

	parsed, err := url.Parse(cta.TargetURL)
	switch {
	case err != nil || parsed.Scheme == "" || parsed.Host == "":
		fail(fmt.Sprintf("target URL %q is not a valid absolute URL", cta.TargetURL))
	default:
		if providerDomain != "" && !hostMatchesDomain(parsed.Hostname(), providerDomain) {
			fail(fmt.Sprintf("target URL host %q does not match provider domain %q", parsed.Hostname(), providerDomain))
		}
		query := parsed.Query()
		for _, param := range requiredUTMParams {
			if query.Get(param) == "" {
				fail(fmt.Sprintf("missing UTM parameter %s", param))
			}
		}
	}

	if report.QualityScore < 0 {
		report.QualityScore = 0
	}
	report.Valid = len(report.Issues) == 0

	return report
}

// hostMatchesDomain reports whether host is the domain or a subdomain of it.
func hostMatchesDomain(host, domain string) bool {
	host = strings.ToLower(host)
	domain = strings.ToLower(domain)
	return host == domain || strings.HasSuffix(host, "."+domain)
}
