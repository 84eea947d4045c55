package fetch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArticleProbeScript(t *testing.T) {
	script := articleProbeScript()

	assert.True(t, strings.HasPrefix(script, "document.querySelector("))
	assert.True(t, strings.HasSuffix(script, ") !== null"))
	for _, selector := range ArticleSelectors() {
		assert.Contains(t, script, selector)
	}
}

func TestOverlaySelectors_NonEmpty(t *testing.T) {
	for _, selector := range overlaySelectors {
		assert.NotEmpty(t, strings.TrimSpace(selector))
	}
}
