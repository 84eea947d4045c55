package llm

// ModelTier represents the complexity/capability level of a model.
// Annotation and similarity scoring run on the lite tier; anchor text
// generation runs on the standard tier.
type ModelTier string

const (
	// TierLite is for high-volume structured tasks: chunk annotation, similarity scoring
	TierLite ModelTier = "lite"
	// TierStandard is for generation tasks: anchor text composition
	TierStandard ModelTier = "standard"
)

// Config holds the model selection for the engine.
type Config struct {
	Models map[ModelTier]string
}

// DefaultConfig returns the default Gemini model configuration.
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
	}
}

// GetModel returns the model name for a given tier, falling back to the
// lite tier when the requested tier is not configured.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a copy of the config with a specific model for a tier.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{Models: make(map[ModelTier]string, len(c.Models)+1)}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return newConfig
}
