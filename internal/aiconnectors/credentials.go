package aiconnectors

// Keys holds the per-run API keys. They are supplied fresh for every run and
// never persisted.
type Keys struct {
	OpenAI    string
	Anthropic string
	Gemini    string
}

// For returns the key for provider
func (k Keys) For(provider Provider) string {
	switch provider {
	case ProviderOpenAI:
		return k.OpenAI
	case ProviderClaude:
		return k.Anthropic
	case ProviderGemini:
		return k.Gemini
	default:
		return ""
	}
}

// All returns every key, including empty ones, in provider order
func (k Keys) All() []string {
	return []string{k.OpenAI, k.Anthropic, k.Gemini}
}

// Models holds the free-form model identifier for each provider
type Models struct {
	OpenAI    string
	Anthropic string
	Gemini    string
}

// Default model identifiers, overridable per run
const (
	DefaultOpenAIModel    = "gpt-5-auto"
	DefaultAnthropicModel = "claude-sonnet-4"
	DefaultGeminiModel    = "gemini-2.5-flash"
)

// DefaultModels returns the default model for every provider
func DefaultModels() Models {
	return Models{
		OpenAI:    DefaultOpenAIModel,
		Anthropic: DefaultAnthropicModel,
		Gemini:    DefaultGeminiModel,
	}
}

// For returns the model identifier for provider
func (m Models) For(provider Provider) string {
	switch provider {
	case ProviderOpenAI:
		return m.OpenAI
	case ProviderClaude:
		return m.Anthropic
	case ProviderGemini:
		return m.Gemini
	default:
		return ""
	}
}

// WithDefaults fills every empty identifier from DefaultModels
func (m Models) WithDefaults() Models {
	d := DefaultModels()
	if m.OpenAI == "" {
		m.OpenAI = d.OpenAI
	}
	if m.Anthropic == "" {
		m.Anthropic = d.Anthropic
	}
	if m.Gemini == "" {
		m.Gemini = d.Gemini
	}
	return m
}
