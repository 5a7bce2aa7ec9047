package aiconnectors

import "github.com/tmc/langchaingo/llms"

// CallParams holds the fixed sampling settings for a provider/role pair.
// MaxTokens of zero leaves the provider default in place.
type CallParams struct {
	Temperature float64
	MaxTokens   int
}

// PingMaxTokens caps the connectivity-check reply
const PingMaxTokens = 16

var defaultParams = CallParams{Temperature: 0.4}

var roleParams = map[Role]map[Provider]CallParams{
	RoleDraft: {
		ProviderOpenAI: {Temperature: 0.4},
		ProviderClaude: {Temperature: 0.4, MaxTokens: 800},
		ProviderGemini: {Temperature: 0.4, MaxTokens: 900},
	},
	RoleCombine: {
		ProviderGemini: {Temperature: 0.4, MaxTokens: 900},
	},
	RoleCritique: {
		ProviderOpenAI: {Temperature: 0.0},
	},
	RoleRevise: {
		ProviderGemini: {Temperature: 0.3, MaxTokens: 900},
	},
}

// ParamsFor returns the call parameters for provider acting in role
func ParamsFor(provider Provider, role Role) CallParams {
	if role == RolePing {
		return CallParams{Temperature: 0, MaxTokens: PingMaxTokens}
	}
	if byProvider, ok := roleParams[role]; ok {
		if params, ok := byProvider[provider]; ok {
			return params
		}
	}
	return defaultParams
}

// Options converts the parameters into langchaingo call options
func (p CallParams) Options(model string) []llms.CallOption {
	opts := []llms.CallOption{
		llms.WithTemperature(p.Temperature),
	}
	if p.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(p.MaxTokens))
	}
	// Gemini ignores the client default unless the model is set on the call
	if model != "" {
		opts = append(opts, llms.WithModel(model))
	}
	return opts
}
