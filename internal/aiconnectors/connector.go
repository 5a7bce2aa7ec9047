package aiconnectors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
)

// Provider represents an AI provider type
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderClaude Provider = "claude"
	ProviderGemini Provider = "gemini"
)

// Providers lists the supported providers in pipeline order
var Providers = []Provider{ProviderOpenAI, ProviderClaude, ProviderGemini}

// DisplayName returns the vendor name shown to users
func (p Provider) DisplayName() string {
	switch p {
	case ProviderOpenAI:
		return "OpenAI"
	case ProviderClaude:
		return "Anthropic"
	case ProviderGemini:
		return "Gemini"
	default:
		return string(p)
	}
}

// Role is the pipeline role a call is made for. It selects the fixed call
// parameters, never the provider.
type Role string

const (
	RoleDraft    Role = "draft"
	RoleCombine  Role = "combine"
	RoleCritique Role = "critique"
	RoleRevise   Role = "revise"
	RolePing     Role = "ping"
)

// Request is a single provider call with an already-built prompt
type Request struct {
	Provider Provider
	APIKey   string
	Model    string
	Role     Role
	Prompt   string
}

// Generator sends one prompt to one provider and returns the trimmed reply text
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// ModelFactory builds a langchaingo model for a single call
type ModelFactory func(ctx context.Context, provider Provider, apiKey, model string) (llms.Model, error)

var (
	ErrMissingAPIKey   = errors.New("api key is required")
	ErrEmptyResponse   = errors.New("empty response from model")
	ErrUnknownProvider = errors.New("unsupported provider")
)

// CallError is the single opaque fault returned for any failed provider call.
// Callers decide how to present it; no subtype classification happens here.
type CallError struct {
	Provider Provider
	Role     Role
	Err      error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s %s call failed: %v", e.Provider, e.Role, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// Connectors is the langchaingo-backed Generator. A fresh client is built for
// every call so no credential outlives the request that carried it.
type Connectors struct {
	newModel ModelFactory
}

// NewConnectors returns connectors that talk to the real provider APIs
func NewConnectors() *Connectors {
	return &Connectors{newModel: NewModel}
}

// NewConnectorsWithFactory returns connectors that build models with factory
func NewConnectorsWithFactory(factory ModelFactory) *Connectors {
	return &Connectors{newModel: factory}
}

// Generate issues one call and concatenates the reply segments in order
func (c *Connectors) Generate(ctx context.Context, req Request) (string, error) {
	if req.APIKey == "" {
		return "", &CallError{Provider: req.Provider, Role: req.Role, Err: ErrMissingAPIKey}
	}

	params := ParamsFor(req.Provider, req.Role)

	log.Debug().
		Str("provider", string(req.Provider)).
		Str("model", req.Model).
		Str("role", string(req.Role)).
		Float64("temperature", params.Temperature).
		Int("max_tokens", params.MaxTokens).
		Int("prompt_chars", len(req.Prompt)).
		Msg("Calling provider")

	model, err := c.newModel(ctx, req.Provider, req.APIKey, req.Model)
	if err != nil {
		return "", &CallError{Provider: req.Provider, Role: req.Role, Err: fmt.Errorf("failed to create model: %w", err)}
	}
	if closer, ok := model.(io.Closer); ok {
		defer closer.Close()
	}

	start := time.Now()
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, req.Prompt),
	}
	resp, err := model.GenerateContent(ctx, messages, params.Options(req.Model)...)
	if err != nil {
		return "", &CallError{Provider: req.Provider, Role: req.Role, Err: err}
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", &CallError{Provider: req.Provider, Role: req.Role, Err: ErrEmptyResponse}
	}

	text := joinChoices(resp.Choices)

	log.Debug().
		Str("provider", string(req.Provider)).
		Str("role", string(req.Role)).
		Dur("duration", time.Since(start)).
		Int("reply_chars", len(text)).
		Msg("Provider replied")

	return text, nil
}

// NewModel creates the langchaingo model for provider
func NewModel(ctx context.Context, provider Provider, apiKey, model string) (llms.Model, error) {
	switch provider {
	case ProviderOpenAI:
		return createOpenAIModel(apiKey, model)
	case ProviderClaude:
		return createAnthropicModel(apiKey, model)
	case ProviderGemini:
		return createGeminiModel(ctx, apiKey, model)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}
}

func createOpenAIModel(apiKey, model string) (llms.Model, error) {
	opts := []openai.Option{openai.WithToken(apiKey)}
	if model != "" {
		opts = append(opts, openai.WithModel(model))
	}
	return openai.New(opts...)
}

func createAnthropicModel(apiKey, model string) (llms.Model, error) {
	opts := []anthropic.Option{anthropic.WithToken(apiKey)}
	if model != "" {
		opts = append(opts, anthropic.WithModel(model))
	}
	return anthropic.New(opts...)
}

func createGeminiModel(ctx context.Context, apiKey, model string) (llms.Model, error) {
	opts := []googleai.Option{googleai.WithAPIKey(apiKey)}
	if model != "" {
		opts = append(opts, googleai.WithDefaultModel(model))
	}
	gm, err := googleai.New(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return gm, nil
}

// joinChoices concatenates every text segment of a reply and trims the result.
// Anthropic returns one choice per content block, so order matters.
func joinChoices(choices []*llms.ContentChoice) string {
	var sb strings.Builder
	for _, choice := range choices {
		if choice == nil {
			continue
		}
		sb.WriteString(choice.Content)
	}
	return strings.TrimSpace(sb.String())
}
