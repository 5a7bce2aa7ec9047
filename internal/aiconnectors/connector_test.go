package aiconnectors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// fakeModel records the last GenerateContent call
type fakeModel struct {
	resp     *llms.ContentResponse
	err      error
	messages []llms.MessageContent
	opts     llms.CallOptions
	calls    int
	closed   bool
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.calls++
	f.messages = messages
	for _, opt := range options {
		opt(&f.opts)
	}
	return f.resp, f.err
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func (f *fakeModel) Close() error {
	f.closed = true
	return nil
}

type factoryCall struct {
	provider Provider
	apiKey   string
	model    string
}

func fakeFactory(model *fakeModel, calls *[]factoryCall) ModelFactory {
	return func(ctx context.Context, provider Provider, apiKey, modelName string) (llms.Model, error) {
		*calls = append(*calls, factoryCall{provider: provider, apiKey: apiKey, model: modelName})
		return model, nil
	}
}

func textResponse(parts ...string) *llms.ContentResponse {
	resp := &llms.ContentResponse{}
	for _, p := range parts {
		resp.Choices = append(resp.Choices, &llms.ContentChoice{Content: p})
	}
	return resp
}

func TestGenerateConcatenatesAndTrims(t *testing.T) {
	model := &fakeModel{resp: textResponse("  First segment. ", "Second segment.\n\n")}
	var calls []factoryCall
	c := NewConnectorsWithFactory(fakeFactory(model, &calls))

	text, err := c.Generate(context.Background(), Request{
		Provider: ProviderClaude,
		APIKey:   "anthropic-key",
		Model:    "claude-sonnet-4",
		Role:     RoleDraft,
		Prompt:   "Please provide a peer response",
	})

	require.NoError(t, err)
	assert.Equal(t, "First segment. Second segment.", text)

	require.Len(t, calls, 1)
	assert.Equal(t, factoryCall{provider: ProviderClaude, apiKey: "anthropic-key", model: "claude-sonnet-4"}, calls[0])

	require.Len(t, model.messages, 1)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.messages[0].Role)
	require.Len(t, model.messages[0].Parts, 1)
	assert.Equal(t, llms.TextContent{Text: "Please provide a peer response"}, model.messages[0].Parts[0])

	assert.InDelta(t, 0.4, model.opts.Temperature, 1e-9)
	assert.Equal(t, 800, model.opts.MaxTokens)
	assert.Equal(t, "claude-sonnet-4", model.opts.Model)
	assert.True(t, model.closed)
}

func TestGenerateSkipsNilChoices(t *testing.T) {
	model := &fakeModel{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{nil, {Content: "ok"}}}}
	var calls []factoryCall
	c := NewConnectorsWithFactory(fakeFactory(model, &calls))

	text, err := c.Generate(context.Background(), Request{Provider: ProviderOpenAI, APIKey: "k", Role: RoleDraft})

	require.NoError(t, err)
	assert.Equal(t, "ok", text)
}

func TestGenerateMissingKeyMakesNoCall(t *testing.T) {
	model := &fakeModel{resp: textResponse("unused")}
	var calls []factoryCall
	c := NewConnectorsWithFactory(fakeFactory(model, &calls))

	_, err := c.Generate(context.Background(), Request{Provider: ProviderGemini, Role: RoleCombine})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Empty(t, calls)
	assert.Equal(t, 0, model.calls)
}

func TestGenerateWrapsProviderFault(t *testing.T) {
	fault := errors.New("429 quota exceeded")
	model := &fakeModel{err: fault}
	var calls []factoryCall
	c := NewConnectorsWithFactory(fakeFactory(model, &calls))

	_, err := c.Generate(context.Background(), Request{Provider: ProviderGemini, APIKey: "g", Role: RoleRevise})

	require.Error(t, err)
	var callErr *CallError
	require.True(t, errors.As(err, &callErr))
	assert.Equal(t, ProviderGemini, callErr.Provider)
	assert.Equal(t, RoleRevise, callErr.Role)
	assert.ErrorIs(t, err, fault)
	assert.Contains(t, err.Error(), "gemini revise call failed")
}

func TestGenerateNoChoicesIsFault(t *testing.T) {
	model := &fakeModel{resp: &llms.ContentResponse{}}
	var calls []factoryCall
	c := NewConnectorsWithFactory(fakeFactory(model, &calls))

	_, err := c.Generate(context.Background(), Request{Provider: ProviderOpenAI, APIKey: "k", Role: RoleCritique})

	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGenerateFactoryFailure(t *testing.T) {
	c := NewConnectorsWithFactory(func(ctx context.Context, provider Provider, apiKey, model string) (llms.Model, error) {
		return nil, errors.New("bad options")
	})

	_, err := c.Generate(context.Background(), Request{Provider: ProviderOpenAI, APIKey: "k", Role: RoleDraft})

	var callErr *CallError
	require.True(t, errors.As(err, &callErr))
	assert.Contains(t, err.Error(), "failed to create model: bad options")
}

func TestParamsFor(t *testing.T) {
	cases := []struct {
		provider Provider
		role     Role
		want     CallParams
	}{
		{ProviderOpenAI, RoleDraft, CallParams{Temperature: 0.4}},
		{ProviderClaude, RoleDraft, CallParams{Temperature: 0.4, MaxTokens: 800}},
		{ProviderGemini, RoleCombine, CallParams{Temperature: 0.4, MaxTokens: 900}},
		{ProviderOpenAI, RoleCritique, CallParams{Temperature: 0.0}},
		{ProviderGemini, RoleRevise, CallParams{Temperature: 0.3, MaxTokens: 900}},
		{ProviderClaude, RolePing, CallParams{Temperature: 0, MaxTokens: PingMaxTokens}},
		{ProviderClaude, RoleRevise, CallParams{Temperature: 0.4}},
	}

	for _, tc := range cases {
		t.Run(string(tc.provider)+"/"+string(tc.role), func(t *testing.T) {
			assert.Equal(t, tc.want, ParamsFor(tc.provider, tc.role))
		})
	}
}

func TestCallParamsOptions(t *testing.T) {
	var opts llms.CallOptions
	for _, opt := range (CallParams{Temperature: 0.3}).Options("") {
		opt(&opts)
	}

	assert.InDelta(t, 0.3, opts.Temperature, 1e-9)
	assert.Zero(t, opts.MaxTokens)
	assert.Empty(t, opts.Model)
}

func TestNewModel(t *testing.T) {
	ctx := context.Background()

	m, err := NewModel(ctx, ProviderOpenAI, "sk-test", "gpt-4o-mini")
	require.NoError(t, err)
	assert.NotNil(t, m)

	m, err = NewModel(ctx, ProviderClaude, "anthropic-test", "claude-3-5-haiku-latest")
	require.NoError(t, err)
	assert.NotNil(t, m)

	_, err = NewModel(ctx, Provider("cohere"), "k", "command")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestProviderDisplayName(t *testing.T) {
	assert.Equal(t, "OpenAI", ProviderOpenAI.DisplayName())
	assert.Equal(t, "Anthropic", ProviderClaude.DisplayName())
	assert.Equal(t, "Gemini", ProviderGemini.DisplayName())
	assert.Equal(t, "other", Provider("other").DisplayName())
}
