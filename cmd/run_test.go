package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/peerresponse/internal/aiconnectors"
	"github.com/peerresponse/internal/report"
)

const testPost = "How do you build trust on a remote team?"

type cannedGenerator struct {
	mu       sync.Mutex
	requests []aiconnectors.Request
	critique string
}

func (g *cannedGenerator) Generate(ctx context.Context, req aiconnectors.Request) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	switch req.Role {
	case aiconnectors.RoleCritique:
		return g.critique, nil
	case aiconnectors.RoleRevise:
		return "revised reply", nil
	case aiconnectors.RoleCombine:
		return "combined reply", nil
	case aiconnectors.RolePing:
		return "Pong", nil
	default:
		return "draft by " + string(req.Provider), nil
	}
}

type harness struct {
	gen    *cannedGenerator
	stdin  string
	out    bytes.Buffer
	errOut bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, v := range []string{OpenAIKeyEnv, AnthropicKeyEnv, GeminiKeyEnv, "GEMINI_API_KEY"} {
		t.Setenv(v, "")
	}

	h := &harness{gen: &cannedGenerator{critique: "PASS\nlooks good"}}
	prev := newGenerator
	newGenerator = func() aiconnectors.Generator { return h.gen }
	t.Cleanup(func() { newGenerator = prev })
	return h
}

// run executes a fresh app so no flag state leaks between invocations
func (h *harness) run(args ...string) error {
	app := NewApp("test")
	app.Reader = strings.NewReader(h.stdin)
	app.Writer = &h.out
	app.ErrWriter = &h.errOut
	app.ExitErrHandler = func(*cli.Context, error) {}
	return app.Run(append([]string{"peerresponse", "--log-level", "error"}, args...))
}

func TestRunCommandJSON(t *testing.T) {
	h := newHarness(t)
	h.gen.critique = "FAIL\nneeds a citation"

	err := h.run("run", "--attest",
		"--openai-key", "sk-o", "--anthropic-key", "sk-a", "--gemini-key", "gm",
		"--anthropic-model", "claude-3-5-haiku-latest",
		"--min-words", "100", "--max-words", "180",
		"--post", testPost, "--output", "json")
	require.NoError(t, err)

	var rep report.Report
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &rep))
	assert.Equal(t, "revised reply", rep.FinalText)
	assert.True(t, rep.Revised)
	assert.Equal(t, report.ClosedLoopRevised, rep.ClosedLoop)

	require.Len(t, h.gen.requests, 5)
	assert.Equal(t, "claude-3-5-haiku-latest", h.gen.requests[1].Model)
	assert.Contains(t, h.gen.requests[3].Prompt, "Word count between 100-180")
}

func TestRunCommandRejectsMissingAttestation(t *testing.T) {
	h := newHarness(t)

	err := h.run("run", "--openai-key", "sk-o", "--anthropic-key", "sk-a", "--post", testPost)
	require.Error(t, err)

	var exitErr cli.ExitCoder
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 2, exitErr.ExitCode())
	assert.Equal(t, "Please confirm the attestation to proceed.", err.Error())
	assert.Empty(t, h.gen.requests)
}

func TestRunCommandKeysFromEnvironment(t *testing.T) {
	h := newHarness(t)
	t.Setenv(OpenAIKeyEnv, "sk-env-openai")
	t.Setenv(AnthropicKeyEnv, "sk-env-anthropic")

	err := h.run("run", "--attest", "--post", testPost, "--output", "yaml")
	require.NoError(t, err)

	// Without a Gemini key only the drafts run
	require.Len(t, h.gen.requests, 2)
	assert.Equal(t, "sk-env-openai", h.gen.requests[0].APIKey)
	assert.Equal(t, "sk-env-anthropic", h.gen.requests[1].APIKey)
	assert.Contains(t, h.out.String(), "closed_loop: Not reviewed")
}

func TestRunCommandReadsPostFromStdin(t *testing.T) {
	h := newHarness(t)
	h.stdin = testPost + "\n"

	err := h.run("run", "--attest", "--openai-key", "sk-o", "--anthropic-key", "sk-a", "--post-file", "-")
	require.NoError(t, err)

	require.NotEmpty(t, h.gen.requests)
	assert.True(t, strings.HasSuffix(h.gen.requests[0].Prompt, testPost))
	assert.Contains(t, h.out.String(), "Peer Response A (OpenAI)")
}

func TestRunCommandReadsPostFile(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "post.txt")
	require.NoError(t, os.WriteFile(path, []byte(testPost+"\n"), 0600))

	err := h.run("run", "--attest", "--openai-key", "sk-o", "--anthropic-key", "sk-a", "--post-file", path)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(h.gen.requests[0].Prompt, testPost))

	err = h.run("run", "--attest", "--openai-key", "sk-o", "--anthropic-key", "sk-a", "--post", testPost, "--post-file", path)
	assert.Error(t, err)
}

func TestPingCommand(t *testing.T) {
	h := newHarness(t)

	err := h.run("ping", "--openai-key", "sk-o", "--output", "json")
	require.NoError(t, err)

	var views []report.PingView
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &views))
	require.Len(t, views, 3)
	assert.Equal(t, aiconnectors.PingOK, views[0].Status)
	assert.Equal(t, aiconnectors.PingNoKey, views[1].Status)
	require.Len(t, h.gen.requests, 1)
}

func TestConfigInitAndValidate(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "peerresponse.toml")

	require.NoError(t, h.run("config", "init", "--output", path))
	assert.FileExists(t, path)

	h.out.Reset()
	require.NoError(t, h.run("--config", path, "config", "validate"))
	assert.Contains(t, h.out.String(), "Configuration is valid ("+path+")")
	assert.Contains(t, h.out.String(), OpenAIKeyEnv)
}
