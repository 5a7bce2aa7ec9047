package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvFile(t *testing.T) {
	t.Setenv(OpenAIKeyEnv, "")
	t.Setenv(AnthropicKeyEnv, "")
	t.Setenv(GeminiKeyEnv, "")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(`# provider keys
OPENAI_API_KEY="sk-openai-from-file"
export ANTHROPIC_API_KEY='sk-ant-from-file'

not a pair
`), 0600))

	n, err := LoadEnvFile(path)
	require.NoError(t, err)

	assert.Equal(t, 2, n)
	assert.Equal(t, "sk-openai-from-file", os.Getenv(OpenAIKeyEnv))
	assert.Equal(t, "sk-ant-from-file", os.Getenv(AnthropicKeyEnv))

	_, err = LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestCheckKeyEnvironment(t *testing.T) {
	t.Setenv(OpenAIKeyEnv, "sk-openai-1234567")
	t.Setenv(AnthropicKeyEnv, "")
	t.Setenv(GeminiKeyEnv, "")

	result := CheckKeyEnvironment()

	assert.False(t, result.Ready())
	assert.Equal(t, []string{AnthropicKeyEnv}, result.Missing)
	assert.Equal(t, "sk-o****", result.Present[OpenAIKeyEnv])
	require.Len(t, result.Warnings, 1)

	var buf bytes.Buffer
	PrintKeyCheck(&buf, result)
	assert.Contains(t, buf.String(), "OPENAI_API_KEY = sk-o****")
	assert.NotContains(t, buf.String(), "sk-openai-1234567")
}
