package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peerresponse/internal/logging"
)

// Environment variables that carry provider keys
const (
	OpenAIKeyEnv    = "OPENAI_API_KEY"
	AnthropicKeyEnv = "ANTHROPIC_API_KEY"
	GeminiKeyEnv    = "GOOGLE_API_KEY"
)

// KeyCheckResult holds the result of the key environment check
type KeyCheckResult struct {
	Missing  []string          // Required variables that are missing
	Present  map[string]string // Variables that are set (masked values)
	Warnings []string          // Non-fatal warnings
}

// Ready reports whether a run can start from the environment alone
func (r *KeyCheckResult) Ready() bool {
	return len(r.Missing) == 0
}

// CheckKeyEnvironment reports which provider keys the environment supplies
func CheckKeyEnvironment() *KeyCheckResult {
	result := &KeyCheckResult{
		Present: make(map[string]string),
	}

	for _, v := range []string{OpenAIKeyEnv, AnthropicKeyEnv} {
		if val := os.Getenv(v); val != "" {
			result.Present[v] = logging.MaskSecret(val)
		} else {
			result.Missing = append(result.Missing, v)
		}
	}

	if val := os.Getenv(GeminiKeyEnv); val != "" {
		result.Present[GeminiKeyEnv] = logging.MaskSecret(val)
	} else {
		result.Warnings = append(result.Warnings,
			GeminiKeyEnv+" is not set; the combine, review and revision stages will be skipped")
	}

	return result
}

// PrintKeyCheck prints the key check results
func PrintKeyCheck(w io.Writer, result *KeyCheckResult) {
	fmt.Fprintln(w, "=== Key Check ===")

	if len(result.Missing) > 0 {
		fmt.Fprintln(w, "❌ Missing keys (pass them as flags or export them):")
		for _, v := range result.Missing {
			fmt.Fprintf(w, "   - %s\n", v)
		}
	}

	for _, v := range []string{OpenAIKeyEnv, AnthropicKeyEnv, GeminiKeyEnv} {
		if masked, ok := result.Present[v]; ok {
			fmt.Fprintf(w, "✓ %s = %s\n", v, masked)
		}
	}

	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "⚠ Warning: %s\n", warning)
	}

	fmt.Fprintln(w, "=================")
}

// LoadEnvFile reads KEY=VALUE lines into the process environment and returns
// how many were set. Existing variables are overwritten.
func LoadEnvFile(filename string) (int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	count := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = unquote(strings.TrimSpace(value))

		if err := os.Setenv(key, value); err != nil {
			return count, fmt.Errorf("failed to set env var %s: %w", key, err)
		}
		count++
	}

	return count, scanner.Err()
}

func unquote(value string) string {
	if len(value) < 2 {
		return value
	}
	first, last := value[0], value[len(value)-1]
	if first == last && (first == '"' || first == '\'') {
		return value[1 : len(value)-1]
	}
	return value
}
