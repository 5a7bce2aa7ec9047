package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog/log"

	"github.com/peerresponse/internal/aiconnectors"
	"github.com/peerresponse/internal/pipeline"
)

// EnvPrefix is the prefix of environment overrides, e.g. PEERRESPONSE_GUARDRAILS_MIN_WORDS
const EnvPrefix = "PEERRESPONSE_"

// DefaultPaths are searched in order when no explicit config path is given
var DefaultPaths = []string{"./peerresponse.toml", "$HOME/.peerresponse.toml"}

// Config represents the application configuration. Provider API keys are
// deliberately absent: they are supplied per run and never persisted.
type Config struct {
	Models struct {
		OpenAI    string `koanf:"openai"`
		Anthropic string `koanf:"anthropic"`
		Gemini    string `koanf:"gemini"`
	} `koanf:"models"`

	Guardrails struct {
		MinWords int `koanf:"min_words"`
		MaxWords int `koanf:"max_words"`
	} `koanf:"guardrails"`

	Pipeline struct {
		ParallelDrafts bool `koanf:"parallel_drafts"`
	} `koanf:"pipeline"`

	Server struct {
		Port int `koanf:"port"`
	} `koanf:"server"`

	Log struct {
		Level  string `koanf:"level"`
		Pretty bool   `koanf:"pretty"`
	} `koanf:"log"`

	// Source is the file the configuration was read from, empty when only
	// defaults and environment were used
	Source string `koanf:"-"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"models.openai":            aiconnectors.DefaultOpenAIModel,
		"models.anthropic":         aiconnectors.DefaultAnthropicModel,
		"models.gemini":            aiconnectors.DefaultGeminiModel,
		"guardrails.min_words":     pipeline.DefaultMinWords,
		"guardrails.max_words":     pipeline.DefaultMaxWords,
		"pipeline.parallel_drafts": false,
		"server.port":              8888,
		"log.level":                "info",
		"log.pretty":               true,
	}
}

// LoadConfig loads the configuration: defaults, then the TOML file, then
// PEERRESPONSE_ environment overrides
func LoadConfig(configPath string) (*Config, error) {
	var k = koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("error loading defaults: %w", err)
	}

	source := ""
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
		source = configPath
	} else {
		for _, path := range DefaultPaths {
			path = os.ExpandEnv(path)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				log.Warn().Err(err).Str("path", path).Msg("Skipping unreadable config file")
				continue
			}
			source = path
			break
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("error loading environment: %w", err)
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	config.Source = source

	log.Debug().
		Str("source", source).
		Str("openai_model", config.Models.OpenAI).
		Str("anthropic_model", config.Models.Anthropic).
		Str("gemini_model", config.Models.Gemini).
		Msg("Configuration loaded")

	return &config, nil
}

// envKey maps PEERRESPONSE_SECTION_SOME_KEY to section.some_key. Only the
// first underscore separates the section so that key names keep theirs.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(s, "_", ".", 1)
}

// ModelSet returns the configured model identifiers with defaults filled in
func (c *Config) ModelSet() aiconnectors.Models {
	return aiconnectors.Models{
		OpenAI:    c.Models.OpenAI,
		Anthropic: c.Models.Anthropic,
		Gemini:    c.Models.Gemini,
	}.WithDefaults()
}

// InitConfig initializes a new configuration file
func InitConfig(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists at %s", configPath)
	}

	sampleConfig := fmt.Sprintf(`# Peer Response Configuration
#
# API keys are never stored here. Pass them with --openai-key, --anthropic-key
# and --gemini-key, or export OPENAI_API_KEY, ANTHROPIC_API_KEY and
# GOOGLE_API_KEY for the session.

[models]
openai = %q
anthropic = %q
gemini = %q

[guardrails]
min_words = %d
max_words = %d

[pipeline]
parallel_drafts = false

[server]
port = 8888

[log]
level = "info"
pretty = true
`,
		aiconnectors.DefaultOpenAIModel,
		aiconnectors.DefaultAnthropicModel,
		aiconnectors.DefaultGeminiModel,
		pipeline.DefaultMinWords,
		pipeline.DefaultMaxWords,
	)

	return os.WriteFile(configPath, []byte(sampleConfig), 0600)
}

// Validate validates the configuration
func Validate(config *Config) error {
	var errs []error

	if config.Guardrails.MinWords <= 0 {
		errs = append(errs, fmt.Errorf("guardrails.min_words must be positive, got %d", config.Guardrails.MinWords))
	}
	if config.Guardrails.MaxWords < config.Guardrails.MinWords {
		errs = append(errs, fmt.Errorf("guardrails.max_words (%d) must not be below min_words (%d)",
			config.Guardrails.MaxWords, config.Guardrails.MinWords))
	}
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d is out of range", config.Server.Port))
	}
	if config.Log.Level != "" {
		switch strings.ToLower(config.Log.Level) {
		case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
		default:
			errs = append(errs, fmt.Errorf("log.level %q is not a known level", config.Log.Level))
		}
	}

	return errors.Join(errs...)
}
