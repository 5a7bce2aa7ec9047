package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/peerresponse/internal/aiconnectors"
	"github.com/peerresponse/internal/config"
	"github.com/peerresponse/internal/report"
)

func keyFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "openai-key",
			Usage:   "OpenAI API key (drafts A and the review)",
			EnvVars: []string{OpenAIKeyEnv},
		},
		&cli.StringFlag{
			Name:    "anthropic-key",
			Usage:   "Anthropic API key (draft B)",
			EnvVars: []string{AnthropicKeyEnv},
		},
		&cli.StringFlag{
			Name:    "gemini-key",
			Usage:   "Gemini API key (combine and revision, optional)",
			EnvVars: []string{GeminiKeyEnv, "GEMINI_API_KEY"},
		},
	}
}

func modelFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "openai-model",
			Usage: "Override the OpenAI model",
		},
		&cli.StringFlag{
			Name:  "anthropic-model",
			Usage: "Override the Anthropic model",
		},
		&cli.StringFlag{
			Name:  "gemini-model",
			Usage: "Override the Gemini model",
		},
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: pretty, json or yaml",
			Value:   report.FormatPretty,
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Show provider fault detail (keys are masked)",
		},
	}
}

func keysFromFlags(c *cli.Context) aiconnectors.Keys {
	return aiconnectors.Keys{
		OpenAI:    c.String("openai-key"),
		Anthropic: c.String("anthropic-key"),
		Gemini:    c.String("gemini-key"),
	}
}

// modelsFromFlags layers the model flags over the configured models
func modelsFromFlags(c *cli.Context, cfg *config.Config) aiconnectors.Models {
	models := cfg.ModelSet()
	if v := c.String("openai-model"); v != "" {
		models.OpenAI = v
	}
	if v := c.String("anthropic-model"); v != "" {
		models.Anthropic = v
	}
	if v := c.String("gemini-model"); v != "" {
		models.Gemini = v
	}
	return models
}
