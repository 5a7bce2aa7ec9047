package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/peerresponse/internal/aiconnectors"
	"github.com/peerresponse/internal/config"
	"github.com/peerresponse/internal/logging"
)

const configMetadataKey = "config"

// newGenerator builds the provider adapter used by the commands
var newGenerator = func() aiconnectors.Generator {
	return aiconnectors.NewConnectors()
}

// Before runs ahead of every command: it loads an optional env file, the
// configuration and sets up logging
func Before(c *cli.Context) error {
	envFile := c.String("env-file")
	envVars := 0
	if envFile != "" {
		n, err := LoadEnvFile(envFile)
		if err != nil {
			return fmt.Errorf("failed to load env file: %w", err)
		}
		envVars = n
	}

	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Log.Level
	if c.IsSet("log-level") {
		level = c.String("log-level")
	}
	pretty := cfg.Log.Pretty
	if c.IsSet("log-json") {
		pretty = !c.Bool("log-json")
	}
	if err := logging.SetupWriter(c.App.ErrWriter, level, pretty); err != nil {
		return err
	}
	if envFile != "" {
		log.Debug().Str("path", envFile).Int("vars", envVars).Msg("Loaded env file")
	}

	if c.App.Metadata == nil {
		c.App.Metadata = map[string]interface{}{}
	}
	c.App.Metadata[configMetadataKey] = cfg
	return nil
}

// appConfig returns the configuration loaded by Before, loading it on demand
// when Before did not run
func appConfig(c *cli.Context) (*config.Config, error) {
	if cfg, ok := c.App.Metadata[configMetadataKey].(*config.Config); ok {
		return cfg, nil
	}
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
