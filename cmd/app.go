package cmd

import (
	"github.com/urfave/cli/v2"
)

// NewApp assembles the command line application
func NewApp(version string) *cli.App {
	return &cli.App{
		Name:    "peerresponse",
		Usage:   "Draft, combine and review discussion replies with your own provider keys",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Load configuration from `FILE` (default: ./peerresponse.toml, then ~/.peerresponse.toml)",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Load provider keys from a dotenv `FILE` for this invocation",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: trace, debug, info, warn or error",
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "Emit logs as JSON instead of console output",
			},
		},
		Before: Before,
		Commands: []*cli.Command{
			RunCommand(),
			PingCommand(),
			ServeCommand(),
			ConfigCommand(),
		},
	}
}
