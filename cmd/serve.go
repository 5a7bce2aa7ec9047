package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/peerresponse/internal/api"
)

// ServeCommand returns the CLI command for starting the API server
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the peer response API server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"P"},
				Usage:   "Port for the API server (default from config)",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := appConfig(c)
			if err != nil {
				return err
			}

			port := cfg.Server.Port
			if c.IsSet("port") {
				port = c.Int("port")
			}
			fmt.Fprintf(c.App.ErrWriter, "Starting peer response API server on port %d...\n", port)

			server := api.NewServer(port, newGenerator(), api.Defaults{
				Models:         cfg.ModelSet(),
				MinWords:       cfg.Guardrails.MinWords,
				MaxWords:       cfg.Guardrails.MaxWords,
				ParallelDrafts: cfg.Pipeline.ParallelDrafts,
			})
			return server.Start()
		},
	}
}
