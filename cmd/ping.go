package cmd

import (
	"context"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/peerresponse/internal/aiconnectors"
	"github.com/peerresponse/internal/report"
)

// PingCommand returns the ping command
func PingCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Give up on the whole check after this long",
			Value: 30 * time.Second,
		},
	}
	flags = append(flags, keyFlags()...)
	flags = append(flags, modelFlags()...)
	flags = append(flags, outputFlags()...)

	return &cli.Command{
		Name:   "ping",
		Usage:  "Check that each provider key and model answers",
		Flags:  flags,
		Action: runPing,
	}
}

func runPing(c *cli.Context) error {
	cfg, err := appConfig(c)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if timeout := c.Duration("timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	keys := keysFromFlags(c)
	results := aiconnectors.Ping(ctx, newGenerator(), keys, modelsFromFlags(c, cfg))

	views := report.BuildPing(results, report.Options{
		Debug:   c.Bool("debug"),
		Secrets: keys.All(),
	})
	return report.WritePing(c.App.Writer, c.String("output"), views)
}
