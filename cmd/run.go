package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/peerresponse/internal/pipeline"
	"github.com/peerresponse/internal/report"
)

// RunCommand returns the run command
func RunCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:  "attest",
			Usage: "Confirm you have permission to submit the post and will review the reply before using it",
		},
		&cli.StringFlag{
			Name:    "post",
			Aliases: []string{"p"},
			Usage:   "Original discussion post text",
		},
		&cli.StringFlag{
			Name:    "post-file",
			Aliases: []string{"f"},
			Usage:   "Read the original post from `FILE` (- for stdin)",
		},
		&cli.IntFlag{
			Name:  "min-words",
			Usage: "Minimum word count the reviewer checks for",
		},
		&cli.IntFlag{
			Name:  "max-words",
			Usage: "Maximum word count the reviewer checks for",
		},
		&cli.BoolFlag{
			Name:  "parallel",
			Usage: "Request both drafts concurrently",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Abort the run after this long (0 waits indefinitely)",
		},
	}
	flags = append(flags, keyFlags()...)
	flags = append(flags, modelFlags()...)
	flags = append(flags, outputFlags()...)

	return &cli.Command{
		Name:   "run",
		Usage:  "Draft, combine and review a peer response",
		Flags:  flags,
		Action: runPipeline,
	}
}

func runPipeline(c *cli.Context) error {
	cfg, err := appConfig(c)
	if err != nil {
		return err
	}

	post, err := readPost(c)
	if err != nil {
		return err
	}

	runCfg := pipeline.Config{
		Keys:           keysFromFlags(c),
		Models:         modelsFromFlags(c, cfg),
		Attested:       c.Bool("attest"),
		MinWords:       cfg.Guardrails.MinWords,
		MaxWords:       cfg.Guardrails.MaxWords,
		Post:           post,
		ParallelDrafts: cfg.Pipeline.ParallelDrafts || c.Bool("parallel"),
	}
	if c.IsSet("min-words") {
		runCfg.MinWords = c.Int("min-words")
	}
	if c.IsSet("max-words") {
		runCfg.MaxWords = c.Int("max-words")
	}

	ctx := context.Background()
	if timeout := c.Duration("timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := pipeline.NewController(newGenerator()).Run(ctx, runCfg)
	if err != nil {
		var verr *pipeline.ValidationError
		if errors.As(err, &verr) {
			return cli.Exit(verr.Message, 2)
		}
		return fmt.Errorf("pipeline run failed: %w", err)
	}

	rep := report.Build(res, report.Options{
		Debug:   c.Bool("debug"),
		Secrets: runCfg.Keys.All(),
	})
	if err := report.Write(c.App.Writer, c.String("output"), rep); err != nil {
		return err
	}

	if c.Bool("debug") {
		fmt.Fprintf(c.App.ErrWriter, "Run %s finished in %s\n", res.RunID, time.Since(start).Round(time.Millisecond))
	}
	return nil
}

// readPost takes the post from --post, or from --post-file where "-" reads stdin
func readPost(c *cli.Context) (string, error) {
	if c.IsSet("post") && c.IsSet("post-file") {
		return "", cli.Exit("Use either --post or --post-file, not both.", 2)
	}
	if c.IsSet("post") {
		return c.String("post"), nil
	}

	path := c.String("post-file")
	switch path {
	case "":
		return "", nil
	case "-":
		data, err := io.ReadAll(c.App.Reader)
		if err != nil {
			return "", fmt.Errorf("failed to read post from stdin: %w", err)
		}
		return strings.TrimRight(string(data), "\n"), nil
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read post file: %w", err)
		}
		return strings.TrimRight(string(data), "\n"), nil
	}
}
