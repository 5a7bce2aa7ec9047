package aiconnectors

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/peerresponse/internal/prompts"
)

// PingStatus is the outcome of a connectivity check for one provider
type PingStatus string

const (
	PingOK     PingStatus = "ok"
	PingFailed PingStatus = "failed"
	PingNoKey  PingStatus = "no_key"
)

// PingResult reports the connectivity check for one provider
type PingResult struct {
	Provider Provider
	Model    string
	Status   PingStatus
	Err      error
	Duration time.Duration
}

// Ping sends a trivial prompt to every provider that has a key. It shares the
// adapter machinery with the pipeline but no pipeline state.
func Ping(ctx context.Context, gen Generator, keys Keys, models Models) []PingResult {
	results := make([]PingResult, 0, len(Providers))

	for _, provider := range Providers {
		result := PingResult{
			Provider: provider,
			Model:    models.For(provider),
		}

		key := keys.For(provider)
		if key == "" {
			result.Status = PingNoKey
			results = append(results, result)
			continue
		}

		start := time.Now()
		_, err := gen.Generate(ctx, Request{
			Provider: provider,
			APIKey:   key,
			Model:    result.Model,
			Role:     RolePing,
			Prompt:   prompts.PingPrompt,
		})
		result.Duration = time.Since(start)

		if err != nil {
			result.Status = PingFailed
			result.Err = err
			log.Warn().
				Str("provider", string(provider)).
				Str("model", result.Model).
				Dur("duration", result.Duration).
				Msg("Ping failed")
		} else {
			result.Status = PingOK
			log.Debug().
				Str("provider", string(provider)).
				Str("model", result.Model).
				Dur("duration", result.Duration).
				Msg("Ping succeeded")
		}
		results = append(results, result)
	}

	return results
}
