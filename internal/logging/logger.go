package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger. Logs always go to stderr so that
// stdout stays reserved for the run report.
func Setup(level string, pretty bool) error {
	return SetupWriter(os.Stderr, level, pretty)
}

// SetupWriter is Setup with an explicit destination
func SetupWriter(w io.Writer, level string, pretty bool) error {
	lvl := zerolog.InfoLevel
	if level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}
	zerolog.SetGlobalLevel(lvl)

	out := w
	if pretty {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return nil
}

// ForRun returns a child logger tagged with the pipeline run ID
func ForRun(runID string) zerolog.Logger {
	return log.With().Str("run_id", runID).Logger()
}

// MaskSecret shortens a credential to something safe to print
func MaskSecret(value string) string {
	if len(value) <= 8 {
		return "****"
	}
	return value[:4] + "****"
}

// Redact replaces every non-empty secret in text with its masked form
func Redact(text string, secrets ...string) string {
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		text = strings.ReplaceAll(text, secret, MaskSecret(secret))
	}
	return text
}
