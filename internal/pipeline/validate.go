package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	ErrNotAttested        = errors.New("attestation required")
	ErrMissingCredentials = errors.New("missing credentials")
	ErrPostTooShort       = errors.New("original post too short")
	ErrInvalidWordBounds  = errors.New("invalid word bounds")
)

// ValidationError rejects a run before any provider is contacted. Message is
// the corrective text shown to the user.
type ValidationError struct {
	Err     error
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks the run preconditions in a fixed order and returns the first failure
func Validate(cfg Config) error {
	if !cfg.Attested {
		return &ValidationError{
			Err:     ErrNotAttested,
			Message: "Please confirm the attestation to proceed.",
		}
	}

	var missing []string
	if cfg.Keys.OpenAI == "" {
		missing = append(missing, "OpenAI")
	}
	if cfg.Keys.Anthropic == "" {
		missing = append(missing, "Anthropic")
	}
	if len(missing) > 0 {
		return &ValidationError{
			Err:     ErrMissingCredentials,
			Message: fmt.Sprintf("Please enter the %s API key(s). The Gemini key is optional.", strings.Join(missing, " and ")),
		}
	}

	if utf8.RuneCountInString(strings.TrimSpace(cfg.Post)) < MinPostLength {
		return &ValidationError{
			Err:     ErrPostTooShort,
			Message: fmt.Sprintf("Please paste a longer original post (at least %d characters).", MinPostLength),
		}
	}

	if cfg.MinWords <= 0 || cfg.MaxWords < cfg.MinWords {
		return &ValidationError{
			Err:     ErrInvalidWordBounds,
			Message: fmt.Sprintf("Word bounds must satisfy 0 < min <= max (got min=%d, max=%d).", cfg.MinWords, cfg.MaxWords),
		}
	}

	return nil
}
