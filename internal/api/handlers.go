package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/peerresponse/internal/aiconnectors"
	"github.com/peerresponse/internal/pipeline"
	"github.com/peerresponse/internal/report"
)

// Credentials carries the per-request provider keys. They live only for the
// duration of the request.
type Credentials struct {
	OpenAIKey    string `json:"openai_key"`
	AnthropicKey string `json:"anthropic_key"`
	GeminiKey    string `json:"gemini_key"`
}

func (c Credentials) keys() aiconnectors.Keys {
	return aiconnectors.Keys{
		OpenAI:    c.OpenAIKey,
		Anthropic: c.AnthropicKey,
		Gemini:    c.GeminiKey,
	}
}

// ModelOverrides replaces the server's default model per provider
type ModelOverrides struct {
	OpenAI    string `json:"openai"`
	Anthropic string `json:"anthropic"`
	Gemini    string `json:"gemini"`
}

func (m ModelOverrides) apply(base aiconnectors.Models) aiconnectors.Models {
	if m.OpenAI != "" {
		base.OpenAI = m.OpenAI
	}
	if m.Anthropic != "" {
		base.Anthropic = m.Anthropic
	}
	if m.Gemini != "" {
		base.Gemini = m.Gemini
	}
	return base
}

// RunRequest represents the request body for a pipeline run
type RunRequest struct {
	Credentials
	Models   ModelOverrides `json:"models"`
	Attested bool           `json:"attested"`
	MinWords int            `json:"min_words,omitempty"`
	MaxWords int            `json:"max_words,omitempty"`
	Post     string         `json:"post"`
	Debug    bool           `json:"debug"`
}

// PingRequest represents the request body for a connectivity check
type PingRequest struct {
	Credentials
	Models ModelOverrides `json:"models"`
	Debug  bool           `json:"debug"`
}

// createRun handles POST /api/v1/runs
func (s *Server) createRun(c echo.Context) error {
	var req RunRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	cfg := pipeline.Config{
		Keys:           req.keys(),
		Models:         req.Models.apply(s.defaults.Models),
		Attested:       req.Attested,
		MinWords:       s.defaults.MinWords,
		MaxWords:       s.defaults.MaxWords,
		Post:           req.Post,
		ParallelDrafts: s.defaults.ParallelDrafts,
	}
	if req.MinWords != 0 {
		cfg.MinWords = req.MinWords
	}
	if req.MaxWords != 0 {
		cfg.MaxWords = req.MaxWords
	}

	res, err := s.controller.Run(c.Request().Context(), cfg)
	if err != nil {
		var verr *pipeline.ValidationError
		if errors.As(err, &verr) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": verr.Message})
		}
		log.Error().Err(err).Msg("Pipeline run failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "pipeline run failed"})
	}

	rep := report.Build(res, report.Options{
		Debug:   req.Debug,
		Secrets: cfg.Keys.All(),
	})
	if rep.FinalText != "" {
		html, err := report.RenderHTML(rep.FinalText)
		if err != nil {
			log.Warn().Err(err).Str("run_id", rep.RunID).Msg("Failed to render final reply as HTML")
		} else {
			rep.FinalHTML = html
		}
	}

	return c.JSON(http.StatusOK, rep)
}

// ping handles POST /api/v1/ping
func (s *Server) ping(c echo.Context) error {
	var req PingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	keys := req.keys()
	results := aiconnectors.Ping(c.Request().Context(), s.gen, keys, req.Models.apply(s.defaults.Models))

	return c.JSON(http.StatusOK, map[string]interface{}{
		"results": report.BuildPing(results, report.Options{
			Debug:   req.Debug,
			Secrets: keys.All(),
		}),
	})
}
