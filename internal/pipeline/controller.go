package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/peerresponse/internal/aiconnectors"
	"github.com/peerresponse/internal/logging"
	"github.com/peerresponse/internal/prompts"
)

// Controller sequences the provider calls of one run. It holds no per-run
// state, so one Controller can serve many runs.
type Controller struct {
	gen      aiconnectors.Generator
	newRunID func() string
}

// NewController creates a controller that calls providers through gen
func NewController(gen aiconnectors.Generator) *Controller {
	return &Controller{
		gen:      gen,
		newRunID: uuid.NewString,
	}
}

// Run validates cfg and executes the pipeline. A *ValidationError is returned
// when the run is rejected; provider faults never surface as an error and are
// recorded on the stage that hit them instead.
func (c *Controller) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	r := &run{
		ctl:    c,
		cfg:    cfg,
		result: &Result{RunID: c.newRunID()},
	}
	r.logger = logging.ForRun(r.result.RunID)

	r.logger.Info().
		Int("post_chars", len(cfg.Post)).
		Bool("gemini_key", cfg.Keys.Gemini != "").
		Bool("parallel_drafts", cfg.ParallelDrafts).
		Msg("Pipeline started")

	r.drafts(ctx)
	r.combine(ctx)
	r.review(ctx)

	r.logger.Info().
		Str("verdict", string(r.result.Verdict)).
		Bool("revised", r.result.Revised).
		Msg("Pipeline finished")

	return r.result, nil
}

// run carries the state of a single execution
type run struct {
	ctl    *Controller
	cfg    Config
	result *Result
	logger zerolog.Logger
}

func (r *run) drafts(ctx context.Context) {
	peerPrompt := prompts.BuildPeerPrompt(r.cfg.Post)

	draftA := func() {
		r.result.DraftA = r.call(ctx, StageDraftA, DraftAProvider, aiconnectors.RoleDraft, peerPrompt)
	}
	draftB := func() {
		r.result.DraftB = r.call(ctx, StageDraftB, DraftBProvider, aiconnectors.RoleDraft, peerPrompt)
	}

	if !r.cfg.ParallelDrafts {
		draftA()
		draftB()
		return
	}

	// Each goroutine owns its own field of the result; faults are recorded on
	// the stage, so the group never returns an error.
	var g errgroup.Group
	g.Go(func() error {
		draftA()
		return nil
	})
	g.Go(func() error {
		draftB()
		return nil
	})
	_ = g.Wait()
}

func (r *run) combine(ctx context.Context) {
	res := r.result
	switch {
	case !res.DraftA.Produced() || !res.DraftB.Produced():
		res.Combine = r.skip(StageCombine, CombineProvider, "both drafts are required")
	case r.cfg.Keys.Gemini == "":
		res.Combine = r.skip(StageCombine, CombineProvider, "no Gemini key supplied")
	default:
		prompt := prompts.BuildCombinePrompt(r.cfg.Post, res.DraftA.Text, res.DraftB.Text)
		res.Combine = r.call(ctx, StageCombine, CombineProvider, aiconnectors.RoleCombine, prompt)
	}
}

// review runs the critique and, on a FAIL verdict, the single revision
func (r *run) review(ctx context.Context) {
	res := r.result

	if !res.Combine.Produced() {
		res.Critique = r.skip(StageCritique, CritiqueProvider, "no combined text to review")
		res.Revise = r.skip(StageRevise, ReviseProvider, "no combined text to review")
		return
	}
	if r.cfg.Keys.OpenAI == "" {
		res.Critique = r.skip(StageCritique, CritiqueProvider, "no OpenAI key supplied")
		res.Revise = r.skip(StageRevise, ReviseProvider, "no review was performed")
		return
	}

	combined := res.Combine.Text
	prompt := prompts.BuildCriticPrompt(combined, r.cfg.MinWords, r.cfg.MaxWords)
	res.Critique = r.call(ctx, StageCritique, CritiqueProvider, aiconnectors.RoleCritique, prompt)
	if res.Critique.Status == StatusFailed {
		res.Revise = r.skip(StageRevise, ReviseProvider, "review call failed")
		return
	}

	res.Verdict = ParseVerdict(res.Critique.Text)
	if res.Verdict == VerdictPass {
		res.FinalText = combined
		res.Revised = false
		res.Revise = r.skip(StageRevise, ReviseProvider, "review passed")
		return
	}

	res.Revised = true
	res.FinalText = combined
	if r.cfg.Keys.Gemini == "" {
		res.Revise = r.skip(StageRevise, ReviseProvider, "no Gemini key supplied")
		return
	}

	feedback := res.Critique.Text
	res.Revise = r.call(ctx, StageRevise, ReviseProvider, aiconnectors.RoleRevise, prompts.BuildRevisePrompt(combined, feedback))
	if res.Revise.Produced() {
		res.FinalText = res.Revise.Text
	}
}

// call makes exactly one provider call and folds the outcome into a StageResult
func (r *run) call(ctx context.Context, stage StageName, provider aiconnectors.Provider, role aiconnectors.Role, prompt string) StageResult {
	sr := StageResult{
		Stage:    stage,
		Provider: provider,
		Model:    r.cfg.Models.For(provider),
	}

	key := r.cfg.Keys.For(provider)
	if key == "" {
		sr.Status = StatusSkipped
		sr.SkipReason = "no " + provider.DisplayName() + " key supplied"
		r.logStage(sr)
		return sr
	}

	start := time.Now()
	text, err := r.ctl.gen.Generate(ctx, aiconnectors.Request{
		Provider: provider,
		APIKey:   key,
		Model:    sr.Model,
		Role:     role,
		Prompt:   prompt,
	})
	sr.Duration = time.Since(start)

	switch {
	case err != nil:
		sr.Status = StatusFailed
		sr.Err = err
	case text == "":
		sr.Status = StatusEmpty
	default:
		sr.Status = StatusOK
		sr.Text = text
	}

	r.logStage(sr)
	return sr
}

func (r *run) skip(stage StageName, provider aiconnectors.Provider, reason string) StageResult {
	sr := StageResult{
		Stage:      stage,
		Provider:   provider,
		Model:      r.cfg.Models.For(provider),
		Status:     StatusSkipped,
		SkipReason: reason,
	}
	r.logStage(sr)
	return sr
}

func (r *run) logStage(sr StageResult) {
	ev := r.logger.Info()
	if sr.Status == StatusFailed {
		ev = r.logger.Warn()
		// Fault text can echo request details, so it only goes out at debug level
		r.logger.Debug().
			Str("stage", string(sr.Stage)).
			Str("error", logging.Redact(sr.Err.Error(), r.cfg.Keys.All()...)).
			Msg("Stage fault detail")
	}
	if sr.SkipReason != "" {
		ev = ev.Str("reason", sr.SkipReason)
	}

	ev.Str("stage", string(sr.Stage)).
		Str("provider", string(sr.Provider)).
		Str("model", sr.Model).
		Str("status", string(sr.Status)).
		Dur("duration", sr.Duration).
		Int("chars", len(sr.Text)).
		Msg("Stage finished")
}
