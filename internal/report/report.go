package report

import (
	"github.com/peerresponse/internal/aiconnectors"
	"github.com/peerresponse/internal/logging"
	"github.com/peerresponse/internal/pipeline"
)

// Closed-loop status lines
const (
	ClosedLoopRevised   = "Revised"
	ClosedLoopPassed    = "Passed on first try"
	ClosedLoopUnchecked = "Not reviewed"
)

// FinalTitle heads the polished reply
const FinalTitle = "Final Polished"

// GenerationFailed is the non-sensitive line shown for a failed stage
const GenerationFailed = "Generation failed."

var stageTitles = map[pipeline.StageName]string{
	pipeline.StageDraftA:   "Peer Response A (OpenAI)",
	pipeline.StageDraftB:   "Peer Response B (Anthropic)",
	pipeline.StageCombine:  "Combined (Gemini initial)",
	pipeline.StageCritique: "Reviewer Notes",
	pipeline.StageRevise:   "Revision (Gemini)",
}

// fallbackModels are the smaller models suggested when a provider call fails
var fallbackModels = map[aiconnectors.Provider]string{
	aiconnectors.ProviderOpenAI: "gpt-4o-mini",
	aiconnectors.ProviderClaude: "claude-3-5-haiku-latest",
	aiconnectors.ProviderGemini: "gemini-2.0-flash",
}

// Options controls how much detail a report exposes
type Options struct {
	// Debug adds the provider fault detail to failed stages
	Debug bool

	// Secrets are masked wherever fault detail is shown
	Secrets []string
}

// StageView is the presentation of one stage
type StageView struct {
	Stage      pipeline.StageName    `json:"stage" yaml:"stage"`
	Title      string                `json:"title" yaml:"title"`
	Provider   aiconnectors.Provider `json:"provider" yaml:"provider"`
	Model      string                `json:"model" yaml:"model"`
	Status     pipeline.StageStatus  `json:"status" yaml:"status"`
	Text       string                `json:"text,omitempty" yaml:"text,omitempty"`
	Message    string                `json:"message,omitempty" yaml:"message,omitempty"`
	Hint       string                `json:"hint,omitempty" yaml:"hint,omitempty"`
	Detail     string                `json:"detail,omitempty" yaml:"detail,omitempty"`
	DurationMS int64                 `json:"duration_ms" yaml:"duration_ms"`
}

// Report is the presentation of a whole run
type Report struct {
	RunID      string           `json:"run_id" yaml:"run_id"`
	Stages     []StageView      `json:"stages" yaml:"stages"`
	Verdict    pipeline.Verdict `json:"verdict,omitempty" yaml:"verdict,omitempty"`
	Revised    bool             `json:"revised" yaml:"revised"`
	ClosedLoop string           `json:"closed_loop" yaml:"closed_loop"`
	FinalText  string           `json:"final_text,omitempty" yaml:"final_text,omitempty"`
	FinalHTML  string           `json:"final_html,omitempty" yaml:"-"`
}

// Build turns a pipeline result into a report
func Build(res *pipeline.Result, opts Options) *Report {
	rep := &Report{
		RunID:      res.RunID,
		Verdict:    res.Verdict,
		Revised:    res.Revised,
		ClosedLoop: closedLoop(res),
		FinalText:  res.FinalText,
	}
	for _, sr := range res.Stages() {
		rep.Stages = append(rep.Stages, buildStage(sr, opts))
	}
	return rep
}

// Stage returns the view of the named stage
func (r *Report) Stage(name pipeline.StageName) (StageView, bool) {
	for _, s := range r.Stages {
		if s.Stage == name {
			return s, true
		}
	}
	return StageView{}, false
}

func buildStage(sr pipeline.StageResult, opts Options) StageView {
	v := StageView{
		Stage:      sr.Stage,
		Title:      stageTitles[sr.Stage],
		Provider:   sr.Provider,
		Model:      sr.Model,
		Status:     sr.Status,
		Text:       sr.Text,
		DurationMS: sr.Duration.Milliseconds(),
	}

	switch sr.Status {
	case pipeline.StatusEmpty:
		v.Message = "The provider returned no text."
	case pipeline.StatusSkipped:
		v.Message = "Skipped: " + sr.SkipReason + "."
	case pipeline.StatusFailed:
		v.Message = GenerationFailed
		v.Hint = Hint(sr.Provider)
		if opts.Debug && sr.Err != nil {
			v.Detail = logging.Redact(sr.Err.Error(), opts.Secrets...)
		}
	}
	return v
}

// Hint suggests what to try after a provider call fails
func Hint(p aiconnectors.Provider) string {
	model, ok := fallbackModels[p]
	if !ok {
		return ""
	}
	return "Check the " + p.DisplayName() + " key and model access, or try a smaller model such as " + model + "."
}

func closedLoop(res *pipeline.Result) string {
	switch {
	case !res.HasFinal():
		return ClosedLoopUnchecked
	case res.Revised:
		return ClosedLoopRevised
	default:
		return ClosedLoopPassed
	}
}
