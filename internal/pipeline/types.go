package pipeline

import (
	"time"

	"github.com/peerresponse/internal/aiconnectors"
)

// Guardrail defaults
const (
	MinPostLength   = 20
	DefaultMinWords = 150
	DefaultMaxWords = 250
)

// Fixed role-to-provider assignment. It decides which key every stage needs.
const (
	DraftAProvider   = aiconnectors.ProviderOpenAI
	DraftBProvider   = aiconnectors.ProviderClaude
	CombineProvider  = aiconnectors.ProviderGemini
	CritiqueProvider = aiconnectors.ProviderOpenAI
	ReviseProvider   = aiconnectors.ProviderGemini
)

// Config is the immutable input record for one run
type Config struct {
	Keys     aiconnectors.Keys
	Models   aiconnectors.Models
	Attested bool
	MinWords int
	MaxWords int
	Post     string

	// ParallelDrafts issues Draft-A and Draft-B concurrently. The outcome is
	// the same as running them in order.
	ParallelDrafts bool
}

// StageName identifies a pipeline stage
type StageName string

const (
	StageDraftA   StageName = "draft_a"
	StageDraftB   StageName = "draft_b"
	StageCombine  StageName = "combine"
	StageCritique StageName = "critique"
	StageRevise   StageName = "revise"
)

// StageStatus is what happened to a stage during a run
type StageStatus string

const (
	StatusOK      StageStatus = "ok"
	StatusEmpty   StageStatus = "empty"
	StatusFailed  StageStatus = "failed"
	StatusSkipped StageStatus = "skipped"
)

// StageResult is the outcome of one stage
type StageResult struct {
	Stage    StageName
	Provider aiconnectors.Provider
	Model    string
	Status   StageStatus
	Text     string

	// Err is set when Status is StatusFailed
	Err error

	// SkipReason is set when Status is StatusSkipped
	SkipReason string

	Duration time.Duration
}

// Produced reports whether the stage yielded non-empty text
func (s StageResult) Produced() bool {
	return s.Status == StatusOK && s.Text != ""
}

// Verdict is the critic's PASS/FAIL decision
type Verdict string

const (
	VerdictNone Verdict = ""
	VerdictPass Verdict = "PASS"
	VerdictFail Verdict = "FAIL"
)

// Result holds every artifact of one run. It is not mutated after Run returns.
type Result struct {
	RunID string

	DraftA   StageResult
	DraftB   StageResult
	Combine  StageResult
	Critique StageResult
	Revise   StageResult

	Verdict   Verdict
	FinalText string
	Revised   bool
}

// HasFinal reports whether a verdict was reached, in which case FinalText is set
func (r *Result) HasFinal() bool {
	return r.Verdict != VerdictNone
}

// Stages returns the stage results in execution order
func (r *Result) Stages() []StageResult {
	return []StageResult{r.DraftA, r.DraftB, r.Combine, r.Critique, r.Revise}
}
