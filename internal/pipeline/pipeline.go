// Package pipeline orchestrates the content lifecycle: drafting, verification, revision,
// video production and the weekly batch.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/shorts-studio/internal/db"
	"github.com/jonathan/shorts-studio/internal/media"
	"github.com/jonathan/shorts-studio/internal/observability"
	"github.com/jonathan/shorts-studio/internal/speech"
	"github.com/jonathan/shorts-studio/internal/stock"
	"github.com/jonathan/shorts-studio/internal/store"
	"github.com/jonathan/shorts-studio/internal/trends"
	"github.com/jonathan/shorts-studio/internal/types"
	"github.com/jonathan/shorts-studio/internal/upload"
	"github.com/jonathan/shorts-studio/internal/verification"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Progress categories
const (
	CategoryContent = "content"
	CategoryGate    = "gate"
	CategoryMedia   = "media"
	CategoryStore   = "store"
)

// Drafter generates a content draft for a keyword.
type Drafter interface {
	Generate(ctx context.Context, keyword, trendKeyword string) (*types.ContentDraft, error)
}

// Checker assesses a draft for factual risk.
type Checker interface {
	Assess(ctx context.Context, keyword, script, title string) verification.Assessment
}

// Reviser rewrites a script to resolve a verdict.
type Reviser interface {
	Improve(ctx context.Context, keyword, originalScript, title string, verdict types.VerificationVerdict) (*types.ImprovementResult, error)
}

// TopicSource proposes topic pool entries.
type TopicSource interface {
	Generate(ctx context.Context, category string, count int) ([]types.Topic, error)
}

// Renderer composes the final video.
type Renderer interface {
	Compose(ctx context.Context, in media.ComposeInput) (*media.Composition, error)
}

// RunRecorder persists run history. *db.DB satisfies it.
type RunRecorder interface {
	CreateRun(ctx context.Context, contentID, kind string) (uuid.UUID, error)
	SaveArtifact(ctx context.Context, runID uuid.UUID, step string, content any) error
	CompleteRun(ctx context.Context, runID uuid.UUID, status, detail string) error
}

// Pipeline holds the collaborators for every operation. Only the fields an operation
// uses need to be set; missing required collaborators are reported as errors.
type Pipeline struct {
	Store     store.Store
	Generator Drafter
	Verifier  Checker
	Improver  Reviser
	Topics    TopicSource

	Speech   speech.Synthesizer
	Stock    stock.Source
	Prober   media.Prober
	Composer Renderer
	Uploader upload.Uploader
	Trends   trends.Source

	// Recorder is optional run history
	Recorder RunRecorder

	TempDir   string
	OutputDir string

	OnProgress ProgressCallback
	// Printer prints verbose summaries when set
	Printer *observability.Printer
	// Out receives step banners; nil discards them
	Out io.Writer
	Now func() time.Time
}

// StageError reports which stage of a run failed and the verdict if verification ran.
type StageError struct {
	Stage   string
	ID      string
	Verdict *types.VerificationVerdict
	Cause   error
}

func (e *StageError) Error() string {
	msg := fmt.Sprintf("%s failed", e.Stage)
	if e.ID != "" {
		msg = fmt.Sprintf("content %s: %s", e.ID, msg)
	}
	if e.Verdict != nil {
		msg += fmt.Sprintf(" (verdict: isValid=%t, %d issues)", e.Verdict.IsValid, len(e.Verdict.Issues))
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *StageError) Unwrap() error {
	return e.Cause
}

// Stage names used in StageError and progress events
const (
	StageLoad       = "load"
	StageGenerate   = "generate"
	StageImprove    = "improve"
	StageRegenerate = "regenerate"
	StageWrite      = "write"
	StageSpeech     = "speech"
	StageProbe      = "probe"
	StageSubtitles  = "subtitles"
	StageStock      = "stock"
	StageCompose    = "compose"
	StageUpload     = "upload"
	StagePlan       = "plan"
	StageTopics     = "topics"
)

// emitProgress calls the progress callback if configured
func (p *Pipeline) emitProgress(runID, step, category, message string, content any) {
	if p.OnProgress != nil {
		p.OnProgress(ProgressEvent{
			Step:     step,
			Category: category,
			Message:  message,
			RunID:    runID,
			Content:  content,
		})
	}
}

// stepf prints a step banner.
func (p *Pipeline) stepf(format string, args ...any) {
	if p.Out != nil {
		_, _ = fmt.Fprintf(p.Out, format, args...)
	}
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// runLog records one run in the optional history. Persistence is best effort.
type runLog struct {
	recorder RunRecorder
	id       uuid.UUID
}

func (p *Pipeline) startRun(ctx context.Context, contentID, kind string) *runLog {
	if p.Recorder == nil {
		return &runLog{}
	}
	id, err := p.Recorder.CreateRun(ctx, contentID, kind)
	if err != nil {
		log.Printf("[history] failed to create %s run for content %s: %v", kind, contentID, err)
		return &runLog{}
	}
	return &runLog{recorder: p.Recorder, id: id}
}

// ID returns the run id, or "" when no history is kept.
func (r *runLog) ID() string {
	if r.recorder == nil {
		return ""
	}
	return r.id.String()
}

func (r *runLog) save(ctx context.Context, step string, content any) {
	if r.recorder == nil {
		return
	}
	_ = r.recorder.SaveArtifact(ctx, r.id, step, content)
}

func (r *runLog) complete(ctx context.Context, status, detail string) {
	if r.recorder == nil {
		return
	}
	_ = r.recorder.CompleteRun(ctx, r.id, status, detail)
}

// fail completes the run as failed and builds the StageError.
func (r *runLog) fail(ctx context.Context, stage, id string, verdict *types.VerificationVerdict, cause error) error {
	err := &StageError{Stage: stage, ID: id, Verdict: verdict, Cause: cause}
	r.complete(ctx, db.StatusFailed, err.Error())
	return err
}

// loadRecord fetches a record before any model call is made.
func (p *Pipeline) loadRecord(ctx context.Context, id string) (*types.ContentRecord, error) {
	if p.Store == nil {
		return nil, &StageError{Stage: StageLoad, ID: id, Cause: fmt.Errorf("no record store configured")}
	}
	rec, err := store.GetRecord(ctx, p.Store, id)
	if err != nil {
		return nil, &StageError{Stage: StageLoad, ID: id, Cause: err}
	}
	return rec, nil
}

// assess runs verification and reports the effective verdict.
func (p *Pipeline) assess(ctx context.Context, keyword, script, title string) (types.VerificationVerdict, bool) {
	assessment := p.Verifier.Assess(ctx, keyword, script, title)
	if !assessment.Verified() {
		log.Printf("[verify] verification unavailable for %q, treating as invalid: %v", keyword, assessment.Unavailable)
	}
	verdict := assessment.Effective()
	if !verdict.Consistent() {
		log.Printf("[verify] verdict disagreement for %q: isValid=%t with %d issues; isValid decides",
			keyword, verdict.IsValid, len(verdict.Issues))
	}
	if p.Printer != nil {
		p.Printer.PrintVerdict(&verdict)
	}
	return verdict, assessment.Verified()
}
