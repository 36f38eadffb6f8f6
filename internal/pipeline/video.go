package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/jonathan/shorts-studio/internal/db"
	"github.com/jonathan/shorts-studio/internal/media"
	"github.com/jonathan/shorts-studio/internal/subtitles"
	"github.com/jonathan/shorts-studio/internal/types"
	"github.com/jonathan/shorts-studio/internal/upload"
)

// VideoOptions holds configuration for producing one video
type VideoOptions struct {
	// SkipVerification goes straight to assembly without a verdict
	SkipVerification bool
	// Force proceeds past an invalid verdict
	Force bool
	// Upload publishes the rendered file as a private video
	Upload bool
}

// VideoResult holds the outcome of a video run. A blocked run has State StateBlocked
// and no composition; it is not an error.
type VideoResult struct {
	Record      types.ContentRecord
	Verdict     *types.VerificationVerdict
	Verified    bool
	Forced      bool
	State       State
	History     []State
	Composition *media.Composition
	VideoURL    string
	RunID       string
}

// OutputPath returns where the video for content id is written.
func (p *Pipeline) OutputPath(id string) string {
	return filepath.Join(p.OutputDir, fmt.Sprintf("content-%s.mp4", id))
}

// ProduceVideo gates a stored record on verification, then narrates it, builds the
// subtitle timeline, fetches stock visuals and composes the video. Temporary media
// live in a run-scoped directory that is removed on every exit path.
func (p *Pipeline) ProduceVideo(ctx context.Context, id string, opts VideoOptions) (*VideoResult, error) {
	if opts.Upload && p.Uploader == nil {
		return nil, &StageError{Stage: StageUpload, ID: id, Cause: fmt.Errorf("no uploader configured")}
	}
	if err := p.checkMediaCollaborators(); err != nil {
		return nil, &StageError{Stage: StageLoad, ID: id, Cause: err}
	}

	p.stepf("Step 1/6: Loading content %s...\n", id)
	rec, err := p.loadRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	run := p.startRun(ctx, id, db.KindVideo)
	result := &VideoResult{Record: *rec, RunID: run.ID()}
	lc := NewLifecycle()

	if opts.SkipVerification {
		log.Printf("[gate] verification skipped for content %s", id)
		p.stepf("Step 2/6: Skipping verification.\n")
		_ = lc.Advance(StateReady, ActionSkip)
	} else {
		if p.Verifier == nil {
			return nil, run.fail(ctx, StageLoad, id, nil, fmt.Errorf("no verifier configured"))
		}
		p.stepf("Step 2/6: Verifying accuracy...\n")
		_ = lc.Advance(StateVerifying, ActionNone)
		verdict, verified := p.assess(ctx, rec.Keyword, rec.Script, rec.Title)
		result.Verdict, result.Verified = &verdict, verified
		_ = lc.Verdict(verdict)
		run.save(ctx, db.StepVerdict, verdict)

		decision := Gate(verdict, opts.Force)
		_ = decision.apply(lc)
		result.Forced = decision.Forced
		p.emitProgress(run.ID(), db.StepVerdict, CategoryGate,
			fmt.Sprintf("Gate for %s: %s", id, decision.State), verdict)

		if !decision.Proceed {
			log.Printf("[gate] content %s blocked: %d issues", id, len(verdict.Issues))
			result.State = lc.State()
			result.History = lc.History()
			run.complete(ctx, db.StatusBlocked, "verification failed")
			return result, nil
		}
	}

	comp, err := p.render(ctx, run, rec, result.Verdict)
	if err != nil {
		return nil, err
	}
	result.Composition = comp
	run.save(ctx, db.StepComposition, comp)
	if p.Printer != nil {
		p.Printer.PrintComposition(comp)
	}

	if opts.Upload {
		p.stepf("Step 6/6: Uploading %s...\n", comp.Output.Path)
		url, err := p.publish(ctx, rec, comp.Output.Path)
		if err != nil {
			return nil, run.fail(ctx, StageUpload, id, result.Verdict, err)
		}
		result.VideoURL = url
		run.save(ctx, db.StepUpload, map[string]string{"url": url})
		p.emitProgress(run.ID(), db.StepUpload, CategoryStore, fmt.Sprintf("Uploaded %s", url), url)
	}

	result.State = lc.State()
	result.History = lc.History()
	run.complete(ctx, db.StatusCompleted, comp.Output.Path)
	return result, nil
}

func (p *Pipeline) checkMediaCollaborators() error {
	switch {
	case p.Speech == nil:
		return fmt.Errorf("no speech synthesizer configured")
	case p.Stock == nil:
		return fmt.Errorf("no stock media source configured")
	case p.Prober == nil:
		return fmt.Errorf("no duration prober configured")
	case p.Composer == nil:
		return fmt.Errorf("no video composer configured")
	}
	return nil
}

// render runs the media stages inside a run-scoped temp directory.
func (p *Pipeline) render(ctx context.Context, run *runLog, rec *types.ContentRecord, verdict *types.VerificationVerdict) (*media.Composition, error) {
	tempRoot := p.TempDir
	if tempRoot == "" {
		tempRoot = os.TempDir()
	}
	if err := os.MkdirAll(tempRoot, 0o755); err != nil {
		return nil, run.fail(ctx, StageSpeech, rec.ID, verdict, fmt.Errorf("failed to create temp directory: %w", err))
	}
	runDir, err := os.MkdirTemp(tempRoot, fmt.Sprintf("content-%s-*", rec.ID))
	if err != nil {
		return nil, run.fail(ctx, StageSpeech, rec.ID, verdict, fmt.Errorf("failed to create run directory: %w", err))
	}
	defer func() {
		if err := os.RemoveAll(runDir); err != nil {
			log.Printf("[video] failed to remove %s: %v", runDir, err)
		}
	}()

	p.stepf("Step 3/6: Synthesizing narration...\n")
	audio, err := p.Speech.Synthesize(ctx, rec.Script, filepath.Join(runDir, "narration.mp3"))
	if err != nil {
		return nil, run.fail(ctx, StageSpeech, rec.ID, verdict, err)
	}
	seconds, err := p.Prober.Probe(ctx, audio.Path)
	if err != nil {
		return nil, run.fail(ctx, StageProbe, rec.ID, verdict, err)
	}
	audio.DurationSeconds = seconds
	p.emitProgress(run.ID(), StageSpeech, CategoryMedia, fmt.Sprintf("Narration is %.2fs", seconds), audio)

	cues, err := subtitles.Build(rec.Script, seconds)
	if err != nil {
		return nil, run.fail(ctx, StageSubtitles, rec.ID, verdict, err)
	}

	p.stepf("Step 4/6: Fetching stock media for %q...\n", rec.Keyword)
	visuals, err := p.Stock.Acquire(ctx, rec.Keyword, runDir)
	if err != nil {
		return nil, run.fail(ctx, StageStock, rec.ID, verdict, err)
	}
	p.emitProgress(run.ID(), StageStock, CategoryMedia, fmt.Sprintf("Fetched %d %s assets", len(visuals), visuals[0].Kind), visuals)

	p.stepf("Step 5/6: Composing video...\n")
	comp, err := p.Composer.Compose(ctx, media.ComposeInput{
		Audio:      audio,
		Visuals:    visuals,
		Cues:       cues,
		OutputPath: p.OutputPath(rec.ID),
	})
	if err != nil {
		return nil, run.fail(ctx, StageCompose, rec.ID, verdict, err)
	}
	if !comp.Subtitled {
		log.Printf("[video] content %s delivered without subtitles", rec.ID)
	}
	p.emitProgress(run.ID(), db.StepComposition, CategoryMedia, fmt.Sprintf("Rendered %s", comp.Output.Path), comp)
	return comp, nil
}

// publish uploads the video privately and marks the record uploaded.
func (p *Pipeline) publish(ctx context.Context, rec *types.ContentRecord, path string) (string, error) {
	url, err := p.Uploader.Upload(ctx, upload.Request{
		Path:        path,
		Title:       rec.Title,
		Description: rec.Description,
		Tags:        types.TagsFromHashtags(rec.Hashtags),
		Visibility:  upload.VisibilityPrivate,
	})
	if err != nil {
		return "", err
	}

	status := types.StatusUploaded
	if err := p.Store.WriteRecord(ctx, rec.ID, types.RecordPatch{Status: &status, ReferenceLinks: &url}); err != nil {
		return url, fmt.Errorf("uploaded to %s but failed to update record: %w", url, err)
	}
	return url, nil
}
