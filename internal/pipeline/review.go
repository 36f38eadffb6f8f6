package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/shorts-studio/internal/db"
	"github.com/jonathan/shorts-studio/internal/generation"
	"github.com/jonathan/shorts-studio/internal/types"
)

// ReviewAction selects what Review does after verification.
type ReviewAction string

const (
	ReviewVerify     ReviewAction = "verify"
	ReviewImprove    ReviewAction = "improve"
	ReviewRegenerate ReviewAction = "regenerate"
)

// memoTimeFormat stamps memo lines
const memoTimeFormat = "2006-01-02 15:04:05"

// ReviewOptions holds configuration for reviewing one record
type ReviewOptions struct {
	Action ReviewAction
	// Preview computes every result but writes nothing
	Preview bool
}

// ReviewResult holds everything a review computed.
type ReviewResult struct {
	Record   types.ContentRecord
	Verdict  types.VerificationVerdict
	Verified bool

	Improvement        *types.ImprovementResult
	Regenerated        *types.ContentDraft
	RegeneratedVerdict *types.VerificationVerdict

	// Patch is the update computed for the record, nil when there is nothing to change
	Patch   *types.RecordPatch
	Written bool
	State   State
	History []State
	RunID   string
}

// Review verifies a stored record and optionally improves or regenerates it.
// The record is fetched before any model call; an unknown id fails at StageLoad.
func (p *Pipeline) Review(ctx context.Context, id string, opts ReviewOptions) (*ReviewResult, error) {
	if opts.Action == "" {
		opts.Action = ReviewVerify
	}
	switch opts.Action {
	case ReviewVerify, ReviewImprove, ReviewRegenerate:
	default:
		return nil, fmt.Errorf("unknown review action %q", opts.Action)
	}

	p.stepf("Step 1/3: Loading content %s...\n", id)
	rec, err := p.loadRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Verifier == nil {
		return nil, &StageError{Stage: StageLoad, ID: id, Cause: fmt.Errorf("no verifier configured")}
	}

	run := p.startRun(ctx, id, db.KindReview)
	result := &ReviewResult{Record: *rec, RunID: run.ID()}
	lc := NewLifecycle()

	p.stepf("Step 2/3: Verifying accuracy...\n")
	_ = lc.Advance(StateVerifying, ActionNone)
	result.Verdict, result.Verified = p.assess(ctx, rec.Keyword, rec.Script, rec.Title)
	_ = lc.Verdict(result.Verdict)
	run.save(ctx, db.StepVerdict, result.Verdict)
	p.emitProgress(run.ID(), db.StepVerdict, CategoryGate,
		fmt.Sprintf("Verdict for %s: isValid=%t (%d issues)", id, result.Verdict.IsValid, len(result.Verdict.Issues)),
		result.Verdict)

	var patch *types.RecordPatch
	switch opts.Action {
	case ReviewVerify:
		p.stepf("Step 3/3: Verification only, no changes.\n")
		err = Gate(result.Verdict, false).apply(lc)

	case ReviewImprove:
		if result.Verdict.Clean() {
			p.stepf("Step 3/3: Verdict is clean, nothing to improve.\n")
			err = lc.Advance(StateReady, ActionNone)
			break
		}
		p.stepf("Step 3/3: Improving script...\n")
		patch, err = p.improve(ctx, run, rec, result, lc)

	case ReviewRegenerate:
		p.stepf("Step 3/3: Regenerating content for %q...\n", rec.Keyword)
		patch, err = p.regenerate(ctx, run, rec, result, lc)
	}
	if err != nil {
		return nil, err
	}

	result.Patch = patch
	if patch != nil && !opts.Preview {
		if err := p.Store.WriteRecord(ctx, id, *patch); err != nil {
			return nil, run.fail(ctx, StageWrite, id, &result.Verdict, err)
		}
		result.Written = true
		run.save(ctx, db.StepPatch, patch)
		p.emitProgress(run.ID(), db.StepPatch, CategoryStore, fmt.Sprintf("Updated content %s", id), patch)
	} else if patch != nil {
		log.Printf("[review] preview: content %s left unchanged", id)
	}

	result.State = lc.State()
	result.History = lc.History()

	status := db.StatusCompleted
	if result.State == StateBlocked {
		status = db.StatusBlocked
	}
	run.complete(ctx, status, string(result.State))
	return result, nil
}

// improve revises the script against the verdict. It does not re-verify.
func (p *Pipeline) improve(ctx context.Context, run *runLog, rec *types.ContentRecord, result *ReviewResult, lc *Lifecycle) (*types.RecordPatch, error) {
	if p.Improver == nil {
		return nil, run.fail(ctx, StageImprove, rec.ID, &result.Verdict, fmt.Errorf("no improver configured"))
	}
	if err := lc.Advance(StateImproved, ActionImprove); err != nil {
		return nil, err
	}

	improvement, err := p.Improver.Improve(ctx, rec.Keyword, rec.Script, rec.Title, result.Verdict)
	if err != nil {
		return nil, run.fail(ctx, StageImprove, rec.ID, &result.Verdict, err)
	}
	result.Improvement = improvement
	run.save(ctx, db.StepImprovement, improvement)
	if p.Printer != nil {
		p.Printer.PrintImprovement(improvement)
	}
	p.emitProgress(run.ID(), db.StepImprovement, CategoryContent,
		fmt.Sprintf("Improved script with %d changes", len(improvement.Changes)), improvement)

	if err := lc.Advance(StateReady, ActionNone); err != nil {
		return nil, err
	}
	return improvementPatch(rec, improvement, p.now().Format(memoTimeFormat)), nil
}

// improvementPatch updates the script, any changed title or description and the hook,
// and records the change count in the memo.
func improvementPatch(rec *types.ContentRecord, improvement *types.ImprovementResult, stamp string) *types.RecordPatch {
	patch := &types.RecordPatch{
		Script:      &improvement.ImprovedScript,
		Title:       improvement.ImprovedTitle,
		Description: improvement.ImprovedDescription,
	}
	if hook := generation.FirstSentence(improvement.ImprovedScript); hook != "" {
		patch.Hook = &hook
	}
	memo := types.AppendMemo(rec.Memo, fmt.Sprintf("[%s] 자동 개선됨. 변경사항: %d개", stamp, len(improvement.Changes)))
	patch.Memo = &memo
	return patch
}

// regenerate discards the draft, generates a fresh one and verifies it once.
// The second verdict is final either way and is recorded in the memo.
func (p *Pipeline) regenerate(ctx context.Context, run *runLog, rec *types.ContentRecord, result *ReviewResult, lc *Lifecycle) (*types.RecordPatch, error) {
	if p.Generator == nil {
		return nil, run.fail(ctx, StageRegenerate, rec.ID, &result.Verdict, fmt.Errorf("no generator configured"))
	}
	if err := lc.Advance(StateRegenerated, ActionRegenerate); err != nil {
		return nil, err
	}

	draft, err := p.Generator.Generate(ctx, rec.Keyword, rec.TrendKeyword)
	if err != nil {
		return nil, run.fail(ctx, StageRegenerate, rec.ID, &result.Verdict, err)
	}
	result.Regenerated = draft
	run.save(ctx, db.StepRegenerated, draft)
	if p.Printer != nil {
		p.Printer.PrintDraft(draft)
	}

	_ = lc.Advance(StateVerifying, ActionNone)
	verdict, _ := p.assess(ctx, rec.Keyword, draft.Script, draft.Title)
	result.RegeneratedVerdict = &verdict
	if err := lc.Verdict(verdict); err != nil {
		return nil, err
	}
	if err := Gate(verdict, false).apply(lc); err != nil {
		return nil, err
	}
	p.emitProgress(run.ID(), db.StepRegenerated, CategoryContent,
		fmt.Sprintf("Regenerated content, re-verification isValid=%t", verdict.IsValid), draft)
	if !verdict.IsValid {
		log.Printf("[review] regenerated content %s still fails verification (%d issues)", rec.ID, len(verdict.Issues))
	}

	return regenerationPatch(rec, draft, verdict, p.now().Format(memoTimeFormat)), nil
}

// regenerationPatch replaces every generated field and records the re-verification result.
func regenerationPatch(rec *types.ContentRecord, draft *types.ContentDraft, verdict types.VerificationVerdict, stamp string) *types.RecordPatch {
	hashtags := types.JoinHashtags(draft.Hashtags)
	outcome := "통과"
	if !verdict.IsValid {
		outcome = "실패"
	}
	memo := types.AppendMemo(rec.Memo, fmt.Sprintf("[%s] 스크립트 재생성됨. 검증: %s", stamp, outcome))
	return &types.RecordPatch{
		Title:       &draft.Title,
		Description: &draft.Description,
		Hashtags:    &hashtags,
		Script:      &draft.Script,
		Hook:        &draft.Hook,
		Memo:        &memo,
	}
}
