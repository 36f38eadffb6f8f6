package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/shorts-studio/internal/db"
	"github.com/jonathan/shorts-studio/internal/store"
	"github.com/jonathan/shorts-studio/internal/types"
)

// ISOWeek formats t as YYYY-Www.
func ISOWeek(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// DraftResult is a freshly generated draft and, when requested, its verdict.
type DraftResult struct {
	Draft   *types.ContentDraft
	Verdict *types.VerificationVerdict
	State   State
}

// Draft generates content for a keyword without storing it. With verify set the
// draft is checked once and the result reports whether it is ready.
func (p *Pipeline) Draft(ctx context.Context, keyword, trendKeyword string, verify bool) (*DraftResult, error) {
	if p.Generator == nil {
		return nil, &StageError{Stage: StageGenerate, Cause: fmt.Errorf("no generator configured")}
	}

	p.stepf("Step 1/2: Generating content for %q...\n", keyword)
	draft, err := p.Generator.Generate(ctx, keyword, trendKeyword)
	if err != nil {
		return nil, &StageError{Stage: StageGenerate, Cause: err}
	}
	if p.Printer != nil {
		p.Printer.PrintDraft(draft)
	}
	p.emitProgress("", db.StepDraft, CategoryContent, fmt.Sprintf("Drafted %q", draft.Title), draft)

	lc := NewLifecycle()
	result := &DraftResult{Draft: draft}
	if !verify || p.Verifier == nil {
		result.State = lc.State()
		return result, nil
	}

	p.stepf("Step 2/2: Verifying accuracy...\n")
	_ = lc.Advance(StateVerifying, ActionNone)
	verdict, _ := p.assess(ctx, keyword, draft.Script, draft.Title)
	result.Verdict = &verdict
	_ = lc.Verdict(verdict)
	_ = Gate(verdict, false).apply(lc)
	result.State = lc.State()
	return result, nil
}

// WeeklyResult lists the records appended for a week.
type WeeklyResult struct {
	Plan         types.WeeklyPlan
	TrendKeyword string
	Records      []types.ContentRecord
}

type weeklySlot struct {
	topic string
	date  string
}

// GenerateWeekly drafts both planned topics of week and appends them as new records.
// An empty week means the current ISO week. Drafts run concurrently; ids follow the
// largest existing id.
func (p *Pipeline) GenerateWeekly(ctx context.Context, week string) (*WeeklyResult, error) {
	if p.Store == nil {
		return nil, &StageError{Stage: StagePlan, Cause: fmt.Errorf("no record store configured")}
	}
	if p.Generator == nil {
		return nil, &StageError{Stage: StageGenerate, Cause: fmt.Errorf("no generator configured")}
	}
	if week == "" {
		week = ISOWeek(p.now())
	}

	p.stepf("Step 1/3: Reading weekly plan %s...\n", week)
	plan, err := p.Store.ReadWeeklyPlan(ctx, week)
	if err != nil {
		return nil, &StageError{Stage: StagePlan, Cause: err}
	}

	trend := plan.TrendKeyword
	if trend == "" && p.Trends != nil {
		if kw, err := p.Trends.Keyword(ctx); err != nil {
			log.Printf("[weekly] trend feed unavailable, drafting without trend context: %v", err)
		} else {
			trend = kw
		}
	}

	var slots []weeklySlot
	for _, s := range []weeklySlot{{plan.Topic1, plan.UploadDate1}, {plan.Topic2, plan.UploadDate2}} {
		if s.topic != "" {
			slots = append(slots, s)
		}
	}
	if len(slots) == 0 {
		return nil, &StageError{Stage: StagePlan, Cause: fmt.Errorf("weekly plan %s has no topics", week)}
	}

	p.stepf("Step 2/3: Drafting %d topics...\n", len(slots))
	drafts := make([]*types.ContentDraft, len(slots))
	g, gctx := errgroup.WithContext(ctx)
	for i, slot := range slots {
		g.Go(func() error {
			draft, err := p.Generator.Generate(gctx, slot.topic, trend)
			if err != nil {
				return fmt.Errorf("topic %q: %w", slot.topic, err)
			}
			drafts[i] = draft
			p.emitProgress("", db.StepDraft, CategoryContent, fmt.Sprintf("Drafted %q", draft.Title), draft)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, &StageError{Stage: StageGenerate, Cause: err}
	}

	p.stepf("Step 3/3: Appending records...\n")
	existing, err := p.Store.ReadRecords(ctx, store.Selector{})
	if err != nil {
		return nil, &StageError{Stage: StageWrite, Cause: err}
	}
	ids := store.NextIDs(existing, len(drafts))

	records := make([]types.ContentRecord, len(drafts))
	for i, draft := range drafts {
		records[i] = types.ContentRecord{
			ID:           ids[i],
			Week:         week,
			TargetDate:   slots[i].date,
			Status:       types.StatusDrafting,
			Keyword:      slots[i].topic,
			Title:        draft.Title,
			Description:  draft.Description,
			Hashtags:     types.JoinHashtags(draft.Hashtags),
			Script:       draft.Script,
			Hook:         draft.Hook,
			TrendKeyword: trend,
		}
	}
	if err := p.Store.AppendRecords(ctx, records); err != nil {
		return nil, &StageError{Stage: StageWrite, Cause: err}
	}
	p.emitProgress("", db.StepPatch, CategoryStore, fmt.Sprintf("Appended %d records for %s", len(records), week), records)

	return &WeeklyResult{Plan: *plan, TrendKeyword: trend, Records: records}, nil
}

// GenerateTopics proposes count topics for category and adds them to the topic pool
// when a store is configured.
func (p *Pipeline) GenerateTopics(ctx context.Context, category string, count int) ([]types.Topic, error) {
	if p.Topics == nil {
		return nil, &StageError{Stage: StageTopics, Cause: fmt.Errorf("no topic generator configured")}
	}
	topics, err := p.Topics.Generate(ctx, category, count)
	if err != nil {
		return nil, &StageError{Stage: StageTopics, Cause: err}
	}
	if p.Printer != nil {
		p.Printer.PrintTopics(category, topics)
	}
	if p.Store == nil {
		return topics, nil
	}
	if err := p.Store.AppendTopics(ctx, category, topics); err != nil {
		return nil, &StageError{Stage: StageWrite, Cause: err}
	}
	p.emitProgress("", StageTopics, CategoryStore, fmt.Sprintf("Added %d %s topics", len(topics), category), topics)
	return topics, nil
}
