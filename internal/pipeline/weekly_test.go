package pipeline

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/shorts-studio/internal/store"
	"github.com/jonathan/shorts-studio/internal/types"
	"github.com/jonathan/shorts-studio/internal/verification"
)

func TestISOWeek(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), "2026-W10"},
		{time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), "2026-W53"},
		{time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC), "2026-W01"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ISOWeek(tt.date))
	}
}

func newWeeklyPipeline(t *testing.T, plan types.WeeklyPlan) (*Pipeline, *store.MemoryStore, *fakeDrafter) {
	t.Helper()
	s := store.NewMemoryStore(sampleRecord())
	require.NoError(t, s.AddPlan(plan))
	drafter := &fakeDrafter{}
	return &Pipeline{Store: s, Generator: drafter, Now: fixedNow}, s, drafter
}

func TestGenerateWeekly(t *testing.T) {
	p, s, drafter := newWeeklyPipeline(t, types.WeeklyPlan{
		Week: "2026-W10", UploadDate1: "2026-03-05", UploadDate2: "2026-03-07",
		Topic1: "ETF", Topic2: "ISA", TrendKeyword: "금리인하",
	})

	result, err := p.GenerateWeekly(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, result.Records, 2)

	sort.Strings(drafter.calls)
	assert.Equal(t, []string{"ETF", "ISA"}, drafter.calls)
	assert.Equal(t, "금리인하", drafter.trendArg)

	first := result.Records[0]
	assert.Equal(t, "8", first.ID)
	assert.Equal(t, "2026-W10", first.Week)
	assert.Equal(t, "2026-03-05", first.TargetDate)
	assert.Equal(t, types.StatusDrafting, first.Status)
	assert.Equal(t, "ETF", first.Keyword)
	assert.Equal(t, "#ETF #재테크", first.Hashtags)
	assert.Equal(t, "금리인하", first.TrendKeyword)

	second := result.Records[1]
	assert.Equal(t, "9", second.ID)
	assert.Equal(t, "ISA", second.Keyword)
	assert.Equal(t, "2026-03-07", second.TargetDate)

	all, err := s.ReadRecords(context.Background(), store.Selector{Week: "2026-W10"})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGenerateWeekly_TrendFallback(t *testing.T) {
	tests := []struct {
		name   string
		trends fakeTrends
		want   string
	}{
		{name: "feed keyword", trends: fakeTrends{keyword: "연말정산"}, want: "연말정산"},
		{name: "feed down", trends: fakeTrends{err: errors.New("timeout")}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _, drafter := newWeeklyPipeline(t, types.WeeklyPlan{Week: "2026-W11", Topic1: "ETF"})
			p.Trends = tt.trends

			result, err := p.GenerateWeekly(context.Background(), "2026-W11")
			require.NoError(t, err)
			require.Len(t, result.Records, 1)
			assert.Equal(t, tt.want, result.TrendKeyword)
			assert.Equal(t, tt.want, drafter.trendArg)
		})
	}
}

func TestGenerateWeekly_Errors(t *testing.T) {
	t.Run("no plan", func(t *testing.T) {
		p, _, drafter := newWeeklyPipeline(t, types.WeeklyPlan{Week: "2026-W10", Topic1: "ETF"})
		_, err := p.GenerateWeekly(context.Background(), "2026-W40")

		var planErr *store.PlanNotFoundError
		require.ErrorAs(t, err, &planErr)
		assert.Empty(t, drafter.calls)
	})

	t.Run("generation fails appends nothing", func(t *testing.T) {
		p, s, drafter := newWeeklyPipeline(t, types.WeeklyPlan{Week: "2026-W10", Topic1: "ETF", Topic2: "ISA"})
		drafter.err = errModel

		_, err := p.GenerateWeekly(context.Background(), "2026-W10")
		var stageErr *StageError
		require.ErrorAs(t, err, &stageErr)
		assert.Equal(t, StageGenerate, stageErr.Stage)
		assert.ErrorIs(t, err, errModel)

		all, err := s.ReadRecords(context.Background(), store.Selector{})
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("plan without topics", func(t *testing.T) {
		p, _, _ := newWeeklyPipeline(t, types.WeeklyPlan{Week: "2026-W10"})
		_, err := p.GenerateWeekly(context.Background(), "2026-W10")
		assert.ErrorContains(t, err, "has no topics")
	})
}

func TestGenerateTopics(t *testing.T) {
	s := store.NewMemoryStore()
	p := &Pipeline{Store: s, Topics: &fakeTopics{}}

	topics, err := p.GenerateTopics(context.Background(), "finance", 3)
	require.NoError(t, err)
	assert.Len(t, topics, 3)

	pool := s.Topics()
	require.Len(t, pool, 3)
	assert.Equal(t, "finance", pool[0].Category)
	assert.Equal(t, store.TopicUnused, pool[0].Status)
}

func TestGenerateTopics_WithoutStore(t *testing.T) {
	p := &Pipeline{Topics: &fakeTopics{}}
	topics, err := p.GenerateTopics(context.Background(), "it", 2)
	require.NoError(t, err)
	assert.Len(t, topics, 2)

	p.Topics = &fakeTopics{err: errModel}
	_, err = p.GenerateTopics(context.Background(), "it", 2)
	assert.ErrorIs(t, err, errModel)
}

func TestDraft(t *testing.T) {
	checker := &fakeChecker{verdicts: []verification.Assessment{verified(invalidVerdict())}}
	p := &Pipeline{Generator: &fakeDrafter{}, Verifier: checker}

	result, err := p.Draft(context.Background(), "ETF", "", true)
	require.NoError(t, err)
	assert.Equal(t, "ETF 새 제목", result.Draft.Title)
	require.NotNil(t, result.Verdict)
	assert.Equal(t, StateBlocked, result.State)

	result, err = p.Draft(context.Background(), "ETF", "", false)
	require.NoError(t, err)
	assert.Nil(t, result.Verdict)
	assert.Equal(t, StateDrafted, result.State)
	assert.Equal(t, 1, checker.calls)
}
