package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/shorts-studio/internal/media"
	"github.com/jonathan/shorts-studio/internal/types"
	"github.com/jonathan/shorts-studio/internal/upload"
	"github.com/jonathan/shorts-studio/internal/verification"
)

var errModel = errors.New("model unavailable")

type fakeDrafter struct {
	mu       sync.Mutex
	calls    []string
	err      error
	trendArg string
}

func (f *fakeDrafter) Generate(_ context.Context, keyword, trendKeyword string) (*types.ContentDraft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, keyword)
	f.trendArg = trendKeyword
	if f.err != nil {
		return nil, f.err
	}
	return &types.ContentDraft{
		Keyword:     keyword,
		Title:       keyword + " 새 제목",
		Description: keyword + " 설명",
		Hashtags:    types.StringList{"#" + keyword, "#재테크"},
		Script:      keyword + " 새 대본입니다. 두 번째 문장!",
		Hook:        keyword + " 새 대본입니다",
	}, nil
}

type fakeChecker struct {
	mu       sync.Mutex
	verdicts []verification.Assessment
	calls    int
}

func (f *fakeChecker) Assess(_ context.Context, _, _, _ string) verification.Assessment {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := min(f.calls, len(f.verdicts)-1)
	f.calls++
	return f.verdicts[i]
}

func verified(v types.VerificationVerdict) verification.Assessment {
	return verification.Assessment{Verdict: &v}
}

func validVerdict() types.VerificationVerdict {
	return types.VerificationVerdict{IsValid: true, Confidence: types.ConfidenceHigh}
}

func invalidVerdict() types.VerificationVerdict {
	return types.VerificationVerdict{
		IsValid:    false,
		Confidence: types.ConfidenceHigh,
		Issues:     types.StringList{"금리 수치 오류"},
	}
}

type fakeReviser struct {
	calls int
	err   error
}

func (f *fakeReviser) Improve(_ context.Context, _, _, _ string, _ types.VerificationVerdict) (*types.ImprovementResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	title := "정확한 금리 이야기"
	return &types.ImprovementResult{
		ImprovedScript: "기준금리는 연 3%입니다. 확인해 보세요.",
		ImprovedTitle:  &title,
		Changes:        types.StringList{"금리 수치 수정", "출처 명시"},
	}, nil
}

type fakeTopics struct {
	err error
}

func (f *fakeTopics) Generate(_ context.Context, _ string, count int) ([]types.Topic, error) {
	if f.err != nil {
		return nil, f.err
	}
	topics := make([]types.Topic, count)
	for i := range topics {
		topics[i] = types.Topic{Keyword: "ISA", Description: "절세 계좌"}
	}
	return topics, nil
}

type fakeSpeech struct {
	err error
}

func (f *fakeSpeech) Synthesize(_ context.Context, _ string, outputPath string) (types.MediaAsset, error) {
	if f.err != nil {
		return types.MediaAsset{}, f.err
	}
	if err := os.WriteFile(outputPath, []byte("mp3"), 0o644); err != nil {
		return types.MediaAsset{}, err
	}
	return types.MediaAsset{Path: outputPath, Kind: types.AssetAudio}, nil
}

type fakeStock struct {
	err  error
	dirs []string
}

func (f *fakeStock) Acquire(_ context.Context, _ string, dir string) ([]types.MediaAsset, error) {
	f.dirs = append(f.dirs, dir)
	if f.err != nil {
		return nil, f.err
	}
	path := filepath.Join(dir, "image.jpg")
	if err := os.WriteFile(path, []byte("jpg"), 0o644); err != nil {
		return nil, err
	}
	return []types.MediaAsset{{Path: path, Kind: types.AssetImage}}, nil
}

type fakeProber struct {
	seconds float64
}

func (f fakeProber) Probe(_ context.Context, _ string) (float64, error) {
	return f.seconds, nil
}

type fakeRenderer struct {
	input media.ComposeInput
	err   error
}

func (f *fakeRenderer) Compose(_ context.Context, in media.ComposeInput) (*media.Composition, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &media.Composition{
		Output:    types.MediaAsset{Path: in.OutputPath, DurationSeconds: in.Audio.DurationSeconds, Kind: types.AssetVideo},
		Subtitled: true,
	}, nil
}

type fakeUploader struct {
	req upload.Request
	err error
}

func (f *fakeUploader) Upload(_ context.Context, req upload.Request) (string, error) {
	f.req = req
	if f.err != nil {
		return "", f.err
	}
	return upload.VideoURL("abc123"), nil
}

type fakeTrends struct {
	keyword string
	err     error
}

func (f fakeTrends) Keyword(_ context.Context) (string, error) {
	return f.keyword, f.err
}

type fakeRecorder struct {
	mu        sync.Mutex
	kinds     []string
	steps     []string
	statuses  []string
	createErr error
}

func (f *fakeRecorder) CreateRun(_ context.Context, _ string, kind string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return uuid.Nil, f.createErr
	}
	f.kinds = append(f.kinds, kind)
	return uuid.New(), nil
}

func (f *fakeRecorder) SaveArtifact(_ context.Context, _ uuid.UUID, step string, _ any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.steps = append(f.steps, step)
	return nil
}

func (f *fakeRecorder) CompleteRun(_ context.Context, _ uuid.UUID, status, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, status)
	return nil
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC)
}

func sampleRecord() types.ContentRecord {
	return types.ContentRecord{
		ID:       "7",
		Week:     "2026-W10",
		Status:   types.StatusDrafting,
		Keyword:  "적금",
		Title:    "적금 금리 비교",
		Hashtags: "#적금 #재테크",
		Script:   "적금 금리는 10%입니다. 지금 가입하세요!",
		Hook:     "적금 금리는 10%입니다",
		Memo:     "초안",
	}
}
