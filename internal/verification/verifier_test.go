package verification

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/shorts-studio/internal/llm"
	"github.com/jonathan/shorts-studio/internal/types"
)

type stubClient struct {
	response string
	err      error
	requests []llm.Request
}

func (s *stubClient) GenerateJSON(_ context.Context, req llm.Request) (string, error) {
	s.requests = append(s.requests, req)
	return s.response, s.err
}

func (s *stubClient) GetModel(llm.ModelTier) string { return "stub" }
func (s *stubClient) Close() error                  { return nil }

func TestIsSensitive(t *testing.T) {
	tests := []struct {
		name  string
		texts []string
		want  bool
	}{
		{name: "keyword", texts: []string{"적금 이자", "", ""}, want: true},
		{name: "script only", texts: []string{"라우터", "공유기와 신용카드 혜택", ""}, want: true},
		{name: "title only", texts: []string{"", "", "부동산 꿀팁"}, want: true},
		{name: "neutral", texts: []string{"라우터", "와이파이 채널 바꾸기", "집 와이파이"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSensitive(tt.texts...))
		})
	}
}

func TestVerify_ParsesVerdict(t *testing.T) {
	client := &stubClient{response: `{"isValid":false,"confidence":"high","issues":"금리 수치 오류, 출처 불명","suggestions":["최신 기준금리 확인"],"verifiedFacts":"예금자보호 한도"}`}
	verdict := NewVerifier(client).Verify(context.Background(), "적금", "적금 금리는 10%입니다.", "적금 꿀팁")

	assert.False(t, verdict.IsValid)
	assert.Equal(t, types.ConfidenceHigh, verdict.Confidence)
	assert.Equal(t, types.StringList{"금리 수치 오류", "출처 불명"}, verdict.Issues)
	assert.Equal(t, types.StringList{}, verdict.Warnings)
	assert.Equal(t, types.StringList{"예금자보호 한도"}, verdict.VerifiedFacts)

	require.Len(t, client.requests, 1)
	req := client.requests[0]
	assert.InDelta(t, 0.3, req.Temperature, 1e-6)
	assert.Contains(t, req.Prompt, "Extra scrutiny")
	assert.Contains(t, req.Prompt, "적금 금리는 10%입니다.")
}

func TestVerify_NeutralPromptHasNoEmphasis(t *testing.T) {
	client := &stubClient{response: `{"isValid":true,"confidence":"medium","issues":[]}`}
	verdict := NewVerifier(client).Verify(context.Background(), "라우터", "공유기 채널을 바꾸면 빨라집니다.", "와이파이")

	assert.True(t, verdict.IsValid)
	assert.NotContains(t, client.requests[0].Prompt, "Extra scrutiny")
	assert.Contains(t, client.requests[0].Prompt, "Sensitivity: normal")
}

func TestVerify_FailSafe(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
	}{
		{name: "transport error", err: errors.New("connection refused")},
		{name: "empty response", response: ""},
		{name: "unparseable", response: "검증 완료"},
		{name: "schema mismatch", response: `{"isValid":"yes"}`},
		{name: "bad confidence", response: `{"isValid":true,"confidence":"certain"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &stubClient{response: tt.response, err: tt.err}
			verifier := NewVerifier(client)

			var verdict types.VerificationVerdict
			assert.NotPanics(t, func() {
				verdict = verifier.Verify(context.Background(), "ETF", "ETF 스크립트.", "ETF")
			})
			assert.False(t, verdict.IsValid)
			assert.Equal(t, types.ConfidenceLow, verdict.Confidence)
			assert.NotEmpty(t, verdict.Issues)

			assessment := verifier.Assess(context.Background(), "ETF", "ETF 스크립트.", "ETF")
			assert.False(t, assessment.Verified())
			assert.Error(t, assessment.Unavailable)
		})
	}
}

func TestAssessment_Effective(t *testing.T) {
	verdict := types.VerificationVerdict{IsValid: true, Confidence: types.ConfidenceHigh}
	assert.Equal(t, verdict, Assessment{Verdict: &verdict}.Effective())
	assert.Equal(t, types.FailSafeVerdict(), Assessment{Unavailable: errors.New("x")}.Effective())
	assert.Equal(t, types.FailSafeVerdict(), Assessment{}.Effective())
}
