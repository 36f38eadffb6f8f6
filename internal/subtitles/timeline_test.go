package subtitles

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   []string
	}{
		{name: "ascii", script: "첫 문장. 둘째 문장! 셋째?", want: []string{"첫 문장", "둘째 문장", "셋째"}},
		{name: "full width", script: "하나。둘！셋？", want: []string{"하나", "둘", "셋"}},
		{name: "repeated punctuation", script: "정말?! 네...", want: []string{"정말", "네"}},
		{name: "no terminator", script: "끝 없는 문장", want: []string{"끝 없는 문장"}},
		{name: "only punctuation", script: " . ! ? ", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSentences(tt.script))
		})
	}
}

func TestBuild_CuesCoverDuration(t *testing.T) {
	scripts := []string{
		"하나.",
		"하나. 둘. 셋.",
		"이거, 진짜 모르는 사람 많습니다. ETF는 지수를 따라가요! 수수료도 낮죠? 분산투자도 됩니다. 이제 아는 사람 됐음.",
		"a. b. c. d. e. f. g.",
	}
	durations := []float64{0.01, 1, 7.3, 33.333, 59.99, 61}

	for _, script := range scripts {
		for _, d := range durations {
			cues, err := Build(script, d)
			require.NoError(t, err)
			require.Len(t, cues, len(SplitSentences(script)))

			assert.Equal(t, 0.0, cues[0].StartSeconds)
			assert.Equal(t, d, cues[len(cues)-1].EndSeconds)
			for i := range cues {
				assert.Less(t, cues[i].StartSeconds, cues[i].EndSeconds)
				if i > 0 {
					assert.Equal(t, cues[i-1].EndSeconds, cues[i].StartSeconds, "cues must be contiguous")
				}
				assert.InDelta(t, d/float64(len(cues)), cues[i].EndSeconds-cues[i].StartSeconds, 1e-9)
			}
		}
	}
}

func TestBuild_EmptyScript(t *testing.T) {
	for _, script := range []string{"", "   ", "...!?"} {
		_, err := Build(script, 10)
		var emptyErr *EmptyScriptError
		assert.True(t, errors.As(err, &emptyErr), "script %q", script)
	}
}

func TestBuild_InvalidDuration(t *testing.T) {
	for _, d := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := Build("문장.", d)
		assert.Error(t, err)
	}
}
