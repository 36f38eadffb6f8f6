package subtitles

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/shorts-studio/internal/types"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00:00.00"},
		{1.5, "0:00:01.50"},
		{2.9999999, "0:00:03.00"},
		{59.994, "0:00:59.99"},
		{61.25, "0:01:01.25"},
		{3725.07, "1:02:05.07"},
		{-3, "0:00:00.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatTimestamp(tt.seconds), "seconds=%v", tt.seconds)
	}
}

func TestWriteASS(t *testing.T) {
	cues := []types.SubtitleCue{
		{StartSeconds: 0, EndSeconds: 2.5, Text: "첫 문장"},
		{StartSeconds: 2.5, EndSeconds: 5, Text: "{태그} 둘째"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteASS(&buf, cues, DefaultStyle()))
	out := buf.String()

	assert.Contains(t, out, "[Script Info]")
	assert.Contains(t, out, "Style: Default,Pretendard,16,")
	assert.Contains(t, out, "Dialogue: 0,0:00:00.00,0:00:02.50,Default,,0,0,0,,{\\an5}첫 문장\n")
	assert.True(t, strings.HasSuffix(out, "Dialogue: 0,0:00:02.50,0:00:05.00,Default,,0,0,0,,{\\an5}(태그) 둘째"))
}

func TestWriteASS_CustomStyle(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteASS(&buf, nil, Style{FontName: "Noto Sans KR", FontSize: 0}))
	assert.Contains(t, buf.String(), "Style: Default,Noto Sans KR,16,")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subs.ass")
	cues, err := Build("하나. 둘.", 4)
	require.NoError(t, err)
	require.NoError(t, WriteFile(path, cues, DefaultStyle()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "Dialogue:"))
}
