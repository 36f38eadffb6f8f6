package subtitles

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/jonathan/shorts-studio/internal/types"
)

// Style is the single subtitle style: one font family at a fixed size, centered.
type Style struct {
	FontName string
	FontSize int
}

// DefaultStyle returns the Pretendard 16pt centered style.
func DefaultStyle() Style {
	return Style{FontName: "Pretendard", FontSize: 16}
}

const assHeader = `[Script Info]
Title: Generated Subtitles
ScriptType: v4.00+

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Default,%s,%d,&Hffffff,&Hffffff,&H000000,&H80000000,1,0,0,0,100,100,0,0,1,2,0,5,0,0,0,1

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
`

// FormatTimestamp renders seconds as H:MM:SS.cc, truncating to centiseconds.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	// the epsilon keeps values like 2.9999999 from dropping a centisecond
	total := int64(math.Floor(seconds*100 + 1e-6))
	cs := total % 100
	secs := (total / 100) % 60
	mins := (total / 6000) % 60
	hours := total / 360000
	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, mins, secs, cs)
}

// WriteASS writes the header and one centered dialogue line per cue.
func WriteASS(w io.Writer, cues []types.SubtitleCue, style Style) error {
	if style.FontName == "" {
		style = DefaultStyle()
	}
	if style.FontSize <= 0 {
		style.FontSize = DefaultStyle().FontSize
	}

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, assHeader, style.FontName, style.FontSize); err != nil {
		return err
	}
	for i, cue := range cues {
		if i > 0 {
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(bw, "Dialogue: 0,%s,%s,Default,,0,0,0,,{\\an5}%s",
			FormatTimestamp(cue.StartSeconds), FormatTimestamp(cue.EndSeconds), escapeText(cue.Text)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes cues to path as an ASS subtitle file.
func WriteFile(path string, cues []types.SubtitleCue, style Style) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create subtitle file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	return WriteASS(f, cues, style)
}

// escapeText keeps cue text from being read as override tags or line breaks.
func escapeText(text string) string {
	r := strings.NewReplacer("{", "(", "}", ")", "\r\n", " ", "\n", " ")
	return strings.TrimSpace(r.Replace(text))
}
