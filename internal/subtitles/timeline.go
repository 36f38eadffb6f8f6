// Package subtitles builds sentence-level subtitle timelines and writes them as ASS files.
package subtitles

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/jonathan/shorts-studio/internal/types"
)

// SentenceTerminators ends a sentence, ASCII and full-width.
const SentenceTerminators = ".!?。！？"

var sentenceBreak = regexp.MustCompile(`[` + SentenceTerminators + `]\s*`)

// EmptyScriptError is returned when a script has no sentences to time.
type EmptyScriptError struct{}

func (e *EmptyScriptError) Error() string {
	return "script contains no sentences"
}

// SplitSentences splits script on terminal punctuation and drops empty fragments.
// The punctuation itself is not kept.
func SplitSentences(script string) []string {
	parts := sentenceBreak.Split(script, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// Build divides totalDuration evenly across the script's sentences.
// Cues are contiguous: each cue starts exactly where the previous one ends,
// the first starts at 0 and the last ends at totalDuration.
func Build(script string, totalDuration float64) ([]types.SubtitleCue, error) {
	sentences := SplitSentences(script)
	if len(sentences) == 0 {
		return nil, &EmptyScriptError{}
	}
	if math.IsNaN(totalDuration) || math.IsInf(totalDuration, 0) || totalDuration <= 0 {
		return nil, fmt.Errorf("invalid subtitle duration %v", totalDuration)
	}

	n := len(sentences)
	step := totalDuration / float64(n)
	cues := make([]types.SubtitleCue, n)
	start := 0.0
	for i, sentence := range sentences {
		end := float64(i+1) * step
		if i == n-1 {
			end = totalDuration
		}
		cues[i] = types.SubtitleCue{StartSeconds: start, EndSeconds: end, Text: sentence}
		start = end
	}
	return cues, nil
}
