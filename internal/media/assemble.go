package media

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jonathan/shorts-studio/internal/types"
)

// AssemblyError reports degenerate assembly input.
type AssemblyError struct {
	Message string
}

func (e *AssemblyError) Error() string {
	return "assembly error: " + e.Message
}

// AssemblyPlan describes how clips are looped to cover a target duration.
type AssemblyPlan struct {
	Durations       []float64
	RepeatCount     int
	Sequence        []string
	PlannedDuration float64
	Target          float64
}

// PlanAssembly repeats the whole clip sequence ceil(target/sum) times so the planned
// length is at least target. Non-positive durations count as DefaultClipSeconds.
func PlanAssembly(paths []string, durations []float64, target float64) (*AssemblyPlan, error) {
	if len(paths) == 0 {
		return nil, &AssemblyError{Message: "no usable clips"}
	}
	if len(durations) != len(paths) {
		return nil, &AssemblyError{Message: fmt.Sprintf("%d clips but %d durations", len(paths), len(durations))}
	}
	if math.IsNaN(target) || math.IsInf(target, 0) || target <= 0 {
		return nil, &AssemblyError{Message: fmt.Sprintf("invalid target duration %v", target)}
	}

	effective := make([]float64, len(durations))
	sum := 0.0
	for i, d := range durations {
		if d <= 0 || math.IsNaN(d) {
			d = DefaultClipSeconds
		}
		effective[i] = d
		sum += d
	}

	repeat := int(math.Ceil(target / sum))
	if repeat < 1 {
		repeat = 1
	}
	for float64(repeat)*sum < target {
		repeat++
	}

	sequence := make([]string, 0, repeat*len(paths))
	for r := 0; r < repeat; r++ {
		sequence = append(sequence, paths...)
	}

	return &AssemblyPlan{
		Durations:       effective,
		RepeatCount:     repeat,
		Sequence:        sequence,
		PlannedDuration: float64(repeat) * sum,
		Target:          target,
	}, nil
}

// ConcatList renders the plan in ffmpeg concat demuxer format.
func (p *AssemblyPlan) ConcatList() string {
	lines := make([]string, len(p.Sequence))
	for i, path := range p.Sequence {
		lines[i] = fmt.Sprintf("file '%s'", strings.ReplaceAll(path, "'", `'\''`))
	}
	return strings.Join(lines, "\n") + "\n"
}

// Assembler joins clips into one continuous clip of an exact duration.
type Assembler struct {
	Runner Runner
	Prober Prober
	FFmpeg string
}

// NewAssembler creates an Assembler.
func NewAssembler(runner Runner, prober Prober) *Assembler {
	return &Assembler{Runner: runner, Prober: prober, FFmpeg: "ffmpeg"}
}

// Assemble loops clips in order and hard-trims the result to target seconds at outputPath.
// Clips with a missing file are skipped; if none remain an *AssemblyError is returned.
func (a *Assembler) Assemble(ctx context.Context, clips []types.MediaAsset, target float64, outputPath string) (*types.MediaAsset, *AssemblyPlan, error) {
	var paths []string
	var known []float64
	var unknown []int
	for _, clip := range clips {
		if clip.Path == "" {
			continue
		}
		if _, err := os.Stat(clip.Path); err != nil {
			log.Printf("[media] skipping clip %s: %v", clip.Path, err)
			continue
		}
		abs, err := filepath.Abs(clip.Path)
		if err != nil {
			abs = clip.Path
		}
		if clip.DurationSeconds <= 0 {
			unknown = append(unknown, len(paths))
		}
		paths = append(paths, abs)
		known = append(known, clip.DurationSeconds)
	}
	if len(paths) == 0 {
		return nil, nil, &AssemblyError{Message: "no usable clips"}
	}

	if len(unknown) > 0 {
		toProbe := make([]string, len(unknown))
		for i, idx := range unknown {
			toProbe[i] = paths[idx]
		}
		for i, d := range ProbeClips(ctx, a.Prober, toProbe) {
			known[unknown[i]] = d
		}
	}

	plan, err := PlanAssembly(paths, known, target)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("[media] assembling %d clips x%d (%.2fs planned) trimmed to %.2fs",
		len(paths), plan.RepeatCount, plan.PlannedDuration, target)

	listPath := strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + "_concat.txt"
	if err := os.WriteFile(listPath, []byte(plan.ConcatList()), 0o644); err != nil {
		return nil, nil, fmt.Errorf("failed to write concat list: %w", err)
	}
	defer removeQuietly(listPath)

	args := []string{
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-t", formatSeconds(target),
		"-c", "copy",
		"-y",
		outputPath,
	}
	if _, err := a.Runner.Run(ctx, a.binary(), args...); err != nil {
		removeQuietly(outputPath)
		return nil, plan, err
	}

	return &types.MediaAsset{Path: outputPath, DurationSeconds: target, Kind: types.AssetVideo}, plan, nil
}

func (a *Assembler) binary() string {
	if a.FFmpeg == "" {
		return "ffmpeg"
	}
	return a.FFmpeg
}

func formatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', -1, 64)
}

func removeQuietly(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("[media] failed to remove %s: %v", path, err)
	}
}
