package media

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/shorts-studio/internal/subtitles"
	"github.com/jonathan/shorts-studio/internal/types"
)

// Output frame size for vertical shorts.
const (
	FrameWidth  = 1080
	FrameHeight = 1920
)

// ComposeInput is everything needed to render one video.
type ComposeInput struct {
	Audio      types.MediaAsset
	Visuals    []types.MediaAsset
	Cues       []types.SubtitleCue
	OutputPath string
}

// Composition is the result of a successful compose.
type Composition struct {
	Output types.MediaAsset
	// Subtitled is false when the best-effort subtitle pass failed
	Subtitled bool
	// Assembly is set when multiple clips were joined first
	Assembly *AssemblyPlan
}

// Composer muxes audio, visuals and subtitles into the final vertical video.
type Composer struct {
	Runner    Runner
	Prober    Prober
	Assembler *Assembler
	Style     subtitles.Style
	// FontsDir is passed to the subtitles filter when set
	FontsDir string
	FFmpeg   string
}

// NewComposer creates a Composer using runner for ffmpeg and prober for durations.
func NewComposer(runner Runner, prober Prober) *Composer {
	return &Composer{
		Runner:    runner,
		Prober:    prober,
		Assembler: NewAssembler(runner, prober),
		Style:     subtitles.DefaultStyle(),
		FFmpeg:    "ffmpeg",
	}
}

// Compose renders in.OutputPath.
//
// Several clips are first assembled to the audio duration. A single clip is scaled and
// padded to the frame, subtitled and cut to the shorter stream. A still image is looped
// for exactly the audio duration and subtitled in a second pass; if that pass fails the
// unsubtitled video is delivered instead. Intermediate files are removed on every path.
func (c *Composer) Compose(ctx context.Context, in ComposeInput) (*Composition, error) {
	if len(in.Visuals) == 0 {
		return nil, &AssemblyError{Message: "no visual input"}
	}
	if in.OutputPath == "" {
		return nil, fmt.Errorf("output path is required")
	}

	audioSeconds := in.Audio.DurationSeconds
	if audioSeconds <= 0 {
		d, err := c.Prober.Probe(ctx, in.Audio.Path)
		if err != nil {
			return nil, err
		}
		audioSeconds = d
	}

	if err := os.MkdirAll(filepath.Dir(in.OutputPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	base := strings.TrimSuffix(in.OutputPath, filepath.Ext(in.OutputPath))
	subtitlePath := base + ".ass"
	if err := subtitles.WriteFile(subtitlePath, in.Cues, c.Style); err != nil {
		removeQuietly(subtitlePath)
		return nil, err
	}
	defer removeQuietly(subtitlePath)

	if in.Visuals[0].Kind == types.AssetImage {
		return c.composeImage(ctx, in, audioSeconds, subtitlePath, base)
	}

	var plan *AssemblyPlan
	clip := in.Visuals[0]
	if len(in.Visuals) == 1 && clip.DurationSeconds <= 0 {
		if d, err := c.Prober.Probe(ctx, clip.Path); err == nil {
			clip.DurationSeconds = d
		}
	}
	if len(in.Visuals) > 1 {
		combinedPath := base + "_combined.mp4"
		defer removeQuietly(combinedPath)

		assembled, p, err := c.Assembler.Assemble(ctx, in.Visuals, audioSeconds, combinedPath)
		if err != nil {
			return nil, err
		}
		clip, plan = *assembled, p
	}

	filter := fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,%s",
		FrameWidth, FrameHeight, FrameWidth, FrameHeight, c.subtitleFilter(subtitlePath))
	args := []string{
		"-i", clip.Path,
		"-i", in.Audio.Path,
		"-vf", filter,
		"-c:v", "libx264",
		"-c:a", "aac",
		"-shortest",
		"-pix_fmt", "yuv420p",
		"-y",
		in.OutputPath,
	}
	if _, err := c.Runner.Run(ctx, c.binary(), args...); err != nil {
		removeQuietly(in.OutputPath)
		return nil, err
	}

	// -shortest ends the output with the shorter stream
	outSeconds := audioSeconds
	if clip.DurationSeconds > 0 && clip.DurationSeconds < audioSeconds {
		outSeconds = clip.DurationSeconds
	}

	return &Composition{
		Output:    types.MediaAsset{Path: in.OutputPath, DurationSeconds: outSeconds, Kind: types.AssetVideo},
		Subtitled: true,
		Assembly:  plan,
	}, nil
}

func (c *Composer) composeImage(ctx context.Context, in ComposeInput, audioSeconds float64, subtitlePath, base string) (*Composition, error) {
	plainPath := base + "_nosubs.mp4"
	defer removeQuietly(plainPath)

	args := []string{
		"-loop", "1",
		"-i", in.Visuals[0].Path,
		"-i", in.Audio.Path,
		"-vf", fmt.Sprintf("scale=%d:%d", FrameWidth, FrameHeight),
		"-c:v", "libx264",
		"-t", formatSeconds(audioSeconds),
		"-c:a", "aac",
		"-pix_fmt", "yuv420p",
		"-shortest",
		"-y",
		plainPath,
	}
	if _, err := c.Runner.Run(ctx, c.binary(), args...); err != nil {
		return nil, err
	}

	result := &Composition{
		Output: types.MediaAsset{Path: in.OutputPath, DurationSeconds: audioSeconds, Kind: types.AssetVideo},
	}

	subArgs := []string{
		"-i", plainPath,
		"-vf", c.subtitleFilter(subtitlePath),
		"-c:a", "copy",
		"-c:v", "libx264",
		"-y",
		in.OutputPath,
	}
	if _, err := c.Runner.Run(ctx, c.binary(), subArgs...); err != nil {
		log.Printf("[media] subtitle pass failed, delivering video without subtitles: %v", err)
		removeQuietly(in.OutputPath)
		if err := os.Rename(plainPath, in.OutputPath); err != nil {
			return nil, fmt.Errorf("failed to keep unsubtitled video: %w", err)
		}
		return result, nil
	}

	result.Subtitled = true
	return result, nil
}

func (c *Composer) subtitleFilter(path string) string {
	filter := fmt.Sprintf("subtitles='%s'", escapeFilterPath(path))
	if c.FontsDir != "" {
		filter += fmt.Sprintf(":fontsdir='%s'", escapeFilterPath(c.FontsDir))
	}
	return filter
}

func (c *Composer) binary() string {
	if c.FFmpeg == "" {
		return "ffmpeg"
	}
	return c.FFmpeg
}

// escapeFilterPath makes a path safe inside a quoted filtergraph option.
func escapeFilterPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	path = filepath.ToSlash(path)
	r := strings.NewReplacer(`\`, `/`, `:`, `\:`, `'`, `\'`, ` `, `\ `)
	return r.Replace(path)
}
