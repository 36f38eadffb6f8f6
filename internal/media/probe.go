package media

import (
	"context"
	"log"
	"math"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Prober reports the playback duration of a media file in seconds.
type Prober interface {
	Probe(ctx context.Context, path string) (float64, error)
}

// FFProbe probes durations with ffprobe. It holds no state and is safe for concurrent use.
type FFProbe struct {
	Runner Runner
	Binary string
}

// NewFFProbe creates an ffprobe-backed Prober.
func NewFFProbe(runner Runner) *FFProbe {
	return &FFProbe{Runner: runner, Binary: "ffprobe"}
}

// Probe returns the container duration of path.
// Non-numeric or negative output is reported as a *ToolError.
func (p *FFProbe) Probe(ctx context.Context, path string) (float64, error) {
	binary := p.Binary
	if binary == "" {
		binary = "ffprobe"
	}
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}

	out, err := p.Runner.Run(ctx, binary, args...)
	if err != nil {
		return 0, err
	}

	text := strings.TrimSpace(string(out))
	seconds, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return 0, &ToolError{Tool: binary, Args: args, Message: "returned a non-numeric duration", Stderr: text, Cause: err}
	}
	return seconds, nil
}

// DefaultClipSeconds is assumed for clips whose duration cannot be probed.
const DefaultClipSeconds = 5.0

// ProbeClips probes each path concurrently. Failed or non-positive probes fall back
// to DefaultClipSeconds; the returned slice is index-aligned with paths.
func ProbeClips(ctx context.Context, prober Prober, paths []string) []float64 {
	durations := make([]float64, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, path := range paths {
		g.Go(func() error {
			d, err := prober.Probe(gctx, path)
			if err != nil || d <= 0 {
				log.Printf("[media] could not probe %s, assuming %.0fs: %v", path, DefaultClipSeconds, err)
				d = DefaultClipSeconds
			}
			durations[i] = d
			return nil
		})
	}
	_ = g.Wait()
	return durations
}
