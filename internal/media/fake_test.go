package media

import (
	"context"
	"os"
	"strings"
	"sync"
)

type call struct {
	name string
	args []string
}

// fakeRunner records invocations and writes the output file (last argument) of successful ffmpeg calls.
type fakeRunner struct {
	mu     sync.Mutex
	calls  []call
	fail   func(name string, args []string) error
	onCall func(name string, args []string)
	stdout string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{name: name, args: args})
	f.mu.Unlock()

	if f.onCall != nil {
		f.onCall(name, args)
	}
	if f.fail != nil {
		if err := f.fail(name, args); err != nil {
			return nil, err
		}
	}
	if name == "ffmpeg" && len(args) > 0 {
		if err := os.WriteFile(args[len(args)-1], []byte("video"), 0o644); err != nil {
			return nil, err
		}
	}
	return []byte(f.stdout), nil
}

func (f *fakeRunner) ffmpegCalls() []call {
	var out []call
	for _, c := range f.calls {
		if c.name == "ffmpeg" {
			out = append(out, c)
		}
	}
	return out
}

type fakeProber struct {
	durations map[string]float64
	err       error
}

func (f *fakeProber) Probe(_ context.Context, path string) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	for suffix, d := range f.durations {
		if strings.HasSuffix(path, suffix) {
			return d, nil
		}
	}
	return 0, &ToolError{Tool: "ffprobe", Message: "no such file"}
}

func argValue(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

func hasArg(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}
