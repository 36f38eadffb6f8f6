// Package media wraps ffmpeg and ffprobe: duration probing, clip assembly and final composition.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// maxStderr bounds how much diagnostic output a ToolError keeps.
const maxStderr = 4096

// ToolError reports a failed external media tool invocation with its captured diagnostics.
type ToolError struct {
	Tool     string
	Args     []string
	ExitCode int
	Stderr   string
	Message  string
	Cause    error
}

func (e *ToolError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = fmt.Sprintf("exited with code %d", e.ExitCode)
	}
	if e.Stderr != "" {
		return fmt.Sprintf("%s %s: %s", e.Tool, msg, lastLine(e.Stderr))
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s %s: %v", e.Tool, msg, e.Cause)
	}
	return fmt.Sprintf("%s %s", e.Tool, msg)
}

func (e *ToolError) Unwrap() error {
	return e.Cause
}

// Runner executes an external tool and returns its stdout.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs tools as local processes.
type ExecRunner struct{}

// Run executes name with args; a non-zero exit or a missing binary yields a *ToolError.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		toolErr := &ToolError{
			Tool:     name,
			Args:     args,
			ExitCode: -1,
			Stderr:   tail(stderr.String(), maxStderr),
			Cause:    err,
		}
		var exitErr *exec.ExitError
		switch {
		case errors.As(err, &exitErr):
			toolErr.ExitCode = exitErr.ExitCode()
		case errors.Is(err, exec.ErrNotFound):
			toolErr.Message = "is not installed"
		default:
			toolErr.Message = "could not be started"
		}
		return stdout.Bytes(), toolErr
	}
	return stdout.Bytes(), nil
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.LastIndex(s, "\n"); idx >= 0 {
		return s[idx+1:]
	}
	return s
}
