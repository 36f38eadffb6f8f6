// Package speech turns a script into narration audio.
package speech

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/jonathan/shorts-studio/internal/media"
	"github.com/jonathan/shorts-studio/internal/types"
)

// Engines understood by New.
const (
	EngineOpenAI  = "openai"
	EngineCommand = "command"
)

// Defaults for each engine.
const (
	DefaultOpenAIModel  = "tts-1"
	DefaultOpenAIVoice  = "nova"
	DefaultCommand      = "edge-tts"
	DefaultCommandVoice = "ko-KR-SunHiNeural"
)

// SynthesisError represents a failed narration request.
type SynthesisError struct {
	Engine  string
	Message string
	Cause   error
}

func (e *SynthesisError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s speech: %s: %v", e.Engine, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s speech: %s", e.Engine, e.Message)
}

func (e *SynthesisError) Unwrap() error {
	return e.Cause
}

// Synthesizer writes narration for text to outputPath.
// The returned asset has no duration; callers probe it.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, outputPath string) (types.MediaAsset, error)
}

// Options selects and configures an engine.
type Options struct {
	Engine  string
	APIKey  string
	BaseURL string
	Model   string
	Voice   string
	Command string
	Runner  media.Runner
}

// New builds the synthesizer named by opts.Engine, defaulting to OpenAI.
func New(opts Options) (Synthesizer, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Engine)) {
	case "", EngineOpenAI:
		return NewOpenAISynthesizer(opts.APIKey, opts.BaseURL, opts.Model, opts.Voice)
	case EngineCommand:
		return NewCommandSynthesizer(opts.Runner, opts.Command, opts.Voice), nil
	default:
		return nil, fmt.Errorf("unsupported tts engine: %s", opts.Engine)
	}
}

// OpenAISynthesizer uses the OpenAI speech endpoint.
type OpenAISynthesizer struct {
	client openai.Client
	Model  string
	Voice  string
}

// NewOpenAISynthesizer creates an OpenAI-backed synthesizer.
func NewOpenAISynthesizer(apiKey, baseURL, model, voice string) (*OpenAISynthesizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	if strings.TrimSpace(baseURL) != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	if voice == "" {
		voice = DefaultOpenAIVoice
	}
	return &OpenAISynthesizer{
		client: openai.NewClient(opts...),
		Model:  model,
		Voice:  voice,
	}, nil
}

// Synthesize requests mp3 narration and streams it to outputPath.
func (s *OpenAISynthesizer) Synthesize(ctx context.Context, text, outputPath string) (types.MediaAsset, error) {
	if strings.TrimSpace(text) == "" {
		return types.MediaAsset{}, &SynthesisError{Engine: EngineOpenAI, Message: "text is empty"}
	}

	resp, err := s.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Input:          text,
		Model:          openai.SpeechModel(s.Model),
		Voice:          openai.AudioSpeechNewParamsVoice(s.Voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	})
	if err != nil {
		return types.MediaAsset{}, &SynthesisError{Engine: EngineOpenAI, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if err := writeFile(outputPath, resp.Body); err != nil {
		return types.MediaAsset{}, &SynthesisError{Engine: EngineOpenAI, Message: "failed to write audio", Cause: err}
	}
	return types.MediaAsset{Path: outputPath, Kind: types.AssetAudio}, nil
}

func writeFile(path string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}

// CommandSynthesizer shells out to an edge-tts compatible command.
type CommandSynthesizer struct {
	Runner  media.Runner
	Command string
	Voice   string
}

// NewCommandSynthesizer creates a synthesizer for command (edge-tts by default).
func NewCommandSynthesizer(runner media.Runner, command, voice string) *CommandSynthesizer {
	if runner == nil {
		runner = media.ExecRunner{}
	}
	if command == "" {
		command = DefaultCommand
	}
	if voice == "" {
		voice = DefaultCommandVoice
	}
	return &CommandSynthesizer{Runner: runner, Command: command, Voice: voice}
}

// Synthesize runs the command and checks that it produced outputPath.
func (s *CommandSynthesizer) Synthesize(ctx context.Context, text, outputPath string) (types.MediaAsset, error) {
	if strings.TrimSpace(text) == "" {
		return types.MediaAsset{}, &SynthesisError{Engine: EngineCommand, Message: "text is empty"}
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return types.MediaAsset{}, &SynthesisError{Engine: EngineCommand, Message: "failed to create output directory", Cause: err}
	}

	args := []string{"--voice", s.Voice, "--text", text, "--write-media", outputPath}
	if _, err := s.Runner.Run(ctx, s.Command, args...); err != nil {
		return types.MediaAsset{}, &SynthesisError{Engine: EngineCommand, Message: "command failed", Cause: err}
	}
	if info, err := os.Stat(outputPath); err != nil || info.Size() == 0 {
		return types.MediaAsset{}, &SynthesisError{Engine: EngineCommand, Message: "command produced no audio", Cause: err}
	}
	return types.MediaAsset{Path: outputPath, Kind: types.AssetAudio}, nil
}
