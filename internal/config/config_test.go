package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
		"provider": "gemini",
		"sheet_id": "sheet-1",
		"max_retries": 2,
		"translations": {"적금": "savings"},
		"verbose": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "sheet-1", cfg.SheetID)
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Equal(t, map[string]string{"적금": "savings"}, cfg.Translations)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
provider: openai
model: gpt-4o
subtitle_font: Noto Sans KR
subtitle_font_size: 20
tts_engine: command
tts_command: edge-tts
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, "Noto Sans KR", cfg.SubtitleFont)
	assert.Equal(t, 20, cfg.SubtitleFontSize)
	assert.Equal(t, "command", cfg.TTSEngine)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantMsg string
	}{
		{name: "empty path", path: "", wantMsg: "config path is empty"},
		{name: "missing file", path: "/nonexistent/path/config.json", wantMsg: "failed to read config file"},
		{name: "bad json", path: writeConfig(t, "bad.json", `{ invalid json }`), wantMsg: "failed to parse config JSON"},
		{name: "bad yaml", path: writeConfig(t, "bad.yml", "provider: [unterminated"), wantMsg: "failed to parse config YAML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(tt.path)
			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "defaults are valid", cfg: Defaults()},
		{name: "unknown provider", cfg: Config{Provider: "claude"}, wantErr: "Provider"},
		{name: "too many retries", cfg: Config{MaxRetries: 6}, wantErr: "MaxRetries"},
		{name: "negative retries", cfg: Config{MaxRetries: -1}, wantErr: "MaxRetries"},
		{name: "unknown tts engine", cfg: Config{TTSEngine: "polly"}, wantErr: "TTSEngine"},
		{name: "bad feed url", cfg: Config{TrendsFeedURL: "not a url"}, wantErr: "TrendsFeedURL"},
		{name: "sheet without credentials", cfg: Config{SheetID: "s"}, wantErr: "requires 'service_account_email'"},
		{
			name: "sheet with credentials",
			cfg:  Config{SheetID: "s", ServiceAccountEmail: "bot@project.iam.gserviceaccount.com", PrivateKey: "k"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{
		Model:        "gpt-4o",
		Translations: map[string]string{"ETF": "stock market"},
	}
	defaults := Defaults()
	defaults.OpenAIAPIKey = "env-key"
	defaults.Translations = map[string]string{"ETF": "etf", "적금": "savings"}
	defaults.Verbose = true

	result := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, "gpt-4o", result.Model)
	assert.Equal(t, "openai", result.Provider)
	assert.Equal(t, "env-key", result.OpenAIAPIKey)
	assert.Equal(t, 16, result.SubtitleFontSize)
	assert.Equal(t, "temp", result.TempDir)
	assert.Equal(t, map[string]string{"ETF": "stock market", "적금": "savings"}, result.Translations)
	assert.True(t, result.Verbose)
	// receiver untouched
	assert.Empty(t, cfg.Provider)
}

func TestFromEnvAndResolve(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("GEMINI_API_KEY", "gm-env")
	t.Setenv("PEXELS_API_KEY", "px")
	t.Setenv("LLM_MAX_RETRIES", "3")

	path := writeConfig(t, "config.json", `{"provider": "gemini", "output_dir": "renders"}`)
	cfg, err := Resolve(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "gm-env", cfg.LLMAPIKey())
	assert.Equal(t, "sk-env", cfg.OpenAIAPIKey)
	assert.Equal(t, "px", cfg.PexelsAPIKey)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, "renders", cfg.OutputDir)
	assert.Equal(t, "temp", cfg.TempDir)
}

func TestHasYouTube(t *testing.T) {
	cfg := Config{YouTubeClientID: "id", YouTubeClientSecret: "secret"}
	assert.False(t, cfg.HasYouTube())
	cfg.YouTubeRefreshToken = "refresh"
	assert.True(t, cfg.HasYouTube())
}
