// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values come from the environment, defaults or CLI flags.
type Config struct {
	// Model
	Provider     string `json:"provider,omitempty" yaml:"provider,omitempty" validate:"omitempty,oneof=openai gemini"`
	Model        string `json:"model,omitempty" yaml:"model,omitempty"`       // Overrides every tier
	BaseURL      string `json:"base_url,omitempty" yaml:"base_url,omitempty"` // OpenAI-compatible endpoint
	OpenAIAPIKey string `json:"openai_api_key,omitempty" yaml:"openai_api_key,omitempty"`
	GeminiAPIKey string `json:"gemini_api_key,omitempty" yaml:"gemini_api_key,omitempty"`
	MaxRetries   int    `json:"max_retries,omitempty" yaml:"max_retries,omitempty" validate:"min=0,max=5"`

	// Record store
	SheetID             string `json:"sheet_id,omitempty" yaml:"sheet_id,omitempty"`
	ServiceAccountEmail string `json:"service_account_email,omitempty" yaml:"service_account_email,omitempty" validate:"omitempty,email"`
	PrivateKey          string `json:"private_key,omitempty" yaml:"private_key,omitempty"`
	StorePath           string `json:"store_path,omitempty" yaml:"store_path,omitempty"` // Local JSON store used when no sheet is configured

	// Media
	PexelsAPIKey      string            `json:"pexels_api_key,omitempty" yaml:"pexels_api_key,omitempty"`
	UnsplashAccessKey string            `json:"unsplash_access_key,omitempty" yaml:"unsplash_access_key,omitempty"`
	Translations      map[string]string `json:"translations,omitempty" yaml:"translations,omitempty"` // Extra keyword -> stock query entries
	TempDir           string            `json:"temp_dir,omitempty" yaml:"temp_dir,omitempty"`
	OutputDir         string            `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
	SubtitleFont      string            `json:"subtitle_font,omitempty" yaml:"subtitle_font,omitempty"`
	SubtitleFontSize  int               `json:"subtitle_font_size,omitempty" yaml:"subtitle_font_size,omitempty" validate:"min=0,max=200"`
	FontsDir          string            `json:"fonts_dir,omitempty" yaml:"fonts_dir,omitempty"`

	// Narration
	TTSEngine  string `json:"tts_engine,omitempty" yaml:"tts_engine,omitempty" validate:"omitempty,oneof=openai command"`
	TTSVoice   string `json:"tts_voice,omitempty" yaml:"tts_voice,omitempty"`
	TTSCommand string `json:"tts_command,omitempty" yaml:"tts_command,omitempty"`

	// Upload
	YouTubeClientID     string `json:"youtube_client_id,omitempty" yaml:"youtube_client_id,omitempty"`
	YouTubeClientSecret string `json:"youtube_client_secret,omitempty" yaml:"youtube_client_secret,omitempty"`
	YouTubeRefreshToken string `json:"youtube_refresh_token,omitempty" yaml:"youtube_refresh_token,omitempty"`

	// Behavior
	TrendsFeedURL string `json:"trends_feed_url,omitempty" yaml:"trends_feed_url,omitempty" validate:"omitempty,url"`
	DatabaseURL   string `json:"database_url,omitempty" yaml:"database_url,omitempty"` // PostgreSQL run history
	Verbose       bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Provider:         "openai",
		TempDir:          "temp",
		OutputDir:        "output",
		SubtitleFont:     "Pretendard",
		SubtitleFontSize: 16,
		TTSEngine:        "openai",
	}
}

// LoadConfig loads configuration from a JSON file, or YAML when the extension is .yaml or .yml.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// FromEnv reads the configuration from environment variables.
func FromEnv() Config {
	cfg := Config{
		Provider:            os.Getenv("LLM_PROVIDER"),
		Model:               os.Getenv("LLM_MODEL"),
		BaseURL:             os.Getenv("OPENAI_BASE_URL"),
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		SheetID:             os.Getenv("GOOGLE_SHEET_ID"),
		ServiceAccountEmail: os.Getenv("GOOGLE_SERVICE_ACCOUNT_EMAIL"),
		PrivateKey:          os.Getenv("GOOGLE_PRIVATE_KEY"),
		StorePath:           os.Getenv("SHORTS_STORE_PATH"),
		PexelsAPIKey:        os.Getenv("PEXELS_API_KEY"),
		UnsplashAccessKey:   os.Getenv("UNSPLASH_ACCESS_KEY"),
		FontsDir:            os.Getenv("FONTS_DIR"),
		TTSEngine:           os.Getenv("TTS_ENGINE"),
		TTSVoice:            os.Getenv("TTS_VOICE"),
		TTSCommand:          os.Getenv("TTS_COMMAND"),
		YouTubeClientID:     os.Getenv("YOUTUBE_CLIENT_ID"),
		YouTubeClientSecret: os.Getenv("YOUTUBE_CLIENT_SECRET"),
		YouTubeRefreshToken: os.Getenv("YOUTUBE_REFRESH_TOKEN"),
		TrendsFeedURL:       os.Getenv("TRENDS_FEED_URL"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
	}
	if v, err := strconv.Atoi(os.Getenv("LLM_MAX_RETRIES")); err == nil {
		cfg.MaxRetries = v
	}
	return cfg
}

// Validate checks that the configuration has valid values.
// Required credentials are checked by the commands that need them.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.SheetID != "" && (c.ServiceAccountEmail == "" || c.PrivateKey == "") {
		return fmt.Errorf("config error: 'sheet_id' requires 'service_account_email' and 'private_key'")
	}
	return nil
}

// LLMAPIKey returns the API key for the configured provider.
func (c *Config) LLMAPIKey() string {
	if c.Provider == "gemini" {
		return c.GeminiAPIKey
	}
	return c.OpenAIAPIKey
}

// HasYouTube reports whether upload credentials are complete.
func (c *Config) HasYouTube() bool {
	return c.YouTubeClientID != "" && c.YouTubeClientSecret != "" && c.YouTubeRefreshToken != ""
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// Used to layer file values over env values over built-in defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	strs := []struct {
		dst *string
		src string
	}{
		{&result.Provider, defaults.Provider},
		{&result.Model, defaults.Model},
		{&result.BaseURL, defaults.BaseURL},
		{&result.OpenAIAPIKey, defaults.OpenAIAPIKey},
		{&result.GeminiAPIKey, defaults.GeminiAPIKey},
		{&result.SheetID, defaults.SheetID},
		{&result.ServiceAccountEmail, defaults.ServiceAccountEmail},
		{&result.PrivateKey, defaults.PrivateKey},
		{&result.StorePath, defaults.StorePath},
		{&result.PexelsAPIKey, defaults.PexelsAPIKey},
		{&result.UnsplashAccessKey, defaults.UnsplashAccessKey},
		{&result.TempDir, defaults.TempDir},
		{&result.OutputDir, defaults.OutputDir},
		{&result.SubtitleFont, defaults.SubtitleFont},
		{&result.FontsDir, defaults.FontsDir},
		{&result.TTSEngine, defaults.TTSEngine},
		{&result.TTSVoice, defaults.TTSVoice},
		{&result.TTSCommand, defaults.TTSCommand},
		{&result.YouTubeClientID, defaults.YouTubeClientID},
		{&result.YouTubeClientSecret, defaults.YouTubeClientSecret},
		{&result.YouTubeRefreshToken, defaults.YouTubeRefreshToken},
		{&result.TrendsFeedURL, defaults.TrendsFeedURL},
		{&result.DatabaseURL, defaults.DatabaseURL},
	}
	for _, s := range strs {
		if *s.dst == "" {
			*s.dst = s.src
		}
	}

	// Int fields: use default if zero
	if result.MaxRetries == 0 {
		result.MaxRetries = defaults.MaxRetries
	}
	if result.SubtitleFontSize == 0 {
		result.SubtitleFontSize = defaults.SubtitleFontSize
	}

	// Translations: union, own entries win
	if len(defaults.Translations) > 0 {
		merged := make(map[string]string, len(defaults.Translations)+len(result.Translations))
		for k, v := range defaults.Translations {
			merged[k] = v
		}
		for k, v := range result.Translations {
			merged[k] = v
		}
		result.Translations = merged
	}

	// Bool fields: unset and false look the same, so true from either side wins
	result.Verbose = c.Verbose || defaults.Verbose

	return result
}

// Resolve layers an optional config file over the environment over Defaults and validates the result.
func Resolve(path string) (Config, error) {
	env := FromEnv()
	cfg := env.MergeWithDefaults(Defaults())
	if path != "" {
		file, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		cfg = file.MergeWithDefaults(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
