package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func getBinaryPath(t *testing.T) string {
	binaryName := "shorts_agent"
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", binaryName)
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'go build -o bin/shorts_agent ./cmd/shorts_agent'", binaryPath)
	}

	return binaryPath
}

// writeJSON writes content to a temp file and returns its path.
func writeJSON(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// clearEnv blanks the variables config.FromEnv reads so tests see defaults only.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LLM_PROVIDER", "LLM_MODEL", "OPENAI_BASE_URL", "OPENAI_API_KEY", "GEMINI_API_KEY",
		"GOOGLE_SHEET_ID", "GOOGLE_SERVICE_ACCOUNT_EMAIL", "GOOGLE_PRIVATE_KEY", "SHORTS_STORE_PATH",
		"PEXELS_API_KEY", "UNSPLASH_ACCESS_KEY", "FONTS_DIR", "TTS_ENGINE", "TTS_VOICE", "TTS_COMMAND",
		"YOUTUBE_CLIENT_ID", "YOUTUBE_CLIENT_SECRET", "YOUTUBE_REFRESH_TOKEN",
		"TRENDS_FEED_URL", "DATABASE_URL", "LLM_MAX_RETRIES",
	} {
		t.Setenv(key, "")
	}
}
