package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/shorts-studio/internal/config"
	"github.com/jonathan/shorts-studio/internal/pipeline"
	"github.com/jonathan/shorts-studio/internal/stock"
	"github.com/jonathan/shorts-studio/internal/store"
	"github.com/jonathan/shorts-studio/internal/types"
)

// flagCommand registers the root persistent flags on a throwaway command.
func flagCommand(t *testing.T) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "")
	cmd.Flags().StringVar(&providerArg, "provider", "", "")
	cmd.Flags().StringVar(&modelArg, "model", "", "")
	cmd.Flags().StringVar(&dbURLArg, "db-url", "", "")
	t.Cleanup(func() {
		verbose, providerArg, modelArg, dbURLArg, configPath = false, "", "", "", ""
	})
	return cmd
}

func TestSubcommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"generate", "topics", "weekly", "review", "video", "validate", "history"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_MODEL", "env-model")
	t.Setenv("DATABASE_URL", "postgres://env")

	cmd := flagCommand(t)
	require.NoError(t, cmd.Flags().Set("provider", "gemini"))
	require.NoError(t, cmd.Flags().Set("db-url", "postgres://flag"))

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "postgres://flag", cfg.DatabaseURL)
	// untouched flags leave resolved values alone
	assert.Equal(t, "env-model", cfg.Model)
	assert.False(t, cfg.Verbose)
}

func TestLoadConfig_FileThenFlag(t *testing.T) {
	clearEnv(t)
	path := writeJSON(t, `{"provider": "gemini", "model": "file-model", "output_dir": "renders"}`)

	cmd := flagCommand(t)
	configPath = path
	require.NoError(t, cmd.Flags().Set("model", "flag-model"))

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "flag-model", cfg.Model)
	assert.Equal(t, "renders", cfg.OutputDir)
}

func TestLoadConfig_InvalidProviderFlag(t *testing.T) {
	clearEnv(t)
	cmd := flagCommand(t)
	require.NoError(t, cmd.Flags().Set("provider", "claude"))

	_, err := loadConfig(cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Provider")
}

func TestNewLLMClient_MissingKey(t *testing.T) {
	tests := []struct {
		provider string
		wantMsg  string
	}{
		{provider: "openai", wantMsg: "OPENAI_API_KEY"},
		{provider: "gemini", wantMsg: "GEMINI_API_KEY"},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			_, err := newLLMClient(context.Background(), config.Config{Provider: tt.provider})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestNewStockSource(t *testing.T) {
	t.Run("no keys", func(t *testing.T) {
		_, err := newStockSource(config.Config{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "PEXELS_API_KEY")
	})

	t.Run("unsplash only", func(t *testing.T) {
		acq, err := newStockSource(config.Config{UnsplashAccessKey: "u"})
		require.NoError(t, err)
		assert.Nil(t, acq.Videos)
		require.Len(t, acq.Images, 1)
		assert.IsType(t, &stock.UnsplashClient{}, acq.Images[0])
	})

	t.Run("both keys prefer unsplash stills", func(t *testing.T) {
		acq, err := newStockSource(config.Config{UnsplashAccessKey: "u", PexelsAPIKey: "p"})
		require.NoError(t, err)
		assert.IsType(t, &stock.PexelsClient{}, acq.Videos)
		require.Len(t, acq.Images, 2)
		assert.IsType(t, &stock.UnsplashClient{}, acq.Images[0])
		assert.IsType(t, &stock.PexelsClient{}, acq.Images[1])
	})

	t.Run("config translations extend defaults", func(t *testing.T) {
		acq, err := newStockSource(config.Config{PexelsAPIKey: "p", Translations: map[string]string{"청약": "apartment keys"}})
		require.NoError(t, err)
		assert.Equal(t, "apartment keys", acq.Translator.Translate("청약"))
	})
}

func TestOpenStore_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	s, err := openStore(context.Background(), config.Config{StorePath: path})
	require.NoError(t, err)
	require.IsType(t, &store.MemoryStore{}, s)

	ctx := context.Background()
	require.NoError(t, s.AppendRecords(ctx, []types.ContentRecord{{ID: "1", Keyword: "적금", Status: types.StatusDrafting}}))

	reopened, err := openStore(ctx, config.Config{StorePath: path})
	require.NoError(t, err)
	rec, err := store.GetRecord(ctx, reopened, "1")
	require.NoError(t, err)
	assert.Equal(t, "적금", rec.Keyword)
}

func TestReviewAction(t *testing.T) {
	assert.Equal(t, pipeline.ReviewVerify, reviewAction(false, false))
	assert.Equal(t, pipeline.ReviewImprove, reviewAction(true, false))
	assert.Equal(t, pipeline.ReviewRegenerate, reviewAction(false, true))
}
