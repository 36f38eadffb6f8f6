package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/shorts-studio/internal/config"
	"github.com/jonathan/shorts-studio/internal/db"
	"github.com/jonathan/shorts-studio/internal/generation"
	"github.com/jonathan/shorts-studio/internal/improvement"
	"github.com/jonathan/shorts-studio/internal/llm"
	"github.com/jonathan/shorts-studio/internal/media"
	"github.com/jonathan/shorts-studio/internal/observability"
	"github.com/jonathan/shorts-studio/internal/pipeline"
	"github.com/jonathan/shorts-studio/internal/speech"
	"github.com/jonathan/shorts-studio/internal/stock"
	"github.com/jonathan/shorts-studio/internal/store"
	"github.com/jonathan/shorts-studio/internal/subtitles"
	"github.com/jonathan/shorts-studio/internal/trends"
	"github.com/jonathan/shorts-studio/internal/upload"
	"github.com/jonathan/shorts-studio/internal/verification"
)

// defaultStorePath is used when neither a sheet nor a store path is configured
const defaultStorePath = "shorts_store.json"

// loadConfig resolves file, env and defaults, then applies explicitly set flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Resolve(configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = verbose
	}
	if cmd.Flags().Changed("provider") {
		cfg.Provider = providerArg
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = modelArg
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = dbURLArg
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	if cfg.Verbose && configPath != "" {
		fmt.Printf("Loaded config from: %s\n", configPath)
	}
	return cfg, nil
}

// newLLMClient builds the model client for the configured provider.
func newLLMClient(ctx context.Context, cfg config.Config) (llm.Client, error) {
	apiKey := cfg.LLMAPIKey()
	if apiKey == "" {
		if cfg.Provider == string(llm.ProviderGemini) {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable or gemini_api_key config is required")
		}
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable or openai_api_key config is required")
	}

	llmConfig := llm.ConfigFor(cfg.Provider)
	if cfg.Model != "" {
		llmConfig = llmConfig.WithAllModels(cfg.Model)
	}
	llmConfig.BaseURL = cfg.BaseURL

	client, err := llm.NewClient(ctx, llmConfig, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return llm.WithRetry(client, llm.RetryPolicy{MaxRetries: cfg.MaxRetries}), nil
}

// openStore returns the Sheets store when a sheet is configured, otherwise a local file store.
func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	if cfg.SheetID != "" {
		s, err := store.NewSheetsStore(ctx, store.SheetsConfig{
			SheetID:             cfg.SheetID,
			ServiceAccountEmail: cfg.ServiceAccountEmail,
			PrivateKey:          cfg.PrivateKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open sheet: %w", err)
		}
		return s, nil
	}

	path := cfg.StorePath
	if path == "" {
		path = defaultStorePath
	}
	if cfg.Verbose {
		fmt.Printf("No sheet configured, using local store %s\n", path)
	}
	s, err := store.OpenFileStore(path)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// openHistory connects to the run history database. Failures are reported and ignored.
func openHistory(ctx context.Context, cfg config.Config) *db.DB {
	if cfg.DatabaseURL == "" {
		return nil
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		fmt.Printf("Warning: Failed to connect to database: %v\n", err)
		fmt.Printf("Continuing without run history...\n")
		return nil
	}
	if err := database.Migrate(ctx); err != nil {
		fmt.Printf("Warning: Failed to migrate database: %v\n", err)
		database.Close()
		return nil
	}
	return database
}

// newStockSource wires the configured stock providers into the fallback chain.
// Unsplash is preferred for stills when both keys are set.
func newStockSource(cfg config.Config) (*stock.Acquirer, error) {
	var videos stock.VideoSource
	var images []stock.ImageSource
	if cfg.UnsplashAccessKey != "" {
		images = append(images, stock.NewUnsplashClient(cfg.UnsplashAccessKey))
	}
	if cfg.PexelsAPIKey != "" {
		pexels := stock.NewPexelsClient(cfg.PexelsAPIKey)
		videos = pexels
		images = append(images, pexels)
	}
	if videos == nil && len(images) == 0 {
		return nil, fmt.Errorf("PEXELS_API_KEY or UNSPLASH_ACCESS_KEY is required for stock media")
	}
	translator := stock.DefaultTranslations().Merge(cfg.Translations)
	return stock.NewAcquirer(videos, translator, images...), nil
}

// session owns the clients opened for one command.
type session struct {
	cfg      config.Config
	llm      llm.Client
	history  *db.DB
	pipeline *pipeline.Pipeline
}

func (s *session) Close() {
	if s.llm != nil {
		if err := s.llm.Close(); err != nil {
			log.Printf("failed to close LLM client: %v", err)
		}
	}
	if s.history != nil {
		s.history.Close()
	}
}

// sessionNeeds selects which collaborators a command requires.
type sessionNeeds struct {
	store bool
	media bool
}

// newSession builds the pipeline with the model stages and whatever else needs asks for.
func newSession(ctx context.Context, cfg config.Config, needs sessionNeeds) (*session, error) {
	client, err := newLLMClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, llm: client}

	p := &pipeline.Pipeline{
		Generator: generation.NewGenerator(client),
		Verifier:  verification.NewVerifier(client),
		Improver:  improvement.NewImprover(client),
		Topics:    generation.NewTopicGenerator(client),
		TempDir:   cfg.TempDir,
		OutputDir: cfg.OutputDir,
		Out:       os.Stdout,
	}
	if cfg.Verbose {
		p.Printer = observability.NewPrinter(os.Stdout)
	}
	if cfg.TrendsFeedURL != "" {
		p.Trends = trends.NewFeedSource(cfg.TrendsFeedURL)
	}
	s.pipeline = p

	if needs.store {
		st, err := openStore(ctx, cfg)
		if err != nil {
			s.Close()
			return nil, err
		}
		p.Store = st
		if database := openHistory(ctx, cfg); database != nil {
			s.history = database
			p.Recorder = database
		}
	}

	if needs.media {
		if err := wireMedia(ctx, cfg, p); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

// wireMedia adds narration, stock media, ffmpeg and, when credentials exist, upload.
func wireMedia(ctx context.Context, cfg config.Config, p *pipeline.Pipeline) error {
	runner := media.ExecRunner{}

	synth, err := speech.New(speech.Options{
		Engine:  cfg.TTSEngine,
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.BaseURL,
		Voice:   cfg.TTSVoice,
		Command: cfg.TTSCommand,
		Runner:  runner,
	})
	if err != nil {
		return fmt.Errorf("failed to create speech synthesizer: %w", err)
	}

	source, err := newStockSource(cfg)
	if err != nil {
		return err
	}

	prober := media.NewFFProbe(runner)
	composer := media.NewComposer(runner, prober)
	composer.Style = subtitles.Style{FontName: cfg.SubtitleFont, FontSize: cfg.SubtitleFontSize}
	composer.FontsDir = cfg.FontsDir

	p.Speech = synth
	p.Stock = source
	p.Prober = prober
	p.Composer = composer

	if cfg.HasYouTube() {
		uploader, err := upload.NewYouTubeUploader(ctx, upload.YouTubeConfig{
			ClientID:     cfg.YouTubeClientID,
			ClientSecret: cfg.YouTubeClientSecret,
			RefreshToken: cfg.YouTubeRefreshToken,
		})
		if err != nil {
			return fmt.Errorf("failed to create uploader: %w", err)
		}
		p.Uploader = uploader
	}
	return nil
}
