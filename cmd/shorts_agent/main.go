// Package main provides the shorts_agent CLI: drafting, verification, revision and
// video production for the shorts content calendar.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "shorts_agent",
	Short: "Shorts content studio",
	Long: `Generates short-form video scripts, verifies their accuracy, revises them and renders
vertical videos with narration and subtitles.

Configuration is read from --config (JSON or YAML), then environment variables (.env is loaded
if present), then built-in defaults. Explicit flags override all of them.`,
	SilenceUsage: true,
}

var (
	configPath  string
	verbose     bool
	providerArg string
	modelArg    string
	dbURLArg    string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (.json, .yaml or .yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed summaries of each stage")
	rootCmd.PersistentFlags().StringVar(&providerArg, "provider", "", "Text model provider: openai or gemini (defaults to LLM_PROVIDER)")
	rootCmd.PersistentFlags().StringVar(&modelArg, "model", "", "Model name for every stage (defaults to the provider's tiers)")
	rootCmd.PersistentFlags().StringVar(&dbURLArg, "db-url", "", "PostgreSQL URL for run history (optional, defaults to DATABASE_URL)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
