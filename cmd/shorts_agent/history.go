package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jonathan/shorts-studio/internal/db"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded review and video runs",
	Long:  "Lists runs from the run history database (DATABASE_URL or --db-url), newest first.",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var (
	historyContentID string
	historyKind      string
	historyStatus    string
	historyLimit     int
)

func init() {
	historyCmd.Flags().StringVar(&historyContentID, "content-id", "", "Only runs for this content id")
	historyCmd.Flags().StringVar(&historyKind, "kind", "", "Only runs of this kind (review, video, weekly)")
	historyCmd.Flags().StringVar(&historyStatus, "status", "", "Only runs with this status")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum runs to list")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	runs, err := database.ListRuns(ctx, db.RunFilters{
		ContentID: historyContentID,
		Kind:      historyKind,
		Status:    historyStatus,
		Limit:     historyLimit,
	})
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "RUN\tCONTENT\tKIND\tSTATUS\tCREATED\tDETAIL")
	for _, r := range runs {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID.String()[:8], r.ContentID, r.Kind, r.Status, r.CreatedAt.Format("2006-01-02 15:04"), r.Detail)
	}
	return w.Flush()
}
