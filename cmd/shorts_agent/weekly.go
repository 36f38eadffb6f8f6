package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var weeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Draft the week's planned topics and add them to the content calendar",
	Long: `Reads the weekly plan row for --week (default: the current ISO week, YYYY-Www), drafts both
topics and appends them as new records with status "drafting".`,
	Args: cobra.NoArgs,
	RunE: runWeekly,
}

var weeklyWeek string

func init() {
	weeklyCmd.Flags().StringVarP(&weeklyWeek, "week", "w", "", "Week to generate, e.g. 2026-W10")
	rootCmd.AddCommand(weeklyCmd)
}

func runWeekly(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sess, err := newSession(ctx, cfg, sessionNeeds{store: true})
	if err != nil {
		return err
	}
	defer sess.Close()

	result, err := sess.pipeline.GenerateWeekly(ctx, weeklyWeek)
	if err != nil {
		return err
	}

	fmt.Printf("\nWeek %s", result.Plan.Week)
	if result.TrendKeyword != "" {
		fmt.Printf(" (trend: %s)", result.TrendKeyword)
	}
	fmt.Println()
	for _, rec := range result.Records {
		fmt.Printf("  #%s %s [%s] %s\n", rec.ID, rec.TargetDate, rec.Keyword, rec.Title)
		fmt.Printf("      hook: %s\n", rec.Hook)
	}
	if n := len(result.Records); n > 0 {
		fmt.Printf("\nCreated content ids %s to %s\n", result.Records[0].ID, result.Records[n-1].ID)
	}
	return nil
}
