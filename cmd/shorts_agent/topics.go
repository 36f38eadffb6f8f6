package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var topicsCmd = &cobra.Command{
	Use:   "topics <category>",
	Short: "Generate topic pool entries for a category",
	Long:  "Asks the model for topic keywords in a category (e.g. finance, it, life) and appends them to the topic pool.",
	Args:  cobra.ExactArgs(1),
	RunE:  runTopics,
}

var (
	topicsCount  int
	topicsDryRun bool
)

func init() {
	topicsCmd.Flags().IntVarP(&topicsCount, "count", "n", 10, "Number of topics to generate")
	topicsCmd.Flags().BoolVar(&topicsDryRun, "dry-run", false, "Print the topics without adding them to the pool")
	rootCmd.AddCommand(topicsCmd)
}

func runTopics(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	if topicsCount < 1 {
		return fmt.Errorf("--count must be at least 1")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sess, err := newSession(ctx, cfg, sessionNeeds{store: !topicsDryRun})
	if err != nil {
		return err
	}
	defer sess.Close()

	category := args[0]
	topics, err := sess.pipeline.GenerateTopics(ctx, category, topicsCount)
	if err != nil {
		return err
	}

	fmt.Printf("\n%d topics for %s:\n", len(topics), category)
	for i, t := range topics {
		fmt.Printf("%2d. %s", i+1, t.Keyword)
		if t.Description != "" {
			fmt.Printf(" - %s", t.Description)
		}
		fmt.Println()
	}
	if !topicsDryRun {
		fmt.Printf("\nAdded to the topic pool.\n")
	}
	return nil
}
