package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/shorts-studio/internal/pipeline"
	"github.com/jonathan/shorts-studio/internal/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate <keyword>",
	Short: "Generate a draft for one keyword and print it",
	Long:  "Generates a title, description, hashtags, script and hook for a keyword. Nothing is stored.",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerate,
}

var (
	generateTrend  string
	generateVerify bool
)

func init() {
	generateCmd.Flags().StringVarP(&generateTrend, "trend", "t", "", "Trend keyword to weave into the script")
	generateCmd.Flags().BoolVar(&generateVerify, "verify", false, "Verify the draft after generating it")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sess, err := newSession(ctx, cfg, sessionNeeds{})
	if err != nil {
		return err
	}
	defer sess.Close()

	result, err := sess.pipeline.Draft(ctx, strings.TrimSpace(args[0]), generateTrend, generateVerify)
	if err != nil {
		return err
	}

	printDraft(result.Draft)
	if result.Verdict != nil {
		printVerdict(result.Verdict)
		if result.State == pipeline.StateBlocked {
			fmt.Printf("\nDraft would be blocked at the gate.\n")
		}
	}
	return nil
}

func printDraft(d *types.ContentDraft) {
	fmt.Printf("\nTitle: %s\n", d.Title)
	for i, alt := range d.TitleAlternatives {
		fmt.Printf("  alt %d: %s\n", i+1, alt)
	}
	fmt.Printf("Description: %s\n", d.Description)
	fmt.Printf("Hashtags: %s\n", types.JoinHashtags(d.Hashtags))
	fmt.Printf("Hook: %s\n", d.Hook)
	fmt.Printf("\nScript:\n%s\n", d.Script)
}

func printVerdict(v *types.VerificationVerdict) {
	status := "PASS"
	if !v.IsValid {
		status = "FAIL"
	}
	fmt.Printf("\nVerification: %s (confidence: %s)\n", status, v.Confidence)
	printList("Issues", v.Issues)
	printList("Warnings", v.Warnings)
	printList("Suggestions", v.Suggestions)
}

func printList(heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("%s:\n", heading)
	for i, item := range items {
		fmt.Printf("  %d. %s\n", i+1, item)
	}
}
