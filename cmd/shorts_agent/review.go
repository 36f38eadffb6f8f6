package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/shorts-studio/internal/pipeline"
)

var reviewCmd = &cobra.Command{
	Use:   "review <content-id>",
	Short: "Verify a stored record and optionally improve or regenerate it",
	Long: `Verifies the script of a stored content record. With --improve the script is revised against
the verdict (skipped when the verdict is clean). With --regenerate the content is generated
from scratch and verified once more. --preview shows the result without updating the record.`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

var (
	reviewImprove    bool
	reviewRegenerate bool
	reviewPreview    bool
)

func init() {
	reviewCmd.Flags().BoolVar(&reviewImprove, "improve", false, "Revise the script to resolve the verdict")
	reviewCmd.Flags().BoolVar(&reviewRegenerate, "regenerate", false, "Discard the content and generate it again")
	reviewCmd.Flags().BoolVar(&reviewPreview, "preview", false, "Show changes without writing them")
	reviewCmd.MarkFlagsMutuallyExclusive("improve", "regenerate")
	rootCmd.AddCommand(reviewCmd)
}

// reviewAction maps the flags to a review action.
func reviewAction(improve, regenerate bool) pipeline.ReviewAction {
	switch {
	case improve:
		return pipeline.ReviewImprove
	case regenerate:
		return pipeline.ReviewRegenerate
	default:
		return pipeline.ReviewVerify
	}
}

func runReview(cmd *cobra.Command, args []string) error {
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

	result, err := sess.pipeline.Review(ctx, args[0], pipeline.ReviewOptions{
		Action:  reviewAction(reviewImprove, reviewRegenerate),
		Preview: reviewPreview,
	})
	if err != nil {
		return err
	}

	fmt.Printf("\nContent %s: %q\n", result.Record.ID, result.Record.Title)
	printVerdict(&result.Verdict)
	if !result.Verified {
		fmt.Printf("\nVerification could not be completed; treat the content as unverified.\n")
	}

	if imp := result.Improvement; imp != nil {
		fmt.Printf("\nImproved script (%d changes):\n%s\n", len(imp.Changes), imp.ImprovedScript)
		printList("Changes", imp.Changes)
	}
	if draft := result.Regenerated; draft != nil {
		printDraft(draft)
		if v := result.RegeneratedVerdict; v != nil {
			printVerdict(v)
		}
	}

	switch {
	case result.Written:
		fmt.Printf("\nRecord %s updated.\n", result.Record.ID)
	case result.Patch != nil:
		fmt.Printf("\nPreview only: record %s was not changed.\n", result.Record.ID)
	}
	fmt.Printf("State: %s\n", result.State)
	return nil
}
