package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/shorts-studio/internal/pipeline"
)

var videoCmd = &cobra.Command{
	Use:   "video <content-id>",
	Short: "Render the video for a stored record",
	Long: `Verifies the record, then narrates the script, fetches stock footage, builds subtitles and
renders a 1080x1920 video to the output directory. A failing verdict stops the run unless --force
is given. --upload publishes the video as private and marks the record uploaded.`,
	Args: cobra.ExactArgs(1),
	RunE: runVideo,
}

var (
	videoSkipVerification bool
	videoForce            bool
	videoUpload           bool
)

func init() {
	videoCmd.Flags().BoolVar(&videoSkipVerification, "skip-verification", false, "Render without verifying the script")
	videoCmd.Flags().BoolVar(&videoForce, "force", false, "Render even if verification fails")
	videoCmd.Flags().BoolVar(&videoUpload, "upload", false, "Upload the rendered video as private")
	rootCmd.AddCommand(videoCmd)
}

func runVideo(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if videoUpload && !cfg.HasYouTube() {
		return fmt.Errorf("--upload requires YOUTUBE_CLIENT_ID, YOUTUBE_CLIENT_SECRET and YOUTUBE_REFRESH_TOKEN")
	}
	sess, err := newSession(ctx, cfg, sessionNeeds{store: true, media: true})
	if err != nil {
		return err
	}
	defer sess.Close()

	id := args[0]
	result, err := sess.pipeline.ProduceVideo(ctx, id, pipeline.VideoOptions{
		SkipVerification: videoSkipVerification,
		Force:            videoForce,
		Upload:           videoUpload,
	})
	if err != nil {
		return err
	}

	if result.Verdict != nil {
		printVerdict(result.Verdict)
	}
	if result.State == pipeline.StateBlocked {
		if result.Verdict != nil {
			printList("Suggestions", result.Verdict.Suggestions)
		}
		return fmt.Errorf("content %s blocked by verification; fix the script, run review --improve, or rerun with --force", id)
	}
	if result.Forced {
		fmt.Printf("\nWarning: verification failed and was overridden with --force.\n")
	}

	comp := result.Composition
	fmt.Printf("\nVideo written to %s (%.1fs)\n", comp.Output.Path, comp.Output.DurationSeconds)
	if !comp.Subtitled {
		fmt.Printf("Subtitles could not be burned in; the video has none.\n")
	}
	if result.VideoURL != "" {
		fmt.Printf("Uploaded: %s\n", result.VideoURL)
	}
	return nil
}
