package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/delimatsuo/lifestylevideos-short-factory-sub001/internal/caption"
	"github.com/delimatsuo/lifestylevideos-short-factory-sub001/internal/ffmpeg"
)

var scoreCmd = &cobra.Command{
	Use:   "score <captions.srt>",
	Short: "Score an existing subtitle file for readability and sync quality",
	Args:  cobra.ExactArgs(1),
	RunE:  runScore,
}

var (
	scoreAudioPath     string
	scoreAudioDuration float64
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreAudioPath, "audio", "a", "", "audio file for coverage comparison")
	scoreCmd.Flags().Float64VarP(&scoreAudioDuration, "audio-duration", "d", 0, "audio duration in seconds")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read subtitle file: %w", err)
	}

	track, err := caption.ParseSRT(string(data))
	if err != nil {
		return fmt.Errorf("parse %s: %w", args[0], err)
	}

	duration := scoreAudioDuration
	if duration <= 0 && scoreAudioPath != "" {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		info, err := ffmpeg.ProbeMedia(ctx, scoreAudioPath)
		if err != nil {
			return fmt.Errorf("probe audio: %w", err)
		}
		duration = info.Duration
	}

	report := caption.ScoreTrack(track, duration)

	fmt.Printf("cues:              %d\n", len(track.Cues))
	fmt.Printf("score:             %d/100 (%s)\n", report.Score, report.Level)
	fmt.Printf("avg cue duration:  %.2fs\n", report.AvgCueDuration)
	fmt.Printf("avg words per cue: %.1f\n", report.AvgWordsPerCue)
	fmt.Printf("short cues:        %.0f%%\n", report.ShortCueFraction*100)
	fmt.Printf("long cues:         %.0f%%\n", report.LongCueFraction*100)
	if duration > 0 {
		fmt.Printf("coverage gap:      %.2fs\n", report.CoverageGap)
	}
	for _, issue := range report.Issues {
		fmt.Printf("issue: %s\n", issue)
	}

	return nil
}
