package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/delimatsuo/lifestylevideos-short-factory-sub001/internal/config"
	"github.com/delimatsuo/lifestylevideos-short-factory-sub001/internal/worker"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Watch a directory and caption narration pairs as they appear",
	Long: `Continuously watch a drop directory. Whenever a narration script and an
audio or video file with the same base name are both present, captions are
generated for the pair. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

var (
	watchLanguage     string
	watchNoTranscribe bool
)

func init() {
	watchCmd.Flags().StringVarP(&watchLanguage, "language", "l", "auto", "narration language code, or auto")
	watchCmd.Flags().BoolVar(&watchNoTranscribe, "no-transcribe", false, "never call the transcription service")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if stat, err := os.Stat(dir); err != nil || !stat.IsDir() {
		return fmt.Errorf("not a directory: %s", args[0])
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := worker.Options{
		Language:     watchLanguage,
		NoTranscribe: watchNoTranscribe,
		Settings:     cfg.Captions,
		Transcribe:   cfg.Transcribe,
	}

	if err := worker.Watch(ctx, dir, opts); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
