package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/delimatsuo/lifestylevideos-short-factory-sub001/internal/config"
	"github.com/delimatsuo/lifestylevideos-short-factory-sub001/internal/worker"
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Generate captions for every narration script in a directory",
	Long: `Process all *.txt narration scripts in a directory, pairing each with an
audio or video file of the same base name. Items run concurrently with
bounded parallelism and API rate limiting.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

var (
	batchMaxConcurrent int
	batchMaxRetries    int
	batchRateLimit     int
	batchNoAsync       bool
	batchNoTranscribe  bool
	batchLanguage      string
)

func init() {
	defaults := config.Default()

	batchCmd.Flags().IntVarP(&batchMaxConcurrent, "max-concurrent", "j", defaults.Batch.MaxConcurrent, "max concurrent items")
	batchCmd.Flags().IntVar(&batchMaxRetries, "max-retries", defaults.Batch.MaxRetries, "max retries per item")
	batchCmd.Flags().IntVar(&batchRateLimit, "rate-limit", defaults.Batch.RateLimitPerMin, "API requests per minute")
	batchCmd.Flags().BoolVar(&batchNoAsync, "no-async", false, "process items sequentially")
	batchCmd.Flags().BoolVar(&batchNoTranscribe, "no-transcribe", false, "never call the transcription service")
	batchCmd.Flags().StringVarP(&batchLanguage, "language", "l", "auto", "narration language code, or auto")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
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

	opts := worker.BatchOptions{
		Dir:             dir,
		MaxConcurrent:   batchMaxConcurrent,
		MaxRetries:      batchMaxRetries,
		RateLimitPerMin: batchRateLimit,
		NoAsync:         batchNoAsync,
		Run: worker.Options{
			Language:     batchLanguage,
			NoTranscribe: batchNoTranscribe,
			Settings:     cfg.Captions,
			Transcribe:   cfg.Transcribe,
		},
	}

	return worker.RunBatch(ctx, opts)
}
