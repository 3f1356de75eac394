package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/delimatsuo/lifestylevideos-short-factory-sub001/internal/caption"
	"github.com/delimatsuo/lifestylevideos-short-factory-sub001/internal/ffmpeg"
)

// BatchOptions configures concurrent caption generation over a directory of
// narration scripts.
type BatchOptions struct {
	Dir             string
	MaxConcurrent   int
	MaxRetries      int
	RateLimitPerMin int
	NoAsync         bool

	Run Options // per-item template; script/audio/output filled in per item
}

// normalize floors concurrency and rate values to 1. A zero limit would
// stall the errgroup and a zero rate would block the limiter forever.
func (o BatchOptions) normalize() BatchOptions {
	if o.MaxConcurrent < 1 {
		o.MaxConcurrent = 1
	}
	if o.RateLimitPerMin < 1 {
		o.RateLimitPerMin = 1
	}
	return o
}

// batchItem pairs a narration script with its sibling audio file.
type batchItem struct {
	ScriptPath string
	AudioPath  string
}

// RunBatch generates captions for every narration script in a directory,
// with bounded parallelism and API rate limiting. Failing items are logged
// and skipped; the batch only errors when items fail.
func RunBatch(ctx context.Context, opts BatchOptions) error {
	opts = opts.normalize()

	items, err := discoverItems(opts.Dir)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("no narration scripts found in %s", opts.Dir)
	}

	slog.Info("starting batch",
		"items", len(items),
		"max_concurrent", opts.MaxConcurrent,
		"rate_limit_rpm", opts.RateLimitPerMin)

	if opts.NoAsync || len(items) == 1 {
		return runSequential(ctx, items, opts)
	}

	// Rate limiter: tokens per second = RPM / 60.
	limiter := rate.NewLimiter(rate.Limit(float64(opts.RateLimitPerMin)/60.0), 1)

	var (
		mu     sync.Mutex
		failed []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.MaxConcurrent)

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return fmt.Errorf("rate limiter: %w", err)
			}

			slog.Info("batch item starting",
				"item", fmt.Sprintf("%d/%d", i+1, len(items)),
				"script", filepath.Base(item.ScriptPath))

			if err := runWithRetries(gctx, item, opts); err != nil {
				slog.Error("batch item failed",
					"item", fmt.Sprintf("%d/%d", i+1, len(items)),
					"script", filepath.Base(item.ScriptPath),
					"err", err)
				mu.Lock()
				failed = append(failed, filepath.Base(item.ScriptPath))
				mu.Unlock()
				return nil
			}

			slog.Info("batch item completed", "item", fmt.Sprintf("%d/%d", i+1, len(items)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d items failed: %s", len(failed), len(items), strings.Join(failed, ", "))
	}
	slog.Info("batch completed", "items", len(items))
	return nil
}

// runSequential processes items one at a time.
func runSequential(ctx context.Context, items []batchItem, opts BatchOptions) error {
	var failed []string
	for i, item := range items {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		slog.Info("processing item",
			"item", fmt.Sprintf("%d/%d", i+1, len(items)),
			"script", filepath.Base(item.ScriptPath))

		if err := runWithRetries(ctx, item, opts); err != nil {
			slog.Error("item failed", "script", filepath.Base(item.ScriptPath), "err", err)
			failed = append(failed, filepath.Base(item.ScriptPath))
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d items failed: %s", len(failed), len(items), strings.Join(failed, ", "))
	}
	return nil
}

// runWithRetries retries transient failures with exponential backoff.
// Structural input errors are never retried; identical inputs produce
// identical failures.
func runWithRetries(ctx context.Context, item batchItem, opts BatchOptions) error {
	runOpts := opts.Run
	runOpts.ScriptPath = item.ScriptPath
	runOpts.AudioPath = item.AudioPath
	runOpts.OutputPath = ""
	runOpts.ContentID = ""

	retries := opts.MaxRetries
	if retries < 1 {
		retries = 1
	}

	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		err := Run(ctx, runOpts)
		if err == nil {
			return nil
		}
		if errors.Is(err, caption.ErrEmptyInput) || errors.Is(err, caption.ErrInvalidDuration) {
			return err
		}
		lastErr = err

		if attempt < retries-1 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second // 1s, 2s, 4s...
			slog.Warn("item failed, retrying",
				"script", filepath.Base(item.ScriptPath),
				"attempt", attempt+1,
				"backoff", backoff,
				"err", err)

			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	return lastErr
}

// discoverItems finds narration scripts (*.txt) and their sibling audio or
// video files, matched by base name.
func discoverItems(dir string) ([]batchItem, error) {
	scripts, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return nil, fmt.Errorf("scan directory: %w", err)
	}
	sort.Strings(scripts)

	items := make([]batchItem, 0, len(scripts))
	for _, script := range scripts {
		items = append(items, batchItem{
			ScriptPath: script,
			AudioPath:  siblingMedia(script),
		})
	}
	return items, nil
}

// siblingMedia returns the audio/video file sharing the script's base name,
// or empty when none exists.
func siblingMedia(scriptPath string) string {
	base := strings.TrimSuffix(scriptPath, filepath.Ext(scriptPath))
	exts := []string{".mp3", ".m4a", ".wav", ".flac", ".ogg", ".aac", ".mp4", ".mov", ".mkv", ".webm"}
	for _, ext := range exts {
		candidate := base + ext
		if _, err := os.Stat(candidate); err == nil {
			if ffmpeg.IsAudioExtension(ext) || ffmpeg.IsVideoExtension(ext) {
				return candidate
			}
		}
	}
	return ""
}
