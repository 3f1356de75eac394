package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/delimatsuo/lifestylevideos-short-factory-sub001/internal/ffmpeg"
)

// settleDelay gives the producer time to finish writing a dropped file
// before we read it.
const settleDelay = 500 * time.Millisecond

// Watch monitors a drop directory and generates captions whenever a
// narration script gains a sibling audio file (or the other way around).
// Errors on individual pairs are logged; the loop runs until ctx is done.
func Watch(ctx context.Context, dir string, runOpts Options) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	slog.Info("watching for narration drops", "dir", dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if err := handleDrop(ctx, event, runOpts); err != nil {
				slog.Error("failed to process drop", "file", filepath.Base(event.Name), "err", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("file watcher error", "err", err)
		}
	}
}

// handleDrop reacts to a newly created script or media file once its
// counterpart exists.
func handleDrop(ctx context.Context, event fsnotify.Event, runOpts Options) error {
	if !event.Has(fsnotify.Create) || strings.HasSuffix(event.Name, ".tmp") {
		return nil
	}

	ext := strings.ToLower(filepath.Ext(event.Name))
	var item batchItem

	switch {
	case ext == ".txt":
		item = batchItem{ScriptPath: event.Name, AudioPath: siblingMedia(event.Name)}
	case ffmpeg.IsAudioExtension(ext) || ffmpeg.IsVideoExtension(ext):
		script := strings.TrimSuffix(event.Name, filepath.Ext(event.Name)) + ".txt"
		if _, err := os.Stat(script); err != nil {
			slog.Debug("media dropped without script, waiting for pair", "file", filepath.Base(event.Name))
			return nil
		}
		item = batchItem{ScriptPath: script, AudioPath: event.Name}
	default:
		return nil
	}

	if item.AudioPath == "" {
		slog.Debug("script dropped without media, waiting for pair", "file", filepath.Base(event.Name))
		return nil
	}

	timer := time.NewTimer(settleDelay)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
	}

	opts := runOpts
	opts.ScriptPath = item.ScriptPath
	opts.AudioPath = item.AudioPath
	opts.OutputPath = ""
	opts.ContentID = ""
	return Run(ctx, opts)
}
