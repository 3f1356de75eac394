package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/delimatsuo/lifestylevideos-short-factory-sub001/internal/caption"
	"github.com/delimatsuo/lifestylevideos-short-factory-sub001/internal/config"
	"github.com/delimatsuo/lifestylevideos-short-factory-sub001/internal/ffmpeg"
	"github.com/delimatsuo/lifestylevideos-short-factory-sub001/internal/transcribe"
)

// divergenceWarnThreshold is the script/transcript word-count divergence
// past which positional alignment is considered suspect.
const divergenceWarnThreshold = 0.2

// Options configures one caption generation run.
type Options struct {
	ScriptPath     string
	AudioPath      string
	OutputPath     string
	Duration       float64 // explicit audio duration override, seconds
	TimestampsPath string  // saved word-timestamp JSON, skips the API call
	Language       string
	NoTranscribe   bool
	SaveTimestamps bool
	ContentID      string

	Settings   config.Settings
	Transcribe config.Transcribe
}

// Run generates a subtitle file for one narration script and its audio. It
// prefers word-level forced alignment when timestamps can be obtained and
// falls back to the duration heuristic otherwise, then serializes the track,
// writes it, and logs a quality report.
func Run(ctx context.Context, opts Options) error {
	raw, err := os.ReadFile(opts.ScriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	narration := caption.CleanNarration(string(raw))
	if narration == "" {
		return fmt.Errorf("script %s: %w", filepath.Base(opts.ScriptPath), caption.ErrEmptyInput)
	}

	slog.Info("processing narration",
		"script", filepath.Base(opts.ScriptPath),
		"chars", len(narration))

	audioPath, cleanup, err := prepareAudio(ctx, opts.AudioPath)
	if err != nil {
		return err
	}
	defer cleanup()

	duration := opts.Duration
	if duration <= 0 && audioPath != "" {
		if info := ffmpeg.LogMediaInfo(ctx, audioPath); info != nil {
			duration = info.Duration
		}
	}

	var stamps []caption.WordTimestamp
	if opts.TimestampsPath != "" {
		// An explicitly supplied timestamp file must be usable.
		stamps, err = transcribe.LoadTimestampFile(opts.TimestampsPath)
		if err != nil {
			return err
		}
	} else {
		stamps, err = acquireTimestamps(ctx, audioPath, opts)
		if err != nil {
			// Transcription trouble never aborts the run; the heuristic path
			// still works with a probed duration.
			slog.Warn("transcription unavailable, falling back to duration heuristic", "err", err)
			stamps = nil
		}
	}

	if len(stamps) > 0 {
		if div := caption.AlignmentDivergence(narration, stamps); div > divergenceWarnThreshold {
			slog.Warn("script and transcript word counts diverge, alignment may drift",
				"divergence", fmt.Sprintf("%.0f%%", div*100),
				"script_words", len(strings.Fields(narration)),
				"transcript_words", len(stamps))
		}
	}

	track, strategy, err := buildTrack(narration, stamps, duration, opts.Settings)
	if err != nil {
		return err
	}
	slog.Info("timing allocated", "strategy", strategy, "cues", len(track.Cues))

	content, warnings := caption.FormatSRT(track, opts.Settings.MaxCharsPerLine)
	for _, w := range warnings {
		slog.Warn("caption formatting", "cue", w.CueIndex, "issue", w.Message)
	}

	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = defaultOutputPath(opts.ScriptPath, opts.ContentID)
	}
	if err := os.WriteFile(outputPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("write subtitle file: %w", err)
	}
	slog.Info("subtitle file saved", "path", outputPath)

	report := caption.ScoreTrack(track, duration)
	logQualityReport(report)

	return nil
}

// prepareAudio extracts the audio stream when the input is a video file.
// The returned cleanup removes any temporary file.
func prepareAudio(ctx context.Context, path string) (string, func(), error) {
	noop := func() {}
	if path == "" {
		return "", noop, nil
	}

	ext := filepath.Ext(path)
	if !ffmpeg.IsVideoExtension(ext) || !ffmpeg.Available() {
		return path, noop, nil
	}

	base := strings.TrimSuffix(filepath.Base(path), ext)
	tempAudio := filepath.Join(filepath.Dir(path), "temp_audio_"+base+".m4a")
	if err := ffmpeg.ExtractAudio(ctx, path, tempAudio); err != nil {
		return "", noop, fmt.Errorf("extract audio: %w", err)
	}
	return tempAudio, func() { os.Remove(tempAudio) }, nil
}

// acquireTimestamps requests word timestamps from the transcription service
// under a timeout.
func acquireTimestamps(ctx context.Context, audioPath string, opts Options) ([]caption.WordTimestamp, error) {
	if opts.NoTranscribe || !opts.Transcribe.Enabled || audioPath == "" {
		return nil, nil
	}

	timeout := time.Duration(opts.Transcribe.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := transcribe.NewClient(opts.Transcribe.Endpoint)
	progress := func(read, total int64) {
		if total > 0 {
			slog.Debug("upload progress", "percent", fmt.Sprintf("%.1f%%", float64(read)/float64(total)*100))
		}
	}

	stamps, err := client.WordTimestamps(callCtx, audioPath, opts.Language, progress)
	if err != nil {
		return nil, err
	}

	if opts.SaveTimestamps && len(stamps) > 0 {
		if err := saveTimestamps(opts, stamps); err != nil {
			slog.Warn("failed to save timestamps", "err", err)
		}
	}
	return stamps, nil
}

func saveTimestamps(opts Options, stamps []caption.WordTimestamp) error {
	path := strings.TrimSuffix(opts.ScriptPath, filepath.Ext(opts.ScriptPath)) + ".words.json"
	data, err := transcribe.MarshalTimestamps(stamps)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	slog.Info("word timestamps saved", "path", path)
	return nil
}

// buildTrack selects the timing strategy from data availability: forced
// alignment when word timestamps exist, otherwise the duration heuristic.
func buildTrack(narration string, stamps []caption.WordTimestamp, duration float64, settings config.Settings) (caption.Track, string, error) {
	if len(stamps) > 0 {
		allocator := caption.ForcedAlignmentAllocator{Settings: settings, Timestamps: stamps}
		track, err := allocator.Allocate(narration)
		if err == nil {
			return track, "forced-alignment", nil
		}
		if !errors.Is(err, caption.ErrNoAlignmentData) {
			return caption.Track{}, "", err
		}
		slog.Warn("forced alignment rejected timestamps, falling back", "err", err)
	}

	if duration <= 0 {
		return caption.Track{}, "", fmt.Errorf("audio duration unknown: %w", caption.ErrInvalidDuration)
	}

	allocator := caption.HeuristicAllocator{Settings: settings, TotalDuration: duration}
	track, err := allocator.Allocate(narration)
	if err != nil {
		return caption.Track{}, "", err
	}
	return track, "heuristic", nil
}

// defaultOutputPath names the subtitle file with a content identifier and a
// timestamp next to the script.
func defaultOutputPath(scriptPath, contentID string) string {
	if contentID == "" {
		contentID = uuid.NewString()[:8]
	}
	base := strings.TrimSuffix(scriptPath, filepath.Ext(scriptPath))
	stamp := time.Now().UTC().Format("20060102T150405Z")
	return fmt.Sprintf("%s_%s_%s.srt", base, contentID, stamp)
}

func logQualityReport(report caption.QualityReport) {
	attrs := []any{
		"score", report.Score,
		"level", string(report.Level),
		"avg_cue_duration", fmt.Sprintf("%.2fs", report.AvgCueDuration),
		"avg_words_per_cue", fmt.Sprintf("%.1f", report.AvgWordsPerCue),
	}
	if report.CoverageGap > 0 {
		attrs = append(attrs, "coverage_gap", fmt.Sprintf("%.2fs", report.CoverageGap))
	}
	slog.Info("caption quality", attrs...)
	for _, issue := range report.Issues {
		slog.Warn("caption quality issue", "issue", issue)
	}
}
