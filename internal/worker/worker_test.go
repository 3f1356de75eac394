package worker

import (
	"errors"
	"strings"
	"testing"

	"github.com/delimatsuo/lifestylevideos-short-factory-sub001/internal/caption"
	"github.com/delimatsuo/lifestylevideos-short-factory-sub001/internal/config"
)

func TestBuildTrack_PrefersForcedAlignment(t *testing.T) {
	stamps := []caption.WordTimestamp{
		{Word: "Hello", Start: 0.0, End: 0.3},
		{Word: "world.", Start: 0.3, End: 0.8},
	}

	track, strategy, err := buildTrack("Hello world.", stamps, 6.0, config.Default().Captions)
	if err != nil {
		t.Fatalf("buildTrack: %v", err)
	}
	if strategy != "forced-alignment" {
		t.Errorf("strategy = %q, want forced-alignment", strategy)
	}
	if len(track.Cues) != 1 {
		t.Errorf("expected 1 cue, got %d", len(track.Cues))
	}
}

func TestBuildTrack_HeuristicWithoutTimestamps(t *testing.T) {
	track, strategy, err := buildTrack("Hello world. More text here.", nil, 6.0, config.Default().Captions)
	if err != nil {
		t.Fatalf("buildTrack: %v", err)
	}
	if strategy != "heuristic" {
		t.Errorf("strategy = %q, want heuristic", strategy)
	}
	if track.Cues[len(track.Cues)-1].End != 6.0 {
		t.Errorf("last cue ends at %f, want 6.0", track.Cues[len(track.Cues)-1].End)
	}
}

func TestBuildTrack_FallsBackOnBadTimestamps(t *testing.T) {
	// Inverted timestamps are rejected by the forced-alignment path; with a
	// known duration the heuristic takes over instead of failing the run.
	stamps := []caption.WordTimestamp{
		{Word: "Hello", Start: 0.9, End: 0.1},
	}

	_, strategy, err := buildTrack("Hello world.", stamps, 6.0, config.Default().Captions)
	if err != nil {
		t.Fatalf("buildTrack: %v", err)
	}
	if strategy != "heuristic" {
		t.Errorf("strategy = %q, want heuristic fallback", strategy)
	}
}

func TestBuildTrack_NoDataAtAll(t *testing.T) {
	_, _, err := buildTrack("Hello world.", nil, 0, config.Default().Captions)
	if !errors.Is(err, caption.ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
}

func TestDefaultOutputPath(t *testing.T) {
	path := defaultOutputPath("/tmp/morning_habits.txt", "abc123")
	if !strings.HasPrefix(path, "/tmp/morning_habits_abc123_") {
		t.Errorf("unexpected output path %q", path)
	}
	if !strings.HasSuffix(path, ".srt") {
		t.Errorf("output path %q missing .srt suffix", path)
	}
}

func TestDefaultOutputPath_GeneratesContentID(t *testing.T) {
	path := defaultOutputPath("/tmp/story.txt", "")
	if !strings.HasPrefix(path, "/tmp/story_") || !strings.HasSuffix(path, ".srt") {
		t.Errorf("unexpected output path %q", path)
	}
	// base + "_" + 8-char id + "_" + timestamp + ".srt"
	parts := strings.Split(strings.TrimSuffix(path, ".srt"), "_")
	id := parts[len(parts)-2]
	if len(id) != 8 {
		t.Errorf("content id %q has length %d, want 8", id, len(id))
	}
}
