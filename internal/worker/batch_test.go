package worker

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverItems_PairsScriptsWithMedia(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "alpha.txt"))
	touch(t, filepath.Join(dir, "alpha.mp3"))
	touch(t, filepath.Join(dir, "beta.txt"))
	touch(t, filepath.Join(dir, "beta.mp4"))
	touch(t, filepath.Join(dir, "gamma.txt")) // no media
	touch(t, filepath.Join(dir, "stray.wav")) // no script

	items, err := discoverItems(dir)
	if err != nil {
		t.Fatalf("discoverItems: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	want := map[string]string{
		"alpha.txt": "alpha.mp3",
		"beta.txt":  "beta.mp4",
		"gamma.txt": "",
	}
	for _, item := range items {
		script := filepath.Base(item.ScriptPath)
		audio := ""
		if item.AudioPath != "" {
			audio = filepath.Base(item.AudioPath)
		}
		if want[script] != audio {
			t.Errorf("script %s paired with %q, want %q", script, audio, want[script])
		}
	}
}

func TestBatchOptions_NormalizeFloorsZeroValues(t *testing.T) {
	// SetLimit(0) would make every g.Go block and a zero-rate limiter never
	// refills, so both values must come out of normalize at 1 or more.
	got := BatchOptions{MaxConcurrent: 0, RateLimitPerMin: 0}.normalize()
	if got.MaxConcurrent != 1 {
		t.Errorf("MaxConcurrent = %d, want 1", got.MaxConcurrent)
	}
	if got.RateLimitPerMin != 1 {
		t.Errorf("RateLimitPerMin = %d, want 1", got.RateLimitPerMin)
	}

	got = BatchOptions{MaxConcurrent: -2, RateLimitPerMin: -5}.normalize()
	if got.MaxConcurrent != 1 || got.RateLimitPerMin != 1 {
		t.Errorf("negative values not floored: %+v", got)
	}

	got = BatchOptions{MaxConcurrent: 4, RateLimitPerMin: 60}.normalize()
	if got.MaxConcurrent != 4 || got.RateLimitPerMin != 60 {
		t.Errorf("valid values changed: %+v", got)
	}
}

func TestSiblingMedia_None(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "solo.txt")
	touch(t, script)

	if got := siblingMedia(script); got != "" {
		t.Errorf("siblingMedia = %q, want empty", got)
	}
}
