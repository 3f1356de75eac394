package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoad_MissingFileErrors(t *testing.T) {
	// An explicitly named config file must exist; a typo'd path should not
	// silently run on defaults.
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Captions.WordsPerMinute != 150 {
		t.Errorf("WordsPerMinute = %g, want default 150", cfg.Captions.WordsPerMinute)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[captions]
max_chars_per_line = 42
words_per_minute = 160

[batch]
max_concurrent = 5
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Captions.MaxCharsPerLine != 42 {
		t.Errorf("MaxCharsPerLine = %d, want 42", cfg.Captions.MaxCharsPerLine)
	}
	if cfg.Captions.WordsPerMinute != 160 {
		t.Errorf("WordsPerMinute = %g, want 160", cfg.Captions.WordsPerMinute)
	}
	if cfg.Batch.MaxConcurrent != 5 {
		t.Errorf("MaxConcurrent = %d, want 5", cfg.Batch.MaxConcurrent)
	}
	// Untouched sections keep their defaults.
	if cfg.Captions.MinCueDuration != 0.8 {
		t.Errorf("MinCueDuration = %g, want default 0.8", cfg.Captions.MinCueDuration)
	}
	if !cfg.Transcribe.Enabled {
		t.Error("Transcribe.Enabled lost its default")
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[captions]
max_chars_per_line = -1
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for negative line budget")
	}
}

func TestValidate_GroupBounds(t *testing.T) {
	cfg := Default()
	cfg.Captions.MinWordsPerGroup = 10
	cfg.Captions.MaxWordsPerGroup = 8
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when min group size exceeds max")
	}
}
