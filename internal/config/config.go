package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Settings holds all caption timing and layout parameters. A Settings value
// is passed into each engine call and never mutated, so identical inputs
// always produce identical caption tracks.
type Settings struct {
	MaxCharsPerLine  int     `toml:"max_chars_per_line"`
	WordsPerMinute   float64 `toml:"words_per_minute"`
	MinCueDuration   float64 `toml:"min_cue_duration"`
	MaxCueDuration   float64 `toml:"max_cue_duration"`
	CuePadding       float64 `toml:"cue_padding"`
	MaxWordsPerGroup int     `toml:"max_words_per_group"`
	MinWordsPerGroup int     `toml:"min_words_per_group"`
	MaxGroupDuration float64 `toml:"max_group_duration"`
}

// Transcribe configures the speech-to-text collaborator.
type Transcribe struct {
	Enabled        bool   `toml:"enabled"`
	Endpoint       string `toml:"endpoint"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Batch configures concurrent multi-item processing.
type Batch struct {
	MaxConcurrent   int `toml:"max_concurrent"`
	MaxRetries      int `toml:"max_retries"`
	RateLimitPerMin int `toml:"rate_limit_per_min"`
}

// Config holds the full application configuration.
type Config struct {
	Captions   Settings   `toml:"captions"`
	Transcribe Transcribe `toml:"transcribe"`
	Batch      Batch      `toml:"batch"`
}

// Default returns a Config with the standard tunables for short-form
// vertical video captions.
func Default() *Config {
	return &Config{
		Captions: Settings{
			MaxCharsPerLine:  35,
			WordsPerMinute:   150,
			MinCueDuration:   0.8,
			MaxCueDuration:   3.5,
			CuePadding:       0.05,
			MaxWordsPerGroup: 8,
			MinWordsPerGroup: 3,
			MaxGroupDuration: 4.0,
		},
		Transcribe: Transcribe{
			Enabled:        true,
			Endpoint:       "https://api.elevenlabs.io/v1/speech-to-text",
			TimeoutSeconds: 120,
		},
		Batch: Batch{
			MaxConcurrent:   3,
			MaxRetries:      3,
			RateLimitPerMin: 30,
		},
	}
}

// Load reads a TOML config file over the defaults. An empty path means no
// config file was requested and returns the defaults; an explicit path that
// cannot be read is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the tunables are internally consistent.
func (c *Config) Validate() error {
	s := c.Captions
	if s.MaxCharsPerLine <= 0 {
		return fmt.Errorf("max_chars_per_line must be positive, got %d", s.MaxCharsPerLine)
	}
	if s.WordsPerMinute <= 0 {
		return fmt.Errorf("words_per_minute must be positive, got %g", s.WordsPerMinute)
	}
	if s.MinCueDuration <= 0 || s.MaxCueDuration <= s.MinCueDuration {
		return fmt.Errorf("cue duration bounds invalid: min %g, max %g", s.MinCueDuration, s.MaxCueDuration)
	}
	if s.CuePadding < 0 {
		return fmt.Errorf("cue_padding must not be negative, got %g", s.CuePadding)
	}
	if s.MaxWordsPerGroup <= 0 || s.MinWordsPerGroup <= 0 || s.MinWordsPerGroup > s.MaxWordsPerGroup {
		return fmt.Errorf("word group bounds invalid: min %d, max %d", s.MinWordsPerGroup, s.MaxWordsPerGroup)
	}
	if s.MaxGroupDuration <= 0 {
		return fmt.Errorf("max_group_duration must be positive, got %g", s.MaxGroupDuration)
	}
	if c.Batch.MaxConcurrent <= 0 {
		return fmt.Errorf("max_concurrent must be positive, got %d", c.Batch.MaxConcurrent)
	}
	return nil
}
