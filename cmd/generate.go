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

var generateCmd = &cobra.Command{
	Use:   "generate <script.txt>",
	Short: "Generate an SRT subtitle file for one narration script",
	Long: `Generate captions for a single narration script. With --audio, the audio
is transcribed for word-level timing; without usable timestamps the
duration-based heuristic is used instead (--duration or an ffprobe of the
audio supplies the total duration).`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

var (
	audioPath      string
	output         string
	duration       float64
	timestampsPath string
	language       string
	noTranscribe   bool
	saveTimestamps bool
	contentID      string

	// Caption tuning flags.
	maxCharsPerLine  int
	wordsPerMinute   float64
	minCueDuration   float64
	maxCueDuration   float64
	cuePadding       float64
	maxGroupWords    int
	minGroupWords    int
	maxGroupDuration float64
)

func init() {
	defaults := config.Default()

	generateCmd.Flags().StringVarP(&audioPath, "audio", "a", "", "narration audio (or video) file")
	generateCmd.Flags().StringVarP(&output, "output", "o", "", "output SRT path (default: <script>_<id>_<timestamp>.srt)")
	generateCmd.Flags().Float64VarP(&duration, "duration", "d", 0, "audio duration in seconds (skips ffprobe)")
	generateCmd.Flags().StringVar(&timestampsPath, "timestamps", "", "word-timestamp JSON file (skips transcription)")
	generateCmd.Flags().StringVarP(&language, "language", "l", "auto", "narration language code, or auto")
	generateCmd.Flags().BoolVar(&noTranscribe, "no-transcribe", false, "never call the transcription service")
	generateCmd.Flags().BoolVar(&saveTimestamps, "save-timestamps", false, "save fetched word timestamps alongside the script")
	generateCmd.Flags().StringVar(&contentID, "content-id", "", "content identifier used in default output naming")

	// Caption tuning flags.
	generateCmd.Flags().IntVar(&maxCharsPerLine, "max-chars-per-line", defaults.Captions.MaxCharsPerLine, "caption line character budget")
	generateCmd.Flags().Float64Var(&wordsPerMinute, "wpm", defaults.Captions.WordsPerMinute, "reading speed for the duration heuristic")
	generateCmd.Flags().Float64Var(&minCueDuration, "min-duration", defaults.Captions.MinCueDuration, "minimum cue duration in seconds")
	generateCmd.Flags().Float64Var(&maxCueDuration, "max-duration", defaults.Captions.MaxCueDuration, "maximum cue duration in seconds")
	generateCmd.Flags().Float64Var(&cuePadding, "padding", defaults.Captions.CuePadding, "gap between consecutive cues in seconds")
	generateCmd.Flags().IntVar(&maxGroupWords, "max-group-words", defaults.Captions.MaxWordsPerGroup, "maximum words per aligned cue")
	generateCmd.Flags().IntVar(&minGroupWords, "min-group-words", defaults.Captions.MinWordsPerGroup, "minimum words before a natural break closes a cue")
	generateCmd.Flags().Float64Var(&maxGroupDuration, "max-group-duration", defaults.Captions.MaxGroupDuration, "maximum aligned cue duration in seconds")

	rootCmd.AddCommand(generateCmd)
}

// resolveSettings layers CLI flag overrides on top of the config file.
func resolveSettings(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	flagOverrides := map[string]func(){
		"max-chars-per-line": func() { cfg.Captions.MaxCharsPerLine = maxCharsPerLine },
		"wpm":                func() { cfg.Captions.WordsPerMinute = wordsPerMinute },
		"min-duration":       func() { cfg.Captions.MinCueDuration = minCueDuration },
		"max-duration":       func() { cfg.Captions.MaxCueDuration = maxCueDuration },
		"padding":            func() { cfg.Captions.CuePadding = cuePadding },
		"max-group-words":    func() { cfg.Captions.MaxWordsPerGroup = maxGroupWords },
		"min-group-words":    func() { cfg.Captions.MinWordsPerGroup = minGroupWords },
		"max-group-duration": func() { cfg.Captions.MaxGroupDuration = maxGroupDuration },
	}
	for name, apply := range flagOverrides {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			apply()
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	scriptPath, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if _, err := os.Stat(scriptPath); err != nil {
		return fmt.Errorf("script not found: %s", args[0])
	}

	cfg, err := resolveSettings(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := worker.Options{
		ScriptPath:     scriptPath,
		AudioPath:      audioPath,
		OutputPath:     output,
		Duration:       duration,
		TimestampsPath: timestampsPath,
		Language:       language,
		NoTranscribe:   noTranscribe,
		SaveTimestamps: saveTimestamps,
		ContentID:      contentID,
		Settings:       cfg.Captions,
		Transcribe:     cfg.Transcribe,
	}

	return worker.Run(ctx, opts)
}
