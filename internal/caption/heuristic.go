package caption

import (
	"fmt"
	"math"

	"github.com/delimatsuo/lifestylevideos-short-factory-sub001/internal/config"
)

// HeuristicAllocator assigns timing to segments using only the total audio
// duration. It is a pure function of its inputs: identical narration,
// duration, and settings always produce an identical track.
type HeuristicAllocator struct {
	Settings      config.Settings
	TotalDuration float64
}

// Allocate segments the narration and lays cues out sequentially from t=0.
// Each segment gets the larger of its proportional share of the total
// duration (by character count) and its estimated reading time, clamped to
// the configured duration bounds. Remaining slack at the end of the audio is
// appended to the last cue only.
func (a HeuristicAllocator) Allocate(narration string) (Track, error) {
	return a.allocate(SegmentText(narration, a.Settings.MaxCharsPerLine))
}

func (a HeuristicAllocator) allocate(segments []Segment) (Track, error) {
	if a.TotalDuration <= 0 {
		return Track{}, fmt.Errorf("total duration %.3fs: %w", a.TotalDuration, ErrInvalidDuration)
	}
	if len(segments) == 0 {
		return Track{}, fmt.Errorf("no segments to time: %w", ErrInvalidDuration)
	}

	totalChars := 0
	for _, seg := range segments {
		totalChars += seg.CharCount
	}

	wordsPerSecond := a.Settings.WordsPerMinute / 60.0
	cues := make([]Cue, 0, len(segments))
	cursor := 0.0

	for i, seg := range segments {
		proportional := a.TotalDuration * float64(seg.CharCount) / float64(totalChars)
		reading := float64(seg.WordCount) / wordsPerSecond

		duration := math.Max(proportional, reading)
		duration = math.Min(math.Max(duration, a.Settings.MinCueDuration), a.Settings.MaxCueDuration)

		start := cursor
		end := start + duration
		// Truncate at the audio end, but never below the cue's own start.
		if end > a.TotalDuration && a.TotalDuration > start {
			end = a.TotalDuration
		}

		cues = append(cues, Cue{Index: i + 1, Start: start, End: end, Text: seg.Text})
		cursor = end + a.Settings.CuePadding
	}

	// Any uncovered tail goes to the last cue; earlier cues keep their
	// computed timing.
	if last := &cues[len(cues)-1]; last.End < a.TotalDuration {
		last.End = a.TotalDuration
	}

	return Track{Cues: cues}, nil
}
