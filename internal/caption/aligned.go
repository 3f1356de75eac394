package caption

import (
	"fmt"
	"math"
	"strings"

	"github.com/delimatsuo/lifestylevideos-short-factory-sub001/internal/config"
)

// fallbackGroupDuration caps a flushed group whose timestamps give it no
// usable extent.
const fallbackGroupDuration = 2.0

// ForcedAlignmentAllocator assigns timing to word groups using per-word
// timestamps from the transcription service. Script words and timestamps are
// consumed positionally up to the shorter length; no fuzzy re-alignment is
// performed. Use AlignmentDivergence to detect sequences that drifted apart.
type ForcedAlignmentAllocator struct {
	Settings   config.Settings
	Timestamps []WordTimestamp
}

// Allocate tokenizes the narration and accumulates words into groups,
// closing a group as soon as any trigger fires, in priority order: the group
// reached MaxWordsPerGroup, the group spans MaxGroupDuration, or the current
// word ends in a natural-break token and the group already has
// MinWordsPerGroup words. Leftover words are flushed as one final cue.
func (a ForcedAlignmentAllocator) Allocate(narration string) (Track, error) {
	if len(a.Timestamps) == 0 {
		return Track{}, fmt.Errorf("empty timestamp list: %w", ErrNoAlignmentData)
	}
	for i, ts := range a.Timestamps {
		if ts.Start > ts.End {
			return Track{}, fmt.Errorf("word %d %q: start %.3f after end %.3f: %w",
				i, ts.Word, ts.Start, ts.End, ErrNoAlignmentData)
		}
	}

	words := strings.Fields(narration)
	n := min(len(words), len(a.Timestamps))
	if n == 0 {
		return Track{}, fmt.Errorf("narration has no words: %w", ErrNoAlignmentData)
	}

	var cues []Cue
	var group []string
	groupStart := 0.0
	prevEnd := 0.0

	flush := func(end float64) {
		if end <= groupStart {
			end = groupStart + fallbackGroupDuration
		}
		cues = append(cues, Cue{
			Index: len(cues) + 1,
			Start: groupStart,
			End:   end,
			Text:  strings.Join(group, " "),
		})
		prevEnd = end
		group = nil
	}

	lastEnd := 0.0
	for i := 0; i < n; i++ {
		ts := a.Timestamps[i]
		if len(group) == 0 {
			// Keep the track non-overlapping even if the service reports
			// a word starting before the previous one ended.
			groupStart = math.Max(ts.Start, prevEnd)
		}
		group = append(group, words[i])
		lastEnd = ts.End

		switch {
		case len(group) >= a.Settings.MaxWordsPerGroup:
			flush(ts.End)
		case ts.End-groupStart >= a.Settings.MaxGroupDuration:
			flush(ts.End)
		case endsWithNaturalBreak(words[i]) && len(group) >= a.Settings.MinWordsPerGroup:
			flush(ts.End)
		}
	}

	if len(group) > 0 {
		flush(lastEnd)
	}

	return Track{Cues: cues}, nil
}

// endsWithNaturalBreak reports whether a word ends in terminal or clause
// punctuation, the preferred caption-boundary signal.
func endsWithNaturalBreak(word string) bool {
	if strings.HasSuffix(word, "--") {
		return true
	}
	switch {
	case strings.HasSuffix(word, "."),
		strings.HasSuffix(word, "!"),
		strings.HasSuffix(word, "?"),
		strings.HasSuffix(word, ","),
		strings.HasSuffix(word, ";"),
		strings.HasSuffix(word, ":"):
		return true
	}
	return false
}

// AlignmentDivergence returns the relative difference between the script
// word count and the timestamp count, in [0, 1]. Positional matching
// silently degrades as the two sequences drift apart; callers can warn past
// a threshold.
func AlignmentDivergence(narration string, timestamps []WordTimestamp) float64 {
	scriptWords := len(strings.Fields(narration))
	spokenWords := len(timestamps)
	longer := max(scriptWords, spokenWords)
	if longer == 0 {
		return 0
	}
	return math.Abs(float64(scriptWords-spokenWords)) / float64(longer)
}
