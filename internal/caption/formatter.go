package caption

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxLinesPerCue is the display limit for one subtitle block.
const maxLinesPerCue = 2

// FormatSRT serializes a track to SubRip text: a 1-based index, a
// millisecond-precision timestamp line, up to two lines of text, and a blank
// separator per cue. Cue text exceeding the per-line budget is re-wrapped
// with the same greedy word-packing used during segmentation; words that
// still overflow two lines are dropped whole and reported as warnings rather
// than failing the cue. The function performs no I/O and the same track
// always serializes to byte-identical output.
func FormatSRT(track Track, maxCharsPerLine int) (string, []Warning) {
	var sb strings.Builder
	var warnings []Warning

	for i, cue := range track.Cues {
		text := strings.TrimSpace(cue.Text)
		lines := []string{text}
		if utf8.RuneCountInString(text) > maxCharsPerLine {
			lines = packWords(strings.Fields(text), maxCharsPerLine)
		}

		if len(lines) > maxLinesPerCue {
			dropped := strings.Join(lines[maxLinesPerCue:], " ")
			lines = lines[:maxLinesPerCue]
			warnings = append(warnings, Warning{
				CueIndex: i + 1,
				Message:  fmt.Sprintf("line overflow: dropped %q", dropped),
			})
		}

		fmt.Fprintf(&sb, "%d\n%s --> %s\n%s\n\n",
			i+1,
			formatTimestamp(cue.Start),
			formatTimestamp(cue.End),
			strings.Join(lines, "\n"))
	}

	return sb.String(), warnings
}

// formatTimestamp converts seconds to the SubRip time format HH:MM:SS,mmm.
func formatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	millis := int64(seconds*1000 + 0.5)

	h := millis / 3_600_000
	millis %= 3_600_000
	m := millis / 60_000
	millis %= 60_000
	s := millis / 1000
	millis %= 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, millis)
}
