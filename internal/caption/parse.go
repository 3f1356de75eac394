package caption

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSRT reads SubRip text back into a track, for scoring existing
// subtitle files. It tolerates missing index lines and period-separated
// milliseconds but requires a timestamp line per block.
func ParseSRT(content string) (Track, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	blocks := strings.Split(strings.TrimSpace(content), "\n\n")

	var cues []Cue
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		lines := strings.Split(block, "\n")
		timeLine := -1
		for i, line := range lines {
			if strings.Contains(line, "-->") {
				timeLine = i
				break
			}
		}
		if timeLine < 0 {
			return Track{}, fmt.Errorf("block %d: no timestamp line", len(cues)+1)
		}

		parts := strings.Split(lines[timeLine], "-->")
		if len(parts) != 2 {
			return Track{}, fmt.Errorf("block %d: malformed timestamp line %q", len(cues)+1, lines[timeLine])
		}
		start, err := parseTimestamp(parts[0])
		if err != nil {
			return Track{}, fmt.Errorf("block %d: %w", len(cues)+1, err)
		}
		end, err := parseTimestamp(parts[1])
		if err != nil {
			return Track{}, fmt.Errorf("block %d: %w", len(cues)+1, err)
		}

		text := strings.TrimSpace(strings.Join(lines[timeLine+1:], "\n"))
		cues = append(cues, Cue{
			Index: len(cues) + 1,
			Start: start,
			End:   end,
			Text:  text,
		})
	}

	return Track{Cues: cues}, nil
}

// parseTimestamp converts HH:MM:SS,mmm (or HH:MM:SS.mmm) to seconds.
func parseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")

	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}

	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}

	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}
