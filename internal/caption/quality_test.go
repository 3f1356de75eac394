package caption

import (
	"math"
	"strings"
	"testing"
)

func evenTrack(cues int, cueDuration float64, wordsPerCue int) Track {
	t := Track{}
	cursor := 0.0
	for i := 0; i < cues; i++ {
		t.Cues = append(t.Cues, Cue{
			Index: i + 1,
			Start: cursor,
			End:   cursor + cueDuration,
			Text:  strings.TrimSpace(strings.Repeat("word ", wordsPerCue)),
		})
		cursor += cueDuration + 0.05
	}
	return t
}

func TestScoreTrack_WellFormedTrack(t *testing.T) {
	// 5 cues of exactly 2.0s with 5 words each: all four checks pass.
	track := evenTrack(5, 2.0, 5)

	report := ScoreTrack(track, 0)
	if report.Score != 100 {
		t.Errorf("score = %d, want 100", report.Score)
	}
	if report.Level != QualityExcellent {
		t.Errorf("level = %s, want excellent", report.Level)
	}
	if len(report.Issues) != 0 {
		t.Errorf("unexpected issues: %v", report.Issues)
	}
	if report.AvgCueDuration != 2.0 {
		t.Errorf("avg duration = %.3f, want 2.0", report.AvgCueDuration)
	}
	if report.AvgWordsPerCue != 5.0 {
		t.Errorf("avg words = %.1f, want 5.0", report.AvgWordsPerCue)
	}
}

func TestScoreTrack_EmptyTrack(t *testing.T) {
	report := ScoreTrack(Track{}, 10)
	if report.Score != 0 || report.Level != QualityPoor {
		t.Errorf("empty track scored %d/%s, want 0/poor", report.Score, report.Level)
	}
	if len(report.Issues) == 0 {
		t.Error("expected an issue for an empty track")
	}
}

func TestScoreTrack_RapidFireCues(t *testing.T) {
	// Every cue is 0.5s with 1 word: duration, words, and short-cue checks
	// all fail; only the long-cue check passes.
	track := evenTrack(6, 0.5, 1)

	report := ScoreTrack(track, 0)
	if report.Score != 25 {
		t.Errorf("score = %d, want 25", report.Score)
	}
	if report.Level != QualityFair {
		t.Errorf("level = %s, want fair", report.Level)
	}
	if len(report.Issues) != 3 {
		t.Errorf("expected 3 issues, got %d: %v", len(report.Issues), report.Issues)
	}
	if report.ShortCueFraction != 1.0 {
		t.Errorf("short fraction = %.2f, want 1.0", report.ShortCueFraction)
	}
}

func TestScoreTrack_DraggingCues(t *testing.T) {
	// 6.0s cues fail the average-duration and long-cue checks.
	track := evenTrack(4, 6.0, 5)

	report := ScoreTrack(track, 0)
	if report.Score != 50 {
		t.Errorf("score = %d, want 50", report.Score)
	}
	if report.Level != QualityGood {
		t.Errorf("level = %s, want good", report.Level)
	}
	if report.LongCueFraction != 1.0 {
		t.Errorf("long fraction = %.2f, want 1.0", report.LongCueFraction)
	}
}

func TestScoreTrack_CoverageGap(t *testing.T) {
	track := evenTrack(3, 2.0, 5) // ends at 6.1

	report := ScoreTrack(track, 7.0)
	if math.Abs(report.CoverageGap-0.9) > 1e-9 {
		t.Errorf("coverage gap = %.3f, want 0.9", report.CoverageGap)
	}

	// Unknown duration reports no gap.
	report = ScoreTrack(track, 0)
	if report.CoverageGap != 0 {
		t.Errorf("coverage gap without audio duration = %.3f, want 0", report.CoverageGap)
	}
}

func TestScoreTrack_DoesNotMutateTrack(t *testing.T) {
	track := evenTrack(3, 2.0, 5)
	before := make([]Cue, len(track.Cues))
	copy(before, track.Cues)

	ScoreTrack(track, 10)

	for i := range before {
		if track.Cues[i] != before[i] {
			t.Fatalf("cue %d mutated: %+v -> %+v", i, before[i], track.Cues[i])
		}
	}
}
