package caption

import (
	"fmt"
	"math"
	"strings"
)

// Readability thresholds for finished caption tracks.
const (
	qualityMinAvgDuration = 1.5
	qualityMaxAvgDuration = 3.5
	qualityMinAvgWords    = 3.0
	qualityMaxAvgWords    = 7.0
	qualityShortCue       = 0.8
	qualityLongCue        = 5.0
	qualityMaxFraction    = 0.10
)

// QualityLevel buckets a quality score.
type QualityLevel string

const (
	QualityExcellent QualityLevel = "excellent"
	QualityGood      QualityLevel = "good"
	QualityFair      QualityLevel = "fair"
	QualityPoor      QualityLevel = "poor"
)

// QualityReport scores a finished track for readability and sync quality.
type QualityReport struct {
	Score  int
	Level  QualityLevel
	Issues []string

	AvgCueDuration   float64
	AvgWordsPerCue   float64
	ShortCueFraction float64
	LongCueFraction  float64
	CoverageGap      float64
}

// ScoreTrack runs four independent 25-point checks against a track: average
// cue duration within [1.5, 3.5]s, average words per cue within [3, 7], and
// under 10% of cues each shorter than 0.8s or longer than 5.0s. The coverage
// gap against the true audio duration is reported but not scored; pass
// audioDuration <= 0 when it is unknown. Read-only: the track is never
// modified.
func ScoreTrack(track Track, audioDuration float64) QualityReport {
	if len(track.Cues) == 0 {
		return QualityReport{
			Score:  0,
			Level:  QualityPoor,
			Issues: []string{"track has no cues"},
		}
	}

	totalDuration := 0.0
	totalWords := 0
	shortCues := 0
	longCues := 0

	for _, cue := range track.Cues {
		d := cue.End - cue.Start
		totalDuration += d
		totalWords += len(strings.Fields(cue.Text))
		if d < qualityShortCue {
			shortCues++
		}
		if d > qualityLongCue {
			longCues++
		}
	}

	n := float64(len(track.Cues))
	report := QualityReport{
		AvgCueDuration:   totalDuration / n,
		AvgWordsPerCue:   float64(totalWords) / n,
		ShortCueFraction: float64(shortCues) / n,
		LongCueFraction:  float64(longCues) / n,
	}
	if audioDuration > 0 {
		report.CoverageGap = math.Abs(track.Duration() - audioDuration)
	}

	if report.AvgCueDuration >= qualityMinAvgDuration && report.AvgCueDuration <= qualityMaxAvgDuration {
		report.Score += 25
	} else {
		report.Issues = append(report.Issues, fmt.Sprintf(
			"average cue duration %.2fs outside [%.1f, %.1f]s",
			report.AvgCueDuration, qualityMinAvgDuration, qualityMaxAvgDuration))
	}

	if report.AvgWordsPerCue >= qualityMinAvgWords && report.AvgWordsPerCue <= qualityMaxAvgWords {
		report.Score += 25
	} else {
		report.Issues = append(report.Issues, fmt.Sprintf(
			"average words per cue %.1f outside [%.0f, %.0f]",
			report.AvgWordsPerCue, qualityMinAvgWords, qualityMaxAvgWords))
	}

	if report.ShortCueFraction < qualityMaxFraction {
		report.Score += 25
	} else {
		report.Issues = append(report.Issues, fmt.Sprintf(
			"%.0f%% of cues shorter than %.1fs",
			report.ShortCueFraction*100, qualityShortCue))
	}

	if report.LongCueFraction < qualityMaxFraction {
		report.Score += 25
	} else {
		report.Issues = append(report.Issues, fmt.Sprintf(
			"%.0f%% of cues longer than %.1fs",
			report.LongCueFraction*100, qualityLongCue))
	}

	switch {
	case report.Score >= 75:
		report.Level = QualityExcellent
	case report.Score >= 50:
		report.Level = QualityGood
	case report.Score >= 25:
		report.Level = QualityFair
	default:
		report.Level = QualityPoor
	}

	return report
}
