package caption

// Segment is a caption-sized slice of narration text.
type Segment struct {
	Text      string
	CharCount int
	WordCount int
}

// WordTimestamp is one spoken word with its timing, as reported by the
// transcription service. Entries are ordered and Start <= End.
type WordTimestamp struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Cue is one timed subtitle entry.
type Cue struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// Track is the ordered, non-overlapping cue sequence covering one narration.
// A Track is built once per (narration, audio) pair and never mutated after
// construction.
type Track struct {
	Cues []Cue
}

// Duration returns the end time of the last cue, or 0 for an empty track.
func (t Track) Duration() float64 {
	if len(t.Cues) == 0 {
		return 0
	}
	return t.Cues[len(t.Cues)-1].End
}

// TimingAllocator assigns timing to a narration and produces a caption
// track. The two implementations cover the two data-availability cases:
// HeuristicAllocator when only the total audio duration is known, and
// ForcedAlignmentAllocator when per-word timestamps are available.
type TimingAllocator interface {
	Allocate(narration string) (Track, error)
}

// Compile-time interface implementation checks.
var (
	_ TimingAllocator = HeuristicAllocator{}
	_ TimingAllocator = ForcedAlignmentAllocator{}
)
