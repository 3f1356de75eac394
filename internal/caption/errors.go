package caption

import "errors"

// Structural errors abort caption generation for the item; no error path
// ever returns a partial track. Line overflow during formatting is not an
// error: it degrades by dropping text and is reported as a Warning value.
var (
	// ErrEmptyInput means the narration contained no usable text after
	// cleaning.
	ErrEmptyInput = errors.New("empty narration input")

	// ErrInvalidDuration means the heuristic path was given a non-positive
	// audio duration or nothing to time.
	ErrInvalidDuration = errors.New("invalid audio duration")

	// ErrNoAlignmentData means the forced-alignment path was given no usable
	// word timestamps. Callers are expected to fall back to the heuristic
	// allocator.
	ErrNoAlignmentData = errors.New("no word alignment data")
)

// Warning is a non-fatal formatting issue. Warnings never abort caption
// generation; callers log them.
type Warning struct {
	CueIndex int
	Message  string
}
