package transcribe

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/delimatsuo/lifestylevideos-short-factory-sub001/internal/caption"
)

// LoadTimestampFile reads a JSON array of {word, start, end} objects, the
// same shape the transcription service returns. Useful for replaying saved
// transcripts without hitting the API.
func LoadTimestampFile(path string) ([]caption.WordTimestamp, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read timestamps: %w", err)
	}

	var stamps []caption.WordTimestamp
	if err := json.Unmarshal(data, &stamps); err != nil {
		return nil, fmt.Errorf("parse timestamps %s: %w", path, err)
	}
	return stamps, nil
}

// MarshalTimestamps renders word timestamps in the same JSON shape
// LoadTimestampFile reads.
func MarshalTimestamps(stamps []caption.WordTimestamp) ([]byte, error) {
	return json.MarshalIndent(stamps, "", "    ")
}
