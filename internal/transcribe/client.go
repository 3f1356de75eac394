package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/delimatsuo/lifestylevideos-short-factory-sub001/internal/caption"
)

const (
	defaultEndpoint = "https://api.elevenlabs.io/v1/speech-to-text"
	modelID         = "scribe_v1"
	uploadTimeout   = 10 * time.Minute
)

// Client talks to an ElevenLabs-style speech-to-text endpoint that returns
// word-level timestamps.
type Client struct {
	Endpoint   string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient builds a client for the given endpoint, reading the API key from
// the ELEVENLABS_API_KEY environment variable.
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Client{
		Endpoint:   endpoint,
		APIKey:     os.Getenv("ELEVENLABS_API_KEY"),
		HTTPClient: &http.Client{Timeout: uploadTimeout},
	}
}

// wordEntry is one token in the service response. Spacing and audio-event
// tokens carry no spoken word and are filtered out.
type wordEntry struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Type  string  `json:"type"`
}

// response is the top-level transcript JSON.
type response struct {
	LanguageCode string      `json:"language_code"`
	Text         string      `json:"text"`
	Words        []wordEntry `json:"words"`
}

// ProgressFunc is called with (bytesRead, totalBytes) during upload.
type ProgressFunc func(bytesRead, totalBytes int64)

// progressReader wraps an io.Reader and reports progress.
type progressReader struct {
	reader   io.Reader
	total    int64
	read     int64
	callback ProgressFunc
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	pr.read += int64(n)
	if pr.callback != nil {
		pr.callback(pr.read, pr.total)
	}
	return n, err
}

// mimeFromExt returns the MIME type for common audio/video extensions.
func mimeFromExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".mp3":
		return "audio/mp3"
	case ".m4a":
		return "audio/m4a"
	case ".wav":
		return "audio/wav"
	case ".flac":
		return "audio/flac"
	case ".ogg":
		return "audio/ogg"
	case ".aac":
		return "audio/aac"
	case ".mp4":
		return "video/mp4"
	case ".mov":
		return "video/mov"
	default:
		return "application/octet-stream"
	}
}

// WordTimestamps uploads an audio file and returns ordered per-word
// timestamps for the spoken narration. The caller controls cancellation and
// timeout through ctx; on failure the caller is expected to fall back to
// duration-based timing.
func (c *Client) WordTimestamps(ctx context.Context, filePath, languageCode string, progress ProgressFunc) ([]caption.WordTimestamp, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	fileSize := stat.Size()

	// Build multipart form body using a pipe.
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	errCh := make(chan error, 1)
	go func() {
		defer pw.Close()
		defer mw.Close()

		if err := mw.WriteField("model_id", modelID); err != nil {
			errCh <- err
			return
		}
		if languageCode != "" && strings.ToLower(languageCode) != "auto" {
			if err := mw.WriteField("language_code", languageCode); err != nil {
				errCh <- err
				return
			}
		}

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filepath.Base(filePath)))
		h.Set("Content-Type", mimeFromExt(filepath.Ext(filePath)))
		part, err := mw.CreatePart(h)
		if err != nil {
			errCh <- err
			return
		}

		if _, err := io.Copy(part, f); err != nil {
			errCh <- err
			return
		}

		errCh <- nil
	}()

	// Estimate total size: file size + ~1KB form overhead.
	body := &progressReader{
		reader:   pr,
		total:    fileSize + 1024,
		callback: progress,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set("xi-api-key", c.APIKey)
	}

	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: uploadTimeout}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if writeErr := <-errCh; writeErr != nil {
		return nil, fmt.Errorf("multipart write error: %w", writeErr)
	}

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var transcript response
	if err := json.NewDecoder(resp.Body).Decode(&transcript); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return toWordTimestamps(transcript.Words), nil
}

// toWordTimestamps keeps spoken-word tokens and converts them into the
// engine's timestamp type.
func toWordTimestamps(entries []wordEntry) []caption.WordTimestamp {
	var stamps []caption.WordTimestamp
	for _, e := range entries {
		if e.Type != "" && e.Type != "word" {
			continue
		}
		text := strings.TrimSpace(e.Text)
		if text == "" {
			continue
		}
		stamps = append(stamps, caption.WordTimestamp{
			Word:  text,
			Start: e.Start,
			End:   e.End,
		})
	}
	return stamps
}
