// Package transcription is the client for the speech-to-text service. The
// service is a black box: audio in, text and a confidence out. Failures are
// reported as a status string on the result, not as errors, so a single bad
// recording never aborts a batch.
package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Statuses recorded on a transcription result.
const (
	StatusSuccess          = "success"
	StatusNoSpeechDetected = "no_speech_detected"
	StatusDownloadFailed   = "download_failed"
)

// Result is the outcome of transcribing one recording.
type Result struct {
	Text       string  `json:"transcription"`
	Confidence float64 `json:"confidence"`
	Status     string  `json:"status"`
}

// Client talks to the speech-to-text service.
type Client struct {
	baseURL    string
	language   string
	httpClient *http.Client
}

// NewClient creates a transcription client for the given recognition
// language (es-CO in production).
func NewClient(baseURL, language string) *Client {
	return &Client{
		baseURL:  baseURL,
		language: language,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// Transcribe sends audio to the service. Any failure comes back as a
// Result with empty text, zero confidence, and the failure reason in
// Status.
func (c *Client) Transcribe(ctx context.Context, audio []byte) Result {
	if len(audio) == 0 {
		return Result{Status: StatusNoSpeechDetected}
	}

	endpoint := fmt.Sprintf("%s/v1/recognize?language=%s", c.baseURL, c.language)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(audio))
	if err != nil {
		return Result{Status: fmt.Sprintf("error: %v", err)}
	}
	req.Header.Set("Content-Type", "audio/mpeg")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{Status: fmt.Sprintf("error: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Result{Status: fmt.Sprintf("error: status %d: %s", resp.StatusCode, string(body))}
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{Status: fmt.Sprintf("error: %v", err)}
	}

	if result.Status == "" {
		if result.Text == "" {
			result.Status = StatusNoSpeechDetected
		} else {
			result.Status = StatusSuccess
		}
	}
	return result
}
