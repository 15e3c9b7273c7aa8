package transcription

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("language"); got != "es-CO" {
			t.Errorf("language = %q, want es-CO", got)
		}
		w.Write([]byte(`{"transcription": "buenos días", "confidence": 0.93}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "es-CO")
	result := c.Transcribe(context.Background(), []byte("audio"))

	if result.Status != StatusSuccess {
		t.Errorf("Status = %q, want %q", result.Status, StatusSuccess)
	}
	if result.Text != "buenos días" || result.Confidence != 0.93 {
		t.Errorf("result = %+v", result)
	}
}

func TestTranscribeEmptyAudio(t *testing.T) {
	c := NewClient("http://localhost:1", "es-CO")
	result := c.Transcribe(context.Background(), nil)
	if result.Status != StatusNoSpeechDetected {
		t.Errorf("Status = %q, want %q", result.Status, StatusNoSpeechDetected)
	}
}

func TestTranscribeEmptyTextMeansNoSpeech(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"transcription": "", "confidence": 0}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "es-CO")
	result := c.Transcribe(context.Background(), []byte("audio"))
	if result.Status != StatusNoSpeechDetected {
		t.Errorf("Status = %q, want %q", result.Status, StatusNoSpeechDetected)
	}
}

func TestTranscribeServerErrorBecomesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "es-CO")
	result := c.Transcribe(context.Background(), []byte("audio"))
	if !strings.HasPrefix(result.Status, "error:") {
		t.Errorf("Status = %q, want error status", result.Status)
	}
	if result.Text != "" {
		t.Errorf("Text = %q, want empty on failure", result.Text)
	}
}
