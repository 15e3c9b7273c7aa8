package sentiment

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestScore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/sentiment" {
			t.Errorf("path = %q, want /v1/sentiment", r.URL.Path)
		}
		w.Write([]byte(`{"polarity": 0.75}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, quietLogger())
	if got := c.Score(context.Background(), "excelente servicio"); got != 0.75 {
		t.Errorf("Score() = %v, want 0.75", got)
	}
}

func TestScoreDefaultsToZero(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"ServerError", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"MalformedBody", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}},
		{"PolarityTooHigh", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"polarity": 3.2}`))
		}},
		{"PolarityTooLow", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"polarity": -1.5}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewClient(srv.URL, quietLogger())
			if got := c.Score(context.Background(), "algo"); got != 0.0 {
				t.Errorf("Score() = %v, want 0.0", got)
			}
		})
	}
}

func TestScoreEmptyText(t *testing.T) {
	c := NewClient("http://localhost:1", quietLogger())
	if got := c.Score(context.Background(), ""); got != 0.0 {
		t.Errorf("Score(\"\") = %v, want 0.0", got)
	}
}

func TestScoreUnreachableService(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", quietLogger())
	if got := c.Score(context.Background(), "algo"); got != 0.0 {
		t.Errorf("Score() with unreachable service = %v, want 0.0", got)
	}
}
