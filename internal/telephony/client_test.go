package telephony

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestListCalls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("direction"); got != "inbound" {
			t.Errorf("direction = %q, want inbound", got)
		}
		if _, _, ok := r.BasicAuth(); !ok {
			t.Error("request missing basic auth")
		}
		w.Write([]byte(`{"calls": [
			{"sid": "CA1", "from": "+573001112233", "direction": "inbound", "status": "completed", "start_time": "2025-07-01T09:30:00Z", "duration": 300}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "AC123", "token")
	calls, err := c.ListCalls(context.Background(), time.Now().AddDate(0, 0, -7), time.Now(), 100)
	if err != nil {
		t.Fatalf("ListCalls() error = %v", err)
	}
	if len(calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(calls))
	}
	if calls[0].SID != "CA1" || calls[0].DurationSeconds != 300 {
		t.Errorf("call = %+v", calls[0])
	}
}

func TestListRecordingsFiltersIncomplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"recordings": [
			{"sid": "RE1", "call_sid": "CA1", "duration": 300, "status": "completed"},
			{"sid": "RE2", "call_sid": "CA1", "duration": 120, "status": "processing"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "AC123", "token")
	recordings, err := c.ListRecordings(context.Background(), "CA1")
	if err != nil {
		t.Fatalf("ListRecordings() error = %v", err)
	}
	if len(recordings) != 1 || recordings[0].SID != "RE1" {
		t.Errorf("recordings = %+v, want only the completed one", recordings)
	}
}

func TestDownloadRecording(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, _ := r.BasicAuth()
		if user != "AC123" || pass != "token" {
			t.Errorf("basic auth = %s/%s", user, pass)
		}
		w.Write([]byte("audio-bytes"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "AC123", "token")
	audio, err := c.DownloadRecording(context.Background(), Recording{SID: "RE1", MediaURL: srv.URL + "/media/RE1"})
	if err != nil {
		t.Fatalf("DownloadRecording() error = %v", err)
	}
	if string(audio) != "audio-bytes" {
		t.Errorf("audio = %q", audio)
	}
}

func TestDownloadRecordingClientErrorIsNotRetried(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "AC123", "token")
	if _, err := c.DownloadRecording(context.Background(), Recording{SID: "RE1", MediaURL: srv.URL + "/media/RE1"}); err == nil {
		t.Fatal("DownloadRecording() did not return an error for 404")
	}
	if hits != 1 {
		t.Errorf("server hit %d times, want 1 (4xx is permanent)", hits)
	}
}
