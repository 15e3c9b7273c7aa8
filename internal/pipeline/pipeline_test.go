package pipeline

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/valentinaclaros/evaluation-system/internal/models"
	"github.com/valentinaclaros/evaluation-system/internal/rubric"
	"github.com/valentinaclaros/evaluation-system/internal/telephony"
	"github.com/valentinaclaros/evaluation-system/internal/transcription"
)

type fakeSource struct {
	calls       []telephony.Call
	recordings  map[string][]telephony.Recording
	audio       map[string][]byte
	downloadErr map[string]error
}

func (f *fakeSource) ListCalls(ctx context.Context, since, until time.Time, limit int) ([]telephony.Call, error) {
	return f.calls, nil
}

func (f *fakeSource) ListRecordings(ctx context.Context, callSID string) ([]telephony.Recording, error) {
	return f.recordings[callSID], nil
}

func (f *fakeSource) DownloadRecording(ctx context.Context, rec telephony.Recording) ([]byte, error) {
	if err := f.downloadErr[rec.SID]; err != nil {
		return nil, err
	}
	return f.audio[rec.SID], nil
}

type fakeTranscriber struct {
	texts map[string]string
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audio []byte) transcription.Result {
	text, ok := f.texts[string(audio)]
	if !ok || text == "" {
		return transcription.Result{Status: transcription.StatusNoSpeechDetected}
	}
	return transcription.Result{Text: text, Confidence: 0.9, Status: transcription.StatusSuccess}
}

type fakeStore struct {
	calls       map[string]models.Call
	transcripts map[string]models.Transcript
	results     []models.AuditResult
	saveErrFor  string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		calls:       map[string]models.Call{},
		transcripts: map[string]models.Transcript{},
	}
}

func (f *fakeStore) SaveCall(call *models.Call) error {
	f.calls[call.CallSID] = *call
	return nil
}

func (f *fakeStore) HasTranscript(recordingSID string) (bool, error) {
	_, ok := f.transcripts[recordingSID]
	return ok, nil
}

func (f *fakeStore) SaveTranscript(t *models.Transcript) error {
	f.transcripts[t.RecordingSID] = *t
	return nil
}

func (f *fakeStore) TranscriptsSince(since time.Time) ([]models.Transcript, error) {
	out := []models.Transcript{}
	for _, t := range f.transcripts {
		if t.Status != transcription.StatusSuccess || t.Text == "" {
			continue
		}
		call := f.calls[t.CallSID]
		t.FromNumber = call.FromNumber
		t.ToNumber = call.ToNumber
		t.StartTime = call.StartTime
		t.DurationSeconds = call.DurationSeconds
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeStore) AppendAuditResult(res *models.AuditResult) error {
	if res.CallSID == f.saveErrFor {
		return errors.New("insert failed")
	}
	f.results = append(f.results, *res)
	return nil
}

type fixedScorer struct{ polarity float64 }

func (s fixedScorer) Score(ctx context.Context, text string) float64 { return s.polarity }

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testPipeline(source *fakeSource, store *fakeStore, polarity float64) *Pipeline {
	texts := map[string]string{
		"good-audio": "buenos días, mi nombre es Ana, en qué puedo ayudarte. hasta luego",
		"bad-audio":  "no puedo hacer nada, no sé",
	}
	return New(
		source,
		&fakeTranscriber{texts: texts},
		store,
		rubric.NewEvaluator(rubric.DefaultRuleset()),
		fixedScorer{polarity: polarity},
		Options{LookbackDays: 7, MinRecordingSeconds: 10, BatchLimit: 50, Workers: 3},
		testLogger(),
	)
}

func TestRun(t *testing.T) {
	now := time.Now()
	source := &fakeSource{
		calls: []telephony.Call{
			{SID: "CA1", From: "+573001112233", Direction: "inbound", StartTime: now, DurationSeconds: 300},
			{SID: "CA2", From: "+573004445566", Direction: "inbound", StartTime: now, DurationSeconds: 200},
		},
		recordings: map[string][]telephony.Recording{
			"CA1": {{SID: "RE1", CallSID: "CA1", DurationSeconds: 300}},
			"CA2": {{SID: "RE2", CallSID: "CA2", DurationSeconds: 200}},
		},
		audio: map[string][]byte{
			"RE1": []byte("good-audio"),
			"RE2": []byte("bad-audio"),
		},
	}
	store := newFakeStore()

	summary, err := testPipeline(source, store, 0.5).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.CallsExtracted != 2 {
		t.Errorf("CallsExtracted = %d, want 2", summary.CallsExtracted)
	}
	if summary.Transcribed != 2 {
		t.Errorf("Transcribed = %d, want 2", summary.Transcribed)
	}
	if summary.Audited != 2 {
		t.Errorf("Audited = %d, want 2", summary.Audited)
	}
	if summary.RunID == "" {
		t.Error("RunID is empty")
	}

	for _, res := range store.results {
		if res.RunID != summary.RunID {
			t.Errorf("result %s has run_id %q, want %q", res.CallSID, res.RunID, summary.RunID)
		}
		if res.AuditedAt.IsZero() {
			t.Errorf("result %s has zero audited_at", res.CallSID)
		}
	}

	byCall := map[string]models.AuditResult{}
	for _, res := range store.results {
		byCall[res.CallSID] = res
	}

	clean := byCall["CA1"]
	if !clean.HasGreeting || !clean.HasIdentification || !clean.HasHelpOffer || !clean.HasFarewell {
		t.Errorf("CA1 protocol flags = %+v", clean)
	}
	if clean.NeedsManualReview {
		t.Error("CA1 flagged for review")
	}

	dirty := byCall["CA2"]
	if dirty.ForbiddenWordsCount != 2 {
		t.Errorf("CA2 ForbiddenWordsCount = %d, want 2", dirty.ForbiddenWordsCount)
	}
	if !dirty.NeedsManualReview {
		t.Error("CA2 not flagged for review")
	}
	if summary.FlaggedForReview != 1 {
		t.Errorf("FlaggedForReview = %d, want 1", summary.FlaggedForReview)
	}
}

func TestRunSkipsShortRecordings(t *testing.T) {
	source := &fakeSource{
		calls: []telephony.Call{{SID: "CA1", Direction: "inbound", StartTime: time.Now()}},
		recordings: map[string][]telephony.Recording{
			"CA1": {{SID: "RE1", CallSID: "CA1", DurationSeconds: 5}},
		},
	}
	store := newFakeStore()

	summary, err := testPipeline(source, store, 0).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Transcribed != 0 {
		t.Errorf("Transcribed = %d, want 0", summary.Transcribed)
	}
	if len(store.transcripts) != 0 {
		t.Errorf("stored %d transcripts, want 0", len(store.transcripts))
	}
}

func TestRunSkipsAlreadyTranscribed(t *testing.T) {
	source := &fakeSource{
		calls: []telephony.Call{{SID: "CA1", Direction: "inbound", StartTime: time.Now(), DurationSeconds: 300}},
		recordings: map[string][]telephony.Recording{
			"CA1": {{SID: "RE1", CallSID: "CA1", DurationSeconds: 300}},
		},
		audio: map[string][]byte{"RE1": []byte("good-audio")},
	}
	store := newFakeStore()
	store.transcripts["RE1"] = models.Transcript{
		RecordingSID: "RE1",
		CallSID:      "CA1",
		Text:         "transcripción previa hasta luego",
		Status:       transcription.StatusSuccess,
	}

	summary, err := testPipeline(source, store, 0).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Transcribed != 0 {
		t.Errorf("Transcribed = %d, want 0; the existing transcript must not be redone", summary.Transcribed)
	}
	if summary.Audited != 1 {
		t.Errorf("Audited = %d, want 1", summary.Audited)
	}
}

func TestRunRecordsDownloadFailure(t *testing.T) {
	source := &fakeSource{
		calls: []telephony.Call{{SID: "CA1", Direction: "inbound", StartTime: time.Now(), DurationSeconds: 300}},
		recordings: map[string][]telephony.Recording{
			"CA1": {{SID: "RE1", CallSID: "CA1", DurationSeconds: 300}},
		},
		downloadErr: map[string]error{"RE1": errors.New("media gone")},
	}
	store := newFakeStore()

	summary, err := testPipeline(source, store, 0).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.TranscriptionFailures != 1 {
		t.Errorf("TranscriptionFailures = %d, want 1", summary.TranscriptionFailures)
	}
	saved, ok := store.transcripts["RE1"]
	if !ok {
		t.Fatal("failed download did not produce a transcript row")
	}
	if saved.Status != transcription.StatusDownloadFailed {
		t.Errorf("Status = %q, want %q", saved.Status, transcription.StatusDownloadFailed)
	}
	if summary.Audited != 0 {
		t.Errorf("Audited = %d, want 0", summary.Audited)
	}
}

func TestRunOneBadRowDoesNotAbort(t *testing.T) {
	now := time.Now()
	source := &fakeSource{
		calls: []telephony.Call{
			{SID: "CA1", Direction: "inbound", StartTime: now, DurationSeconds: 300},
			{SID: "CA2", Direction: "inbound", StartTime: now, DurationSeconds: 300},
		},
		recordings: map[string][]telephony.Recording{
			"CA1": {{SID: "RE1", CallSID: "CA1", DurationSeconds: 300}},
			"CA2": {{SID: "RE2", CallSID: "CA2", DurationSeconds: 300}},
		},
		audio: map[string][]byte{
			"RE1": []byte("good-audio"),
			"RE2": []byte("good-audio"),
		},
	}
	store := newFakeStore()
	store.saveErrFor = "CA1"

	summary, err := testPipeline(source, store, 0.5).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Audited != 1 {
		t.Errorf("Audited = %d, want 1", summary.Audited)
	}
	if len(store.results) != 1 || store.results[0].CallSID != "CA2" {
		t.Errorf("results = %+v, want only CA2", store.results)
	}
}
