package models

import (
	"time"

	"github.com/lib/pq"
)

// Call is a call fetched from the telephony provider and stored in the
// 'calls' table.
type Call struct {
	CallSID         string    `db:"call_sid"`
	FromNumber      string    `db:"from_number"`
	ToNumber        string    `db:"to_number"`
	Direction       string    `db:"direction"` // inbound or outbound
	Status          string    `db:"status"`
	StartTime       time.Time `db:"start_time"`
	DurationSeconds int       `db:"duration_seconds"`
}

// Recording is a call recording reported by the provider.
type Recording struct {
	RecordingSID    string
	CallSID         string
	DurationSeconds int
	Status          string
	MediaURL        string
}

// Transcript is the speech-to-text output for one recording, stored in the
// 'transcriptions' table. Status carries failure reasons ("download_failed",
// "no_speech_detected", "error: ...") so one bad recording never aborts a
// batch.
type Transcript struct {
	RecordingSID    string    `db:"recording_sid"`
	CallSID         string    `db:"call_sid"`
	Text            string    `db:"transcription"`
	Confidence      float64   `db:"confidence_score"`
	Status          string    `db:"transcription_status"`
	TranscribedAt   time.Time `db:"transcribed_at"`
	FromNumber      string    `db:"from_number"`
	ToNumber        string    `db:"to_number"`
	StartTime       time.Time `db:"start_time"`
	DurationSeconds int       `db:"duration_seconds"`
}

// AuditResult is one row of the append-only 'call_audit_results' table.
// Rows are never mutated; re-running a batch may append duplicates for the
// same call_sid.
type AuditResult struct {
	CallSID             string         `db:"call_sid" json:"call_sid"`
	FromNumber          string         `db:"from_number" json:"from_number"`
	ToNumber            string         `db:"to_number" json:"to_number"`
	StartTime           time.Time      `db:"start_time" json:"start_time"`
	DurationSeconds     int            `db:"duration_seconds" json:"duration_seconds"`
	HasGreeting         bool           `db:"has_greeting" json:"has_greeting"`
	HasIdentification   bool           `db:"has_identification" json:"has_identification"`
	HasHelpOffer        bool           `db:"has_help_offer" json:"has_help_offer"`
	HasFarewell         bool           `db:"has_farewell" json:"has_farewell"`
	ForbiddenWords      pq.StringArray `db:"forbidden_words" json:"forbidden_words"`
	ForbiddenWordsCount int            `db:"forbidden_words_count" json:"forbidden_words_count"`
	SentimentScore      float64        `db:"sentiment_score" json:"sentiment_score"`
	QualityScore        int            `db:"quality_score" json:"quality_score"`
	QualityCategory     string         `db:"quality_category" json:"quality_category"`
	NeedsManualReview   bool           `db:"needs_manual_review" json:"needs_manual_review"`
	AuditedAt           time.Time      `db:"audited_at" json:"audited_at"`
	RunID               string         `db:"run_id" json:"run_id"`
}
