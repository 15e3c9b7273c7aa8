// Package auditstore persists the batch pipeline's data: extracted calls,
// transcriptions, and the append-only audit results table. It is separate
// from the tracker's repository layer; the two subsystems share no runtime
// state.
package auditstore

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/sirupsen/logrus"

	"github.com/valentinaclaros/evaluation-system/internal/models"
)

// Store manages the pipeline's database operations.
type Store struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// NewStore connects to the pipeline database.
func NewStore(dataSourceName string, logger *logrus.Logger) (*Store, error) {
	db, err := sqlx.Connect("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveCall upserts one extracted call. Re-running an extraction window is
// harmless.
func (s *Store) SaveCall(call *models.Call) error {
	query := `INSERT INTO calls (call_sid, from_number, to_number, direction, status, start_time, duration_seconds)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (call_sid) DO NOTHING`
	_, err := s.db.Exec(query,
		call.CallSID, call.FromNumber, call.ToNumber, call.Direction, call.Status, call.StartTime, call.DurationSeconds)
	return err
}

// HasTranscript reports whether a recording was already transcribed.
func (s *Store) HasTranscript(recordingSID string) (bool, error) {
	var count int
	err := s.db.Get(&count, `SELECT COUNT(*) FROM transcriptions WHERE recording_sid = $1`, recordingSID)
	return count > 0, err
}

// SaveTranscript appends one transcription result, successful or not.
func (s *Store) SaveTranscript(t *models.Transcript) error {
	query := `INSERT INTO transcriptions (recording_sid, call_sid, transcription, confidence_score, transcription_status, transcribed_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.db.Exec(query, t.RecordingSID, t.CallSID, t.Text, t.Confidence, t.Status, t.TranscribedAt)
	return err
}

// TranscriptsSince returns every successful, non-empty transcript for
// inbound calls started after the cutoff, joined with the call metadata
// the scorer needs.
func (s *Store) TranscriptsSince(since time.Time) ([]models.Transcript, error) {
	transcripts := []models.Transcript{}
	query := `SELECT t.recording_sid, t.call_sid, t.transcription, t.confidence_score,
	                 t.transcription_status, t.transcribed_at,
	                 c.from_number, c.to_number, c.start_time, c.duration_seconds
	          FROM transcriptions t
	          INNER JOIN calls c ON c.call_sid = t.call_sid
	          WHERE t.transcription IS NOT NULL
	            AND t.transcription != ''
	            AND c.direction = 'inbound'
	            AND c.start_time >= $1`
	if err := s.db.Select(&transcripts, query, since); err != nil {
		return nil, err
	}
	return transcripts, nil
}

// AppendAuditResult appends one audit row. The table is append-only:
// re-runs may insert duplicate call_sids and nothing is ever updated.
func (s *Store) AppendAuditResult(res *models.AuditResult) error {
	query := `INSERT INTO call_audit_results
	          (call_sid, from_number, to_number, start_time, duration_seconds,
	           has_greeting, has_identification, has_help_offer, has_farewell,
	           forbidden_words, forbidden_words_count, sentiment_score,
	           quality_score, quality_category, needs_manual_review, audited_at, run_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := s.db.Exec(query,
		res.CallSID, res.FromNumber, res.ToNumber, res.StartTime, res.DurationSeconds,
		res.HasGreeting, res.HasIdentification, res.HasHelpOffer, res.HasFarewell,
		res.ForbiddenWords, res.ForbiddenWordsCount, res.SentimentScore,
		res.QualityScore, res.QualityCategory, res.NeedsManualReview, res.AuditedAt, res.RunID)
	return err
}

// AuditResultsSince returns the audit rows for calls started after the
// cutoff, newest first. The report exporter aggregates over these.
func (s *Store) AuditResultsSince(since time.Time) ([]models.AuditResult, error) {
	results := []models.AuditResult{}
	query := `SELECT call_sid, from_number, to_number, start_time, duration_seconds,
	                 has_greeting, has_identification, has_help_offer, has_farewell,
	                 forbidden_words, forbidden_words_count, sentiment_score,
	                 quality_score, quality_category, needs_manual_review, audited_at, run_id
	          FROM call_audit_results
	          WHERE start_time >= $1
	          ORDER BY start_time DESC`
	if err := s.db.Select(&results, query, since); err != nil {
		return nil, err
	}
	return results, nil
}
