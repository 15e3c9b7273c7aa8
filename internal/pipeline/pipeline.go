// Package pipeline runs the batch call-audit job: extract calls and
// recordings from the telephony provider, transcribe them, score every
// transcript against the quality rubric, and append the results to the
// audit store. Rows are independent, so scoring fans out over a worker
// pool; a failure on one row is logged and the batch moves on.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/valentinaclaros/evaluation-system/internal/models"
	"github.com/valentinaclaros/evaluation-system/internal/rubric"
	"github.com/valentinaclaros/evaluation-system/internal/scoring"
	"github.com/valentinaclaros/evaluation-system/internal/sentiment"
	"github.com/valentinaclaros/evaluation-system/internal/telephony"
	"github.com/valentinaclaros/evaluation-system/internal/transcription"
)

// CallSource lists calls and recordings and fetches audio.
type CallSource interface {
	ListCalls(ctx context.Context, since, until time.Time, limit int) ([]telephony.Call, error)
	ListRecordings(ctx context.Context, callSID string) ([]telephony.Recording, error)
	DownloadRecording(ctx context.Context, rec telephony.Recording) ([]byte, error)
}

// Transcriber converts audio to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) transcription.Result
}

// Store is the persistence surface the pipeline needs.
type Store interface {
	SaveCall(call *models.Call) error
	HasTranscript(recordingSID string) (bool, error)
	SaveTranscript(t *models.Transcript) error
	TranscriptsSince(since time.Time) ([]models.Transcript, error)
	AppendAuditResult(res *models.AuditResult) error
}

// Options tune one pipeline run.
type Options struct {
	LookbackDays        int
	MinRecordingSeconds int
	BatchLimit          int
	Workers             int
}

// Summary reports what one run did.
type Summary struct {
	RunID                 string
	CallsExtracted        int
	Transcribed           int
	TranscriptionFailures int
	Audited               int
	FlaggedForReview      int
	LowQuality            []models.AuditResult
}

// Pipeline wires the stages together.
type Pipeline struct {
	source    CallSource
	stt       Transcriber
	store     Store
	evaluator *rubric.Evaluator
	scorer    sentiment.Scorer
	opts      Options
	logger    *logrus.Logger
}

// New creates a pipeline.
func New(source CallSource, stt Transcriber, store Store, evaluator *rubric.Evaluator, scorer sentiment.Scorer, opts Options, logger *logrus.Logger) *Pipeline {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.LookbackDays <= 0 {
		opts.LookbackDays = 30
	}
	if opts.BatchLimit <= 0 {
		opts.BatchLimit = 100
	}
	return &Pipeline{
		source:    source,
		stt:       stt,
		store:     store,
		evaluator: evaluator,
		scorer:    scorer,
		opts:      opts,
		logger:    logger,
	}
}

// Run executes one batch: extract, transcribe, audit.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	summary := Summary{RunID: uuid.New().String()}
	since := time.Now().AddDate(0, 0, -p.opts.LookbackDays)

	p.logger.WithField("run_id", summary.RunID).Info("Audit pipeline run started")

	if err := p.extract(ctx, since, &summary); err != nil {
		return summary, err
	}
	if err := p.audit(ctx, since, &summary); err != nil {
		return summary, err
	}

	p.logger.WithFields(logrus.Fields{
		"run_id":      summary.RunID,
		"extracted":   summary.CallsExtracted,
		"transcribed": summary.Transcribed,
		"audited":     summary.Audited,
		"flagged":     summary.FlaggedForReview,
	}).Info("Audit pipeline run finished")

	return summary, nil
}

// extract pulls calls from the provider, transcribes their pending
// recordings, and stores the transcripts. Every per-recording failure is
// converted into a transcript row with a status string.
func (p *Pipeline) extract(ctx context.Context, since time.Time, summary *Summary) error {
	calls, err := p.source.ListCalls(ctx, since, time.Now(), p.opts.BatchLimit)
	if err != nil {
		return err
	}

	for _, call := range calls {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err := p.store.SaveCall(&models.Call{
			CallSID:         call.SID,
			FromNumber:      call.From,
			ToNumber:        call.To,
			Direction:       call.Direction,
			Status:          call.Status,
			StartTime:       call.StartTime,
			DurationSeconds: call.DurationSeconds,
		}); err != nil {
			p.logger.WithError(err).WithField("call_sid", call.SID).Error("Failed to save call")
			continue
		}

		recordings, err := p.source.ListRecordings(ctx, call.SID)
		if err != nil {
			p.logger.WithError(err).WithField("call_sid", call.SID).Error("Failed to list recordings")
			continue
		}

		for _, rec := range recordings {
			if rec.DurationSeconds <= p.opts.MinRecordingSeconds {
				continue
			}
			done, err := p.store.HasTranscript(rec.SID)
			if err != nil {
				p.logger.WithError(err).WithField("recording_sid", rec.SID).Error("Failed to check transcript")
				continue
			}
			if done {
				continue
			}

			transcript := p.transcribeRecording(ctx, call, rec)
			if transcript.Status == transcription.StatusSuccess {
				summary.Transcribed++
			} else {
				summary.TranscriptionFailures++
			}
			if err := p.store.SaveTranscript(transcript); err != nil {
				p.logger.WithError(err).WithField("recording_sid", rec.SID).Error("Failed to save transcript")
			}
		}

		summary.CallsExtracted++
	}
	return nil
}

func (p *Pipeline) transcribeRecording(ctx context.Context, call telephony.Call, rec telephony.Recording) *models.Transcript {
	transcript := &models.Transcript{
		RecordingSID:  rec.SID,
		CallSID:       call.SID,
		TranscribedAt: time.Now(),
	}

	audio, err := p.source.DownloadRecording(ctx, rec)
	if err != nil {
		p.logger.WithError(err).WithField("recording_sid", rec.SID).Warn("Recording download failed")
		transcript.Status = transcription.StatusDownloadFailed
		return transcript
	}

	result := p.stt.Transcribe(ctx, audio)
	transcript.Text = result.Text
	transcript.Confidence = result.Confidence
	transcript.Status = result.Status
	return transcript
}

// audit scores every transcript in the window and appends the results.
// Evaluation fans out over the worker pool; appends happen on the main
// goroutine so the store sees a single writer.
func (p *Pipeline) audit(ctx context.Context, since time.Time, summary *Summary) error {
	transcripts, err := p.store.TranscriptsSince(since)
	if err != nil {
		return err
	}

	jobs := make(chan models.Transcript)
	results := make(chan models.AuditResult)

	var wg sync.WaitGroup
	for i := 0; i < p.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range jobs {
				results <- p.auditTranscript(ctx, t, summary.RunID)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, t := range transcripts {
			select {
			case jobs <- t:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for res := range results {
		if err := p.store.AppendAuditResult(&res); err != nil {
			p.logger.WithError(err).WithField("call_sid", res.CallSID).Error("Failed to append audit result")
			continue
		}
		summary.Audited++
		if res.NeedsManualReview {
			summary.FlaggedForReview++
		}
		if res.QualityScore < 40 || res.NeedsManualReview {
			summary.LowQuality = append(summary.LowQuality, res)
		}
	}

	return ctx.Err()
}

// auditTranscript evaluates one transcript: rubric checks, sentiment,
// quality score, classification.
func (p *Pipeline) auditTranscript(ctx context.Context, t models.Transcript, runID string) models.AuditResult {
	eval := p.evaluator.Evaluate(t.Text)
	polarity := p.scorer.Score(ctx, t.Text)

	score := scoring.QualityScore(scoring.Inputs{
		HasGreeting:       eval.HasGreeting,
		HasIdentification: eval.HasIdentification,
		HasHelpOffer:      eval.HasHelpOffer,
		HasFarewell:       eval.HasFarewell,
		ForbiddenCount:    len(eval.ForbiddenWords),
		Sentiment:         polarity,
		DurationSeconds:   t.DurationSeconds,
	})

	return models.AuditResult{
		CallSID:             t.CallSID,
		FromNumber:          t.FromNumber,
		ToNumber:            t.ToNumber,
		StartTime:           t.StartTime,
		DurationSeconds:     t.DurationSeconds,
		HasGreeting:         eval.HasGreeting,
		HasIdentification:   eval.HasIdentification,
		HasHelpOffer:        eval.HasHelpOffer,
		HasFarewell:         eval.HasFarewell,
		ForbiddenWords:      eval.ForbiddenWords,
		ForbiddenWordsCount: len(eval.ForbiddenWords),
		SentimentScore:      polarity,
		QualityScore:        score,
		QualityCategory:     scoring.Categorize(score),
		NeedsManualReview:   scoring.NeedsManualReview(score, len(eval.ForbiddenWords), polarity, t.DurationSeconds),
		AuditedAt:           time.Now(),
		RunID:               runID,
	}
}
