package repository

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/valentinaclaros/evaluation-system/internal/models"
)

type FeedbackRepository interface {
	CreateFeedback(feedback *models.Feedback) error
	GetFeedbackByID(id int64) (*models.Feedback, error)
	GetFeedbacks(skip, limit int, agentID *int64) ([]*models.Feedback, error)
	UpdateFeedback(feedback *models.Feedback) error
	SaveAnalysis(id int64, start, end time.Time, errorsBefore, errorsAfter int, improvement float64) error
	CountFeedbacks() (int, error)
	CountAgentsWithImprovement() (int, error)
}

type feedbackRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewFeedbackRepository(db *sqlx.DB, logger *zap.Logger) FeedbackRepository {
	return &feedbackRepository{db: db, logger: logger}
}

const feedbackColumns = `id, agent_id, feedback_date, title, description, action_plan,
	analysis_start_date, analysis_end_date, errors_before, errors_after, improvement_percentage,
	created_at, updated_at`

func (r *feedbackRepository) CreateFeedback(feedback *models.Feedback) error {
	query := `INSERT INTO feedbacks (agent_id, feedback_date, title, description, action_plan)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING ` + feedbackColumns
	return r.db.QueryRowx(query,
		feedback.AgentID, feedback.FeedbackDate, feedback.Title, feedback.Description, feedback.ActionPlan,
	).StructScan(feedback)
}

func (r *feedbackRepository) GetFeedbackByID(id int64) (*models.Feedback, error) {
	var feedback models.Feedback
	query := `SELECT ` + feedbackColumns + ` FROM feedbacks WHERE id = $1`
	err := r.db.Get(&feedback, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &feedback, nil
}

func (r *feedbackRepository) GetFeedbacks(skip, limit int, agentID *int64) ([]*models.Feedback, error) {
	feedbacks := []*models.Feedback{}
	query := `SELECT ` + feedbackColumns + ` FROM feedbacks`
	args := []interface{}{}
	if agentID != nil {
		args = append(args, *agentID)
		query += ` WHERE agent_id = $1`
	}
	args = append(args, skip)
	query += ` ORDER BY feedback_date DESC OFFSET $` + strconv.Itoa(len(args))
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	if err := r.db.Select(&feedbacks, query, args...); err != nil {
		return nil, err
	}
	return feedbacks, nil
}

// UpdateFeedback overwrites the editable fields; the impact-analysis columns
// are only touched by SaveAnalysis. Last write wins.
func (r *feedbackRepository) UpdateFeedback(feedback *models.Feedback) error {
	query := `UPDATE feedbacks
	          SET title = $1, description = $2, action_plan = $3,
	              analysis_start_date = $4, analysis_end_date = $5, updated_at = NOW()
	          WHERE id = $6
	          RETURNING ` + feedbackColumns
	return r.db.QueryRowx(query,
		feedback.Title, feedback.Description, feedback.ActionPlan,
		feedback.AnalysisStartDate, feedback.AnalysisEndDate, feedback.ID,
	).StructScan(feedback)
}

// SaveAnalysis persists the outcome of an impact analysis, overwriting any
// prior analysis on the feedback.
func (r *feedbackRepository) SaveAnalysis(id int64, start, end time.Time, errorsBefore, errorsAfter int, improvement float64) error {
	query := `UPDATE feedbacks
	          SET analysis_start_date = $1, analysis_end_date = $2,
	              errors_before = $3, errors_after = $4, improvement_percentage = $5, updated_at = NOW()
	          WHERE id = $6`
	_, err := r.db.Exec(query, start, end, errorsBefore, errorsAfter, improvement, id)
	return err
}

func (r *feedbackRepository) CountFeedbacks() (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM feedbacks`)
	return count, err
}

func (r *feedbackRepository) CountAgentsWithImprovement() (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(DISTINCT agent_id) FROM feedbacks WHERE improvement_percentage > 0`)
	return count, err
}
