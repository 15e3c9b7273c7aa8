package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/valentinaclaros/evaluation-system/internal/models"
)

// AuditFilter narrows the audit listing. Nil/empty fields are ignored.
type AuditFilter struct {
	AgentID     *int64
	AuditorID   *int64
	StartDate   *time.Time
	EndDate     *time.Time
	Criticality string
	Skip        int
	Limit       int
}

type CallAuditRepository interface {
	CreateAudit(audit *models.CallAudit) error
	GetAuditByID(id int64) (*models.CallAudit, error)
	GetAudits(filter AuditFilter) ([]*models.CallAudit, error)
	GetAuditsByAgent(agentID int64, startDate, endDate *time.Time) ([]*models.CallAudit, error)
	CountErrorsBefore(agentID int64, windowStart, feedbackDate time.Time) (int, error)
	CountErrorsAfter(agentID int64, feedbackDate, windowEnd time.Time) (int, error)
	CountAudits() (int, error)
	CountErrorAudits() (int, error)
	CountByCriticality(level string) (int, error)
	CountByTNPS(score string) (int, error)
	CountRatedTNPS() (int, error)
}

type callAuditRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewCallAuditRepository(db *sqlx.DB, logger *zap.Logger) CallAuditRepository {
	return &callAuditRepository{db: db, logger: logger}
}

const auditColumns = `id, call_date, audit_date, customer_id, call_type, agent_id, auditor_id,
	error_type, error_description, criticality_level, tnps_score, notes, created_at`

func (r *callAuditRepository) CreateAudit(audit *models.CallAudit) error {
	query := `INSERT INTO call_audits
	          (call_date, customer_id, call_type, agent_id, auditor_id, error_type, error_description, criticality_level, tnps_score, notes)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING ` + auditColumns
	return r.db.QueryRowx(query,
		audit.CallDate, audit.CustomerID, audit.CallType, audit.AgentID, audit.AuditorID,
		audit.ErrorType, audit.ErrorDescription, audit.CriticalityLevel, audit.TNPSScore, audit.Notes,
	).StructScan(audit)
}

func (r *callAuditRepository) GetAuditByID(id int64) (*models.CallAudit, error) {
	var audit models.CallAudit
	query := `SELECT ` + auditColumns + ` FROM call_audits WHERE id = $1`
	err := r.db.Get(&audit, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &audit, nil
}

func (r *callAuditRepository) GetAudits(filter AuditFilter) ([]*models.CallAudit, error) {
	query := `SELECT ` + auditColumns + ` FROM call_audits WHERE 1=1`
	args := []interface{}{}

	addArg := func(clause string, value interface{}) {
		args = append(args, value)
		query += fmt.Sprintf(clause, len(args))
	}

	if filter.AgentID != nil {
		addArg(" AND agent_id = $%d", *filter.AgentID)
	}
	if filter.AuditorID != nil {
		addArg(" AND auditor_id = $%d", *filter.AuditorID)
	}
	if filter.StartDate != nil {
		addArg(" AND call_date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		addArg(" AND call_date <= $%d", *filter.EndDate)
	}
	if filter.Criticality != "" {
		addArg(" AND criticality_level = $%d", filter.Criticality)
	}

	query += " ORDER BY call_date DESC"
	addArg(" OFFSET $%d", filter.Skip)
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	addArg(" LIMIT $%d", limit)

	audits := []*models.CallAudit{}
	if err := r.db.Select(&audits, query, args...); err != nil {
		return nil, err
	}
	return audits, nil
}

func (r *callAuditRepository) GetAuditsByAgent(agentID int64, startDate, endDate *time.Time) ([]*models.CallAudit, error) {
	query := `SELECT ` + auditColumns + ` FROM call_audits WHERE agent_id = $1`
	args := []interface{}{agentID}
	if startDate != nil {
		args = append(args, *startDate)
		query += fmt.Sprintf(" AND call_date >= $%d", len(args))
	}
	if endDate != nil {
		args = append(args, *endDate)
		query += fmt.Sprintf(" AND call_date <= $%d", len(args))
	}
	query += " ORDER BY call_date DESC"

	audits := []*models.CallAudit{}
	if err := r.db.Select(&audits, query, args...); err != nil {
		return nil, err
	}
	return audits, nil
}

// CountErrorsBefore counts the agent's audits with an error in
// [windowStart, feedbackDate). The feedback date itself is excluded.
func (r *callAuditRepository) CountErrorsBefore(agentID int64, windowStart, feedbackDate time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM call_audits
	          WHERE agent_id = $1 AND call_date >= $2 AND call_date < $3 AND error_type IS NOT NULL`
	err := r.db.Get(&count, query, agentID, windowStart, feedbackDate)
	return count, err
}

// CountErrorsAfter counts the agent's audits with an error in
// (feedbackDate, windowEnd]. The feedback date itself is excluded.
func (r *callAuditRepository) CountErrorsAfter(agentID int64, feedbackDate, windowEnd time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM call_audits
	          WHERE agent_id = $1 AND call_date > $2 AND call_date <= $3 AND error_type IS NOT NULL`
	err := r.db.Get(&count, query, agentID, feedbackDate, windowEnd)
	return count, err
}

func (r *callAuditRepository) CountAudits() (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM call_audits`)
	return count, err
}

func (r *callAuditRepository) CountErrorAudits() (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM call_audits WHERE error_type IS NOT NULL`)
	return count, err
}

func (r *callAuditRepository) CountByCriticality(level string) (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM call_audits WHERE criticality_level = $1`, level)
	return count, err
}

func (r *callAuditRepository) CountByTNPS(score string) (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM call_audits WHERE tnps_score = $1`, score)
	return count, err
}

func (r *callAuditRepository) CountRatedTNPS() (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM call_audits WHERE tnps_score IN ('promoter', 'neutral', 'detractor')`)
	return count, err
}
