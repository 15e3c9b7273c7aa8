package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/valentinaclaros/evaluation-system/internal/models"
)

type AuditorRepository interface {
	CreateAuditor(auditor *models.Auditor) error
	GetAuditorByID(id int64) (*models.Auditor, error)
	GetAuditors(skip, limit int, activeOnly bool) ([]*models.Auditor, error)
}

type auditorRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewAuditorRepository(db *sqlx.DB, logger *zap.Logger) AuditorRepository {
	return &auditorRepository{db: db, logger: logger}
}

func (r *auditorRepository) CreateAuditor(auditor *models.Auditor) error {
	query := `INSERT INTO auditors (name, email, active)
	          VALUES ($1, $2, TRUE)
	          RETURNING id, name, email, active, created_at`
	return r.db.QueryRowx(query, auditor.Name, auditor.Email).StructScan(auditor)
}

func (r *auditorRepository) GetAuditorByID(id int64) (*models.Auditor, error) {
	var auditor models.Auditor
	query := `SELECT id, name, email, active, created_at FROM auditors WHERE id = $1`
	err := r.db.Get(&auditor, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Auditor not found
		}
		return nil, err
	}
	return &auditor, nil
}

func (r *auditorRepository) GetAuditors(skip, limit int, activeOnly bool) ([]*models.Auditor, error) {
	auditors := []*models.Auditor{}
	query := `SELECT id, name, email, active, created_at FROM auditors`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY id OFFSET $1 LIMIT $2`
	err := r.db.Select(&auditors, query, skip, limit)
	if err != nil {
		return nil, err
	}
	return auditors, nil
}
