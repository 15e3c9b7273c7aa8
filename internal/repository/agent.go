package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/valentinaclaros/evaluation-system/internal/models"
)

type AgentRepository interface {
	CreateAgent(agent *models.Agent) error
	GetAgentByID(id int64) (*models.Agent, error)
	GetAgents(skip, limit int, activeOnly bool) ([]*models.Agent, error)
	UpdateAgent(agent *models.Agent) error
	DeactivateAgent(id int64) (bool, error)
	CountActiveAgents() (int, error)
}

type agentRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewAgentRepository(db *sqlx.DB, logger *zap.Logger) AgentRepository {
	return &agentRepository{db: db, logger: logger}
}

func (r *agentRepository) CreateAgent(agent *models.Agent) error {
	query := `INSERT INTO agents (name, email, department, position, hire_date, active)
	          VALUES ($1, $2, $3, $4, COALESCE($5, NOW()), TRUE)
	          RETURNING id, name, email, department, position, hire_date, active, created_at`
	var hireDate interface{}
	if !agent.HireDate.IsZero() {
		hireDate = agent.HireDate
	}
	return r.db.QueryRowx(query, agent.Name, agent.Email, agent.Department, agent.Position, hireDate).StructScan(agent)
}

func (r *agentRepository) GetAgentByID(id int64) (*models.Agent, error) {
	var agent models.Agent
	query := `SELECT id, name, email, department, position, hire_date, active, created_at FROM agents WHERE id = $1`
	err := r.db.Get(&agent, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Agent not found
		}
		return nil, err
	}
	return &agent, nil
}

func (r *agentRepository) GetAgents(skip, limit int, activeOnly bool) ([]*models.Agent, error) {
	agents := []*models.Agent{}
	query := `SELECT id, name, email, department, position, hire_date, active, created_at FROM agents`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY id OFFSET $1 LIMIT $2`
	err := r.db.Select(&agents, query, skip, limit)
	if err != nil {
		return nil, err
	}
	return agents, nil
}

func (r *agentRepository) UpdateAgent(agent *models.Agent) error {
	query := `UPDATE agents SET name = $1, email = $2, department = $3, position = $4 WHERE id = $5`
	_, err := r.db.Exec(query, agent.Name, agent.Email, agent.Department, agent.Position, agent.ID)
	return err
}

func (r *agentRepository) DeactivateAgent(id int64) (bool, error) {
	res, err := r.db.Exec(`UPDATE agents SET active = FALSE WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *agentRepository) CountActiveAgents() (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM agents WHERE active = TRUE`)
	return count, err
}
