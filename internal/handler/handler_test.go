package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/valentinaclaros/evaluation-system/internal/models"
	"github.com/valentinaclaros/evaluation-system/internal/repository"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testZap() *zap.Logger { return zap.NewNop() }

// stubAgentRepo serves agents from a map.
type stubAgentRepo struct {
	repository.AgentRepository
	agents map[int64]*models.Agent
}

func (s *stubAgentRepo) GetAgentByID(id int64) (*models.Agent, error) {
	return s.agents[id], nil
}

func (s *stubAgentRepo) GetAgents(skip, limit int, activeOnly bool) ([]*models.Agent, error) {
	out := []*models.Agent{}
	for _, a := range s.agents {
		if !activeOnly || a.Active {
			out = append(out, a)
		}
	}
	return out, nil
}

type stubAuditorRepo struct {
	repository.AuditorRepository
	auditors map[int64]*models.Auditor
}

func (s *stubAuditorRepo) GetAuditorByID(id int64) (*models.Auditor, error) {
	return s.auditors[id], nil
}

// stubAuditRepo records created audits and serves canned window counts.
type stubAuditRepo struct {
	repository.CallAuditRepository
	created      []*models.CallAudit
	byAgent      map[int64][]*models.CallAudit
	errorsBefore int
	errorsAfter  int
}

func (s *stubAuditRepo) CreateAudit(audit *models.CallAudit) error {
	audit.ID = int64(len(s.created) + 1)
	s.created = append(s.created, audit)
	return nil
}

func (s *stubAuditRepo) GetAuditsByAgent(agentID int64, start, end *time.Time) ([]*models.CallAudit, error) {
	return s.byAgent[agentID], nil
}

func (s *stubAuditRepo) CountErrorsBefore(agentID int64, windowStart, feedbackDate time.Time) (int, error) {
	return s.errorsBefore, nil
}

func (s *stubAuditRepo) CountErrorsAfter(agentID int64, feedbackDate, windowEnd time.Time) (int, error) {
	return s.errorsAfter, nil
}

// stubFeedbackRepo serves feedbacks from a map and records SaveAnalysis calls.
type stubFeedbackRepo struct {
	repository.FeedbackRepository
	feedbacks     map[int64]*models.Feedback
	savedBefore   int
	savedAfter    int
	savedPercent  float64
	analysisSaved bool
}

func (s *stubFeedbackRepo) GetFeedbackByID(id int64) (*models.Feedback, error) {
	return s.feedbacks[id], nil
}

func (s *stubFeedbackRepo) SaveAnalysis(id int64, start, end time.Time, errorsBefore, errorsAfter int, improvement float64) error {
	s.savedBefore = errorsBefore
	s.savedAfter = errorsAfter
	s.savedPercent = improvement
	s.analysisSaved = true
	return nil
}
