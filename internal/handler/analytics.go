package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/valentinaclaros/evaluation-system/internal/analytics"
	"github.com/valentinaclaros/evaluation-system/internal/models"
	"github.com/valentinaclaros/evaluation-system/internal/repository"
)

type AnalyticsHandler interface {
	GetDashboard(c *gin.Context)
	GetAgentPerformance(c *gin.Context)
	GetAgentsRanking(c *gin.Context)
}

type analyticsHandler struct {
	agentRepo    repository.AgentRepository
	auditRepo    repository.CallAuditRepository
	feedbackRepo repository.FeedbackRepository
	logger       *zap.Logger
}

func NewAnalyticsHandler(
	agentRepo repository.AgentRepository,
	auditRepo repository.CallAuditRepository,
	feedbackRepo repository.FeedbackRepository,
	logger *zap.Logger,
) AnalyticsHandler {
	return &analyticsHandler{
		agentRepo:    agentRepo,
		auditRepo:    auditRepo,
		feedbackRepo: feedbackRepo,
		logger:       logger,
	}
}

// DashboardStats represents the fleet-wide summary for the dashboard.
type DashboardStats struct {
	TotalAgents             int     `json:"total_agents"`
	TotalAudits             int     `json:"total_audits"`
	TotalFeedbacks          int     `json:"total_feedbacks"`
	AverageErrorRate        float64 `json:"average_error_rate"`
	CriticalErrorsCount     int     `json:"critical_errors_count"`
	TNPSPromoterPercentage  float64 `json:"tnps_promoter_percentage"`
	TNPSDetractorPercentage float64 `json:"tnps_detractor_percentage"`
	AgentsWithImprovement   int     `json:"agents_with_improvement"`
	AgentsNeedingAttention  int     `json:"agents_needing_attention"`
}

// GetDashboard handles GET /api/analytics/dashboard
func (h *analyticsHandler) GetDashboard(c *gin.Context) {
	stats := DashboardStats{}
	var err error

	if stats.TotalAgents, err = h.agentRepo.CountActiveAgents(); err != nil {
		h.dashboardError(c, "count active agents", err)
		return
	}
	if stats.TotalAudits, err = h.auditRepo.CountAudits(); err != nil {
		h.dashboardError(c, "count audits", err)
		return
	}
	if stats.TotalFeedbacks, err = h.feedbackRepo.CountFeedbacks(); err != nil {
		h.dashboardError(c, "count feedbacks", err)
		return
	}

	totalErrors, err := h.auditRepo.CountErrorAudits()
	if err != nil {
		h.dashboardError(c, "count error audits", err)
		return
	}
	if stats.TotalAudits > 0 {
		stats.AverageErrorRate = analytics.Round2(float64(totalErrors) / float64(stats.TotalAudits) * 100)
	}

	if stats.CriticalErrorsCount, err = h.auditRepo.CountByCriticality(models.CriticalityCritical); err != nil {
		h.dashboardError(c, "count critical errors", err)
		return
	}

	promoters, err := h.auditRepo.CountByTNPS(models.TNPSPromoter)
	if err != nil {
		h.dashboardError(c, "count promoters", err)
		return
	}
	detractors, err := h.auditRepo.CountByTNPS(models.TNPSDetractor)
	if err != nil {
		h.dashboardError(c, "count detractors", err)
		return
	}
	rated, err := h.auditRepo.CountRatedTNPS()
	if err != nil {
		h.dashboardError(c, "count rated tnps", err)
		return
	}
	if rated > 0 {
		stats.TNPSPromoterPercentage = analytics.Round2(float64(promoters) / float64(rated) * 100)
		stats.TNPSDetractorPercentage = analytics.Round2(float64(detractors) / float64(rated) * 100)
	}

	if stats.AgentsWithImprovement, err = h.feedbackRepo.CountAgentsWithImprovement(); err != nil {
		h.dashboardError(c, "count improved agents", err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *analyticsHandler) dashboardError(c *gin.Context, op string, err error) {
	h.logger.Error("Failed to build dashboard", zap.String("op", op), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve dashboard data"})
}

// GetAgentPerformance handles GET /api/analytics/agents/:id/performance
// Query parameters: start_date, end_date.
func (h *analyticsHandler) GetAgentPerformance(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	agent, err := h.agentRepo.GetAgentByID(id)
	if err != nil {
		h.logger.Error("Failed to get agent", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve agent"})
		return
	}
	if agent == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Agent not found"})
		return
	}

	var start, end *time.Time
	if v := c.Query("start_date"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date"})
			return
		}
		start = &t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date"})
			return
		}
		end = &t
	}

	audits, err := h.auditRepo.GetAuditsByAgent(id, start, end)
	if err != nil {
		h.logger.Error("Failed to get agent audits", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve audits"})
		return
	}

	perf := analytics.AgentPerformance(agent, audits)
	if perf.TotalCalls == 0 {
		c.JSON(http.StatusOK, gin.H{
			"agent_id":     agent.ID,
			"agent_name":   agent.Name,
			"total_calls":  0,
			"total_errors": 0,
			"error_rate":   0,
			"message":      "No audit data for this agent in the selected period",
		})
		return
	}

	c.JSON(http.StatusOK, perf)
}

// GetAgentsRanking handles GET /api/analytics/agents/ranking
// Query parameters: limit (default 10), order_by (error_rate, tnps_score,
// total_calls). Agents with zero audits are excluded, not zero-filled.
func (h *analyticsHandler) GetAgentsRanking(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
		return
	}
	orderBy := c.DefaultQuery("order_by", analytics.OrderByErrorRate)

	agents, err := h.agentRepo.GetAgents(0, 1000, true)
	if err != nil {
		h.logger.Error("Failed to get agents for ranking", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve agents"})
		return
	}

	metrics := []analytics.Performance{}
	for _, agent := range agents {
		audits, err := h.auditRepo.GetAuditsByAgent(agent.ID, nil, nil)
		if err != nil {
			h.logger.Error("Failed to get agent audits for ranking", zap.Int64("agent_id", agent.ID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve audits"})
			return
		}
		if len(audits) == 0 {
			continue
		}
		metrics = append(metrics, analytics.AgentPerformance(agent, audits))
	}

	ranked, err := analytics.RankAgents(metrics, orderBy, limit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, ranked)
}
