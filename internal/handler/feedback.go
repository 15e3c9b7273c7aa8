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

type FeedbackHandler interface {
	CreateFeedback(c *gin.Context)
	GetFeedbacks(c *gin.Context)
	GetFeedbackByID(c *gin.Context)
	UpdateFeedback(c *gin.Context)
	AnalyzeFeedback(c *gin.Context)
}

type feedbackHandler struct {
	feedbackRepo repository.FeedbackRepository
	auditRepo    repository.CallAuditRepository
	agentRepo    repository.AgentRepository
	logger       *zap.Logger
}

func NewFeedbackHandler(
	feedbackRepo repository.FeedbackRepository,
	auditRepo repository.CallAuditRepository,
	agentRepo repository.AgentRepository,
	logger *zap.Logger,
) FeedbackHandler {
	return &feedbackHandler{
		feedbackRepo: feedbackRepo,
		auditRepo:    auditRepo,
		agentRepo:    agentRepo,
		logger:       logger,
	}
}

type CreateFeedbackRequest struct {
	AgentID      int64     `json:"agent_id" binding:"required"`
	FeedbackDate time.Time `json:"feedback_date" binding:"required"`
	Title        string    `json:"title" binding:"required"`
	Description  string    `json:"description" binding:"required"`
	ActionPlan   *string   `json:"action_plan"`
}

// CreateFeedback handles POST /api/feedbacks/
func (h *feedbackHandler) CreateFeedback(c *gin.Context) {
	var req CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	agent, err := h.agentRepo.GetAgentByID(req.AgentID)
	if err != nil {
		h.logger.Error("Failed to get agent", zap.Int64("agent_id", req.AgentID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify agent"})
		return
	}
	if agent == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Agent not found"})
		return
	}

	feedback := &models.Feedback{
		AgentID:      req.AgentID,
		FeedbackDate: req.FeedbackDate,
		Title:        req.Title,
		Description:  req.Description,
		ActionPlan:   req.ActionPlan,
	}
	if err := h.feedbackRepo.CreateFeedback(feedback); err != nil {
		h.logger.Error("Failed to create feedback", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create feedback"})
		return
	}

	c.JSON(http.StatusOK, feedback)
}

// GetFeedbacks handles GET /api/feedbacks/
func (h *feedbackHandler) GetFeedbacks(c *gin.Context) {
	skip, limit := paginationParams(c)

	var agentID *int64
	if v := c.Query("agent_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid agent_id"})
			return
		}
		agentID = &id
	}

	feedbacks, err := h.feedbackRepo.GetFeedbacks(skip, limit, agentID)
	if err != nil {
		h.logger.Error("Failed to get feedbacks", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve feedbacks"})
		return
	}

	c.JSON(http.StatusOK, feedbacks)
}

// GetFeedbackByID handles GET /api/feedbacks/:id
func (h *feedbackHandler) GetFeedbackByID(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	feedback, err := h.feedbackRepo.GetFeedbackByID(id)
	if err != nil {
		h.logger.Error("Failed to get feedback", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve feedback"})
		return
	}
	if feedback == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Feedback not found"})
		return
	}

	c.JSON(http.StatusOK, feedback)
}

type UpdateFeedbackRequest struct {
	Title             *string    `json:"title"`
	Description       *string    `json:"description"`
	ActionPlan        *string    `json:"action_plan"`
	AnalysisStartDate *time.Time `json:"analysis_start_date"`
	AnalysisEndDate   *time.Time `json:"analysis_end_date"`
}

// UpdateFeedback handles PUT /api/feedbacks/:id
// Last write wins; there is no optimistic locking on feedback rows.
func (h *feedbackHandler) UpdateFeedback(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	feedback, err := h.feedbackRepo.GetFeedbackByID(id)
	if err != nil {
		h.logger.Error("Failed to get feedback", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve feedback"})
		return
	}
	if feedback == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Feedback not found"})
		return
	}

	if req.Title != nil {
		feedback.Title = *req.Title
	}
	if req.Description != nil {
		feedback.Description = *req.Description
	}
	if req.ActionPlan != nil {
		feedback.ActionPlan = req.ActionPlan
	}
	if req.AnalysisStartDate != nil {
		feedback.AnalysisStartDate = req.AnalysisStartDate
	}
	if req.AnalysisEndDate != nil {
		feedback.AnalysisEndDate = req.AnalysisEndDate
	}

	if err := h.feedbackRepo.UpdateFeedback(feedback); err != nil {
		h.logger.Error("Failed to update feedback", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update feedback"})
		return
	}

	c.JSON(http.StatusOK, feedback)
}

// ImpactResponse is returned by the analyze endpoint.
type ImpactResponse struct {
	FeedbackID            int64   `json:"feedback_id"`
	AgentID               int64   `json:"agent_id"`
	ErrorsBefore          int     `json:"errors_before"`
	ErrorsAfter           int     `json:"errors_after"`
	ImprovementPercentage float64 `json:"improvement_percentage"`
	Status                string  `json:"status"`
}

// AnalyzeFeedback handles POST /api/feedbacks/:id/analyze
// Query parameters days_before and days_after default to 30. The result
// overwrites any previous analysis on the feedback; re-running after new
// audits arrive inside the window is expected to change the counts.
func (h *feedbackHandler) AnalyzeFeedback(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	daysBefore, err := strconv.Atoi(c.DefaultQuery("days_before", "30"))
	if err != nil || daysBefore <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid days_before"})
		return
	}
	daysAfter, err := strconv.Atoi(c.DefaultQuery("days_after", "30"))
	if err != nil || daysAfter <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid days_after"})
		return
	}

	feedback, err := h.feedbackRepo.GetFeedbackByID(id)
	if err != nil {
		h.logger.Error("Failed to get feedback", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve feedback"})
		return
	}
	if feedback == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Feedback not found"})
		return
	}

	window := analytics.ImpactWindow(feedback.FeedbackDate, daysBefore, daysAfter)

	errorsBefore, err := h.auditRepo.CountErrorsBefore(feedback.AgentID, window.Start, feedback.FeedbackDate)
	if err != nil {
		h.logger.Error("Failed to count errors before feedback", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze feedback"})
		return
	}
	errorsAfter, err := h.auditRepo.CountErrorsAfter(feedback.AgentID, feedback.FeedbackDate, window.End)
	if err != nil {
		h.logger.Error("Failed to count errors after feedback", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze feedback"})
		return
	}

	improvement := analytics.Improvement(errorsBefore, errorsAfter)

	if err := h.feedbackRepo.SaveAnalysis(id, window.Start, window.End, errorsBefore, errorsAfter, improvement); err != nil {
		h.logger.Error("Failed to save feedback analysis", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save analysis"})
		return
	}

	c.JSON(http.StatusOK, ImpactResponse{
		FeedbackID:            id,
		AgentID:               feedback.AgentID,
		ErrorsBefore:          errorsBefore,
		ErrorsAfter:           errorsAfter,
		ImprovementPercentage: analytics.Round2(improvement),
		Status:                analytics.ImpactStatus(improvement),
	})
}
