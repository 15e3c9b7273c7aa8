package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/valentinaclaros/evaluation-system/internal/models"
	"github.com/valentinaclaros/evaluation-system/internal/repository"
)

type AuditHandler interface {
	CreateAudit(c *gin.Context)
	GetAudits(c *gin.Context)
	GetAuditByID(c *gin.Context)
}

type auditHandler struct {
	auditRepo   repository.CallAuditRepository
	agentRepo   repository.AgentRepository
	auditorRepo repository.AuditorRepository
	logger      *zap.Logger
}

func NewAuditHandler(
	auditRepo repository.CallAuditRepository,
	agentRepo repository.AgentRepository,
	auditorRepo repository.AuditorRepository,
	logger *zap.Logger,
) AuditHandler {
	return &auditHandler{
		auditRepo:   auditRepo,
		agentRepo:   agentRepo,
		auditorRepo: auditorRepo,
		logger:      logger,
	}
}

type CreateAuditRequest struct {
	CallDate         time.Time `json:"call_date" binding:"required"`
	CustomerID       string    `json:"customer_id" binding:"required"`
	CallType         string    `json:"call_type" binding:"required"`
	AgentID          int64     `json:"agent_id" binding:"required"`
	AuditorID        int64     `json:"auditor_id" binding:"required"`
	ErrorType        *string   `json:"error_type"`
	ErrorDescription *string   `json:"error_description"`
	CriticalityLevel string    `json:"criticality_level" binding:"required"`
	TNPSScore        *string   `json:"tnps_score"`
	Notes            *string   `json:"notes"`
}

// CreateAudit handles POST /api/audits/
// The referenced agent and auditor must exist; the audit holds non-owning
// references to both.
func (h *auditHandler) CreateAudit(c *gin.Context) {
	var req CreateAuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ValidCallType(req.CallType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid call_type. Valid values: credit_card, savings_account"})
		return
	}
	if !models.ValidCriticality(req.CriticalityLevel) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid criticality_level. Valid values: low, medium, high, critical"})
		return
	}
	if req.TNPSScore != nil && !models.ValidTNPSScore(*req.TNPSScore) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tnps_score. Valid values: promoter, neutral, detractor, null"})
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

	auditor, err := h.auditorRepo.GetAuditorByID(req.AuditorID)
	if err != nil {
		h.logger.Error("Failed to get auditor", zap.Int64("auditor_id", req.AuditorID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify auditor"})
		return
	}
	if auditor == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Auditor not found"})
		return
	}

	audit := &models.CallAudit{
		CallDate:         req.CallDate,
		CustomerID:       req.CustomerID,
		CallType:         req.CallType,
		AgentID:          req.AgentID,
		AuditorID:        req.AuditorID,
		ErrorType:        req.ErrorType,
		ErrorDescription: req.ErrorDescription,
		CriticalityLevel: req.CriticalityLevel,
		TNPSScore:        req.TNPSScore,
		Notes:            req.Notes,
	}
	if err := h.auditRepo.CreateAudit(audit); err != nil {
		h.logger.Error("Failed to create audit", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create audit"})
		return
	}

	c.JSON(http.StatusOK, audit)
}

// GetAudits handles GET /api/audits/
// Query parameters: skip, limit, agent_id, auditor_id, start_date,
// end_date, criticality.
func (h *auditHandler) GetAudits(c *gin.Context) {
	skip, limit := paginationParams(c)
	filter := repository.AuditFilter{Skip: skip, Limit: limit}

	if v := c.Query("agent_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid agent_id"})
			return
		}
		filter.AgentID = &id
	}
	if v := c.Query("auditor_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid auditor_id"})
			return
		}
		filter.AuditorID = &id
	}
	if v := c.Query("start_date"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date"})
			return
		}
		filter.StartDate = &t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date"})
			return
		}
		filter.EndDate = &t
	}
	if v := c.Query("criticality"); v != "" {
		if !models.ValidCriticality(v) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid criticality. Valid values: low, medium, high, critical"})
			return
		}
		filter.Criticality = v
	}

	audits, err := h.auditRepo.GetAudits(filter)
	if err != nil {
		h.logger.Error("Failed to get audits", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve audits"})
		return
	}

	c.JSON(http.StatusOK, audits)
}

// GetAuditByID handles GET /api/audits/:id
func (h *auditHandler) GetAuditByID(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	audit, err := h.auditRepo.GetAuditByID(id)
	if err != nil {
		h.logger.Error("Failed to get audit", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve audit"})
		return
	}
	if audit == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Audit not found"})
		return
	}

	c.JSON(http.StatusOK, audit)
}

// parseDate accepts a plain date or a full RFC 3339 timestamp.
func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, v)
}
