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

type AgentHandler interface {
	CreateAgent(c *gin.Context)
	GetAgents(c *gin.Context)
	GetAgentByID(c *gin.Context)
	UpdateAgent(c *gin.Context)
	DeactivateAgent(c *gin.Context)
}

type agentHandler struct {
	agentRepo repository.AgentRepository
	logger    *zap.Logger
}

func NewAgentHandler(agentRepo repository.AgentRepository, logger *zap.Logger) AgentHandler {
	return &agentHandler{agentRepo: agentRepo, logger: logger}
}

type CreateAgentRequest struct {
	Name       string     `json:"name" binding:"required"`
	Email      string     `json:"email" binding:"required,email"`
	Department *string    `json:"department"`
	Position   *string    `json:"position"`
	HireDate   *time.Time `json:"hire_date"`
}

// CreateAgent handles POST /api/agents/
func (h *agentHandler) CreateAgent(c *gin.Context) {
	var req CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	agent := &models.Agent{
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
		Position:   req.Position,
	}
	if req.HireDate != nil {
		agent.HireDate = *req.HireDate
	}

	if err := h.agentRepo.CreateAgent(agent); err != nil {
		h.logger.Error("Failed to create agent", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create agent"})
		return
	}

	c.JSON(http.StatusOK, agent)
}

// GetAgents handles GET /api/agents/
// Query parameters: skip, limit, active_only (default true).
func (h *agentHandler) GetAgents(c *gin.Context) {
	skip, limit := paginationParams(c)
	activeOnly := c.DefaultQuery("active_only", "true") != "false"

	agents, err := h.agentRepo.GetAgents(skip, limit, activeOnly)
	if err != nil {
		h.logger.Error("Failed to get agents", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve agents"})
		return
	}

	c.JSON(http.StatusOK, agents)
}

// GetAgentByID handles GET /api/agents/:id
func (h *agentHandler) GetAgentByID(c *gin.Context) {
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

	c.JSON(http.StatusOK, agent)
}

type UpdateAgentRequest struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Department *string `json:"department"`
	Position   *string `json:"position"`
}

// UpdateAgent handles PUT /api/agents/:id
func (h *agentHandler) UpdateAgent(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
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

	if req.Name != nil {
		agent.Name = *req.Name
	}
	if req.Email != nil {
		agent.Email = *req.Email
	}
	if req.Department != nil {
		agent.Department = req.Department
	}
	if req.Position != nil {
		agent.Position = req.Position
	}

	if err := h.agentRepo.UpdateAgent(agent); err != nil {
		h.logger.Error("Failed to update agent", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update agent"})
		return
	}

	c.JSON(http.StatusOK, agent)
}

// DeactivateAgent handles PUT /api/agents/:id/deactivate
func (h *agentHandler) DeactivateAgent(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	deactivated, err := h.agentRepo.DeactivateAgent(id)
	if err != nil {
		h.logger.Error("Failed to deactivate agent", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate agent"})
		return
	}
	if !deactivated {
		c.JSON(http.StatusNotFound, gin.H{"error": "Agent not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Agent deactivated successfully"})
}

// idParam parses the :id path parameter, replying 400 on garbage.
func idParam(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}

// paginationParams reads skip/limit with the listing defaults.
func paginationParams(c *gin.Context) (int, int) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		skip = 0
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit <= 0 {
		limit = 100
	}
	return skip, limit
}
