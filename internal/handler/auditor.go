package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/valentinaclaros/evaluation-system/internal/models"
	"github.com/valentinaclaros/evaluation-system/internal/repository"
)

type AuditorHandler interface {
	CreateAuditor(c *gin.Context)
	GetAuditors(c *gin.Context)
}

type auditorHandler struct {
	auditorRepo repository.AuditorRepository
	logger      *zap.Logger
}

func NewAuditorHandler(auditorRepo repository.AuditorRepository, logger *zap.Logger) AuditorHandler {
	return &auditorHandler{auditorRepo: auditorRepo, logger: logger}
}

type CreateAuditorRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// CreateAuditor handles POST /api/auditors/
func (h *auditorHandler) CreateAuditor(c *gin.Context) {
	var req CreateAuditorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	auditor := &models.Auditor{Name: req.Name, Email: req.Email}
	if err := h.auditorRepo.CreateAuditor(auditor); err != nil {
		h.logger.Error("Failed to create auditor", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create auditor"})
		return
	}

	c.JSON(http.StatusOK, auditor)
}

// GetAuditors handles GET /api/auditors/
func (h *auditorHandler) GetAuditors(c *gin.Context) {
	skip, limit := paginationParams(c)
	activeOnly := c.DefaultQuery("active_only", "true") != "false"

	auditors, err := h.auditorRepo.GetAuditors(skip, limit, activeOnly)
	if err != nil {
		h.logger.Error("Failed to get auditors", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve auditors"})
		return
	}

	c.JSON(http.StatusOK, auditors)
}
