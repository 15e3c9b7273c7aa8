package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/valentinaclaros/evaluation-system/internal/handler"
	"github.com/valentinaclaros/evaluation-system/internal/repository"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	logger *zap.Logger
}

func NewServer(db *sqlx.DB, logger *zap.Logger) *Server {
	router := gin.Default()

	s := &Server{
		router: router,
		db:     db,
		logger: logger,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	agentRepo := repository.NewAgentRepository(s.db, s.logger)
	auditorRepo := repository.NewAuditorRepository(s.db, s.logger)
	auditRepo := repository.NewCallAuditRepository(s.db, s.logger)
	feedbackRepo := repository.NewFeedbackRepository(s.db, s.logger)

	agentHandler := handler.NewAgentHandler(agentRepo, s.logger)
	auditorHandler := handler.NewAuditorHandler(auditorRepo, s.logger)
	auditHandler := handler.NewAuditHandler(auditRepo, agentRepo, auditorRepo, s.logger)
	feedbackHandler := handler.NewFeedbackHandler(feedbackRepo, auditRepo, agentRepo, s.logger)
	analyticsHandler := handler.NewAnalyticsHandler(agentRepo, auditRepo, feedbackRepo, s.logger)

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	api := s.router.Group("/api")
	{
		agents := api.Group("/agents")
		agents.POST("/", agentHandler.CreateAgent)
		agents.GET("/", agentHandler.GetAgents)
		agents.GET("/:id", agentHandler.GetAgentByID)
		agents.PUT("/:id", agentHandler.UpdateAgent)
		agents.PUT("/:id/deactivate", agentHandler.DeactivateAgent)

		auditors := api.Group("/auditors")
		auditors.POST("/", auditorHandler.CreateAuditor)
		auditors.GET("/", auditorHandler.GetAuditors)

		audits := api.Group("/audits")
		audits.POST("/", auditHandler.CreateAudit)
		audits.GET("/", auditHandler.GetAudits)
		audits.GET("/:id", auditHandler.GetAuditByID)

		feedbacks := api.Group("/feedbacks")
		feedbacks.POST("/", feedbackHandler.CreateFeedback)
		feedbacks.GET("/", feedbackHandler.GetFeedbacks)
		feedbacks.GET("/:id", feedbackHandler.GetFeedbackByID)
		feedbacks.PUT("/:id", feedbackHandler.UpdateFeedback)
		feedbacks.POST("/:id/analyze", feedbackHandler.AnalyzeFeedback)

		analytics := api.Group("/analytics")
		analytics.GET("/dashboard", analyticsHandler.GetDashboard)
		analytics.GET("/agents/:id/performance", analyticsHandler.GetAgentPerformance)
		analytics.GET("/agents/ranking", analyticsHandler.GetAgentsRanking)
	}
}

func (s *Server) Run(addr string) error {
	s.logger.Info("Server starting", zap.String("addr", addr))
	return s.router.Run(addr)
}
