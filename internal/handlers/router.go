package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/medbank-platform/question-engine/internal/services"
	"github.com/medbank-platform/question-engine/internal/tags"
)

type HandlerManager struct {
	quizHandler  *QuizHandler
	adminHandler *AdminHandler
}

func NewHandlerManager(
	selector services.SelectorService,
	classifier services.ModeClassifier,
	similarity services.SimilarityService,
	reports services.ReportService,
	registry *tags.Registry,
	logger *slog.Logger,
) *HandlerManager {
	return &HandlerManager{
		quizHandler:  NewQuizHandler(selector, classifier, registry, logger),
		adminHandler: NewAdminHandler(similarity, reports, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	api := router.Group("/api")
	{
		quiz := api.Group("/quiz")
		{
			quiz.POST("/select", hm.quizHandler.SelectQuestions)
			quiz.POST("/mode-counts", hm.quizHandler.ModeCounts)
		}

		api.GET("/tags/catalog", hm.quizHandler.TagCatalog)

		admin := api.Group("/admin/similarity")
		{
			admin.POST("/check/:id", hm.adminHandler.CheckSimilarity)
			admin.POST("/scan", hm.adminHandler.ScanRecent)
			admin.GET("/groups", hm.adminHandler.ListGroups)
			admin.GET("/groups/export", hm.adminHandler.ExportGroups)
			admin.GET("/groups/question/:id", hm.adminHandler.GetGroupForQuestion)
		}
	}
}

// HealthCheck responds to liveness probes
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// RequestLogger is gin middleware emitting one structured log line per request
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
			"client_ip", c.ClientIP())
	}
}
