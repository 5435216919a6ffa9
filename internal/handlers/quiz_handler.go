package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medbank-platform/question-engine/internal/services"
	"github.com/medbank-platform/question-engine/internal/tags"
)

type QuizHandler struct {
	BaseHandler
	selector   services.SelectorService
	classifier services.ModeClassifier
	registry   *tags.Registry
}

func NewQuizHandler(
	selector services.SelectorService,
	classifier services.ModeClassifier,
	registry *tags.Registry,
	logger *slog.Logger,
) *QuizHandler {
	return &QuizHandler{
		BaseHandler: NewBaseHandler(logger),
		selector:    selector,
		classifier:  classifier,
		registry:    registry,
	}
}

// SelectQuestions builds a randomized question set from the caller's filters
func (h *QuizHandler) SelectQuestions(c *gin.Context) {
	var req services.SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if req.UserID == "" {
		req.UserID = h.requireUserID(c)
		if req.UserID == "" {
			return
		}
	}

	ids, err := h.selector.Select(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Questions selected",
		Data:    gin.H{"question_ids": ids, "count": len(ids)},
	})
}

type modeCountsRequest struct {
	Scope string `json:"scope"`
}

// ModeCounts returns per-mode bucket sizes for the caller
func (h *QuizHandler) ModeCounts(c *gin.Context) {
	userID := h.requireUserID(c)
	if userID == "" {
		return
	}

	// Body is optional; an absent body means the unscoped corpus.
	var req modeCountsRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	counts, err := h.classifier.Counts(c.Request.Context(), userID, req.Scope)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Mode counts computed",
		Data:    counts,
	})
}

// TagCatalog returns the filterable tag options per category
func (h *QuizHandler) TagCatalog(c *gin.Context) {
	catalog := make(map[tags.Category][]gin.H, len(tags.Categories))
	for _, category := range tags.Categories {
		for _, key := range h.registry.Keys(category) {
			catalog[category] = append(catalog[category], gin.H{
				"key":   key,
				"label": h.registry.Label(category, key),
			})
		}
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Tag catalog",
		Data:    catalog,
	})
}
