package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/medbank-platform/question-engine/internal/services"
)

type AdminHandler struct {
	BaseHandler
	similarity services.SimilarityService
	reports    services.ReportService
}

func NewAdminHandler(
	similarity services.SimilarityService,
	reports services.ReportService,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		BaseHandler: NewBaseHandler(logger),
		similarity:  similarity,
		reports:     reports,
	}
}

// CheckSimilarity runs a duplicate check for one question
func (h *AdminHandler) CheckSimilarity(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid question id",
		})
		return
	}

	result, err := h.similarity.CheckSimilar(c.Request.Context(), uint(id))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Similarity check complete",
		Data:    result,
	})
}

// ScanRecent sweeps the rescan window for missed duplicates
func (h *AdminHandler) ScanRecent(c *gin.Context) {
	summary, err := h.similarity.ScanRecent(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Similarity scan complete",
		Data:    summary,
	})
}

// ListGroups returns similarity groups, optionally filtered by scope
func (h *AdminHandler) ListGroups(c *gin.Context) {
	groups, err := h.reports.ListGroups(c.Request.Context(), c.Query("scope"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Similarity groups",
		Data:    groups,
	})
}

// GetGroupForQuestion returns the group a question belongs to, if any
func (h *AdminHandler) GetGroupForQuestion(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid question id",
		})
		return
	}

	group, err := h.reports.GroupForQuestion(c.Request.Context(), uint(id))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Similarity group",
		Data:    group,
	})
}

// ExportGroups streams the similarity groups as an Excel workbook
func (h *AdminHandler) ExportGroups(c *gin.Context) {
	data, err := h.reports.ExportGroups(c.Request.Context(), c.Query("scope"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("similarity-groups-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
