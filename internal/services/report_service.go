package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/medbank-platform/question-engine/internal/models"
	"github.com/medbank-platform/question-engine/internal/repositories"
	"github.com/xuri/excelize/v2"
)

// ReportService produces review artifacts for content editors.
type ReportService interface {
	ListGroups(ctx context.Context, scopeTag string) ([]*models.SimilarQuestionGroup, error)
	GroupForQuestion(ctx context.Context, questionID uint) (*models.SimilarQuestionGroup, error)
	ExportGroups(ctx context.Context, scopeTag string) ([]byte, error)
}

type reportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewReportService(repo repositories.Repository, logger *slog.Logger) ReportService {
	return &reportService{
		repo:   repo,
		logger: logger,
	}
}

func (s *reportService) ListGroups(ctx context.Context, scopeTag string) ([]*models.SimilarQuestionGroup, error) {
	groups, err := s.repo.Group().ListByScope(ctx, scopeTag)
	if err != nil {
		return nil, fmt.Errorf("failed to list similarity groups: %w", err)
	}
	return groups, nil
}

// GroupForQuestion answers the reviewer question "has this question already
// been flagged as a duplicate, and with what".
func (s *reportService) GroupForQuestion(ctx context.Context, questionID uint) (*models.SimilarQuestionGroup, error) {
	group, err := s.repo.Group().FindByMember(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up group membership: %w", err)
	}
	if group == nil {
		return nil, fmt.Errorf("%w: question %d is not grouped", ErrGroupNotFound, questionID)
	}
	return group, nil
}

// ExportGroups renders the similarity groups for a scope as an Excel
// workbook, one row per group, for duplicate review sessions.
func (s *reportService) ExportGroups(ctx context.Context, scopeTag string) ([]byte, error) {
	groups, err := s.ListGroups(ctx, scopeTag)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheetName := "Similarity Groups"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Group ID", "Scope", "Question IDs", "Pair Scores", "Detected At"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, group := range groups {
		row := []string{
			strconv.FormatUint(uint64(group.ID), 10),
			group.ScopeTag,
			joinIDs(group.QuestionIDs),
			formatScores(group.SimilarityScores.Data()),
			group.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("exported similarity groups", "scope", scopeTag, "groups", len(groups))
	return buf.Bytes(), nil
}

func joinIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ", ")
}

// formatScores renders the pair score map with keys sorted so exports are
// stable across runs.
func formatScores(scores map[string]int) string {
	keys := make([]string, 0, len(scores))
	for key := range scores {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, key := range keys {
		parts[i] = fmt.Sprintf("%s: %d%%", key, scores[key])
	}
	return strings.Join(parts, "; ")
}
