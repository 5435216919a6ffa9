package postgres

import (
	"context"
	"fmt"

	"github.com/medbank-platform/question-engine/internal/models"
	"github.com/medbank-platform/question-engine/internal/repositories"
	"gorm.io/gorm"
)

type AttemptPostgreSQL struct {
	db *gorm.DB
}

func NewAttemptPostgreSQL(db *gorm.DB) repositories.AttemptRepository {
	return &AttemptPostgreSQL{db: db}
}

func (a *AttemptPostgreSQL) ListQuizItems(ctx context.Context, userID, scope string) ([]repositories.QuizItemRecord, error) {
	query := a.db.WithContext(ctx).Model(&models.QuizItem{}).
		Select("quiz_items.question_id, quiz_items.marked").
		Joins("JOIN quizzes ON quizzes.id = quiz_items.quiz_id").
		Where("quizzes.user_id = ?", userID)
	query = a.scopeItems(query, scope)

	var records []repositories.QuizItemRecord
	if err := query.Scan(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list quiz items: %w", err)
	}
	return records, nil
}

// ListResponses returns the user's answers oldest first, ties broken by id,
// so callers can reduce to latest-per-question with a plain map overwrite.
func (a *AttemptPostgreSQL) ListResponses(ctx context.Context, userID, scope string) ([]repositories.ResponseRecord, error) {
	query := a.db.WithContext(ctx).Model(&models.Response{}).
		Select("responses.id, quiz_items.question_id, quiz_items.marked, responses.choice_id, responses.is_correct, responses.created_at").
		Joins("JOIN quiz_items ON quiz_items.id = responses.quiz_item_id").
		Joins("JOIN quizzes ON quizzes.id = quiz_items.quiz_id").
		Where("quizzes.user_id = ?", userID).
		Order("responses.created_at ASC, responses.id ASC")
	query = a.scopeItems(query, scope)

	var records []repositories.ResponseRecord
	if err := query.Scan(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}
	return records, nil
}

func (a *AttemptPostgreSQL) scopeItems(query *gorm.DB, scope string) *gorm.DB {
	variants := scopeVariants(scope)
	if variants == nil {
		return query
	}
	return query.Where(
		"EXISTS (SELECT 1 FROM questions WHERE questions.id = quiz_items.question_id AND questions.deleted_at IS NULL AND (questions.year_captured IN ? OR EXISTS (SELECT 1 FROM question_occurrences qo WHERE qo.question_id = questions.id AND qo.year IN ?)))",
		variants, variants,
	)
}
