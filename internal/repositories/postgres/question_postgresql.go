package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/medbank-platform/question-engine/internal/models"
	"github.com/medbank-platform/question-engine/internal/repositories"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

func (q *QuestionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	err := q.db.WithContext(ctx).First(&question, id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (q *QuestionPostgreSQL) GetByIDWithTags(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	err := q.db.WithContext(ctx).
		Preload("QuestionTags.Tag").
		Preload("Occurrences").
		First(&question, id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// ListPoolIDs resolves the selector's candidate pool: newest first, one
// EXISTS subquery per tag type so types AND together while values within a
// type OR together.
func (q *QuestionPostgreSQL) ListPoolIDs(ctx context.Context, filters repositories.QuestionPoolFilters) ([]uint, error) {
	query := q.db.WithContext(ctx).Model(&models.Question{})
	query = applyScope(query, filters.Scope)

	for tagType, values := range filters.TagValues {
		if len(values) == 0 {
			continue
		}
		query = query.Where(
			"EXISTS (SELECT 1 FROM question_tags qt JOIN tags t ON t.id = qt.tag_id WHERE qt.question_id = questions.id AND t.type = ? AND LOWER(t.value) IN ?)",
			string(tagType), lowered(values),
		)
	}

	if filters.IncludeIDs != nil {
		query = query.Where("questions.id IN ?", filters.IncludeIDs)
	}

	query = query.Order("questions.created_at DESC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}

	var ids []uint
	if err := query.Pluck("questions.id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list question pool: %w", err)
	}
	return ids, nil
}

func (q *QuestionPostgreSQL) ListRecentIDs(ctx context.Context, scope string, limit int) ([]uint, error) {
	query := q.db.WithContext(ctx).Model(&models.Question{})
	query = applyScope(query, scope)
	query = query.Order("questions.created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var ids []uint
	if err := query.Pluck("questions.id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list recent questions: %w", err)
	}
	return ids, nil
}

func (q *QuestionPostgreSQL) ListIDsByScope(ctx context.Context, scope string) ([]uint, error) {
	query := q.db.WithContext(ctx).Model(&models.Question{})
	query = applyScope(query, scope)

	var ids []uint
	if err := query.Pluck("questions.id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list questions by scope: %w", err)
	}
	return ids, nil
}

func (q *QuestionPostgreSQL) Count(ctx context.Context, scope string) (int64, error) {
	query := q.db.WithContext(ctx).Model(&models.Question{})
	query = applyScope(query, scope)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return count, nil
}

// FindSimilarityCandidates returns comparison targets for duplicate
// detection: same rotation (case-insensitive), same scope, stored embedding,
// created inside the window.
func (q *QuestionPostgreSQL) FindSimilarityCandidates(ctx context.Context, filters repositories.SimilarityCandidateFilters) ([]*models.Question, error) {
	query := q.db.WithContext(ctx).Model(&models.Question{}).
		Where("questions.id <> ?", filters.ExcludeID).
		Where("questions.text <> ''").
		Where("questions.embedding IS NOT NULL").
		Where("questions.created_at >= ?", filters.CreatedAfter).
		Where(
			"EXISTS (SELECT 1 FROM question_tags qt JOIN tags t ON t.id = qt.tag_id WHERE qt.question_id = questions.id AND t.type = ? AND LOWER(t.value) = LOWER(?))",
			string(models.TagTypeRotation), filters.Rotation,
		)
	query = applyScope(query, filters.Scope)

	var questions []*models.Question
	if err := query.Order("questions.id ASC").Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("failed to find similarity candidates: %w", err)
	}
	return questions, nil
}

func (q *QuestionPostgreSQL) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]*models.Question, error) {
	var questions []*models.Question
	err := q.db.WithContext(ctx).Model(&models.Question{}).
		Where("questions.created_at >= ? AND questions.created_at < ?", from, to).
		Order("questions.id ASC").
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list questions in window: %w", err)
	}
	return questions, nil
}

func (q *QuestionPostgreSQL) UpdateEmbedding(ctx context.Context, id uint, vector []float64) error {
	err := q.db.WithContext(ctx).Model(&models.Question{}).
		Where("id = ?", id).
		Update("embedding", datatypes.JSONSlice[float64](vector)).Error
	if err != nil {
		return fmt.Errorf("failed to store embedding for question %d: %w", id, err)
	}
	return nil
}
