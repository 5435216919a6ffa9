package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/medbank-platform/question-engine/internal/models"
	"github.com/medbank-platform/question-engine/internal/repositories"
	"gorm.io/gorm"
)

type GroupPostgreSQL struct {
	db *gorm.DB
}

func NewGroupPostgreSQL(db *gorm.DB) repositories.GroupRepository {
	return &GroupPostgreSQL{db: db}
}

func (g *GroupPostgreSQL) FindByMember(ctx context.Context, questionID uint) (*models.SimilarQuestionGroup, error) {
	var group models.SimilarQuestionGroup
	err := g.db.WithContext(ctx).
		Where("question_ids @> ?::jsonb", fmt.Sprintf("[%d]", questionID)).
		Order("created_at ASC").
		First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find group by member: %w", err)
	}
	return &group, nil
}

func (g *GroupPostgreSQL) AnyMemberGrouped(ctx context.Context, questionIDs []uint) (bool, error) {
	if len(questionIDs) == 0 {
		return false, nil
	}

	query := g.db.WithContext(ctx).Model(&models.SimilarQuestionGroup{})
	conditions := g.db.Session(&gorm.Session{NewDB: true})
	for _, id := range questionIDs {
		conditions = conditions.Or("question_ids @> ?::jsonb", fmt.Sprintf("[%d]", id))
	}

	var count int64
	if err := query.Where(conditions).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check group membership: %w", err)
	}
	return count > 0, nil
}

func (g *GroupPostgreSQL) Create(ctx context.Context, group *models.SimilarQuestionGroup) error {
	if err := g.db.WithContext(ctx).Create(group).Error; err != nil {
		return fmt.Errorf("failed to create similarity group: %w", err)
	}
	return nil
}

func (g *GroupPostgreSQL) ListByScope(ctx context.Context, scopeTag string) ([]*models.SimilarQuestionGroup, error) {
	query := g.db.WithContext(ctx).Model(&models.SimilarQuestionGroup{})
	if scopeTag != "" {
		query = query.Where("scope_tag = ?", scopeTag)
	}

	var groups []*models.SimilarQuestionGroup
	if err := query.Order("created_at DESC").Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("failed to list similarity groups: %w", err)
	}
	return groups, nil
}
