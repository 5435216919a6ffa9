package postgres

import (
	"context"
	"fmt"

	"github.com/medbank-platform/question-engine/internal/models"
	"github.com/medbank-platform/question-engine/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TagPostgreSQL struct {
	db *gorm.DB
}

func NewTagPostgreSQL(db *gorm.DB) repositories.TagRepository {
	return &TagPostgreSQL{db: db}
}

func (t *TagPostgreSQL) FindByTypeAndValues(ctx context.Context, tagType models.TagType, values []string) ([]*models.Tag, error) {
	if len(values) == 0 {
		return nil, nil
	}

	var tags []*models.Tag
	err := t.db.WithContext(ctx).
		Where("type = ? AND LOWER(value) IN ?", string(tagType), lowered(values)).
		Find(&tags).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find tags: %w", err)
	}
	return tags, nil
}

// Upsert inserts the (type, value) pair if absent and returns the stored row
// either way. Relies on the idx_tags_type_value unique index.
func (t *TagPostgreSQL) Upsert(ctx context.Context, tagType models.TagType, value string) (*models.Tag, error) {
	tag := &models.Tag{Type: tagType, Value: value}
	err := t.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "type"}, {Name: "value"}},
			DoNothing: true,
		}).
		Create(tag).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert tag: %w", err)
	}

	// DoNothing leaves ID zero on conflict; fetch the winner.
	if tag.ID == 0 {
		err = t.db.WithContext(ctx).
			Where("type = ? AND value = ?", string(tagType), value).
			First(tag).Error
		if err != nil {
			return nil, fmt.Errorf("failed to load upserted tag: %w", err)
		}
	}
	return tag, nil
}
