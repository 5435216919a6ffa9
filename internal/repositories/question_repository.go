package repositories

import (
	"context"
	"time"

	"github.com/medbank-platform/question-engine/internal/models"
)

// QuestionRepository is the corpus-store capability set.
type QuestionRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	GetByIDWithTags(ctx context.Context, id uint) (*models.Question, error)

	// Selection queries
	ListPoolIDs(ctx context.Context, filters QuestionPoolFilters) ([]uint, error)
	ListRecentIDs(ctx context.Context, scope string, limit int) ([]uint, error)
	ListIDsByScope(ctx context.Context, scope string) ([]uint, error)
	Count(ctx context.Context, scope string) (int64, error)

	// Similarity queries
	FindSimilarityCandidates(ctx context.Context, filters SimilarityCandidateFilters) ([]*models.Question, error)
	ListCreatedBetween(ctx context.Context, from, to time.Time) ([]*models.Question, error)
	UpdateEmbedding(ctx context.Context, id uint, vector []float64) error
}

// TagRepository is the tag-store capability set.
type TagRepository interface {
	FindByTypeAndValues(ctx context.Context, tagType models.TagType, values []string) ([]*models.Tag, error)
	Upsert(ctx context.Context, tagType models.TagType, value string) (*models.Tag, error)
}

// AttemptRepository is the attempt-history capability set. Both listings are
// restricted to the given user and, when scope is non-empty, to questions in
// that scope.
type AttemptRepository interface {
	ListQuizItems(ctx context.Context, userID, scope string) ([]QuizItemRecord, error)
	ListResponses(ctx context.Context, userID, scope string) ([]ResponseRecord, error)
}
