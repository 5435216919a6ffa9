package repositories

import (
	"context"

	"github.com/medbank-platform/question-engine/internal/models"
)

// GroupRepository is the similarity-group capability set. Groups are
// create-only from the engine's point of view; review tooling owns reads and
// deletes beyond what is listed here.
type GroupRepository interface {
	// FindByMember returns the group containing the question, or (nil, nil)
	// when the question is ungrouped.
	FindByMember(ctx context.Context, questionID uint) (*models.SimilarQuestionGroup, error)

	// AnyMemberGrouped reports whether any of the given question ids already
	// belongs to a group.
	AnyMemberGrouped(ctx context.Context, questionIDs []uint) (bool, error)

	Create(ctx context.Context, group *models.SimilarQuestionGroup) error
	ListByScope(ctx context.Context, scopeTag string) ([]*models.SimilarQuestionGroup, error)
}
