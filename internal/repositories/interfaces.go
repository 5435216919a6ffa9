package repositories

import (
	"time"

	"github.com/medbank-platform/question-engine/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

// QuestionPoolFilters describes the candidate-pool query used by the
// selector. TagValues carries pre-expanded value variants per tag type:
// a question must match at least one value of every type present (OR within
// a type, AND across types). IncludeIDs, when non-nil, restricts the pool to
// the given ids (the mode-bucket union).
type QuestionPoolFilters struct {
	Scope      string                      `json:"scope"`
	TagValues  map[models.TagType][]string `json:"tag_values"`
	IncludeIDs []uint                      `json:"include_ids"`
	Limit      int                         `json:"limit"`
}

// SimilarityCandidateFilters bounds the duplicate-detection candidate set:
// other questions sharing a rotation value (case-insensitive), in the same
// scope, created after the window cutoff, with a stored embedding.
type SimilarityCandidateFilters struct {
	ExcludeID    uint      `json:"exclude_id"`
	Rotation     string    `json:"rotation"`
	Scope        string    `json:"scope"`
	CreatedAfter time.Time `json:"created_after"`
}

// ===== HISTORY PROJECTIONS =====

// QuizItemRecord is the slice of a quiz item the mode classifier needs.
type QuizItemRecord struct {
	QuestionID uint `json:"question_id"`
	Marked     bool `json:"marked"`
}

// ResponseRecord is one submitted answer joined with its quiz item. Records
// are returned ordered by creation time ascending, ties broken by id, so a
// last-write map reduction deterministically yields the latest response per
// question.
type ResponseRecord struct {
	ID         uint      `json:"id"`
	QuestionID uint      `json:"question_id"`
	Marked     bool      `json:"marked"`
	ChoiceID   *uint     `json:"choice_id"`
	IsCorrect  *bool     `json:"is_correct"`
	CreatedAt  time.Time `json:"created_at"`
}

// ===== AGGREGATE =====

// Repository bundles the collaborator capability sets the engine consumes.
type Repository interface {
	Question() QuestionRepository
	Tag() TagRepository
	Attempt() AttemptRepository
	Group() GroupRepository
}
