package models

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// SimilarQuestionGroup is a persisted cluster of questions believed to be
// near-duplicates. Groups are immutable once created: the engine never
// merges groups, never changes membership and never re-scores. Admin review
// tooling reads and deletes them.
type SimilarQuestionGroup struct {
	ID uint `json:"id" gorm:"primaryKey"`

	QuestionIDs datatypes.JSONSlice[uint] `json:"question_ids" gorm:"type:jsonb;not null"`

	// SimilarityScores maps an ordered id pair (see PairKey) to the rounded
	// similarity percentage observed at detection time.
	SimilarityScores datatypes.JSONType[map[string]int] `json:"similarity_scores" gorm:"type:jsonb"`

	// ScopeTag records the cohort the group was detected in ("year4",
	// "year5").
	ScopeTag string `json:"scope_tag" gorm:"size:16;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SimilarQuestionGroup) TableName() string {
	return "similar_question_groups"
}

// Contains reports whether the group holds the given question id.
func (g *SimilarQuestionGroup) Contains(questionID uint) bool {
	for _, id := range g.QuestionIDs {
		if id == questionID {
			return true
		}
	}
	return false
}

// PairKey builds the canonical score-map key for a question id pair. The
// smaller id always comes first so the same two questions yield the same key
// regardless of detection direction.
func PairKey(a, b uint) string {
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("%d-%d", a, b)
}
