package postgres

import (
	"github.com/medbank-platform/question-engine/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	question repositories.QuestionRepository
	tag      repositories.TagRepository
	attempt  repositories.AttemptRepository
	group    repositories.GroupRepository
}

// NewRepository builds the PostgreSQL-backed aggregate over a shared gorm
// connection.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		question: NewQuestionPostgreSQL(db),
		tag:      NewTagPostgreSQL(db),
		attempt:  NewAttemptPostgreSQL(db),
		group:    NewGroupPostgreSQL(db),
	}
}

func (r *repository) Question() repositories.QuestionRepository { return r.question }
func (r *repository) Tag() repositories.TagRepository           { return r.tag }
func (r *repository) Attempt() repositories.AttemptRepository   { return r.attempt }
func (r *repository) Group() repositories.GroupRepository       { return r.group }
