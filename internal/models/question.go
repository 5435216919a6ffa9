package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TagType string

const (
	TagTypeRotation TagType = "ROTATION"
	TagTypeResource TagType = "RESOURCE"
	TagTypeSubject  TagType = "SUBJECT"
	TagTypeSystem   TagType = "SYSTEM"
	TagTypeTopic    TagType = "TOPIC"
	TagTypeMode     TagType = "MODE"
)

type Question struct {
	ID       uint `json:"id" gorm:"primaryKey"`
	CustomID *int `json:"custom_id" gorm:"uniqueIndex"`

	Text        string  `json:"text" gorm:"type:text;not null" validate:"required"`
	Explanation *string `json:"explanation" gorm:"type:text"`

	// YearCaptured scopes the question to the cohort it was authored for
	// ("Y4", "Y5"). Historical rows may carry the bare digit form ("4").
	YearCaptured string `json:"year_captured" gorm:"size:8;index"`

	// Embedding is the stored similarity vector for the question text.
	// Written once by the similarity engine; question edits do not
	// invalidate it.
	Embedding datatypes.JSONSlice[float64] `json:"-" gorm:"type:jsonb"`

	CreatedAt time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Choices      []AnswerChoice       `json:"choices" gorm:"foreignKey:QuestionID"`
	Occurrences  []QuestionOccurrence `json:"occurrences" gorm:"foreignKey:QuestionID"`
	QuestionTags []QuestionTag        `json:"question_tags" gorm:"foreignKey:QuestionID"`
}

func (Question) TableName() string {
	return "questions"
}

// HasEmbedding reports whether a similarity vector has been stored for the
// question.
func (q *Question) HasEmbedding() bool {
	return len(q.Embedding) > 0
}

type AnswerChoice struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	Text       string `json:"text" gorm:"type:text;not null" validate:"required"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
}

func (AnswerChoice) TableName() string {
	return "answer_choices"
}

// QuestionOccurrence records a historical appearance of the question
// (exam year / rotation context).
type QuestionOccurrence struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	Year       string `json:"year" gorm:"size:8;index"`
	Rotation   string `json:"rotation" gorm:"size:64"`
}

func (QuestionOccurrence) TableName() string {
	return "question_occurrences"
}

type Tag struct {
	ID    uint    `json:"id" gorm:"primaryKey"`
	Type  TagType `json:"type" gorm:"size:16;not null;uniqueIndex:idx_tags_type_value" validate:"required"`
	Value string  `json:"value" gorm:"size:120;not null;uniqueIndex:idx_tags_type_value" validate:"required"`
}

func (Tag) TableName() string {
	return "tags"
}

// QuestionTag is the many-to-many association between questions and tags.
// The unique index keeps (question, tag) pairs from being duplicated.
type QuestionTag struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	QuestionID uint `json:"question_id" gorm:"not null;uniqueIndex:idx_question_tags_pair"`
	TagID      uint `json:"tag_id" gorm:"not null;uniqueIndex:idx_question_tags_pair"`

	Tag Tag `json:"tag" gorm:"foreignKey:TagID"`
}

func (QuestionTag) TableName() string {
	return "question_tags"
}
