package models

import (
	"time"

	"gorm.io/gorm"
)

type QuizStatus string

const (
	QuizStatusActive    QuizStatus = "Active"
	QuizStatusSuspended QuizStatus = "Suspended"
	QuizStatusEnded     QuizStatus = "Ended"
)

type Quiz struct {
	ID     uint       `json:"id" gorm:"primaryKey"`
	UserID string     `json:"user_id" gorm:"size:64;not null;index"`
	Status QuizStatus `json:"status" gorm:"size:16;default:Active;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Items []QuizItem `json:"items" gorm:"foreignKey:QuizID"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// QuizItem is one question slot inside a quiz instance. Marked carries the
// user's review flag and dominates answer outcome during mode
// classification.
type QuizItem struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	QuizID     uint `json:"quiz_id" gorm:"not null;index"`
	QuestionID uint `json:"question_id" gorm:"not null;index"`
	Order      int  `json:"order" gorm:"not null;default:0"`
	Marked     bool `json:"marked" gorm:"default:false"`

	Responses []Response `json:"responses" gorm:"foreignKey:QuizItemID"`
}

func (QuizItem) TableName() string {
	return "quiz_items"
}

// Response is a single submitted answer. Responses are append-only; a
// question's current state for a user is decided by its latest response.
// A nil ChoiceID means the question was omitted, in which case IsCorrect
// is nil as well.
type Response struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuizItemID uint   `json:"quiz_item_id" gorm:"not null;index"`
	UserID     string `json:"user_id" gorm:"size:64;not null;index"`
	ChoiceID   *uint  `json:"choice_id"`
	IsCorrect  *bool  `json:"is_correct"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (Response) TableName() string {
	return "responses"
}
