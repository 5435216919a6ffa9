package events

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"
)

// EventType represents different types of question lifecycle events
type EventType string

const (
	// Question events
	EventQuestionCreated EventType = "question.created"
	EventQuestionUpdated EventType = "question.updated"

	// Similarity events
	EventSimilarityGroupCreated  EventType = "similarity.group_created"
	EventSimilarityScanRequested EventType = "similarity.scan_requested"
)

// QuestionEvent is the base event structure for all question events
type QuestionEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Question event payloads

type QuestionCreatedEvent struct {
	QuestionID   uint      `json:"question_id"`
	YearCaptured string    `json:"year_captured"`
	CreatedAt    time.Time `json:"created_at"`
}

type QuestionUpdatedEvent struct {
	QuestionID uint      `json:"question_id"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type SimilarityGroupCreatedEvent struct {
	GroupID     uint   `json:"group_id"`
	QuestionIDs []uint `json:"question_ids"`
	ScopeTag    string `json:"scope_tag"`
}

// NewQuestionEvent creates a new event with generated ID and timestamp
func NewQuestionEvent(eventType EventType, data interface{}) *QuestionEvent {
	return &QuestionEvent{
		ID:        watermill.NewUUID(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    "question-engine",
		Version:   "1.0",
		Data:      data,
	}
}
