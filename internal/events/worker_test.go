package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/medbank-platform/question-engine/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChecker struct {
	checked []uint
	result  *services.SimilarityResult
	err     error
}

func (f *fakeChecker) CheckSimilar(_ context.Context, questionID uint) (*services.SimilarityResult, error) {
	f.checked = append(f.checked, questionID)
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &services.SimilarityResult{QuestionID: questionID}, nil
}

func (f *fakeChecker) ScanRecent(context.Context) (*services.ScanSummary, error) {
	return &services.ScanSummary{}, nil
}

func newTestWorker(checker services.SimilarityService) *SimilarityWorker {
	return &SimilarityWorker{
		checker: checker,
		logger:  slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})),
	}
}

func eventMessage(t *testing.T, event *QuestionEvent) *message.Message {
	t.Helper()
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	return message.NewMessage(event.ID, payload)
}

func TestSimilarityWorker_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("question created triggers check", func(t *testing.T) {
		checker := &fakeChecker{}
		worker := newTestWorker(checker)

		event := NewQuestionEvent(EventQuestionCreated, QuestionCreatedEvent{QuestionID: 42})
		worker.handle(ctx, eventMessage(t, event))

		assert.Equal(t, []uint{42}, checker.checked)
	})

	t.Run("other event types are ignored", func(t *testing.T) {
		checker := &fakeChecker{}
		worker := newTestWorker(checker)

		event := NewQuestionEvent(EventQuestionUpdated, QuestionUpdatedEvent{QuestionID: 42})
		worker.handle(ctx, eventMessage(t, event))

		assert.Empty(t, checker.checked)
	})

	t.Run("malformed payload is dropped without panic", func(t *testing.T) {
		checker := &fakeChecker{}
		worker := newTestWorker(checker)

		worker.handle(ctx, message.NewMessage("bad", []byte("not json")))
		assert.Empty(t, checker.checked)
	})

	t.Run("missing question id is dropped", func(t *testing.T) {
		checker := &fakeChecker{}
		worker := newTestWorker(checker)

		event := NewQuestionEvent(EventQuestionCreated, QuestionCreatedEvent{})
		worker.handle(ctx, eventMessage(t, event))
		assert.Empty(t, checker.checked)
	})
}

func TestMockEventPublisher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	publisher := NewMockEventPublisher(logger)

	event := NewQuestionEvent(EventQuestionCreated, QuestionCreatedEvent{QuestionID: 7})
	require.NoError(t, publisher.PublishQuestionEvent(context.Background(), event))

	require.Len(t, publisher.Events, 1)
	assert.Equal(t, EventQuestionCreated, publisher.Events[0].Type)
	assert.NoError(t, publisher.Close())
}
