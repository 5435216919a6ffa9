package services

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/medbank-platform/question-engine/internal/cache"
	"github.com/medbank-platform/question-engine/internal/models"
	"github.com/medbank-platform/question-engine/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func boolPtr(b bool) *bool { return &b }

func TestModeClassifier_Classify(t *testing.T) {
	ctx := context.Background()

	t.Run("assigned but unanswered questions are omitted", func(t *testing.T) {
		repo := newMockRepository()
		repo.question.On("ListIDsByScope", ctx, "Y4").Return([]uint{1, 2, 3}, nil)
		repo.attempt.On("ListQuizItems", ctx, "u1", "Y4").Return([]repositories.QuizItemRecord{
			{QuestionID: 1}, {QuestionID: 2},
		}, nil)
		repo.attempt.On("ListResponses", ctx, "u1", "Y4").Return([]repositories.ResponseRecord{}, nil)

		classifier := NewModeClassifier(repo, cache.NewMemoryCache(), testLogger())
		partition, err := classifier.Classify(ctx, "u1", "Y4")
		require.NoError(t, err)

		assert.ElementsMatch(t, []uint{1, 2}, partition.Bucket(models.ModeOmitted))
		assert.ElementsMatch(t, []uint{3}, partition.Bucket(models.ModeUnused))
		assert.Empty(t, partition.Bucket(models.ModeCorrect))
		assert.Empty(t, partition.Bucket(models.ModeIncorrect))
		assert.Empty(t, partition.Bucket(models.ModeMarked))
	})

	t.Run("latest response wins", func(t *testing.T) {
		repo := newMockRepository()
		now := time.Now()
		repo.question.On("ListIDsByScope", ctx, "").Return([]uint{7}, nil)
		repo.attempt.On("ListQuizItems", ctx, "u1", "").Return([]repositories.QuizItemRecord{
			{QuestionID: 7},
		}, nil)
		// Oldest first: wrong answer, then a correct retry.
		choice := uint(3)
		repo.attempt.On("ListResponses", ctx, "u1", "").Return([]repositories.ResponseRecord{
			{ID: 1, QuestionID: 7, ChoiceID: &choice, IsCorrect: boolPtr(false), CreatedAt: now.Add(-time.Hour)},
			{ID: 2, QuestionID: 7, ChoiceID: &choice, IsCorrect: boolPtr(true), CreatedAt: now},
		}, nil)

		classifier := NewModeClassifier(repo, cache.NewMemoryCache(), testLogger())
		partition, err := classifier.Classify(ctx, "u1", "")
		require.NoError(t, err)

		mode, ok := partition.Mode(7)
		require.True(t, ok)
		assert.Equal(t, models.ModeCorrect, mode)
	})

	t.Run("marking dominates answers", func(t *testing.T) {
		repo := newMockRepository()
		repo.question.On("ListIDsByScope", ctx, "").Return([]uint{5}, nil)
		repo.attempt.On("ListQuizItems", ctx, "u1", "").Return([]repositories.QuizItemRecord{
			{QuestionID: 5, Marked: true},
		}, nil)
		choice := uint(8)
		repo.attempt.On("ListResponses", ctx, "u1", "").Return([]repositories.ResponseRecord{
			{ID: 1, QuestionID: 5, ChoiceID: &choice, IsCorrect: boolPtr(true), CreatedAt: time.Now()},
		}, nil)

		classifier := NewModeClassifier(repo, cache.NewMemoryCache(), testLogger())
		partition, err := classifier.Classify(ctx, "u1", "")
		require.NoError(t, err)

		mode, ok := partition.Mode(5)
		require.True(t, ok)
		assert.Equal(t, models.ModeMarked, mode)
		assert.Empty(t, partition.Bucket(models.ModeCorrect))
	})

	t.Run("answered with unknown correctness counts as incorrect", func(t *testing.T) {
		repo := newMockRepository()
		choice := uint(11)
		repo.question.On("ListIDsByScope", ctx, "").Return([]uint{9}, nil)
		repo.attempt.On("ListQuizItems", ctx, "u1", "").Return([]repositories.QuizItemRecord{
			{QuestionID: 9},
		}, nil)
		repo.attempt.On("ListResponses", ctx, "u1", "").Return([]repositories.ResponseRecord{
			{ID: 1, QuestionID: 9, ChoiceID: &choice, CreatedAt: time.Now()},
		}, nil)

		classifier := NewModeClassifier(repo, cache.NewMemoryCache(), testLogger())
		partition, err := classifier.Classify(ctx, "u1", "")
		require.NoError(t, err)

		assert.ElementsMatch(t, []uint{9}, partition.Bucket(models.ModeIncorrect))
	})

	t.Run("blank response and unanswered assignment are both omitted", func(t *testing.T) {
		repo := newMockRepository()
		repo.question.On("ListIDsByScope", ctx, "").Return([]uint{1, 2, 3}, nil)
		repo.attempt.On("ListQuizItems", ctx, "u1", "").Return([]repositories.QuizItemRecord{
			{QuestionID: 1}, {QuestionID: 2},
		}, nil)
		// Q1 has a response with no chosen answer; Q2 was assigned and never
		// answered; Q3 was never assigned.
		repo.attempt.On("ListResponses", ctx, "u1", "").Return([]repositories.ResponseRecord{
			{ID: 1, QuestionID: 1, CreatedAt: time.Now()},
		}, nil)

		classifier := NewModeClassifier(repo, cache.NewMemoryCache(), testLogger())
		partition, err := classifier.Classify(ctx, "u1", "")
		require.NoError(t, err)

		assert.ElementsMatch(t, []uint{1, 2}, partition.Bucket(models.ModeOmitted))
		assert.ElementsMatch(t, []uint{3}, partition.Bucket(models.ModeUnused))
		assert.Empty(t, partition.Bucket(models.ModeCorrect))
		assert.Empty(t, partition.Bucket(models.ModeIncorrect))
		assert.Empty(t, partition.Bucket(models.ModeMarked))
	})

	t.Run("every corpus question lands in exactly one bucket", func(t *testing.T) {
		repo := newMockRepository()
		corpus := []uint{1, 2, 3, 4, 5, 6}
		repo.question.On("ListIDsByScope", ctx, "").Return(corpus, nil)
		repo.attempt.On("ListQuizItems", ctx, "u1", "").Return([]repositories.QuizItemRecord{
			{QuestionID: 1}, {QuestionID: 2, Marked: true}, {QuestionID: 3}, {QuestionID: 4},
		}, nil)
		choice := uint(20)
		repo.attempt.On("ListResponses", ctx, "u1", "").Return([]repositories.ResponseRecord{
			{ID: 1, QuestionID: 3, ChoiceID: &choice, IsCorrect: boolPtr(true), CreatedAt: time.Now()},
			{ID: 2, QuestionID: 4, ChoiceID: &choice, IsCorrect: boolPtr(false), CreatedAt: time.Now()},
		}, nil)

		classifier := NewModeClassifier(repo, cache.NewMemoryCache(), testLogger())
		partition, err := classifier.Classify(ctx, "u1", "")
		require.NoError(t, err)

		total := 0
		seen := make(map[uint]int)
		for _, mode := range models.AllQuestionModes {
			for _, id := range partition.Bucket(mode) {
				seen[id]++
				total++
			}
		}
		assert.Equal(t, len(corpus), total)
		for id, count := range seen {
			assert.Equal(t, 1, count, "question %d in multiple buckets", id)
		}
	})
}

func TestModePartition_Union(t *testing.T) {
	p := newModePartition()
	p.assign(models.ModeCorrect, 1)
	p.assign(models.ModeCorrect, 2)
	p.assign(models.ModeIncorrect, 3)
	p.assign(models.ModeMarked, 2) // deliberate overlap for union dedup

	union := p.Union([]models.QuestionMode{models.ModeCorrect, models.ModeMarked})
	assert.ElementsMatch(t, []uint{1, 2}, union)

	empty := p.Union(nil)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestModeClassifier_Counts(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	repo.question.On("ListIDsByScope", ctx, "Y5").Return([]uint{1, 2}, nil).Once()
	repo.attempt.On("ListQuizItems", ctx, "u1", "Y5").Return([]repositories.QuizItemRecord{}, nil).Once()
	repo.attempt.On("ListResponses", ctx, "u1", "Y5").Return([]repositories.ResponseRecord{}, nil).Once()

	classifier := NewModeClassifier(repo, cache.NewMemoryCache(), testLogger())

	counts, err := classifier.Counts(ctx, "u1", "Y5")
	require.NoError(t, err)
	assert.Equal(t, 2, counts[models.ModeUnused])
	assert.Equal(t, 0, counts[models.ModeCorrect])

	// Second call is served from cache; the Once() expectations above would
	// fail if the repository were hit again.
	cached, err := classifier.Counts(ctx, "u1", "Y5")
	require.NoError(t, err)
	assert.Equal(t, counts, cached)

	repo.question.AssertExpectations(t)
	repo.attempt.AssertExpectations(t)
}
