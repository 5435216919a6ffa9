package services

import (
	"context"
	"time"

	"github.com/medbank-platform/question-engine/internal/models"
	"github.com/medbank-platform/question-engine/internal/repositories"
	"github.com/stretchr/testify/mock"
)

// MockQuestionRepository is a mock implementation of QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetByIDWithTags(ctx context.Context, id uint) (*models.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) ListPoolIDs(ctx context.Context, filters repositories.QuestionPoolFilters) ([]uint, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockQuestionRepository) ListRecentIDs(ctx context.Context, scope string, limit int) ([]uint, error) {
	args := m.Called(ctx, scope, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockQuestionRepository) ListIDsByScope(ctx context.Context, scope string) ([]uint, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockQuestionRepository) Count(ctx context.Context, scope string) (int64, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuestionRepository) FindSimilarityCandidates(ctx context.Context, filters repositories.SimilarityCandidateFilters) ([]*models.Question, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]*models.Question, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) UpdateEmbedding(ctx context.Context, id uint, vector []float64) error {
	args := m.Called(ctx, id, vector)
	return args.Error(0)
}

// MockTagRepository is a mock implementation of TagRepository
type MockTagRepository struct {
	mock.Mock
}

func (m *MockTagRepository) FindByTypeAndValues(ctx context.Context, tagType models.TagType, values []string) ([]*models.Tag, error) {
	args := m.Called(ctx, tagType, values)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Tag), args.Error(1)
}

func (m *MockTagRepository) Upsert(ctx context.Context, tagType models.TagType, value string) (*models.Tag, error) {
	args := m.Called(ctx, tagType, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tag), args.Error(1)
}

// MockAttemptRepository is a mock implementation of AttemptRepository
type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) ListQuizItems(ctx context.Context, userID, scope string) ([]repositories.QuizItemRecord, error) {
	args := m.Called(ctx, userID, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repositories.QuizItemRecord), args.Error(1)
}

func (m *MockAttemptRepository) ListResponses(ctx context.Context, userID, scope string) ([]repositories.ResponseRecord, error) {
	args := m.Called(ctx, userID, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repositories.ResponseRecord), args.Error(1)
}

// MockGroupRepository is a mock implementation of GroupRepository
type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) FindByMember(ctx context.Context, questionID uint) (*models.SimilarQuestionGroup, error) {
	args := m.Called(ctx, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SimilarQuestionGroup), args.Error(1)
}

func (m *MockGroupRepository) AnyMemberGrouped(ctx context.Context, questionIDs []uint) (bool, error) {
	args := m.Called(ctx, questionIDs)
	return args.Bool(0), args.Error(1)
}

func (m *MockGroupRepository) Create(ctx context.Context, group *models.SimilarQuestionGroup) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockGroupRepository) ListByScope(ctx context.Context, scopeTag string) ([]*models.SimilarQuestionGroup, error) {
	args := m.Called(ctx, scopeTag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SimilarQuestionGroup), args.Error(1)
}

// mockRepository bundles the mocks behind the Repository aggregate
type mockRepository struct {
	question *MockQuestionRepository
	tag      *MockTagRepository
	attempt  *MockAttemptRepository
	group    *MockGroupRepository
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		question: new(MockQuestionRepository),
		tag:      new(MockTagRepository),
		attempt:  new(MockAttemptRepository),
		group:    new(MockGroupRepository),
	}
}

func (r *mockRepository) Question() repositories.QuestionRepository { return r.question }
func (r *mockRepository) Tag() repositories.TagRepository           { return r.tag }
func (r *mockRepository) Attempt() repositories.AttemptRepository   { return r.attempt }
func (r *mockRepository) Group() repositories.GroupRepository       { return r.group }

// stubProvider returns canned embeddings keyed by text
type stubProvider struct {
	vectors map[string][]float64
	err     error
}

func (s *stubProvider) Embed(_ context.Context, text string) ([]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	return []float64{1, 0, 0}, nil
}
