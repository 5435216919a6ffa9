package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/medbank-platform/question-engine/internal/models"
	"github.com/medbank-platform/question-engine/internal/repositories"
	"github.com/medbank-platform/question-engine/internal/tags"
	"github.com/medbank-platform/question-engine/internal/validator"
)

// poolMultiplier oversizes the candidate pool relative to the requested
// count so the shuffle has material to draw from.
const poolMultiplier = 3

// SelectRequest describes one quiz-build request. Tag filters OR within a
// category and AND across categories; Modes union together. Empty filter
// slices mean "no restriction on that axis".
type SelectRequest struct {
	UserID         string                `json:"user_id" validate:"required"`
	Scope          string                `json:"scope"`
	RotationKeys   []string              `json:"rotation_keys"`
	ResourceKeys   []string              `json:"resource_keys"`
	DisciplineKeys []string              `json:"discipline_keys"`
	SystemKeys     []string              `json:"system_keys"`
	Modes          []models.QuestionMode `json:"modes" validate:"dive,question_mode"`
	Count          int                   `json:"count" validate:"required,min=1,max=100"`
}

// SelectorService assembles randomized question sets from the corpus.
type SelectorService interface {
	Select(ctx context.Context, req *SelectRequest) ([]uint, error)
}

type selectorService struct {
	repo       repositories.Repository
	classifier ModeClassifier
	registry   *tags.Registry
	validator  *validator.Validator
	logger     *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

type SelectorOption func(*selectorService)

// WithRandSource replaces the shuffle source, used by tests for determinism.
func WithRandSource(src rand.Source) SelectorOption {
	return func(s *selectorService) {
		s.rng = rand.New(src)
	}
}

func NewSelectorService(
	repo repositories.Repository,
	classifier ModeClassifier,
	registry *tags.Registry,
	v *validator.Validator,
	logger *slog.Logger,
	opts ...SelectorOption,
) SelectorService {
	s := &selectorService{
		repo:       repo,
		classifier: classifier,
		registry:   registry,
		validator:  v,
		logger:     logger,
		rng:        rand.New(rand.NewSource(rand.Int63())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *selectorService) Select(ctx context.Context, req *SelectRequest) ([]uint, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	s.logger.Info("Selecting questions",
		"user_id", req.UserID,
		"scope", req.Scope,
		"count", req.Count)

	filters := repositories.QuestionPoolFilters{
		Scope:     req.Scope,
		TagValues: s.expandFilters(req),
		Limit:     poolLimit(req.Count),
	}

	if len(req.Modes) > 0 {
		partition, err := s.classifier.Classify(ctx, req.UserID, req.Scope)
		if err != nil {
			return nil, fmt.Errorf("failed to classify modes: %w", err)
		}
		union := partition.Union(req.Modes)
		if len(union) == 0 {
			// The mode filter has no survivors; tag filters cannot rescue it.
			return []uint{}, nil
		}
		filters.IncludeIDs = union
	}

	pool, err := s.repo.Question().ListPoolIDs(ctx, filters)
	if err != nil || len(pool) == 0 {
		if err != nil {
			s.logger.Warn("filtered pool query failed, falling back to recent questions", "error", err)
		}
		pool, err = s.repo.Question().ListRecentIDs(ctx, req.Scope, poolLimit(req.Count))
		if err != nil {
			return nil, fmt.Errorf("failed to build candidate pool: %w", err)
		}
	}
	if len(pool) == 0 {
		return []uint{}, nil
	}

	s.shuffle(pool)
	if len(pool) > req.Count {
		pool = pool[:req.Count]
	}
	return pool, nil
}

// expandFilters canonicalizes each requested value and widens it to every
// equivalent stored spelling.
func (s *selectorService) expandFilters(req *SelectRequest) map[models.TagType][]string {
	out := make(map[models.TagType][]string)
	add := func(category tags.Category, values []string) {
		if len(values) == 0 {
			return
		}
		out[category.TagType()] = s.registry.Expand(category, values)
	}
	add(tags.CategoryRotation, req.RotationKeys)
	add(tags.CategoryResource, req.ResourceKeys)
	add(tags.CategoryDiscipline, req.DisciplineKeys)
	add(tags.CategorySystem, req.SystemKeys)
	return out
}

func (s *selectorService) shuffle(ids []uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
}

func poolLimit(count int) int {
	limit := count * poolMultiplier
	if limit < count {
		limit = count
	}
	return limit
}
