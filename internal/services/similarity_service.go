package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/medbank-platform/question-engine/internal/embedding"
	"github.com/medbank-platform/question-engine/internal/models"
	"github.com/medbank-platform/question-engine/internal/repositories"
	"github.com/medbank-platform/question-engine/internal/tags"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	// similarityThresholdPercent is the minimum rounded similarity for two
	// questions to be considered duplicates.
	similarityThresholdPercent = 50

	// candidateWindow bounds how far back comparison targets are drawn from.
	candidateWindow = 24 * time.Hour

	// minQuestionTextLength filters out stems too short to embed usefully.
	minQuestionTextLength = 20
)

// SimilarityMatch records one above-threshold comparison.
type SimilarityMatch struct {
	QuestionID uint `json:"question_id"`
	Percent    int  `json:"percent"`
}

// SimilarityResult is the outcome of checking one question.
type SimilarityResult struct {
	QuestionID   uint              `json:"question_id"`
	Skipped      bool              `json:"skipped"`
	SkipReason   string            `json:"skip_reason,omitempty"`
	GroupCreated bool              `json:"group_created"`
	GroupID      uint              `json:"group_id,omitempty"`
	Matches      []SimilarityMatch `json:"matches,omitempty"`
}

// ScanSummary aggregates a rescan pass.
type ScanSummary struct {
	Scanned int `json:"scanned"`
	Grouped int `json:"grouped"`
	Failed  int `json:"failed"`
}

// SimilarityService detects near-duplicate questions and persists them as
// review groups.
type SimilarityService interface {
	CheckSimilar(ctx context.Context, questionID uint) (*SimilarityResult, error)
	ScanRecent(ctx context.Context) (*ScanSummary, error)
}

type similarityService struct {
	repo     repositories.Repository
	provider embedding.Provider
	registry *tags.Registry
	logger   *slog.Logger

	now func() time.Time
}

func NewSimilarityService(
	repo repositories.Repository,
	provider embedding.Provider,
	registry *tags.Registry,
	logger *slog.Logger,
) SimilarityService {
	return &similarityService{
		repo:     repo,
		provider: provider,
		registry: registry,
		logger:   logger,
		now:      time.Now,
	}
}

// CheckSimilar compares one question against recent same-rotation questions
// and records a similarity group when any comparison clears the threshold.
// Questions without a whitelisted rotation tag, or with a stem shorter than
// the minimum, are skipped rather than failed.
func (s *similarityService) CheckSimilar(ctx context.Context, questionID uint) (*SimilarityResult, error) {
	question, err := s.repo.Question().GetByIDWithTags(ctx, questionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: id %d", ErrQuestionNotFound, questionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load question %d: %w", questionID, err)
	}

	result := &SimilarityResult{QuestionID: questionID}

	text := strings.TrimSpace(question.Text)
	if len(text) < minQuestionTextLength {
		result.Skipped = true
		result.SkipReason = "question text too short"
		return result, nil
	}

	rotation, ok := s.rotationOf(question)
	if !ok {
		result.Skipped = true
		result.SkipReason = "no recognized rotation tag"
		return result, nil
	}

	vector, err := s.ensureEmbedding(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingUnavailable, err)
	}

	scope := scopeContext(question)
	candidates, err := s.repo.Question().FindSimilarityCandidates(ctx, repositories.SimilarityCandidateFilters{
		ExcludeID:    questionID,
		Rotation:     rotation,
		Scope:        scope,
		CreatedAfter: s.now().Add(-candidateWindow),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}

	scores := make(map[string]int)
	memberIDs := []uint{questionID}
	for _, candidate := range candidates {
		sim, err := embedding.CosineSimilarity(vector, []float64(candidate.Embedding))
		if err != nil {
			s.logger.Warn("skipping incomparable candidate",
				"question_id", questionID,
				"candidate_id", candidate.ID,
				"error", err)
			continue
		}
		percent := embedding.SimilarityPercent(sim)
		if percent < similarityThresholdPercent {
			continue
		}
		result.Matches = append(result.Matches, SimilarityMatch{QuestionID: candidate.ID, Percent: percent})
		scores[models.PairKey(questionID, candidate.ID)] = percent
		memberIDs = append(memberIDs, candidate.ID)
	}

	if len(memberIDs) < 2 {
		return result, nil
	}
	sort.Slice(memberIDs, func(i, j int) bool { return memberIDs[i] < memberIDs[j] })

	// First group wins: if any member is already grouped, the finding is
	// already on file and no new group is written.
	grouped, err := s.repo.Group().AnyMemberGrouped(ctx, memberIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing groups: %w", err)
	}
	if grouped {
		s.logger.Info("similar questions already grouped", "question_id", questionID)
		return result, nil
	}

	group := &models.SimilarQuestionGroup{
		QuestionIDs:      datatypes.JSONSlice[uint](memberIDs),
		SimilarityScores: datatypes.NewJSONType(scores),
		ScopeTag:         scope,
	}
	if err := s.repo.Group().Create(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to persist similarity group: %w", err)
	}

	result.GroupCreated = true
	result.GroupID = group.ID
	s.logger.Info("similarity group created",
		"group_id", group.ID,
		"members", len(memberIDs),
		"scope", scope)
	return result, nil
}

// ScanRecent re-checks questions created in the hour that just aged past the
// live-check window, catching any that were created before their neighbors.
func (s *similarityService) ScanRecent(ctx context.Context) (*ScanSummary, error) {
	to := s.now().Add(-(candidateWindow - time.Hour))
	from := s.now().Add(-candidateWindow)

	questions, err := s.repo.Question().ListCreatedBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list rescan window: %w", err)
	}

	summary := &ScanSummary{}
	for _, question := range questions {
		summary.Scanned++
		result, err := s.CheckSimilar(ctx, question.ID)
		if err != nil {
			summary.Failed++
			s.logger.Error("rescan check failed", "question_id", question.ID, "error", err)
			continue
		}
		if result.GroupCreated {
			summary.Grouped++
		}
	}

	s.logger.Info("similarity rescan complete",
		"scanned", summary.Scanned,
		"grouped", summary.Grouped,
		"failed", summary.Failed)
	return summary, nil
}

// ensureEmbedding returns the stored vector, computing and persisting it on
// first use.
func (s *similarityService) ensureEmbedding(ctx context.Context, question *models.Question) ([]float64, error) {
	if question.HasEmbedding() {
		return []float64(question.Embedding), nil
	}

	vector, err := s.provider.Embed(ctx, question.Text)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Question().UpdateEmbedding(ctx, question.ID, vector); err != nil {
		// The comparison can still proceed on the in-memory vector.
		s.logger.Warn("failed to store embedding", "question_id", question.ID, "error", err)
	}
	return vector, nil
}

// rotationOf resolves the question's rotation from its tags, accepting only
// values in the catalog whitelist.
func (s *similarityService) rotationOf(question *models.Question) (string, bool) {
	whitelist := s.registry.RotationValues()
	for _, qt := range question.QuestionTags {
		if qt.Tag.Type != models.TagTypeRotation {
			continue
		}
		value := strings.ToLower(strings.TrimSpace(qt.Tag.Value))
		if _, ok := whitelist[value]; ok {
			return value, true
		}
	}
	return "", false
}

// scopeContext maps a question's capture year to the cohort label recorded
// on groups.
func scopeContext(question *models.Question) string {
	switch strings.ToUpper(strings.TrimSpace(question.YearCaptured)) {
	case "Y5", "5":
		return "year5"
	default:
		return "year4"
	}
}
