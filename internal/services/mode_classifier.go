package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/medbank-platform/question-engine/internal/cache"
	"github.com/medbank-platform/question-engine/internal/models"
	"github.com/medbank-platform/question-engine/internal/repositories"
)

const modeCountsCacheTTL = 60 * time.Second

// ModeClassifier derives a user's per-question modes from attempt history.
type ModeClassifier interface {
	Classify(ctx context.Context, userID, scope string) (*ModePartition, error)
	Counts(ctx context.Context, userID, scope string) (map[models.QuestionMode]int, error)
}

// ModePartition assigns every question in a corpus to exactly one mode
// bucket for one user.
type ModePartition struct {
	buckets map[models.QuestionMode]map[uint]struct{}
}

func newModePartition() *ModePartition {
	buckets := make(map[models.QuestionMode]map[uint]struct{}, len(models.AllQuestionModes))
	for _, mode := range models.AllQuestionModes {
		buckets[mode] = make(map[uint]struct{})
	}
	return &ModePartition{buckets: buckets}
}

func (p *ModePartition) assign(mode models.QuestionMode, id uint) {
	p.buckets[mode][id] = struct{}{}
}

// Bucket returns the question ids in one mode.
func (p *ModePartition) Bucket(mode models.QuestionMode) []uint {
	ids := make([]uint, 0, len(p.buckets[mode]))
	for id := range p.buckets[mode] {
		ids = append(ids, id)
	}
	return ids
}

// Union returns the combined membership of the given modes, deduplicated.
// An empty mode list yields an empty (non-nil) slice.
func (p *ModePartition) Union(modes []models.QuestionMode) []uint {
	seen := make(map[uint]struct{})
	ids := []uint{}
	for _, mode := range modes {
		for id := range p.buckets[mode] {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

// Counts returns the bucket sizes keyed by mode.
func (p *ModePartition) Counts() map[models.QuestionMode]int {
	counts := make(map[models.QuestionMode]int, len(p.buckets))
	for mode, bucket := range p.buckets {
		counts[mode] = len(bucket)
	}
	return counts
}

// Mode reports the bucket a question was assigned, if any.
func (p *ModePartition) Mode(id uint) (models.QuestionMode, bool) {
	for _, mode := range models.AllQuestionModes {
		if _, ok := p.buckets[mode][id]; ok {
			return mode, true
		}
	}
	return "", false
}

type modeClassifier struct {
	repo   repositories.Repository
	cache  cache.CacheService
	logger *slog.Logger
}

func NewModeClassifier(repo repositories.Repository, cacheService cache.CacheService, logger *slog.Logger) ModeClassifier {
	return &modeClassifier{
		repo:   repo,
		cache:  cacheService,
		logger: logger,
	}
}

// Classify partitions the scope's corpus for one user. Marking dominates:
// a question marked in any quiz is "marked" no matter how it was answered.
// Otherwise the user's latest response decides correct/incorrect, assigned
// but unanswered questions are "omitted", and everything else is "unused".
func (c *modeClassifier) Classify(ctx context.Context, userID, scope string) (*ModePartition, error) {
	corpusIDs, err := c.repo.Question().ListIDsByScope(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}

	items, err := c.repo.Attempt().ListQuizItems(ctx, userID, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz items: %w", err)
	}

	responses, err := c.repo.Attempt().ListResponses(ctx, userID, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to load responses: %w", err)
	}

	used := make(map[uint]struct{}, len(items))
	marked := make(map[uint]struct{})
	for _, item := range items {
		used[item.QuestionID] = struct{}{}
		if item.Marked {
			marked[item.QuestionID] = struct{}{}
		}
	}

	// Responses arrive oldest first, so overwriting leaves the latest answer
	// per question.
	latest := make(map[uint]repositories.ResponseRecord)
	for _, resp := range responses {
		latest[resp.QuestionID] = resp
		if resp.Marked {
			marked[resp.QuestionID] = struct{}{}
		}
	}

	corpus := make(map[uint]struct{}, len(corpusIDs))
	for _, id := range corpusIDs {
		corpus[id] = struct{}{}
	}

	partition := newModePartition()
	for _, id := range corpusIDs {
		partition.assign(c.modeFor(id, used, marked, latest), id)
	}

	// History can reference questions outside the current scope listing
	// (soft-deleted or re-scoped); those simply never enter a bucket.
	for id := range used {
		if _, ok := corpus[id]; !ok {
			c.logger.Debug("attempted question outside corpus", "question_id", id, "user_id", userID)
		}
	}

	return partition, nil
}

func (c *modeClassifier) modeFor(
	id uint,
	used map[uint]struct{},
	marked map[uint]struct{},
	latest map[uint]repositories.ResponseRecord,
) models.QuestionMode {
	if _, ok := marked[id]; ok {
		return models.ModeMarked
	}
	if resp, ok := latest[id]; ok {
		// A submitted-but-blank response counts as omitted, same as an
		// assignment that was never answered.
		if resp.ChoiceID == nil {
			return models.ModeOmitted
		}
		if resp.IsCorrect != nil && *resp.IsCorrect {
			return models.ModeCorrect
		}
		return models.ModeIncorrect
	}
	if _, ok := used[id]; ok {
		return models.ModeOmitted
	}
	return models.ModeUnused
}

// Counts returns bucket sizes, cached briefly per (user, scope) since the
// dashboard polls it. Cache failures fall through to a fresh classification.
func (c *modeClassifier) Counts(ctx context.Context, userID, scope string) (map[models.QuestionMode]int, error) {
	key := fmt.Sprintf("modecounts:%s:%s", userID, scope)

	var cached map[models.QuestionMode]int
	err := c.cache.Get(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		c.logger.Warn("mode counts cache read failed", "error", err)
	}

	partition, err := c.Classify(ctx, userID, scope)
	if err != nil {
		return nil, err
	}
	counts := partition.Counts()

	if err := c.cache.Set(ctx, key, counts, modeCountsCacheTTL); err != nil {
		c.logger.Warn("mode counts cache write failed", "error", err)
	}
	return counts, nil
}
