package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/medbank-platform/question-engine/internal/cache"
)

const embeddingCacheTTL = 7 * 24 * time.Hour

// CachedProvider wraps a Provider with a content-addressed cache so repeated
// checks of the same text never re-bill the embeddings API. Cache failures
// degrade to a direct provider call.
type CachedProvider struct {
	provider Provider
	cache    cache.CacheService
	logger   *slog.Logger
}

func NewCachedProvider(provider Provider, cacheService cache.CacheService, logger *slog.Logger) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		cache:    cacheService,
		logger:   logger,
	}
}

func (c *CachedProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	key := cacheKey(text)

	var cached []float64
	err := c.cache.Get(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		c.logger.Warn("embedding cache read failed", "error", err)
	}

	vector, err := c.provider.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, vector, embeddingCacheTTL); err != nil {
		c.logger.Warn("embedding cache write failed", "error", err)
	}
	return vector, nil
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "embedding:" + hex.EncodeToString(sum[:])
}
