package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rhythmiaheartcare/rhythmia-web/internal/domain"
)

// approvedKey is the cache key for the approved-review list. There is exactly
// one public list, so a single key suffices.
const approvedKey = "reviews:approved"

// ReviewCache caches the approved-review list in Redis with a short TTL.
// A nil client disables caching; every method becomes a no-op miss, so the
// service code never has to branch on whether Redis is configured.
type ReviewCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewReviewCache creates a review cache. Pass a nil client to disable caching.
func NewReviewCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *ReviewCache {
	return &ReviewCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// GetApproved returns the cached approved reviews, or (nil, false) on a miss.
// Cache errors are logged and treated as misses; the store remains the source
// of truth.
func (c *ReviewCache) GetApproved(ctx context.Context) ([]domain.Review, bool) {
	if c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, approvedKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "review cache read failed", slog.String("error", err.Error()))
		}
		return nil, false
	}

	var reviews []domain.Review
	if err := json.Unmarshal(data, &reviews); err != nil {
		c.logger.WarnContext(ctx, "review cache entry corrupt, dropping", slog.String("error", err.Error()))
		c.Invalidate(ctx)
		return nil, false
	}

	return reviews, true
}

// SetApproved stores the approved-review list with the configured TTL.
func (c *ReviewCache) SetApproved(ctx context.Context, reviews []domain.Review) {
	if c.client == nil {
		return
	}

	data, err := json.Marshal(reviews)
	if err != nil {
		c.logger.WarnContext(ctx, "review cache marshal failed", slog.String("error", err.Error()))
		return
	}

	if err := c.client.Set(ctx, approvedKey, data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "review cache write failed", slog.String("error", err.Error()))
	}
}

// Invalidate drops the cached list. Called after an approval so the newly
// visible review appears on the next page load.
func (c *ReviewCache) Invalidate(ctx context.Context) {
	if c.client == nil {
		return
	}

	if err := c.client.Del(ctx, approvedKey).Err(); err != nil {
		c.logger.WarnContext(ctx, "review cache invalidation failed", slog.String("error", err.Error()))
	}
}
