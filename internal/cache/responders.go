// Package cache holds the request-scoped responder-profile cache.
//
// The dashboard resolves responder profiles lazily per campaign per day;
// staff flipping between campaigns on the same date would otherwise
// re-fetch identical ledger batches. The cache is keyed by
// (campaign, date) and invalidated explicitly when the date filter
// changes — never implicitly by UI lifecycle.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/collections-monitor/internal/pkg/logger"
	"github.com/ignite/collections-monitor/internal/responder"
)

// DefaultTTL bounds staleness against the continuously-written ledger.
const DefaultTTL = 5 * time.Minute

const keyPrefix = "responders"

// ResponderCache caches resolved responder sets in Redis. Every failure
// path degrades to a miss; the cache never blocks a computation.
type ResponderCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a ResponderCache. ttl <= 0 falls back to DefaultTTL.
func New(client *redis.Client, ttl time.Duration) *ResponderCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ResponderCache{client: client, ttl: ttl}
}

func key(campaign string, date time.Time) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, campaign, date.Format("2006-01-02"))
}

// Get returns the cached result for (campaign, date), or (nil, false) on
// miss or any Redis error.
func (c *ResponderCache) Get(ctx context.Context, campaign string, date time.Time) (*responder.Result, bool) {
	data, err := c.client.Get(ctx, key(campaign, date)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Debug("cache: get failed, treating as miss", "campaign", campaign, "error", err.Error())
		return nil, false
	}
	var result responder.Result
	if err := json.Unmarshal(data, &result); err != nil {
		logger.Warn("cache: corrupt entry dropped", "campaign", campaign, "error", err.Error())
		c.client.Del(ctx, key(campaign, date))
		return nil, false
	}
	return &result, true
}

// Set stores a resolved result for (campaign, date).
func (c *ResponderCache) Set(ctx context.Context, campaign string, date time.Time, result *responder.Result) {
	data, err := json.Marshal(result)
	if err != nil {
		logger.Warn("cache: marshal failed, entry skipped", "campaign", campaign, "error", err.Error())
		return
	}
	if err := c.client.Set(ctx, key(campaign, date), data, c.ttl).Err(); err != nil {
		logger.Debug("cache: set failed", "campaign", campaign, "error", err.Error())
	}
}

// InvalidateDate drops every campaign's entry for one date. Called when
// the user moves the date filter so the next view starts fresh.
func (c *ResponderCache) InvalidateDate(ctx context.Context, date time.Time) {
	pattern := fmt.Sprintf("%s:*:%s", keyPrefix, date.Format("2006-01-02"))
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		c.client.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Debug("cache: invalidate scan failed", "error", err.Error())
	}
}
