package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/retailhq/sales-insights/internal/api/metrics"
)

const defaultReportTTL = time.Hour

// ReportCache memoizes computed report payloads. Keys are content hashes of
// the underlying records, so the cache never has to be invalidated explicitly;
// entries for superseded table states simply age out.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache creates a ReportCache wrapping the given Redis client.
func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	if ttl <= 0 {
		ttl = defaultReportTTL
	}
	return &ReportCache{client: client, ttl: ttl}
}

// Get returns the cached payload for key, and whether it was present.
func (c *ReportCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.ReportCacheTotal.WithLabelValues("miss").Inc()
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("report cache get: %w", err)
	}
	metrics.ReportCacheTotal.WithLabelValues("hit").Inc()
	return payload, true, nil
}

// Set stores payload under key, expiring after the configured TTL.
func (c *ReportCache) Set(ctx context.Context, key string, payload []byte) error {
	return c.client.Set(ctx, key, payload, c.ttl).Err()
}
