package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const statsCacheKey = "dashboard:stats"

// StatsCache keeps the latest dashboard counters in redis so the
// handler does not hit postgres on every poll.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

func (c *StatsCache) Save(ctx context.Context, stats *Stats) error {
	payload, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}

	if err := c.client.Set(ctx, statsCacheKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store stats in redis: %w", err)
	}

	return nil
}

// Load returns the cached counters, or (nil, nil) on a cache miss.
func (c *StatsCache) Load(ctx context.Context) (*Stats, error) {
	payload, err := c.client.Get(ctx, statsCacheKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read stats from redis: %w", err)
	}

	var stats Stats
	if err := json.Unmarshal(payload, &stats); err != nil {
		return nil, fmt.Errorf("failed to decode cached stats: %w", err)
	}

	return &stats, nil
}
