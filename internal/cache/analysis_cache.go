package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nileshk/optionpulse-go/internal/models"
)

// AnalysisCacheStats tracks cache performance counters.
type AnalysisCacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Sets   int64 `json:"sets"`
	mu     sync.RWMutex
}

// RedisAnalysisCache keeps the latest analysis verdict per symbol in Redis
// so the API can serve repeated reads without touching Postgres.
type RedisAnalysisCache struct {
	redis  *redis.Client
	ttl    time.Duration
	stats  *AnalysisCacheStats
	prefix string
}

// NewRedisAnalysisCache creates a Redis-backed analysis cache with the
// given entry TTL.
func NewRedisAnalysisCache(redisClient *redis.Client, ttl time.Duration) *RedisAnalysisCache {
	return &RedisAnalysisCache{
		redis:  redisClient,
		ttl:    ttl,
		stats:  &AnalysisCacheStats{},
		prefix: "analysis_cache:",
	}
}

// Get returns the cached verdict for a symbol, or false on a miss. Corrupt
// entries count as misses and are evicted.
func (c *RedisAnalysisCache) Get(ctx context.Context, symbol string) (*models.ChainAnalysis, bool) {
	data, err := c.redis.Get(ctx, c.prefix+symbol).Result()
	if err != nil {
		c.stats.mu.Lock()
		c.stats.Misses++
		c.stats.mu.Unlock()
		return nil, false
	}

	var analysis models.ChainAnalysis
	if err := json.Unmarshal([]byte(data), &analysis); err != nil {
		c.redis.Del(ctx, c.prefix+symbol)
		c.stats.mu.Lock()
		c.stats.Misses++
		c.stats.mu.Unlock()
		return nil, false
	}

	c.stats.mu.Lock()
	c.stats.Hits++
	c.stats.mu.Unlock()
	return &analysis, true
}

// Set stores a verdict under its symbol with the cache TTL.
func (c *RedisAnalysisCache) Set(ctx context.Context, analysis *models.ChainAnalysis) error {
	payload, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis for cache: %w", err)
	}

	if err := c.redis.Set(ctx, c.prefix+analysis.Symbol, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache analysis for %s: %w", analysis.Symbol, err)
	}

	c.stats.mu.Lock()
	c.stats.Sets++
	c.stats.mu.Unlock()
	return nil
}

// Invalidate drops the cached verdict for a symbol.
func (c *RedisAnalysisCache) Invalidate(ctx context.Context, symbol string) error {
	return c.redis.Del(ctx, c.prefix+symbol).Err()
}

// Stats returns a copy of the hit/miss/set counters.
func (c *RedisAnalysisCache) Stats() AnalysisCacheStats {
	c.stats.mu.RLock()
	defer c.stats.mu.RUnlock()
	return AnalysisCacheStats{
		Hits:   c.stats.Hits,
		Misses: c.stats.Misses,
		Sets:   c.stats.Sets,
	}
}
