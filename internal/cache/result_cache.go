package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/medreport-analyzer/internal/domain"
)

// ResultCache caches completed analyses keyed by a hash of the request.
// The pipeline is a pure function of (text, gender, age), so a cached
// result is exact, not approximate. Tier 1 is an in-memory LRU; tier 2
// is an optional Redis client for multi-instance deployments.
type ResultCache struct {
	logger  *logrus.Logger
	memory  *lru.Cache[string, *domain.AnalysisResult]
	redis   *redis.Client
	ttl     time.Duration
	enabled bool

	statsMu sync.RWMutex
	stats   Stats
}

// Stats tracks cache performance per tier
type Stats struct {
	MemoryHits   int64 `json:"memory_hits"`
	MemoryMisses int64 `json:"memory_misses"`
	RedisHits    int64 `json:"redis_hits"`
	RedisMisses  int64 `json:"redis_misses"`
}

// NewResultCache creates a result cache from configuration. A Redis
// connection failure is not fatal: the cache degrades to memory-only.
func NewResultCache(logger *logrus.Logger, config domain.CacheConfig) (*ResultCache, error) {
	c := &ResultCache{
		logger:  logger,
		ttl:     config.DefaultTTL,
		enabled: config.Enabled,
	}
	if !config.Enabled {
		return c, nil
	}
	if c.ttl == 0 {
		c.ttl = 15 * time.Minute
	}

	size := config.MemorySize
	if size <= 0 {
		size = 512
	}
	memory, err := lru.New[string, *domain.AnalysisResult](size)
	if err != nil {
		return nil, fmt.Errorf("creating memory cache: %w", err)
	}
	c.memory = memory

	if config.RedisEnabled {
		opts, err := redis.ParseURL(config.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parsing Redis URL: %w", err)
		}
		client := redis.NewClient(opts)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Warn("Redis unreachable, result cache degrades to memory-only")
			client.Close()
		} else {
			c.redis = client
		}
	}

	return c, nil
}

// Key derives the cache key for one analysis request
func (c *ResultCache) Key(text string, gender domain.Gender, age int) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d", text, gender, age)))
	return "analysis:" + hex.EncodeToString(h[:])
}

// Get looks up a cached analysis, promoting Redis hits into memory
func (c *ResultCache) Get(ctx context.Context, key string) (*domain.AnalysisResult, bool) {
	if !c.enabled {
		return nil, false
	}

	if result, ok := c.memory.Get(key); ok {
		c.record(func(s *Stats) { s.MemoryHits++ })
		return result, true
	}
	c.record(func(s *Stats) { s.MemoryMisses++ })

	if c.redis == nil {
		return nil, false
	}

	val, err := c.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		c.record(func(s *Stats) { s.RedisMisses++ })
		return nil, false
	}
	if err != nil {
		c.logger.WithError(err).Warn("Redis cache read failed")
		return nil, false
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		c.logger.WithError(err).Warn("Dropping undecodable cached analysis")
		return nil, false
	}

	c.record(func(s *Stats) { s.RedisHits++ })
	c.memory.Add(key, &result)
	return &result, true
}

// Set stores a completed analysis in both tiers
func (c *ResultCache) Set(ctx context.Context, key string, result *domain.AnalysisResult) {
	if !c.enabled {
		return
	}

	c.memory.Add(key, result)

	if c.redis == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.WithError(err).Warn("Could not encode analysis for Redis cache")
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.WithError(err).Warn("Redis cache write failed")
	}
}

// Stats returns a snapshot of cache performance counters
func (c *ResultCache) Stats() Stats {
	c.statsMu.RLock()
	defer c.statsMu.RUnlock()
	return c.stats
}

// Close releases the Redis connection if one is held
func (c *ResultCache) Close() error {
	if c.redis != nil {
		return c.redis.Close()
	}
	return nil
}

func (c *ResultCache) record(update func(*Stats)) {
	c.statsMu.Lock()
	update(&c.stats)
	c.statsMu.Unlock()
}
