// Package cache provides a two-tier cache for health score results: an
// in-process expirable LRU backed by an optional Redis tier behind a
// circuit breaker. The scoring engine itself never touches the cache; the
// API layer consults it before scoring and fills it after.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/felixphool/healthtwin/internal/domain"
)

// Config controls cache sizing and the optional Redis tier. An empty
// RedisURL disables the second tier entirely.
type Config struct {
	MaxMemoryEntries int
	TTL              time.Duration
	RedisURL         string
}

// ResultCache caches HealthScoreResults keyed by input parameters.
type ResultCache struct {
	memory  *lru.LRU[string, *domain.HealthScoreResult]
	redis   *redis.Client
	breaker *gobreaker.CircuitBreaker
	ttl     time.Duration
	logger  *logrus.Logger
}

// New builds a ResultCache. When config.RedisURL is set the Redis client
// is created eagerly but failures only surface through the circuit
// breaker; a down Redis degrades the cache to memory-only.
func New(config Config, logger *logrus.Logger) (*ResultCache, error) {
	if config.MaxMemoryEntries <= 0 {
		config.MaxMemoryEntries = 1024
	}
	if config.TTL <= 0 {
		config.TTL = time.Hour
	}

	c := &ResultCache{
		memory: lru.NewLRU[string, *domain.HealthScoreResult](config.MaxMemoryEntries, nil, config.TTL),
		ttl:    config.TTL,
		logger: logger,
	}

	if config.RedisURL != "" {
		opts, err := redis.ParseURL(config.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis URL: %w", err)
		}
		c.redis = redis.NewClient(opts)
		c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "ResultCacheRedis",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				logger.WithFields(logrus.Fields{
					"circuit_breaker": name,
					"from_state":      from,
					"to_state":        to,
				}).Warn("Circuit breaker state changed")
			},
		})
	}

	return c, nil
}

// Key derives the cache key for a ParameterSet: a SHA-256 over its
// canonical JSON encoding. Two semantically equal inputs always produce
// the same key because the encoder walks struct fields in declaration
// order and the only map, electrolytes, is never scored and therefore
// excluded here.
func Key(params *domain.ParameterSet) string {
	shadow := *params
	shadow.Metabolic.Electrolytes = nil

	payload, err := json.Marshal(&shadow)
	if err != nil {
		// ParameterSet contains nothing a JSON encoder can reject.
		panic(fmt.Sprintf("encoding cache key: %v", err))
	}
	return fmt.Sprintf("healthtwin:score:%x", sha256.Sum256(payload))
}

// Get checks the memory tier, then Redis. Any Redis failure is treated as
// a miss.
func (c *ResultCache) Get(ctx context.Context, key string) (*domain.HealthScoreResult, bool) {
	if result, ok := c.memory.Get(key); ok {
		return result, true
	}

	if c.redis == nil {
		return nil, false
	}

	value, err := c.breaker.Execute(func() (interface{}, error) {
		return c.redis.Get(ctx, key).Result()
	})
	if err != nil {
		if err != redis.Nil {
			c.logger.WithError(err).Debug("Redis cache read failed")
		}
		return nil, false
	}

	result := &domain.HealthScoreResult{}
	if err := json.Unmarshal([]byte(value.(string)), result); err != nil {
		// Corrupted entry, drop it.
		c.redis.Del(ctx, key)
		return nil, false
	}

	// Promote to the memory tier.
	c.memory.Add(key, result)
	return result, true
}

// Set writes through both tiers. Redis failures are logged, never
// returned; the memory tier alone keeps the fast path working.
func (c *ResultCache) Set(ctx context.Context, key string, result *domain.HealthScoreResult) {
	c.memory.Add(key, result)

	if c.redis == nil {
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return
	}

	if _, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.redis.Set(ctx, key, payload, c.ttl).Err()
	}); err != nil {
		c.logger.WithError(err).Debug("Redis cache write failed")
	}
}

// Purge empties the memory tier. Redis entries expire via TTL.
func (c *ResultCache) Purge() {
	c.memory.Purge()
}

// Close releases the Redis client if one was configured.
func (c *ResultCache) Close() error {
	if c.redis != nil {
		return c.redis.Close()
	}
	return nil
}
