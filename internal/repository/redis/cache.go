package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shortlinks/internal/domain"
	"shortlinks/internal/metrics"

	"github.com/redis/go-redis/v9"
)

// Cache provides link caching for the public redirect path using Redis
// Cache-aside pattern: the service checks here first, falls back to the
// database on a miss, and stores the result for the next lookup.
// Only the redirect path reads through the cache, so the click counts
// returned by the stats endpoints are never stale.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache creates a new Redis cache
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
	}
}

func cacheKey(code string) string {
	return fmt.Sprintf("link:%s", code)
}

// GetLink retrieves a link from cache
// Returns (nil, nil) on a cache miss - a miss is not an error
func (c *Cache) GetLink(ctx context.Context, code string) (*domain.Link, error) {
	start := time.Now()
	defer func() {
		metrics.CacheOperationDuration.WithLabelValues("get").Observe(time.Since(start).Seconds())
	}()

	data, err := c.client.Get(ctx, cacheKey(code)).Result()
	if err == redis.Nil {
		metrics.RecordCacheMiss()
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get error: %w", err)
	}

	metrics.RecordCacheHit()

	var link domain.Link
	if err := json.Unmarshal([]byte(data), &link); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached link: %w", err)
	}

	return &link, nil
}

// SetLink stores a link in cache with the configured TTL
func (c *Cache) SetLink(ctx context.Context, code string, link *domain.Link) error {
	start := time.Now()
	defer func() {
		metrics.CacheOperationDuration.WithLabelValues("set").Observe(time.Since(start).Seconds())
	}()

	data, err := json.Marshal(link)
	if err != nil {
		return fmt.Errorf("failed to marshal link: %w", err)
	}

	if err := c.client.Set(ctx, cacheKey(code), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set error: %w", err)
	}

	return nil
}

// DeleteLink removes a link from cache
// Called when the link is deleted so the redirect path stops serving it
func (c *Cache) DeleteLink(ctx context.Context, code string) error {
	start := time.Now()
	defer func() {
		metrics.CacheOperationDuration.WithLabelValues("delete").Observe(time.Since(start).Seconds())
	}()

	if err := c.client.Del(ctx, cacheKey(code)).Err(); err != nil {
		return fmt.Errorf("redis delete error: %w", err)
	}

	return nil
}

// InitRedis creates a new Redis client
func InitRedis(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,

		// Connection pool settings
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}
