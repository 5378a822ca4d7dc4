package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shrimpsizemoose/trekker/logger"
)

const cacheKeyTpl = "report:%s:%s" // report:${template}:${digest}

// Cache is an optional redis-backed cache of rendered PDF bytes, keyed by a
// digest of the bound report data. The zero value is a disabled cache, so
// cache misses and a disabled cache look the same to callers. Student data
// only ever enters redis as a hash.
type Cache struct {
	enabled bool
	redis   *redis.Client
	ttl     time.Duration
}

func NewCache(config *Config) (*Cache, error) {
	if !config.Cache.Enabled {
		return &Cache{}, nil
	}

	opt, err := redis.ParseURL(config.Cache.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Cache{
		enabled: true,
		redis:   client,
		ttl:     time.Duration(config.Cache.TTLSeconds) * time.Second,
	}, nil
}

func (c *Cache) Close() error {
	if c.redis != nil {
		return c.redis.Close()
	}
	return nil
}

// Key digests the bound payload for one template into a cache key.
func (c *Cache) Key(templateID string, payload []byte) string {
	digest := sha256.Sum256(payload)
	return fmt.Sprintf(cacheKeyTpl, templateID, hex.EncodeToString(digest[:]))
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if !c.enabled {
		return nil, false
	}

	pdf, err := c.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Debug.Printf("Cache read failed for %s: %v", key, err)
		return nil, false
	}
	return pdf, true
}

func (c *Cache) Put(ctx context.Context, key string, pdf []byte) {
	if !c.enabled {
		return
	}

	if err := c.redis.Set(ctx, key, pdf, c.ttl).Err(); err != nil {
		logger.Debug.Printf("Cache write failed for %s: %v", key, err)
	}
}
