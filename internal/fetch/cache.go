package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"jobradar/internal/config"
	"jobradar/internal/logging"
)

// PageCache stores fetched page content in Redis with a TTL so re-running
// the pipeline shortly after a previous run does not refetch every page.
// Cache failures degrade to a miss, never to a fetch error.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logging.Logger
}

// NewPageCache connects to Redis. Returns an error when the URL cannot be
// parsed or the server is unreachable.
func NewPageCache(ctx context.Context, cfg *config.Config) (*PageCache, error) {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("page cache: parse redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("page cache: ping: %w", err)
	}

	return &PageCache{
		client: client,
		ttl:    cfg.Redis.CacheTTL,
		logger: logging.GetGlobalLogger().WithField("component", "page_cache"),
	}, nil
}

func cacheKey(pageURL string) string {
	sum := sha256.Sum256([]byte(pageURL))
	return "page:" + hex.EncodeToString(sum[:16])
}

// Get returns cached content for pageURL and whether it was present.
func (c *PageCache) Get(ctx context.Context, pageURL string) (string, bool) {
	content, err := c.client.Get(ctx, cacheKey(pageURL)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("Page cache read failed", map[string]interface{}{
				"url":   pageURL,
				"error": err.Error(),
			})
		}
		return "", false
	}
	return content, true
}

// Set stores content for pageURL with the configured TTL.
func (c *PageCache) Set(ctx context.Context, pageURL, content string) {
	if err := c.client.Set(ctx, cacheKey(pageURL), content, c.ttl).Err(); err != nil {
		c.logger.Warn("Page cache write failed", map[string]interface{}{
			"url":   pageURL,
			"error": err.Error(),
		})
	}
}

// Ping checks Redis connectivity.
func (c *PageCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the Redis connection.
func (c *PageCache) Close() error {
	return c.client.Close()
}
