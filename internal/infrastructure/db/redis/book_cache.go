package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bookloop/bookloop-api/internal/api/metrics"
	"github.com/bookloop/bookloop-api/internal/core/domain"
)

const bookCacheTTL = 5 * time.Minute

// BookCache is a read-through cache for single-book lookups.
// Key format: book:<id>
type BookCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBookCache creates a BookCache wrapping the given Redis client.
func NewBookCache(client *redis.Client) *BookCache {
	return &BookCache{client: client, ttl: bookCacheTTL}
}

// Get returns the cached book, or (nil, nil) on a miss.
func (c *BookCache) Get(ctx context.Context, id string) (*domain.Book, error) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.BookCacheTotal.WithLabelValues("miss").Inc()
			return nil, nil
		}
		return nil, fmt.Errorf("book cache get: %w", err)
	}

	var book domain.Book
	if err := json.Unmarshal(raw, &book); err != nil {
		// corrupt entry: drop it and treat as a miss
		_ = c.client.Del(ctx, c.key(id)).Err()
		metrics.BookCacheTotal.WithLabelValues("miss").Inc()
		return nil, nil
	}

	metrics.BookCacheTotal.WithLabelValues("hit").Inc()
	return &book, nil
}

// Set stores the book for the cache TTL.
func (c *BookCache) Set(ctx context.Context, book *domain.Book) error {
	raw, err := json.Marshal(book)
	if err != nil {
		return fmt.Errorf("book cache marshal: %w", err)
	}
	return c.client.Set(ctx, c.key(book.ID), raw, c.ttl).Err()
}

// Invalidate removes the cached entry after a mutation.
func (c *BookCache) Invalidate(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}

func (c *BookCache) key(id string) string {
	return "book:" + id
}
