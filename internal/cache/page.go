// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	pageKeyPrefix = "page:"
	pageTTL       = 5 * time.Minute
)

// PageCache stores rendered public page HTML keyed by slug. Misses and
// Valkey errors are treated the same: the caller re-renders.
type PageCache struct {
	client *redis.Client
}

func NewPageCache(client *redis.Client) *PageCache {
	return &PageCache{client: client}
}

// Get returns the cached HTML for slug, or ok=false on a miss.
func (c *PageCache) Get(ctx context.Context, slug string) (string, bool) {
	html, err := c.client.Get(ctx, pageKeyPrefix+slug).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		slog.Warn("page cache get failed", "slug", slug, "error", err)
		return "", false
	}
	return html, true
}

// Set stores the rendered HTML for slug with the standard TTL.
func (c *PageCache) Set(ctx context.Context, slug, html string) {
	if err := c.client.Set(ctx, pageKeyPrefix+slug, html, pageTTL).Err(); err != nil {
		slog.Warn("page cache set failed", "slug", slug, "error", err)
	}
}

// Invalidate drops the cached render for slug. Called after any mutation
// that changes the public page: profile edits, link changes, theme changes,
// uploads.
func (c *PageCache) Invalidate(ctx context.Context, slug string) {
	if err := c.client.Del(ctx, pageKeyPrefix+slug).Err(); err != nil {
		slog.Warn("page cache invalidate failed", "slug", slug, "error", err)
	}
}

// keyFor is exposed for tests.
func keyFor(slug string) string {
	return fmt.Sprintf("%s%s", pageKeyPrefix, slug)
}
