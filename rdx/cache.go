package rdx

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Cache is the small key/value surface the catalog needs.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// NopCache never stores anything. It is used when Redis is not configured.
type NopCache struct{}

func (NopCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NopCache) DeletePrefix(context.Context, string) error               { return nil }

// GetJSON decodes a cached value into dst. Misses and errors both report
// false; errors are logged because the caller falls back to the database.
func GetJSON(ctx context.Context, c Cache, key string, dst any) bool {
	raw, ok, err := c.Get(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "cache get failed", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		slog.WarnContext(ctx, "cache decode failed", "key", key, "error", err)
		return false
	}
	return true
}

// SetJSON stores v under key. Failures are logged and ignored.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) {
	raw, err := json.Marshal(v)
	if err != nil {
		slog.WarnContext(ctx, "cache encode failed", "key", key, "error", err)
		return
	}
	if err := c.Set(ctx, key, raw, ttl); err != nil {
		slog.WarnContext(ctx, "cache set failed", "key", key, "error", err)
	}
}

// Invalidate drops every key under prefix, logging failures.
func Invalidate(ctx context.Context, c Cache, prefix string) {
	if err := c.DeletePrefix(ctx, prefix); err != nil {
		slog.WarnContext(ctx, "cache invalidate failed", "prefix", prefix, "error", err)
	}
}
