package app

import (
	"context"
	"time"

	"umrah_booking/internal/domain"
)

func listingKey(id string) string          { return "listing:" + id }
func listingsKey(kind domain.Kind) string { return "listings:" + string(kind) }

// cached wraps a domain.Cache with the service TTL. A nil cache disables caching.
type cached struct {
	c   domain.Cache
	ttl time.Duration
}

func (c cached) get(ctx context.Context, key string, dst any) bool {
	if c.c == nil {
		return false
	}
	ok, err := c.c.Get(ctx, key, dst)
	return ok && err == nil
}

func (c cached) set(ctx context.Context, key string, v any) {
	if c.c == nil || c.ttl <= 0 {
		return
	}
	_ = c.c.Set(ctx, key, v, int(c.ttl.Seconds()))
}

// invalidate drops the single-listing entry and the per-kind search snapshot.
func (c cached) invalidate(ctx context.Context, id string, kind domain.Kind) {
	if c.c == nil {
		return
	}
	_ = c.c.Del(ctx, listingKey(id))
	_ = c.c.Del(ctx, listingsKey(kind))
}
