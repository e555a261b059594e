package redisad

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"umrah_booking/internal/adapters/observability"
)

// Cache is both the JSON read-through cache (domain.Cache) and the
// session.Persistence backend; session keys are stored without TTL.
type Cache struct{ c *redis.Client }

func New(addr, pass string, db int) *Cache {
	return &Cache{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func (r *Cache) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

func (r *Cache) Close() error { return r.c.Close() }

// ---- domain.Cache ----

func (r *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, err := r.c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.ObserveCache("redis", "miss")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	observability.ObserveCache("redis", "hit")
	return true, json.Unmarshal(v, dst)
}

func (r *Cache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	observability.ObserveCache("redis", "set")
	return r.c.Set(ctx, key, b, time.Duration(ttlSec)*time.Second).Err()
}

func (r *Cache) Del(ctx context.Context, key string) error {
	observability.ObserveCache("redis", "del")
	return r.c.Del(ctx, key).Err()
}

// ---- session.Persistence ----

func (r *Cache) Load(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := r.c.Get(ctx, sessionPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (r *Cache) Save(ctx context.Context, key string, b []byte) error {
	return r.c.Set(ctx, sessionPrefix+key, b, 0).Err()
}

func (r *Cache) Clear(ctx context.Context, key string) error {
	return r.c.Del(ctx, sessionPrefix+key).Err()
}

// Update implements session.Updater with optimistic locking: the key is
// watched, fn runs on the current value and the write is discarded and
// retried if another client changed the key in between.
func (r *Cache) Update(ctx context.Context, key string, fn func([]byte) ([]byte, error)) error {
	k := sessionPrefix + key
	txf := func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, k).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		next, err := fn(cur)
		if err != nil || next == nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, next, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := r.c.Watch(ctx, txf, k)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("update %s: gave up after %d attempts: %w", key, maxUpdateRetries, redis.TxFailedErr)
}

const (
	sessionPrefix    = "session:"
	maxUpdateRetries = 50
)
