package redisad_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "umrah_booking/internal/adapters/redis"
	"umrah_booking/internal/session"
)

func newCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

type entry struct {
	ID    string  `json:"id"`
	Price float64 `json:"price"`
}

func TestCache_SetGetDel(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	var got entry
	if ok, err := c.Get(ctx, "listing:1", &got); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := c.Set(ctx, "listing:1", entry{ID: "1", Price: 250}, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	if ok, err := c.Get(ctx, "listing:1", &got); !ok || err != nil || got.Price != 250 {
		t.Fatalf("expected hit, got %+v ok=%v err=%v", got, ok, err)
	}

	mr.FastForward(61 * time.Second)
	if ok, _ := c.Get(ctx, "listing:1", &got); ok {
		t.Fatal("entry should have expired")
	}

	_ = c.Set(ctx, "listing:2", entry{ID: "2"}, 60)
	if err := c.Del(ctx, "listing:2"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if mr.Exists("listing:2") {
		t.Fatal("key still present after Del")
	}
}

func TestCache_AsSessionPersistence(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	w := session.NewWishlist(c)
	if _, err := w.Add(ctx, "u1", "h9"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if !mr.Exists("session:wishlist:u1") {
		t.Fatalf("expected namespaced key, have %v", mr.Keys())
	}
	if ttl := mr.TTL("session:wishlist:u1"); ttl != 0 {
		t.Fatalf("session keys must not expire, ttl=%v", ttl)
	}

	items, err := w.Items(ctx, "u1")
	if err != nil || len(items) != 1 || items[0] != "h9" {
		t.Fatalf("items: %v %v", items, err)
	}
	if err := w.Clear(ctx, "u1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, _ := c.Load(ctx, "wishlist:u1"); ok {
		t.Fatal("expected cleared key")
	}
}

func TestCache_UpdateRetriesOnConcurrentWrite(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	calls := 0
	err := c.Update(ctx, "k", func(cur []byte) ([]byte, error) {
		calls++
		if calls == 1 {
			// another writer lands between the read and the commit
			if err := c.Save(ctx, "k", []byte("other")); err != nil {
				t.Fatalf("save: %v", err)
			}
		}
		return append(cur, "+mine"...), nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if calls != 2 {
		t.Fatalf("fn calls = %d, want 2", calls)
	}
	b, _, _ := c.Load(ctx, "k")
	if string(b) != "other+mine" {
		t.Fatalf("value = %q", b)
	}
}

func TestCache_UpdateNilResultWritesNothing(t *testing.T) {
	c, mr := newCache(t)
	err := c.Update(context.Background(), "k", func([]byte) ([]byte, error) { return nil, nil })
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if mr.Exists("session:k") {
		t.Fatal("key written for a no-op update")
	}
}

// Two stores over one redis behave like two API replicas.
func TestCache_WishlistAddsAcrossReplicasAreKept(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()
	replicas := []*session.Wishlist{session.NewWishlist(c), session.NewWishlist(c)}

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := replicas[i%2].Add(ctx, "u1", fmt.Sprintf("l%d", i)); err != nil {
				t.Errorf("add %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	items, err := replicas[0].Items(ctx, "u1")
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if len(items) != n {
		t.Fatalf("kept %d of %d adds: %s", len(items), n, strings.Join(items, ","))
	}
}
