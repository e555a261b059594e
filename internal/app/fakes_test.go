package app_test

import (
	"context"
	"encoding/json"
	"sync"

	"umrah_booking/internal/domain"
)

// ---- fakes ----

// fakeCache round-trips through JSON like the redis adapter does.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.store[key]
	return ok
}

type fakeSupplier struct {
	props map[int64]map[string]any
	trs   map[int64]map[string]map[string]any
	err   error // returned by GetProperty when set
}

func (f *fakeSupplier) GetProperty(ctx context.Context, id int64) (map[string]any, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.props[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeSupplier) GetTranslation(ctx context.Context, id int64, lang string) (map[string]any, error) {
	tr, ok := f.trs[id][lang]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return tr, nil
}

func ptr[T any](v T) *T { return &v }

var (
	admin    = domain.Principal{UserID: "admin-1", Role: domain.RoleAdmin}
	provider = domain.Principal{UserID: "prov-1", Role: domain.RoleProvider}
	other    = domain.Principal{UserID: "prov-2", Role: domain.RoleProvider}
	customer = domain.Principal{UserID: "cust-1", Role: domain.RoleCustomer}
)

func hotelListing(title string, price, rating float64, amenities ...string) domain.Listing {
	return domain.Listing{
		Kind:   domain.KindHotel,
		Title:  domain.I18nText{EN: title},
		Price:  ptr(price),
		Rating: ptr(rating),
		Hotel:  &domain.HotelDetails{City: "Makkah", Amenities: amenities},
	}
}
