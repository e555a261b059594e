// Package session holds per-user state that outlives a single request:
// wishlist, notifications and the comparison panel. Storage is injected
// through Persistence so the backend (memory, redis) can be swapped.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Persistence is a byte-oriented key/value backend.
type Persistence interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, b []byte) error
	Clear(ctx context.Context, key string) error
}

// Updater is implemented by backends that can run a read-modify-write on one
// key atomically, across processes. fn receives the current value (nil when
// absent) and returns the next one; a nil result writes nothing. fn may be
// called more than once.
type Updater interface {
	Update(ctx context.Context, key string, fn func(cur []byte) ([]byte, error)) error
}

type MemoryPersistence struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{data: make(map[string][]byte)}
}

func (m *MemoryPersistence) Load(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), b...), true, nil
}

func (m *MemoryPersistence) Save(_ context.Context, key string, b []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), b...)
	return nil
}

func (m *MemoryPersistence) Update(_ context.Context, key string, fn func([]byte) ([]byte, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var cur []byte
	if b, ok := m.data[key]; ok {
		cur = append([]byte(nil), b...)
	}
	next, err := fn(cur)
	if err != nil || next == nil {
		return err
	}
	m.data[key] = append([]byte(nil), next...)
	return nil
}

func (m *MemoryPersistence) Clear(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func loadJSON(ctx context.Context, p Persistence, key string, dst any) error {
	b, ok, err := p.Load(ctx, key)
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	if !ok || len(b) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// keyLocks serialises writers of the same key within one process.
type keyLocks struct {
	mu sync.Mutex
	m  map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func (k *keyLocks) lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.m == nil {
		k.m = make(map[string]*keyLock)
	}
	l := k.m[key]
	if l == nil {
		l = &keyLock{}
		k.m[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(k.m, key)
		}
		k.mu.Unlock()
	}
}

// updateJSON decodes the value under key into a T, lets fn change it and
// writes it back when fn reports a change. Writers of one key are serialised
// locally; backends implementing Updater also guard against other processes.
func updateJSON[T any](ctx context.Context, p Persistence, locks *keyLocks, key string, fn func(v *T) (bool, error)) error {
	unlock := locks.lock(key)
	defer unlock()

	apply := func(cur []byte) ([]byte, error) {
		var v T
		if len(cur) > 0 {
			if err := json.Unmarshal(cur, &v); err != nil {
				return nil, fmt.Errorf("decode %s: %w", key, err)
			}
		}
		changed, err := fn(&v)
		if err != nil || !changed {
			return nil, err
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		return b, nil
	}

	if u, ok := p.(Updater); ok {
		if err := u.Update(ctx, key, apply); err != nil {
			return fmt.Errorf("update %s: %w", key, err)
		}
		return nil
	}

	cur, _, err := p.Load(ctx, key)
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	next, err := apply(cur)
	if err != nil || next == nil {
		return err
	}
	if err := p.Save(ctx, key, next); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
