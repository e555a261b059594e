// Package memory is a process-local implementation of the repository ports,
// used for STORAGE_DRIVER=memory and by handler tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"umrah_booking/internal/domain"
)

type Miss struct {
	Status int
	Reason string
}

type Repo struct {
	mu       sync.RWMutex
	listings map[string]domain.Listing
	bookings map[string]domain.Booking
	profiles map[string]domain.Profile
	misses   map[int64]Miss
}

func New() *Repo {
	return &Repo{
		listings: map[string]domain.Listing{},
		bookings: map[string]domain.Booking{},
		profiles: map[string]domain.Profile{},
		misses:   map[int64]Miss{},
	}
}

// ---- listings ----

func (r *Repo) SaveListing(_ context.Context, l domain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listings[l.ID] = l
	return nil
}

func (r *Repo) DeleteListing(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.listings[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.listings, id)
	return nil
}

func (r *Repo) LogMiss(_ context.Context, supplierID int64, status int, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.misses[supplierID] = Miss{Status: status, Reason: reason}
	return nil
}

// Misses returns a copy of the logged ingestion misses.
func (r *Repo) Misses() map[int64]Miss {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[int64]Miss, len(r.misses))
	for k, v := range r.misses {
		out[k] = v
	}
	return out
}

func (r *Repo) GetListing(_ context.Context, id string) (domain.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.listings[id]
	if !ok {
		return domain.Listing{}, domain.ErrNotFound
	}
	return l, nil
}

// ListListings orders by creation time then id, like the SQL store.
func (r *Repo) ListListings(_ context.Context, q domain.ListingsQuery) ([]domain.Listing, error) {
	r.mu.RLock()
	out := []domain.Listing{}
	for _, l := range r.listings {
		if q.Kind != "" && l.Kind != q.Kind {
			continue
		}
		if q.ProviderID != "" && l.ProviderID != q.ProviderID {
			continue
		}
		out = append(out, l)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return limit(out, q.Limit), nil
}

func (r *Repo) CountListings(_ context.Context, providerID string) (map[domain.Kind]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := map[domain.Kind]int{}
	for _, l := range r.listings {
		if providerID == "" || l.ProviderID == providerID {
			out[l.Kind]++
		}
	}
	return out, nil
}

// ---- bookings ----

func (r *Repo) InsertBooking(_ context.Context, b domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[b.ID]; ok {
		return domain.ErrConflict
	}
	r.bookings[b.ID] = b
	return nil
}

func (r *Repo) UpdateBookingStatus(_ context.Context, id string, s domain.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.Status = s
	r.bookings[id] = b
	return nil
}

func (r *Repo) DeleteBooking(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.bookings, id)
	return nil
}

func (r *Repo) GetBooking(_ context.Context, id string) (domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bookings[id]
	if !ok {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, nil
}

func matchBooking(b domain.Booking, q domain.BookingsQuery) bool {
	return (q.CustomerID == "" || b.CustomerID == q.CustomerID) &&
		(q.ProviderID == "" || b.ProviderID == q.ProviderID)
}

// ListBookings is newest first.
func (r *Repo) ListBookings(_ context.Context, q domain.BookingsQuery) ([]domain.Booking, error) {
	r.mu.RLock()
	out := []domain.Booking{}
	for _, b := range r.bookings {
		if matchBooking(b, q) {
			out = append(out, b)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return limit(out, q.Limit), nil
}

func (r *Repo) CountBookingsByStatus(_ context.Context, q domain.BookingsQuery) (map[domain.BookingStatus]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := map[domain.BookingStatus]int{}
	for _, b := range r.bookings {
		if matchBooking(b, q) {
			out[b.Status]++
		}
	}
	return out, nil
}

// ---- profiles ----

func (r *Repo) UpsertProfile(_ context.Context, p domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, other := range r.profiles {
		if id != p.ID && other.Email == p.Email {
			return domain.ErrConflict
		}
	}
	r.profiles[p.ID] = p
	return nil
}

func (r *Repo) DeleteProfile(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.profiles, id)
	return nil
}

func (r *Repo) GetProfile(_ context.Context, id string) (domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[id]
	if !ok {
		return domain.Profile{}, domain.ErrNotFound
	}
	return p, nil
}

func (r *Repo) ListProfiles(_ context.Context, n int) ([]domain.Profile, error) {
	r.mu.RLock()
	out := make([]domain.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return limit(out, n), nil
}

func (r *Repo) CountProfiles(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.profiles), nil
}

func limit[T any](s []T, n int) []T {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}
