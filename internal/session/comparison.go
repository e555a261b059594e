package session

import (
	"context"
	"errors"
	"fmt"

	"umrah_booking/internal/domain"
	"umrah_booking/internal/search"
)

// ListingLookup resolves a listing id to its current catalog entry.
type ListingLookup func(ctx context.Context, id string) (domain.Listing, error)

// Only ids are stored; listings are looked up again on every read so the
// panel follows catalog updates and deletions.
type comparisonSnapshot struct {
	IDs     []string `json:"ids"`
	Visible bool     `json:"visible"`
}

// Comparison persists a user's search.ComparisonSet between requests.
// All capacity and uniqueness rules stay in the set itself.
type Comparison struct {
	p      Persistence
	lookup ListingLookup
	locks  keyLocks
}

func NewComparison(p Persistence, lookup ListingLookup) *Comparison {
	return &Comparison{p: p, lookup: lookup}
}

func comparisonKey(userID string) string { return "compare:" + userID }

func (c *Comparison) Load(ctx context.Context, userID string) (*search.ComparisonSet, error) {
	var snap comparisonSnapshot
	if err := loadJSON(ctx, c.p, comparisonKey(userID), &snap); err != nil {
		return nil, err
	}
	set, _, err := c.restore(ctx, snap)
	return set, err
}

// restore drops ids whose listing no longer exists and reports whether it did.
func (c *Comparison) restore(ctx context.Context, snap comparisonSnapshot) (*search.ComparisonSet, bool, error) {
	items := make([]domain.Listing, 0, len(snap.IDs))
	for _, id := range snap.IDs {
		l, err := c.lookup(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, false, fmt.Errorf("compare item %s: %w", id, err)
		}
		items = append(items, l)
	}
	return search.RestoreComparison(items, snap.Visible), len(items) != len(snap.IDs), nil
}

// Add returns false when the set is full or already holds l.
func (c *Comparison) Add(ctx context.Context, userID string, l domain.Listing) (*search.ComparisonSet, bool, error) {
	var added bool
	set, err := c.update(ctx, userID, func(s *search.ComparisonSet) bool {
		added = s.Add(l)
		return added
	})
	if err != nil {
		return nil, false, err
	}
	return set, added, nil
}

func (c *Comparison) Remove(ctx context.Context, userID, listingID string) (*search.ComparisonSet, error) {
	return c.update(ctx, userID, func(s *search.ComparisonSet) bool {
		if !s.Contains(listingID) {
			return false
		}
		s.Remove(listingID)
		return true
	})
}

func (c *Comparison) ToggleVisibility(ctx context.Context, userID string) (*search.ComparisonSet, error) {
	return c.update(ctx, userID, func(s *search.ComparisonSet) bool {
		s.ToggleVisibility()
		return true
	})
}

func (c *Comparison) Clear(ctx context.Context, userID string) error {
	return c.p.Clear(ctx, comparisonKey(userID))
}

func (c *Comparison) update(ctx context.Context, userID string, fn func(*search.ComparisonSet) bool) (*search.ComparisonSet, error) {
	var set *search.ComparisonSet
	err := updateJSON(ctx, c.p, &c.locks, comparisonKey(userID), func(snap *comparisonSnapshot) (bool, error) {
		s, pruned, err := c.restore(ctx, *snap)
		if err != nil {
			return false, err
		}
		set = s
		if !fn(s) && !pruned {
			return false, nil
		}
		*snap = comparisonSnapshot{IDs: idsOf(s.Items()), Visible: s.Visible()}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

func idsOf(items []domain.Listing) []string {
	ids := make([]string, len(items))
	for i, l := range items {
		ids[i] = l.ID
	}
	return ids
}
