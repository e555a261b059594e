package session

import (
	"context"
	"slices"
)

// Wishlist is an ordered, duplicate-free list of listing IDs per user.
type Wishlist struct {
	p     Persistence
	locks keyLocks
}

func NewWishlist(p Persistence) *Wishlist { return &Wishlist{p: p} }

func wishlistKey(userID string) string { return "wishlist:" + userID }

func (w *Wishlist) Items(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	if err := loadJSON(ctx, w.p, wishlistKey(userID), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// Add reports false when the listing is already saved.
func (w *Wishlist) Add(ctx context.Context, userID, listingID string) (bool, error) {
	var added bool
	err := updateJSON(ctx, w.p, &w.locks, wishlistKey(userID), func(ids *[]string) (bool, error) {
		added = !slices.Contains(*ids, listingID)
		if added {
			*ids = append(*ids, listingID)
		}
		return added, nil
	})
	if err != nil {
		return false, err
	}
	return added, nil
}

func (w *Wishlist) Remove(ctx context.Context, userID, listingID string) error {
	return updateJSON(ctx, w.p, &w.locks, wishlistKey(userID), func(ids *[]string) (bool, error) {
		i := slices.Index(*ids, listingID)
		if i < 0 {
			return false, nil
		}
		*ids = slices.Delete(*ids, i, i+1)
		return true, nil
	})
}

func (w *Wishlist) Contains(ctx context.Context, userID, listingID string) (bool, error) {
	ids, err := w.Items(ctx, userID)
	if err != nil {
		return false, err
	}
	return slices.Contains(ids, listingID), nil
}

func (w *Wishlist) Clear(ctx context.Context, userID string) error {
	return w.p.Clear(ctx, wishlistKey(userID))
}
