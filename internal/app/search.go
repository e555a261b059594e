package app

import (
	"context"
	"errors"
	"net/url"
	"time"

	"umrah_booking/internal/domain"
	"umrah_booking/internal/search"
)

// SearchResult is one pass of the filter/sort pipeline over a kind.
type SearchResult struct {
	Kind          domain.Kind        `json:"kind"`
	Items         []domain.Listing   `json:"items"`
	Total         int                `json:"total"`
	ActiveFilters int                `json:"active_filters"`
	State         search.FilterState `json:"state"`
	MaxPrice      float64            `json:"max_price"`
	Amenities     []string           `json:"amenities,omitempty"` // catalog offered as filter chips
}

// Rejected comparison reasons.
const (
	RejectNotFound  = "not_found"
	RejectDuplicate = "duplicate"
	RejectLimit     = "limit"
)

type Rejection struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type CompareResult struct {
	Items    []domain.Listing `json:"items"`
	Rejected []Rejection      `json:"rejected,omitempty"`
}

type SearchService struct {
	repo      domain.ListingRepository
	cache     cached
	defaults  search.Defaults
	amenities []string
}

func NewSearchService(r domain.ListingRepository, c domain.Cache, ttl time.Duration, d search.Defaults, amenities []string) *SearchService {
	return &SearchService{repo: r, cache: cached{c: c, ttl: ttl}, defaults: d, amenities: amenities}
}

// listings loads every listing of a kind, through the per-kind snapshot cache.
func (s *SearchService) listings(ctx context.Context, kind domain.Kind) ([]domain.Listing, error) {
	key := listingsKey(kind)
	var out []domain.Listing
	if s.cache.get(ctx, key, &out) {
		return out, nil
	}
	out, err := s.repo.ListListings(ctx, domain.ListingsQuery{Kind: kind})
	if err != nil {
		return nil, err
	}
	s.cache.set(ctx, key, out)
	return out, nil
}

// Search builds a fresh FilterStore bounded by the kind's highest price,
// applies the query parameters and runs the pipeline.
func (s *SearchService) Search(ctx context.Context, kind domain.Kind, q url.Values) (SearchResult, error) {
	all, err := s.listings(ctx, kind)
	if err != nil {
		return SearchResult{}, err
	}

	maxPrice := search.MaxPriceOf(all)
	store := search.NewFilterStore(maxPrice).WithDefaults(s.defaults)
	search.ApplyQuery(store, q)
	st := store.State()

	items := search.Run(all, st)
	res := SearchResult{
		Kind:          kind,
		Items:         items,
		Total:         len(items),
		ActiveFilters: store.ActiveCount(),
		State:         st,
		MaxPrice:      maxPrice,
	}
	if kind == domain.KindHotel {
		res.Amenities = s.amenities
	}
	return res, nil
}

// Compare resolves ids in order into a comparison set, reporting the ones
// that could not be added.
func (s *SearchService) Compare(ctx context.Context, ids []string) (CompareResult, error) {
	set := search.NewComparisonSet()
	var rejected []Rejection
	for _, id := range ids {
		switch {
		case set.Contains(id):
			rejected = append(rejected, Rejection{ID: id, Reason: RejectDuplicate})
			continue
		case set.Full():
			rejected = append(rejected, Rejection{ID: id, Reason: RejectLimit})
			continue
		}

		l, err := s.get(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			rejected = append(rejected, Rejection{ID: id, Reason: RejectNotFound})
			continue
		}
		if err != nil {
			return CompareResult{}, err
		}
		set.Add(l)
	}
	return CompareResult{Items: set.Items(), Rejected: rejected}, nil
}

func (s *SearchService) get(ctx context.Context, id string) (domain.Listing, error) {
	var l domain.Listing
	if s.cache.get(ctx, listingKey(id), &l) {
		return l, nil
	}
	l, err := s.repo.GetListing(ctx, id)
	if err != nil {
		return domain.Listing{}, err
	}
	s.cache.set(ctx, listingKey(id), l)
	return l, nil
}
