package search

import (
	"cmp"
	"slices"

	"umrah_booking/internal/domain"
)

// Apply returns the listings that satisfy every active predicate in st, in
// input order. The input slice is not modified.
//
//   - price:     Min <= price <= Max (absent price is 0)
//   - rating:    rating >= MinRating, only when MinRating > 0
//   - amenities: hotels only, when any are selected; all of them must be present
func Apply(listings []domain.Listing, st FilterState) []domain.Listing {
	out := make([]domain.Listing, 0, len(listings))
	for _, n := range normalizeAll(listings) {
		if matches(n, st) {
			out = append(out, n.Listing)
		}
	}
	return out
}

func matches(n NormalizedListing, st FilterState) bool {
	if n.Price < st.PriceRange.Min || n.Price > st.PriceRange.Max {
		return false
	}
	if st.MinRating > 0 && n.Rating < st.MinRating {
		return false
	}
	if n.Listing.Kind == domain.KindHotel && len(st.Amenities) > 0 {
		for tag := range st.Amenities {
			if _, ok := n.Amenities[tag]; !ok {
				return false
			}
		}
	}
	return true
}

// Sort returns a new, stably ordered slice. Unknown keys keep input order.
func Sort(listings []domain.Listing, key SortKey) []domain.Listing {
	ns := normalizeAll(listings)

	var by func(a, b NormalizedListing) int
	switch key {
	case SortPriceLow:
		by = func(a, b NormalizedListing) int { return cmp.Compare(a.Price, b.Price) }
	case SortPriceHigh:
		by = func(a, b NormalizedListing) int { return cmp.Compare(b.Price, a.Price) }
	case SortRating:
		by = func(a, b NormalizedListing) int { return cmp.Compare(b.Rating, a.Rating) }
	case SortDistance:
		by = func(a, b NormalizedListing) int { return cmp.Compare(a.Distance, b.Distance) }
	case SortPopular:
		by = func(a, b NormalizedListing) int { return cmp.Compare(b.Reviews, a.Reviews) }
	}
	if by != nil {
		slices.SortStableFunc(ns, by)
	}

	out := make([]domain.Listing, len(ns))
	for i, n := range ns {
		out[i] = n.Listing
	}
	return out
}

// Run filters then sorts by the state's sort key.
func Run(listings []domain.Listing, st FilterState) []domain.Listing {
	return Sort(Apply(listings, st), st.Sort)
}

// ActiveFilterCount counts the narrowed dimensions: price range away from
// [0, maxPrice], any amenity selected, a rating threshold. At most 3.
func ActiveFilterCount(st FilterState, maxPrice float64) int {
	n := 0
	if st.PriceRange.Min != 0 || st.PriceRange.Max != maxPrice {
		n++
	}
	if len(st.Amenities) > 0 {
		n++
	}
	if st.MinRating > 0 {
		n++
	}
	return n
}

// MaxPriceOf is the highest (normalized) price in the set, 0 when empty.
func MaxPriceOf(listings []domain.Listing) float64 {
	var hi float64
	for _, l := range listings {
		if l.Price != nil && *l.Price > hi {
			hi = *l.Price
		}
	}
	return hi
}
