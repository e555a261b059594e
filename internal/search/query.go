package search

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// ApplyQuery drives the store's update operations from URL query values:
//
//	min_price, max_price  price range; a missing bound keeps the current one
//	amenities             comma separated; "amenity" may also be repeated
//	rating                minimum rating
//	sort, view            enumerated keys; unknown values are ignored
//	map                   true/1 shows the map
//
// Values that do not parse are ignored rather than rejected.
func ApplyQuery(s *FilterStore, q url.Values) {
	cur := s.State()

	lo, hi := cur.PriceRange.Min, cur.PriceRange.Max
	touched := false
	if v, ok := parseFloat(q.Get("min_price")); ok {
		lo, touched = v, true
	}
	if v, ok := parseFloat(q.Get("max_price")); ok {
		hi, touched = v, true
	}
	if touched {
		s.SetPriceRange(lo, hi)
	}

	for _, tag := range amenityParams(q) {
		if !s.State().Amenities.Has(tag) {
			s.ToggleAmenity(tag)
		}
	}

	if v, ok := parseFloat(q.Get("rating")); ok {
		s.SetMinRating(v)
	}
	if v := q.Get("sort"); v != "" {
		s.SetSort(SortKey(strings.ToLower(v)))
	}
	if v := q.Get("view"); v != "" {
		s.SetView(ViewMode(strings.ToLower(v)))
	}
	if v := q.Get("map"); v != "" {
		want, err := strconv.ParseBool(v)
		if err == nil && want != s.State().ShowMap {
			s.ToggleMap()
		}
	}
}

func amenityParams(q url.Values) []string {
	var out []string
	for _, raw := range append(q["amenities"], q["amenity"]...) {
		for _, part := range strings.Split(raw, ",") {
			if t := normalizeTag(part); t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
