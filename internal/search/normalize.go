// Package search holds the listing search pipeline: filter state, the predicate
// and sort evaluators, the comparison set and the active-filter counter.
//
// Everything here is synchronous and owned by a single caller; no locking.
package search

import (
	"strconv"
	"strings"

	"umrah_booking/internal/domain"
)

// NormalizedListing is the default-if-absent view of a listing that both
// evaluators read. The policy: a missing price, rating, distance or review
// count is 0, and a distance that does not start with a number is 0.
//
// Note the consequence for distance: an unknown distance sorts as closest.
type NormalizedListing struct {
	Listing   domain.Listing
	Price     float64
	Rating    float64
	Distance  float64
	Reviews   int
	Amenities map[string]struct{}
}

func Normalize(l domain.Listing) NormalizedListing {
	n := NormalizedListing{Listing: l}
	if l.Price != nil {
		n.Price = *l.Price
	}
	if l.Rating != nil {
		n.Rating = *l.Rating
	}
	n.Distance = parseDistance(l.Distance())
	if rc := l.ReviewCount(); rc != nil {
		n.Reviews = *rc
	}
	if am := l.Amenities(); len(am) > 0 {
		n.Amenities = make(map[string]struct{}, len(am))
		for _, a := range am {
			n.Amenities[normalizeTag(a)] = struct{}{}
		}
	}
	return n
}

func normalizeAll(ls []domain.Listing) []NormalizedListing {
	out := make([]NormalizedListing, len(ls))
	for i, l := range ls {
		out[i] = Normalize(l)
	}
	return out
}

// parseDistance reads the leading number of s ("350", "1.2 km", "0,8km").
func parseDistance(s *string) float64 {
	if s == nil {
		return 0
	}
	v := strings.TrimSpace(strings.ReplaceAll(*s, ",", "."))
	end := 0
	seenDot := false
scan:
	for ; end < len(v); end++ {
		c := v[end]
		switch {
		case c >= '0' && c <= '9':
		case c == '.' && !seenDot:
			seenDot = true
		case (c == '-' || c == '+') && end == 0:
		default:
			break scan
		}
	}
	f, err := strconv.ParseFloat(v[:end], 64)
	if err != nil {
		return 0
	}
	return f
}

func normalizeTag(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
