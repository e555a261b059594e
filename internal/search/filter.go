package search

import (
	"encoding/json"
	"sort"
)

type SortKey string

const (
	SortPriceLow  SortKey = "price_low"
	SortPriceHigh SortKey = "price_high"
	SortRating    SortKey = "rating"
	SortDistance  SortKey = "distance"
	SortPopular   SortKey = "popular"
)

func (k SortKey) Valid() bool {
	switch k {
	case SortPriceLow, SortPriceHigh, SortRating, SortDistance, SortPopular:
		return true
	}
	return false
}

type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

func (v ViewMode) Valid() bool { return v == ViewGrid || v == ViewList }

// PriceRange is inclusive on both ends. Min <= Max is kept by FilterStore.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// AmenitySet is an unordered set of normalized amenity tags.
type AmenitySet map[string]struct{}

func (s AmenitySet) Has(tag string) bool {
	_, ok := s[normalizeTag(tag)]
	return ok
}

// Sorted returns the tags in lexical order.
func (s AmenitySet) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func (s AmenitySet) clone() AmenitySet {
	out := make(AmenitySet, len(s))
	for t := range s {
		out[t] = struct{}{}
	}
	return out
}

func (s AmenitySet) MarshalJSON() ([]byte, error) { return json.Marshal(s.Sorted()) }

func (s *AmenitySet) UnmarshalJSON(b []byte) error {
	var tags []string
	if err := json.Unmarshal(b, &tags); err != nil {
		return err
	}
	*s = make(AmenitySet, len(tags))
	for _, t := range tags {
		(*s)[normalizeTag(t)] = struct{}{}
	}
	return nil
}

// FilterState is the set of narrowing criteria for one search session.
type FilterState struct {
	PriceRange PriceRange `json:"price_range"`
	Amenities  AmenitySet `json:"amenities"`
	MinRating  float64    `json:"min_rating"` // 0 = unset
	Sort       SortKey    `json:"sort"`
	View       ViewMode   `json:"view"`
	ShowMap    bool       `json:"show_map"`
}

func (f FilterState) clone() FilterState {
	f.Amenities = f.Amenities.clone()
	return f
}

// Defaults are the non-price fields Reset restores.
type Defaults struct {
	Sort SortKey
	View ViewMode
}

var builtinDefaults = Defaults{Sort: SortPriceLow, View: ViewGrid}

// DefaultState admits every listing priced within [0, maxPrice].
func DefaultState(maxPrice float64) FilterState {
	return defaultState(maxPrice, builtinDefaults)
}

func defaultState(maxPrice float64, d Defaults) FilterState {
	if maxPrice < 0 {
		maxPrice = 0
	}
	return FilterState{
		PriceRange: PriceRange{Min: 0, Max: maxPrice},
		Amenities:  AmenitySet{},
		Sort:       d.Sort,
		View:       d.View,
	}
}

// FilterStore owns a FilterState and mutates it only through named
// operations. Every operation replaces its own field and nothing else.
type FilterStore struct {
	maxPrice float64
	defaults Defaults
	state    FilterState
}

func NewFilterStore(maxPrice float64) *FilterStore {
	if maxPrice < 0 {
		maxPrice = 0
	}
	s := &FilterStore{maxPrice: maxPrice, defaults: builtinDefaults}
	s.Reset()
	return s
}

// WithDefaults swaps the sort/view defaults (invalid values are ignored) and resets.
func (s *FilterStore) WithDefaults(d Defaults) *FilterStore {
	if d.Sort.Valid() {
		s.defaults.Sort = d.Sort
	}
	if d.View.Valid() {
		s.defaults.View = d.View
	}
	s.Reset()
	return s
}

func (s *FilterStore) MaxPrice() float64 { return s.maxPrice }

// State returns a copy; mutating it does not affect the store.
func (s *FilterStore) State() FilterState { return s.state.clone() }

// SetPriceRange stores the range with bounds swapped if given out of order.
func (s *FilterStore) SetPriceRange(lo, hi float64) {
	if lo > hi {
		lo, hi = hi, lo
	}
	s.state.PriceRange = PriceRange{Min: lo, Max: hi}
}

// ToggleAmenity adds the tag if absent and removes it if present.
func (s *FilterStore) ToggleAmenity(tag string) {
	t := normalizeTag(tag)
	if t == "" {
		return
	}
	next := s.state.Amenities.clone()
	if _, ok := next[t]; ok {
		delete(next, t)
	} else {
		next[t] = struct{}{}
	}
	s.state.Amenities = next
}

// SetMinRating stores r; negative values mean unset.
func (s *FilterStore) SetMinRating(r float64) {
	if r < 0 {
		r = 0
	}
	s.state.MinRating = r
}

// SetSort ignores keys outside the enumeration.
func (s *FilterStore) SetSort(k SortKey) {
	if k.Valid() {
		s.state.Sort = k
	}
}

func (s *FilterStore) SetView(v ViewMode) {
	if v.Valid() {
		s.state.View = v
	}
}

func (s *FilterStore) ToggleMap() { s.state.ShowMap = !s.state.ShowMap }

// Reset restores [0, maxPrice] and the defaults for every other field.
func (s *FilterStore) Reset() { s.state = defaultState(s.maxPrice, s.defaults) }

// ActiveCount is ActiveFilterCount over the current state.
func (s *FilterStore) ActiveCount() int { return ActiveFilterCount(s.state, s.maxPrice) }
