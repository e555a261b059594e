package search

import "umrah_booking/internal/domain"

// MaxCompare is the comparison panel capacity.
const MaxCompare = 3

// ComparisonSet is an ordered selection of at most MaxCompare listings,
// unique by ID, plus a panel visibility flag.
type ComparisonSet struct {
	items   []domain.Listing
	visible bool
}

func NewComparisonSet() *ComparisonSet { return &ComparisonSet{} }

// RestoreComparison rebuilds a set from a saved snapshot; entries that would
// break capacity or uniqueness are dropped.
func RestoreComparison(items []domain.Listing, visible bool) *ComparisonSet {
	c := NewComparisonSet()
	for _, l := range items {
		c.Add(l)
	}
	c.visible = visible
	return c
}

// Add appends l and shows the panel. It returns false, leaving the set
// untouched, when full or when l.ID is already present.
func (c *ComparisonSet) Add(l domain.Listing) bool {
	if len(c.items) >= MaxCompare || c.Contains(l.ID) {
		return false
	}
	c.items = append(c.items, l)
	c.visible = true
	return true
}

func (c *ComparisonSet) Remove(id string) {
	for i, l := range c.items {
		if l.ID == id {
			c.items = append(c.items[:i:i], c.items[i+1:]...)
			return
		}
	}
}

// Clear empties the set and hides the panel.
func (c *ComparisonSet) Clear() {
	c.items = nil
	c.visible = false
}

// ToggleVisibility flips the panel flag without touching the contents.
func (c *ComparisonSet) ToggleVisibility() { c.visible = !c.visible }

func (c *ComparisonSet) Contains(id string) bool {
	for _, l := range c.items {
		if l.ID == id {
			return true
		}
	}
	return false
}

func (c *ComparisonSet) Len() int      { return len(c.items) }
func (c *ComparisonSet) Full() bool    { return len(c.items) >= MaxCompare }
func (c *ComparisonSet) Visible() bool { return c.visible }

// Items returns a copy in insertion order.
func (c *ComparisonSet) Items() []domain.Listing {
	out := make([]domain.Listing, len(c.items))
	copy(out, c.items)
	return out
}
