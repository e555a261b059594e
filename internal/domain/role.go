package domain

import (
	"fmt"
	"sort"
	"strings"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleProvider Role = "provider"
	RoleCustomer Role = "customer"
)

// Capability is a single permission checked by services and handlers.
type Capability string

const (
	CapManageListings    Capability = "manage_listings"     // any listing
	CapManageOwnListings Capability = "manage_own_listings" // listings where ProviderID == user
	CapBook              Capability = "book"
	CapViewAllBookings   Capability = "view_all_bookings"
	CapManageBookings    Capability = "manage_bookings" // confirm/cancel; providers are scoped to own listings
	CapManageProfiles    Capability = "manage_profiles"
)

var capabilities = map[Role]map[Capability]struct{}{
	RoleAdmin: {
		CapManageListings:  {},
		CapBook:            {},
		CapViewAllBookings: {},
		CapManageBookings:  {},
		CapManageProfiles:  {},
	},
	RoleProvider: {
		CapManageOwnListings: {},
		CapManageBookings:    {},
	},
	RoleCustomer: {
		CapBook: {},
	},
}

func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := capabilities[r]; !ok {
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalid, s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	_, ok := capabilities[r]
	return ok
}

func (r Role) Can(c Capability) bool {
	_, ok := capabilities[r][c]
	return ok
}

// Capabilities lists the role's capabilities in a stable order.
func (r Role) Capabilities() []Capability {
	out := make([]Capability, 0, len(capabilities[r]))
	for c := range capabilities[r] {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Principal is the authenticated caller as asserted by the auth gateway.
type Principal struct {
	UserID string
	Role   Role
}

func (p Principal) Can(c Capability) bool { return p.Role.Can(c) }
