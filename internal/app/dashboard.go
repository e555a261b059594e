package app

import (
	"context"
	"fmt"

	"umrah_booking/internal/domain"
	"umrah_booking/internal/session"
)

const recentBookings = 5

// Dashboard is the role-specific overview. Fields that do not apply to the
// caller's role are left empty.
type Dashboard struct {
	Role         domain.Role         `json:"role"`
	Capabilities []domain.Capability `json:"capabilities"`

	Listings map[domain.Kind]int          `json:"listings,omitempty"`
	Bookings map[domain.BookingStatus]int `json:"bookings,omitempty"`
	Profiles *int                         `json:"profiles,omitempty"`

	Wishlist            *int `json:"wishlist,omitempty"`
	UnreadNotifications *int `json:"unread_notifications,omitempty"`

	Recent []domain.Booking `json:"recent_bookings,omitempty"`
}

type DashboardService struct {
	listings domain.ListingRepository
	bookings domain.BookingRepository
	profiles domain.ProfileRepository
	wishlist *session.Wishlist
	notify   *session.Notifications
}

func NewDashboardService(
	l domain.ListingRepository,
	b domain.BookingRepository,
	p domain.ProfileRepository,
	w *session.Wishlist,
	n *session.Notifications,
) *DashboardService {
	return &DashboardService{listings: l, bookings: b, profiles: p, wishlist: w, notify: n}
}

func (s *DashboardService) For(ctx context.Context, p domain.Principal) (Dashboard, error) {
	d := Dashboard{Role: p.Role, Capabilities: p.Role.Capabilities()}

	var err error
	switch p.Role {
	case domain.RoleAdmin:
		err = s.admin(ctx, &d)
	case domain.RoleProvider:
		err = s.provider(ctx, p.UserID, &d)
	case domain.RoleCustomer:
		err = s.customer(ctx, p.UserID, &d)
	default:
		return Dashboard{}, fmt.Errorf("%w: unknown role %q", domain.ErrForbidden, p.Role)
	}
	if err != nil {
		return Dashboard{}, err
	}
	return d, nil
}

func (s *DashboardService) admin(ctx context.Context, d *Dashboard) error {
	var err error
	if d.Listings, err = s.listings.CountListings(ctx, ""); err != nil {
		return err
	}
	if d.Bookings, err = s.bookings.CountBookingsByStatus(ctx, domain.BookingsQuery{}); err != nil {
		return err
	}
	n, err := s.profiles.CountProfiles(ctx)
	if err != nil {
		return err
	}
	d.Profiles = &n
	d.Recent, err = s.bookings.ListBookings(ctx, domain.BookingsQuery{Limit: recentBookings})
	return err
}

func (s *DashboardService) provider(ctx context.Context, userID string, d *Dashboard) error {
	var err error
	if d.Listings, err = s.listings.CountListings(ctx, userID); err != nil {
		return err
	}
	q := domain.BookingsQuery{ProviderID: userID}
	if d.Bookings, err = s.bookings.CountBookingsByStatus(ctx, q); err != nil {
		return err
	}
	q.Limit = recentBookings
	d.Recent, err = s.bookings.ListBookings(ctx, q)
	return err
}

func (s *DashboardService) customer(ctx context.Context, userID string, d *Dashboard) error {
	var err error
	q := domain.BookingsQuery{CustomerID: userID}
	if d.Bookings, err = s.bookings.CountBookingsByStatus(ctx, q); err != nil {
		return err
	}
	q.Limit = recentBookings
	if d.Recent, err = s.bookings.ListBookings(ctx, q); err != nil {
		return err
	}

	if s.wishlist != nil {
		items, err := s.wishlist.Items(ctx, userID)
		if err != nil {
			return err
		}
		n := len(items)
		d.Wishlist = &n
	}
	if s.notify != nil {
		n, err := s.notify.UnreadCount(ctx, userID)
		if err != nil {
			return err
		}
		d.UnreadNotifications = &n
	}
	return nil
}
