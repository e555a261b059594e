package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"umrah_booking/internal/domain"
	"umrah_booking/internal/session"
)

type NewBooking struct {
	ListingID string `json:"listing_id"`
	Guests    int    `json:"guests"`
	Notes     string `json:"notes,omitempty"`
}

type BookingService struct {
	bookings domain.BookingRepository
	listings domain.ListingRepository
	notify   *session.Notifications
	now      func() time.Time
}

// NewBookingService: notify may be nil, in which case no notifications are pushed.
func NewBookingService(b domain.BookingRepository, l domain.ListingRepository, n *session.Notifications) *BookingService {
	return &BookingService{bookings: b, listings: l, notify: n, now: time.Now}
}

// Create books a listing for the caller at price * guests, status pending.
func (s *BookingService) Create(ctx context.Context, p domain.Principal, in NewBooking) (domain.Booking, error) {
	if !p.Can(domain.CapBook) {
		return domain.Booking{}, fmt.Errorf("%w: role %q cannot book", domain.ErrForbidden, p.Role)
	}
	if strings.TrimSpace(in.ListingID) == "" {
		return domain.Booking{}, fmt.Errorf("%w: listing_id is required", domain.ErrInvalid)
	}
	if in.Guests < 1 {
		return domain.Booking{}, fmt.Errorf("%w: guests must be at least 1", domain.ErrInvalid)
	}

	l, err := s.listings.GetListing(ctx, in.ListingID)
	if err != nil {
		return domain.Booking{}, err
	}

	var price float64
	if l.Price != nil {
		price = *l.Price
	}
	now := s.now().UTC()
	b := domain.Booking{
		ID:         uuid.NewString(),
		ListingID:  l.ID,
		Kind:       l.Kind,
		CustomerID: p.UserID,
		ProviderID: l.ProviderID,
		Guests:     in.Guests,
		Total:      price * float64(in.Guests),
		Currency:   l.Currency,
		Status:     domain.StatusPending,
		Notes:      strings.TrimSpace(in.Notes),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.bookings.InsertBooking(ctx, b); err != nil {
		return domain.Booking{}, err
	}

	s.push(ctx, b.CustomerID, session.Notification{
		Kind:  "booking_created",
		Title: "Booking received: " + l.Title.EN,
		Body:  fmt.Sprintf("%d guest(s), total %.2f %s", b.Guests, b.Total, b.Currency),
		Link:  "/bookings/" + b.ID,
	})
	if b.ProviderID != "" {
		s.push(ctx, b.ProviderID, session.Notification{
			Kind:  "booking_created",
			Title: "New booking for " + l.Title.EN,
			Link:  "/bookings/" + b.ID,
		})
	}
	return b, nil
}

// canSee: admins see everything, customers their own, providers bookings on their listings.
func canSee(p domain.Principal, b domain.Booking) bool {
	switch {
	case p.Can(domain.CapViewAllBookings):
		return true
	case p.Role == domain.RoleProvider:
		return b.ProviderID != "" && b.ProviderID == p.UserID
	default:
		return b.CustomerID == p.UserID
	}
}

func (s *BookingService) Get(ctx context.Context, p domain.Principal, id string) (domain.Booking, error) {
	b, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if !canSee(p, b) {
		return domain.Booking{}, fmt.Errorf("%w: booking %s", domain.ErrForbidden, id)
	}
	return b, nil
}

// List scopes by role: all for admins, own listings for providers, own bookings otherwise.
func (s *BookingService) List(ctx context.Context, p domain.Principal, limit int) ([]domain.Booking, error) {
	switch {
	case p.Can(domain.CapViewAllBookings):
		return s.ListAll(ctx, limit)
	case p.Role == domain.RoleProvider:
		return s.ListForProvider(ctx, p.UserID, limit)
	default:
		return s.ListForCustomer(ctx, p.UserID, limit)
	}
}

func (s *BookingService) ListAll(ctx context.Context, limit int) ([]domain.Booking, error) {
	return s.bookings.ListBookings(ctx, domain.BookingsQuery{Limit: limit})
}

func (s *BookingService) ListForCustomer(ctx context.Context, customerID string, limit int) ([]domain.Booking, error) {
	return s.bookings.ListBookings(ctx, domain.BookingsQuery{CustomerID: customerID, Limit: limit})
}

func (s *BookingService) ListForProvider(ctx context.Context, providerID string, limit int) ([]domain.Booking, error) {
	return s.bookings.ListBookings(ctx, domain.BookingsQuery{ProviderID: providerID, Limit: limit})
}

// UpdateStatus applies a lifecycle transition. Customers may only cancel
// their own bookings; confirming needs CapManageBookings.
func (s *BookingService) UpdateStatus(ctx context.Context, p domain.Principal, id string, to domain.BookingStatus) (domain.Booking, error) {
	b, err := s.Get(ctx, p, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if !p.Can(domain.CapManageBookings) && !(to == domain.StatusCancelled && b.CustomerID == p.UserID) {
		return domain.Booking{}, fmt.Errorf("%w: cannot set booking %s to %s", domain.ErrForbidden, id, to)
	}
	if !b.Status.CanTransition(to) {
		return domain.Booking{}, fmt.Errorf("%w: booking %s is %s, cannot become %s", domain.ErrConflict, id, b.Status, to)
	}

	if err := s.bookings.UpdateBookingStatus(ctx, id, to); err != nil {
		return domain.Booking{}, err
	}
	b.Status = to
	b.UpdatedAt = s.now().UTC()

	s.push(ctx, b.CustomerID, session.Notification{
		Kind:  "booking_status",
		Title: "Booking " + string(to),
		Link:  "/bookings/" + b.ID,
	})
	return b, nil
}

// Delete is admin-only; everyone else cancels instead.
func (s *BookingService) Delete(ctx context.Context, p domain.Principal, id string) error {
	if !p.Can(domain.CapViewAllBookings) {
		return fmt.Errorf("%w: role %q cannot delete bookings", domain.ErrForbidden, p.Role)
	}
	return s.bookings.DeleteBooking(ctx, id)
}

// push is best-effort; a failing session backend never fails the booking.
func (s *BookingService) push(ctx context.Context, userID string, n session.Notification) {
	if s.notify == nil || userID == "" {
		return
	}
	if _, err := s.notify.Push(ctx, userID, n); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Str("kind", n.Kind).Msg("notification push failed")
	}
}
