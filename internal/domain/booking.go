package domain

import (
	"fmt"
	"time"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

func ParseBookingStatus(s string) (BookingStatus, error) {
	switch st := BookingStatus(s); st {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown booking status %q", ErrInvalid, s)
}

// CanTransition: pending -> confirmed|cancelled, confirmed -> cancelled.
func (s BookingStatus) CanTransition(to BookingStatus) bool {
	switch s {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCancelled
	}
	return false
}

type Booking struct {
	ID         string        `json:"id"`
	ListingID  string        `json:"listing_id"`
	Kind       Kind          `json:"kind"`
	CustomerID string        `json:"customer_id"`
	ProviderID string        `json:"provider_id,omitempty"`
	Guests     int           `json:"guests"`
	Total      float64       `json:"total"`
	Currency   string        `json:"currency,omitempty"`
	Status     BookingStatus `json:"status"`
	Notes      string        `json:"notes,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

type Profile struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	FullName      string    `json:"full_name"`
	Phone         string    `json:"phone,omitempty"`
	Role          Role      `json:"role"`
	PreferredLang string    `json:"preferred_lang"` // en|ar
	CreatedAt     time.Time `json:"created_at"`
}
