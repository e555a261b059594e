package domain

import "context"

type ListingRepository interface {
	// Write paths
	SaveListing(ctx context.Context, l Listing) error // insert or replace by ID
	DeleteListing(ctx context.Context, id string) error
	LogMiss(ctx context.Context, supplierID int64, status int, reason string) error

	// Read paths
	GetListing(ctx context.Context, id string) (Listing, error)
	ListListings(ctx context.Context, q ListingsQuery) ([]Listing, error)
	CountListings(ctx context.Context, providerID string) (map[Kind]int, error)
}

type BookingRepository interface {
	InsertBooking(ctx context.Context, b Booking) error
	UpdateBookingStatus(ctx context.Context, id string, s BookingStatus) error
	DeleteBooking(ctx context.Context, id string) error

	GetBooking(ctx context.Context, id string) (Booking, error)
	ListBookings(ctx context.Context, q BookingsQuery) ([]Booking, error)
	CountBookingsByStatus(ctx context.Context, q BookingsQuery) (map[BookingStatus]int, error)
}

type ProfileRepository interface {
	UpsertProfile(ctx context.Context, p Profile) error
	DeleteProfile(ctx context.Context, id string) error

	GetProfile(ctx context.Context, id string) (Profile, error)
	ListProfiles(ctx context.Context, limit int) ([]Profile, error)
	CountProfiles(ctx context.Context) (int, error)
}

// SupplierClient pulls hotel content from the upstream content API.
type SupplierClient interface {
	GetProperty(ctx context.Context, id int64) (map[string]any, error)
	GetTranslation(ctx context.Context, id int64, lang string) (map[string]any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Queries

// ListingsQuery filters by column only; ranking lives in the search package.
type ListingsQuery struct {
	Kind       Kind   // empty = all kinds
	ProviderID string // empty = any provider
	Limit      int    // 0 = no limit
}

type BookingsQuery struct {
	CustomerID string
	ProviderID string
	Limit      int
}
