package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"umrah_booking/internal/domain"
	"umrah_booking/internal/storage/memory"
)

func TestRepo_ListingsOrderAndFilters(t *testing.T) {
	ctx := context.Background()
	r := memory.New()
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	seed := []domain.Listing{
		{ID: "b", Kind: domain.KindHotel, ProviderID: "p1", CreatedAt: t0.Add(time.Minute)},
		{ID: "a", Kind: domain.KindHotel, ProviderID: "p2", CreatedAt: t0.Add(time.Minute)},
		{ID: "c", Kind: domain.KindFlight, ProviderID: "p1", CreatedAt: t0},
	}
	for _, l := range seed {
		if err := r.SaveListing(ctx, l); err != nil {
			t.Fatal(err)
		}
	}

	all, _ := r.ListListings(ctx, domain.ListingsQuery{})
	if len(all) != 3 || all[0].ID != "c" || all[1].ID != "a" || all[2].ID != "b" {
		t.Fatalf("unexpected order: %+v", all)
	}
	hotels, _ := r.ListListings(ctx, domain.ListingsQuery{Kind: domain.KindHotel, Limit: 1})
	if len(hotels) != 1 || hotels[0].ID != "a" {
		t.Fatalf("kind+limit: %+v", hotels)
	}
	counts, _ := r.CountListings(ctx, "p1")
	if counts[domain.KindHotel] != 1 || counts[domain.KindFlight] != 1 {
		t.Fatalf("counts: %v", counts)
	}

	if err := r.DeleteListing(ctx, "zzz"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRepo_BookingsNewestFirst(t *testing.T) {
	ctx := context.Background()
	r := memory.New()
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_ = r.InsertBooking(ctx, domain.Booking{ID: "1", CustomerID: "c1", Status: domain.StatusPending, CreatedAt: t0})
	_ = r.InsertBooking(ctx, domain.Booking{ID: "2", CustomerID: "c1", Status: domain.StatusPending, CreatedAt: t0.Add(time.Hour)})
	_ = r.InsertBooking(ctx, domain.Booking{ID: "3", CustomerID: "c2", Status: domain.StatusPending, CreatedAt: t0})

	if err := r.InsertBooking(ctx, domain.Booking{ID: "1"}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate id, got %v", err)
	}

	got, _ := r.ListBookings(ctx, domain.BookingsQuery{CustomerID: "c1"})
	if len(got) != 2 || got[0].ID != "2" {
		t.Fatalf("unexpected bookings: %+v", got)
	}

	_ = r.UpdateBookingStatus(ctx, "1", domain.StatusConfirmed)
	byStatus, _ := r.CountBookingsByStatus(ctx, domain.BookingsQuery{})
	if byStatus[domain.StatusConfirmed] != 1 || byStatus[domain.StatusPending] != 2 {
		t.Fatalf("by status: %v", byStatus)
	}
}

func TestRepo_ProfileEmailUnique(t *testing.T) {
	ctx := context.Background()
	r := memory.New()
	if err := r.UpsertProfile(ctx, domain.Profile{ID: "u1", Email: "a@x.io"}); err != nil {
		t.Fatal(err)
	}
	if err := r.UpsertProfile(ctx, domain.Profile{ID: "u2", Email: "a@x.io"}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if err := r.UpsertProfile(ctx, domain.Profile{ID: "u1", Email: "a@x.io", FullName: "A"}); err != nil {
		t.Fatalf("re-upsert own email: %v", err)
	}
	if n, _ := r.CountProfiles(ctx); n != 1 {
		t.Fatalf("count = %d", n)
	}
}
