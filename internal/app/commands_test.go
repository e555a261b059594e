package app_test

import (
	"context"
	"errors"
	"testing"

	"umrah_booking/internal/app"
	"umrah_booking/internal/domain"
	"umrah_booking/internal/storage/memory"
)

func TestIngestHotel_MapsBilingualContent(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	cache := &fakeCache{}
	sup := &fakeSupplier{
		props: map[int64]map[string]any{
			77: {
				"hotel_id":          77.0,
				"hotel_name":        "Swissotel Makkah",
				"stars":             5.0,
				"review_score":      "8,6",
				"review_count":      1200.0,
				"price":             620.0,
				"currency":          "sar",
				"address":           map[string]any{"city": "Makkah", "address": "Abraj Al Bait"},
				"facilities":        []any{map[string]any{"name": "WiFi"}, "Pool"},
				"photos":            []any{map[string]any{"url": "https://img/1.jpg"}},
				"distance_to_haram": 150.0,
			},
		},
		trs: map[int64]map[string]map[string]any{
			77: {"ar": {"name": "سويس أوتيل مكة", "address": "أبراج البيت"}},
		},
	}
	svc := app.NewIngestionService(sup, repo, cache)

	if err := svc.IngestHotel(ctx, 77); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	hotels, _ := repo.ListListings(ctx, domain.ListingsQuery{Kind: domain.KindHotel})
	if len(hotels) != 1 {
		t.Fatalf("expected one hotel, got %d", len(hotels))
	}
	h := hotels[0]
	if h.Title.EN != "Swissotel Makkah" || h.Title.AR != "سويس أوتيل مكة" || h.Currency != "SAR" {
		t.Fatalf("unexpected base fields: %+v", h)
	}
	if h.Rating == nil || *h.Rating != 4.3 || h.Price == nil || *h.Price != 620 {
		t.Fatalf("unexpected rating/price: %v %v", h.Rating, h.Price)
	}
	d := h.Hotel
	if d.City != "Makkah" || d.Address.EN != "Abraj Al Bait" || d.Address.AR != "أبراج البيت" {
		t.Fatalf("unexpected address: %+v", d)
	}
	if len(d.Amenities) != 2 || d.Amenities[0] != "WiFi" || len(d.Images) != 1 {
		t.Fatalf("unexpected amenities/images: %+v", d)
	}
	if d.DistanceToHaram == nil || *d.DistanceToHaram != "150" || d.Reviews == nil || *d.Reviews != 1200 {
		t.Fatalf("unexpected distance/reviews: %+v", d)
	}

	// Missing "en" translation is logged as a miss but not fatal.
	if m := repo.Misses()[77]; m.Reason != "i18n:en" || m.Status != 404 {
		t.Fatalf("expected i18n:en miss, got %+v", m)
	}

	// Re-ingesting keeps the same listing and creation time.
	if err := svc.IngestHotel(ctx, 77); err != nil {
		t.Fatal(err)
	}
	again, _ := repo.ListListings(ctx, domain.ListingsQuery{Kind: domain.KindHotel})
	if len(again) != 1 || again[0].ID != h.ID || !again[0].CreatedAt.Equal(h.CreatedAt) {
		t.Fatalf("re-ingest should upsert in place: %+v", again)
	}
}

func TestIngestHotel_MissesAreLoggedNotFatal(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	cache := &fakeCache{}

	if err := app.NewIngestionService(&fakeSupplier{}, repo, cache).IngestHotel(ctx, 404); err != nil {
		t.Fatalf("not found should not fail: %v", err)
	}
	if m := repo.Misses()[404]; m.Status != 404 {
		t.Fatalf("expected 404 miss, got %+v", m)
	}
	if len(cache.dels) == 0 {
		t.Fatal("expected caches to be invalidated on miss")
	}

	forbidden := &fakeSupplier{err: domain.ErrForbidden}
	if err := app.NewIngestionService(forbidden, repo, nil).IngestHotel(ctx, 403); err != nil {
		t.Fatalf("forbidden should not fail: %v", err)
	}
	if m := repo.Misses()[403]; m.Status != 403 || m.Reason != "inactive" {
		t.Fatalf("expected inactive miss, got %+v", m)
	}

	boom := errors.New("connection reset")
	if err := app.NewIngestionService(&fakeSupplier{err: boom}, repo, nil).IngestHotel(ctx, 1); !errors.Is(err, boom) {
		t.Fatalf("expected transport error to surface, got %v", err)
	}
}

func TestIngestHotel_RejectsUntitledPayload(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	sup := &fakeSupplier{props: map[int64]map[string]any{5: {"hotel_id": 5.0}}}

	if err := app.NewIngestionService(sup, repo, nil).IngestHotel(ctx, 5); err != nil {
		t.Fatal(err)
	}
	if m := repo.Misses()[5]; m.Status != 422 {
		t.Fatalf("expected 422 miss, got %+v", m)
	}
	if n, _ := repo.CountListings(ctx, ""); n[domain.KindHotel] != 0 {
		t.Fatal("untitled hotel must not be saved")
	}
}
