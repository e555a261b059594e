package supplier_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"umrah_booking/internal/adapters/supplier"
	"umrah_booking/internal/domain"
)

func TestClient_GetProperty_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch atomic.AddInt32(&hits, 1) {
		case 1:
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
		case 2:
			w.WriteHeader(http.StatusBadGateway)
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{"hotel_id": 77.0, "hotel_name": "Swissotel Makkah"})
		}
	}))
	defer ts.Close()

	cl, err := supplier.New(ts.URL, "test-key", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	got, err := cl.GetProperty(ctx, 77)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got["hotel_name"] != "Swissotel Makkah" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if atomic.LoadInt32(&hits) != 3 {
		t.Fatalf("expected 3 calls, got %d", hits)
	}
}

func TestClient_NotFoundIsDomainNotFound(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	cl, _ := supplier.New(ts.URL, "test-key", 100)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := cl.GetTranslation(ctx, 1, "ar")
	if !errors.Is(err, domain.ErrNotFound) || !errors.Is(err, supplier.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestClient_RequiresKey(t *testing.T) {
	if _, err := supplier.New("http://example.invalid", "", 1); err == nil {
		t.Fatal("expected error without key")
	}
}
