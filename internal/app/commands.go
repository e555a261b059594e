package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"umrah_booking/internal/domain"
)

var ingestLangs = []string{"en", "ar"}

type IngestionService struct {
	supplier domain.SupplierClient
	repo     domain.ListingRepository
	cache    cached
	now      func() time.Time
}

func NewIngestionService(c domain.SupplierClient, r domain.ListingRepository, cache domain.Cache) *IngestionService {
	return &IngestionService{supplier: c, repo: r, cache: cached{c: cache}, now: time.Now}
}

// IngestHotel pulls one supplier property with its en/ar translations and
// upserts it as a hotel listing. Supplier misses (404/401/403) are logged to
// the repository and do not fail the run; anything else is returned.
func (s *IngestionService) IngestHotel(ctx context.Context, supplierID int64) error {
	id := supplierListingID(supplierID)

	p, err := s.supplier.GetProperty(ctx, supplierID)
	if err != nil {
		if status, ok := missStatus(err); ok {
			_ = s.repo.LogMiss(ctx, supplierID, status, reasonFor(status))
			s.cache.invalidate(ctx, id, domain.KindHotel)
			return nil
		}
		return err
	}

	translations := make(map[string]map[string]any, len(ingestLangs))
	for _, lang := range ingestLangs {
		tr, terr := s.supplier.GetTranslation(ctx, supplierID, lang)
		if terr != nil {
			if status, ok := missStatus(terr); ok {
				_ = s.repo.LogMiss(ctx, supplierID, status, "i18n:"+lang)
				continue
			}
			return terr
		}
		translations[lang] = tr
	}

	l := mapHotelListing(supplierID, p, translations)
	if err := l.Validate(); err != nil {
		_ = s.repo.LogMiss(ctx, supplierID, 422, truncate(err.Error(), 255))
		log.Warn().Err(err).Int64("supplier_id", supplierID).Msg("supplier hotel rejected")
		return nil
	}

	now := s.now().UTC()
	l.CreatedAt, l.UpdatedAt = now, now
	if prev, err := s.repo.GetListing(ctx, id); err == nil {
		l.CreatedAt = prev.CreatedAt
		l.ProviderID = prev.ProviderID
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	if err := s.repo.SaveListing(ctx, l); err != nil {
		return fmt.Errorf("save supplier hotel %d: %w", supplierID, err)
	}
	s.cache.invalidate(ctx, id, domain.KindHotel)
	return nil
}

// missStatus classifies supplier errors that end one id without failing the run.
func missStatus(err error) (int, bool) {
	low := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, domain.ErrNotFound) || strings.Contains(low, "not found"):
		return 404, true
	case errors.Is(err, domain.ErrForbidden) || strings.Contains(low, "forbidden") ||
		strings.Contains(low, "unauthorized"):
		return 403, true
	}
	return 0, false
}

func reasonFor(status int) string {
	if status == 404 {
		return "not found"
	}
	return "inactive"
}

// truncate keeps at most n characters; VARCHAR lengths count characters.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
