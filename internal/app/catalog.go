package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"umrah_booking/internal/domain"
)

// CatalogService is the CRUD surface over listings of every kind.
type CatalogService struct {
	repo  domain.ListingRepository
	cache cached
	now   func() time.Time
}

func NewCatalogService(r domain.ListingRepository, c domain.Cache, ttl time.Duration) *CatalogService {
	return &CatalogService{repo: r, cache: cached{c: c, ttl: ttl}, now: time.Now}
}

// canManage: admins manage everything, providers only what they own.
func canManage(p domain.Principal, l domain.Listing) bool {
	if p.Can(domain.CapManageListings) {
		return true
	}
	return p.Can(domain.CapManageOwnListings) && l.ProviderID != "" && l.ProviderID == p.UserID
}

// Create assigns ID and timestamps. Providers always own what they create.
func (s *CatalogService) Create(ctx context.Context, p domain.Principal, l domain.Listing) (domain.Listing, error) {
	switch {
	case p.Can(domain.CapManageListings):
	case p.Can(domain.CapManageOwnListings):
		l.ProviderID = p.UserID
	default:
		return domain.Listing{}, fmt.Errorf("%w: role %q cannot create listings", domain.ErrForbidden, p.Role)
	}
	if err := l.Validate(); err != nil {
		return domain.Listing{}, err
	}

	now := s.now().UTC()
	l.ID = uuid.NewString()
	l.CreatedAt, l.UpdatedAt = now, now
	if err := s.repo.SaveListing(ctx, l); err != nil {
		return domain.Listing{}, err
	}
	s.cache.invalidate(ctx, l.ID, l.Kind)
	return l, nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (domain.Listing, error) {
	key := listingKey(id)
	var l domain.Listing
	if s.cache.get(ctx, key, &l) {
		return l, nil
	}
	l, err := s.repo.GetListing(ctx, id)
	if err != nil {
		return domain.Listing{}, err
	}
	s.cache.set(ctx, key, l)
	return l, nil
}

// GetKind is Get restricted to one kind; a listing of another kind is not found.
func (s *CatalogService) GetKind(ctx context.Context, kind domain.Kind, id string) (domain.Listing, error) {
	l, err := s.Get(ctx, id)
	if err != nil {
		return domain.Listing{}, err
	}
	if l.Kind != kind {
		return domain.Listing{}, domain.ErrNotFound
	}
	return l, nil
}

func (s *CatalogService) List(ctx context.Context, q domain.ListingsQuery) ([]domain.Listing, error) {
	return s.repo.ListListings(ctx, q)
}

func (s *CatalogService) Update(ctx context.Context, p domain.Principal, kind domain.Kind, id string, patch domain.ListingPatch) (domain.Listing, error) {
	cur, err := s.repo.GetListing(ctx, id)
	if err != nil {
		return domain.Listing{}, err
	}
	if cur.Kind != kind {
		return domain.Listing{}, domain.ErrNotFound
	}
	if !canManage(p, cur) {
		return domain.Listing{}, fmt.Errorf("%w: listing %s", domain.ErrForbidden, id)
	}

	next := patch.Apply(cur)
	if err := next.Validate(); err != nil {
		return domain.Listing{}, err
	}
	next.UpdatedAt = s.now().UTC()
	if err := s.repo.SaveListing(ctx, next); err != nil {
		return domain.Listing{}, err
	}
	s.cache.invalidate(ctx, id, kind)
	return next, nil
}

func (s *CatalogService) Delete(ctx context.Context, p domain.Principal, kind domain.Kind, id string) error {
	cur, err := s.repo.GetListing(ctx, id)
	if err != nil {
		return err
	}
	if cur.Kind != kind {
		return domain.ErrNotFound
	}
	if !canManage(p, cur) {
		return fmt.Errorf("%w: listing %s", domain.ErrForbidden, id)
	}
	if err := s.repo.DeleteListing(ctx, id); err != nil {
		return err
	}
	s.cache.invalidate(ctx, id, kind)
	return nil
}
