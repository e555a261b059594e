package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"umrah_booking/internal/domain"
)

type ProfileService struct {
	repo domain.ProfileRepository
	now  func() time.Time
}

func NewProfileService(r domain.ProfileRepository) *ProfileService {
	return &ProfileService{repo: r, now: time.Now}
}

func canAccessProfile(p domain.Principal, id string) bool {
	return p.Can(domain.CapManageProfiles) || (id != "" && id == p.UserID)
}

// Upsert creates or replaces a profile. Callers without CapManageProfiles may
// only write their own, and cannot change their role.
func (s *ProfileService) Upsert(ctx context.Context, p domain.Principal, in domain.Profile) (domain.Profile, error) {
	if in.ID == "" {
		in.ID = p.UserID
	}
	if !canAccessProfile(p, in.ID) {
		return domain.Profile{}, fmt.Errorf("%w: profile %s", domain.ErrForbidden, in.ID)
	}

	prev, err := s.repo.GetProfile(ctx, in.ID)
	exists := err == nil
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return domain.Profile{}, err
	}

	if !p.Can(domain.CapManageProfiles) {
		in.Role = p.Role
	}
	if in.Role == "" {
		in.Role = domain.RoleCustomer
		if exists {
			in.Role = prev.Role
		}
	}
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)
	in.PreferredLang = strings.ToLower(strings.TrimSpace(in.PreferredLang))
	if in.PreferredLang == "" {
		in.PreferredLang = "en"
	}
	if err := validateProfile(in); err != nil {
		return domain.Profile{}, err
	}

	if exists {
		in.CreatedAt = prev.CreatedAt
	} else {
		in.CreatedAt = s.now().UTC()
	}
	if err := s.repo.UpsertProfile(ctx, in); err != nil {
		return domain.Profile{}, err
	}
	return in, nil
}

func validateProfile(p domain.Profile) error {
	switch {
	case !strings.Contains(p.Email, "@"):
		return fmt.Errorf("%w: a valid email is required", domain.ErrInvalid)
	case p.FullName == "":
		return fmt.Errorf("%w: full_name is required", domain.ErrInvalid)
	case !p.Role.Valid():
		return fmt.Errorf("%w: unknown role %q", domain.ErrInvalid, p.Role)
	case p.PreferredLang != "en" && p.PreferredLang != "ar":
		return fmt.Errorf("%w: preferred_lang must be en or ar", domain.ErrInvalid)
	}
	return nil
}

func (s *ProfileService) Get(ctx context.Context, p domain.Principal, id string) (domain.Profile, error) {
	if !canAccessProfile(p, id) {
		return domain.Profile{}, fmt.Errorf("%w: profile %s", domain.ErrForbidden, id)
	}
	return s.repo.GetProfile(ctx, id)
}

func (s *ProfileService) List(ctx context.Context, p domain.Principal, limit int) ([]domain.Profile, error) {
	if !p.Can(domain.CapManageProfiles) {
		return nil, fmt.Errorf("%w: role %q cannot list profiles", domain.ErrForbidden, p.Role)
	}
	return s.repo.ListProfiles(ctx, limit)
}

func (s *ProfileService) Delete(ctx context.Context, p domain.Principal, id string) error {
	if !p.Can(domain.CapManageProfiles) {
		return fmt.Errorf("%w: role %q cannot delete profiles", domain.ErrForbidden, p.Role)
	}
	return s.repo.DeleteProfile(ctx, id)
}
