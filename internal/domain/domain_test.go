package domain_test

import (
	"errors"
	"testing"

	"umrah_booking/internal/domain"
)

func TestRole_Capabilities(t *testing.T) {
	cases := []struct {
		role domain.Role
		cap  domain.Capability
		want bool
	}{
		{domain.RoleAdmin, domain.CapManageListings, true},
		{domain.RoleAdmin, domain.CapManageProfiles, true},
		{domain.RoleProvider, domain.CapManageOwnListings, true},
		{domain.RoleProvider, domain.CapManageListings, false},
		{domain.RoleProvider, domain.CapBook, false},
		{domain.RoleCustomer, domain.CapBook, true},
		{domain.RoleCustomer, domain.CapViewAllBookings, false},
		{domain.Role("guest"), domain.CapBook, false},
	}
	for _, c := range cases {
		if got := c.role.Can(c.cap); got != c.want {
			t.Errorf("%s.Can(%s) = %v, want %v", c.role, c.cap, got, c.want)
		}
	}
}

func TestParseRole(t *testing.T) {
	r, err := domain.ParseRole(" Provider ")
	if err != nil || r != domain.RoleProvider {
		t.Fatalf("ParseRole: %v %v", r, err)
	}
	if _, err := domain.ParseRole("root"); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestParseKind_PluralSegments(t *testing.T) {
	for in, want := range map[string]domain.Kind{
		"hotels": domain.KindHotel, "package": domain.KindPackage,
		"flights": domain.KindFlight, "transport": domain.KindTransport,
	} {
		got, err := domain.ParseKind(in)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := domain.ParseKind("cruises"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestListing_Validate(t *testing.T) {
	price := 120.0
	ok := domain.Listing{Kind: domain.KindHotel, Title: domain.I18nText{EN: "Dar Al Tawhid"}, Price: &price, Hotel: &domain.HotelDetails{}}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid hotel rejected: %v", err)
	}

	mismatch := ok
	mismatch.Kind = domain.KindFlight
	if err := mismatch.Validate(); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("kind/payload mismatch accepted: %v", err)
	}

	neg := -1.0
	bad := ok
	bad.Price = &neg
	if err := bad.Validate(); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("negative price accepted: %v", err)
	}

	pkg := domain.Listing{Kind: domain.KindPackage, Title: domain.I18nText{EN: "Umrah 7n"}, Package: &domain.PackageDetails{Season: "winter"}}
	if err := pkg.Validate(); err == nil {
		t.Fatal("bad season accepted")
	}
}

func TestListing_AmenitiesOnlyForHotels(t *testing.T) {
	l := domain.Listing{Kind: domain.KindPackage, Package: &domain.PackageDetails{}}
	if l.Amenities() != nil {
		t.Fatal("package must not expose amenities")
	}
}

func TestI18nText_Pick(t *testing.T) {
	txt := domain.I18nText{EN: "Makkah", AR: "مكة"}
	if txt.Pick("ar-SA") != "مكة" || txt.Pick("fr") != "Makkah" {
		t.Fatalf("unexpected pick")
	}
	if (domain.I18nText{EN: "x"}).Pick("ar") != "x" {
		t.Fatal("expected english fallback")
	}
}

func TestBookingStatus_Transitions(t *testing.T) {
	if !domain.StatusPending.CanTransition(domain.StatusConfirmed) {
		t.Error("pending -> confirmed")
	}
	if !domain.StatusConfirmed.CanTransition(domain.StatusCancelled) {
		t.Error("confirmed -> cancelled")
	}
	if domain.StatusCancelled.CanTransition(domain.StatusConfirmed) {
		t.Error("cancelled is terminal")
	}
	if domain.StatusConfirmed.CanTransition(domain.StatusPending) {
		t.Error("no going back to pending")
	}
}
