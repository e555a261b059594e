package domain

import (
	"fmt"
	"strings"
	"time"
)

// Kind tags which payload a Listing carries.
type Kind string

const (
	KindHotel     Kind = "hotel"
	KindPackage   Kind = "package"
	KindFlight    Kind = "flight"
	KindTransport Kind = "transport"
)

var Kinds = []Kind{KindHotel, KindPackage, KindFlight, KindTransport}

// ParseKind accepts the singular kind or the plural route segment ("hotels", "packages", ...).
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hotel", "hotels":
		return KindHotel, nil
	case "package", "packages":
		return KindPackage, nil
	case "flight", "flights":
		return KindFlight, nil
	case "transport", "transports":
		return KindTransport, nil
	}
	return "", fmt.Errorf("%w: unknown listing kind %q", ErrInvalid, s)
}

// I18nText holds the English and Arabic renditions of a user-facing string.
type I18nText struct {
	EN string `json:"en"`
	AR string `json:"ar,omitempty"`
}

// Pick returns the text for lang, falling back to English.
func (t I18nText) Pick(lang string) string {
	if strings.HasPrefix(strings.ToLower(lang), "ar") && t.AR != "" {
		return t.AR
	}
	return t.EN
}

type HotelDetails struct {
	Stars           *int     `json:"stars,omitempty"`
	City            string   `json:"city,omitempty"`
	Address         I18nText `json:"address"`
	Amenities       []string `json:"amenities,omitempty"`
	Images          []string `json:"images,omitempty"`
	DistanceToHaram *string  `json:"distance_to_haram,omitempty"` // free text, e.g. "350" or "1.2 km"
	Reviews         *int     `json:"reviews,omitempty"`
}

type Season string

const (
	SeasonHajj  Season = "hajj"
	SeasonUmrah Season = "umrah"
)

type PackageDetails struct {
	Season   Season   `json:"season"`
	Nights   int      `json:"nights"`
	Includes []string `json:"includes,omitempty"`
	Reviews  *int     `json:"reviews,omitempty"`
}

type FlightDetails struct {
	Airline  string    `json:"airline"`
	From     string    `json:"from"`
	To       string    `json:"to"`
	DepartAt time.Time `json:"depart_at"`
	Seats    int       `json:"seats"`
}

type TransportMode string

const (
	ModeBus   TransportMode = "bus"
	ModeCar   TransportMode = "car"
	ModeTrain TransportMode = "train"
)

type TransportDetails struct {
	Mode     TransportMode `json:"mode"`
	Route    string        `json:"route"`
	Capacity int           `json:"capacity"`
}

// Listing is a bookable item. Exactly one of the detail payloads is set,
// and it must match Kind.
type Listing struct {
	ID         string    `json:"id"`
	Kind       Kind      `json:"kind"`
	ProviderID string    `json:"provider_id,omitempty"`
	Title      I18nText  `json:"title"`
	Price      *float64  `json:"price,omitempty"`
	Currency   string    `json:"currency,omitempty"`
	Rating     *float64  `json:"rating,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Hotel     *HotelDetails     `json:"hotel,omitempty"`
	Package   *PackageDetails   `json:"package,omitempty"`
	Flight    *FlightDetails    `json:"flight,omitempty"`
	Transport *TransportDetails `json:"transport,omitempty"`
}

// Validate checks the base fields and that the payload matches Kind.
func (l Listing) Validate() error {
	if strings.TrimSpace(l.Title.EN) == "" {
		return fmt.Errorf("%w: title.en is required", ErrInvalid)
	}
	if l.Price != nil && *l.Price < 0 {
		return fmt.Errorf("%w: price must be non-negative", ErrInvalid)
	}
	if l.Rating != nil && (*l.Rating < 0 || *l.Rating > 5) {
		return fmt.Errorf("%w: rating must be between 0 and 5", ErrInvalid)
	}

	set := 0
	for _, p := range []bool{l.Hotel != nil, l.Package != nil, l.Flight != nil, l.Transport != nil} {
		if p {
			set++
		}
	}
	if set > 1 {
		return fmt.Errorf("%w: listing carries more than one payload", ErrInvalid)
	}

	switch l.Kind {
	case KindHotel:
		if l.Hotel == nil {
			return fmt.Errorf("%w: hotel listing without hotel details", ErrInvalid)
		}
	case KindPackage:
		if l.Package == nil {
			return fmt.Errorf("%w: package listing without package details", ErrInvalid)
		}
		if l.Package.Season != SeasonHajj && l.Package.Season != SeasonUmrah {
			return fmt.Errorf("%w: package season must be hajj or umrah", ErrInvalid)
		}
	case KindFlight:
		if l.Flight == nil {
			return fmt.Errorf("%w: flight listing without flight details", ErrInvalid)
		}
	case KindTransport:
		if l.Transport == nil {
			return fmt.Errorf("%w: transport listing without transport details", ErrInvalid)
		}
		switch l.Transport.Mode {
		case ModeBus, ModeCar, ModeTrain:
		default:
			return fmt.Errorf("%w: transport mode must be bus, car or train", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown listing kind %q", ErrInvalid, l.Kind)
	}
	return nil
}

// Amenities is only meaningful for hotels; other kinds return nil.
func (l Listing) Amenities() []string {
	if l.Kind != KindHotel || l.Hotel == nil {
		return nil
	}
	return l.Hotel.Amenities
}

func (l Listing) Distance() *string {
	if l.Hotel == nil {
		return nil
	}
	return l.Hotel.DistanceToHaram
}

func (l Listing) ReviewCount() *int {
	switch {
	case l.Hotel != nil:
		return l.Hotel.Reviews
	case l.Package != nil:
		return l.Package.Reviews
	}
	return nil
}

// ListingPatch carries a partial update; nil fields are left untouched.
type ListingPatch struct {
	Title     *I18nText         `json:"title,omitempty"`
	Price     *float64          `json:"price,omitempty"`
	Currency  *string           `json:"currency,omitempty"`
	Rating    *float64          `json:"rating,omitempty"`
	Hotel     *HotelDetails     `json:"hotel,omitempty"`
	Package   *PackageDetails   `json:"package,omitempty"`
	Flight    *FlightDetails    `json:"flight,omitempty"`
	Transport *TransportDetails `json:"transport,omitempty"`
}

// Apply returns l with the patch applied. Kind and ownership never change.
func (p ListingPatch) Apply(l Listing) Listing {
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.Price != nil {
		l.Price = p.Price
	}
	if p.Currency != nil {
		l.Currency = *p.Currency
	}
	if p.Rating != nil {
		l.Rating = p.Rating
	}
	if p.Hotel != nil {
		l.Hotel = p.Hotel
	}
	if p.Package != nil {
		l.Package = p.Package
	}
	if p.Flight != nil {
		l.Flight = p.Flight
	}
	if p.Transport != nil {
		l.Transport = p.Transport
	}
	return l
}
