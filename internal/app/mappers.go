package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"umrah_booking/internal/domain"
)

// supplierNamespace seeds deterministic listing ids for ingested hotels, so
// re-ingesting the same supplier id updates the same listing.
var supplierNamespace = uuid.MustParse("6b7c1f8e-2d4a-5e36-9a0b-3c8d1e2f4a5b")

func supplierListingID(supplierID int64) string {
	return uuid.NewSHA1(supplierNamespace, []byte(fmt.Sprintf("supplier:%d", supplierID))).String()
}

/********** alias registries (single source of truth) **********/

var propertyAliases = map[string][]string{
	"name":     {"hotel_name", "name", "title"},
	"city":     {"address.city", "city", "locality", "town"},
	"currency": {"currency", "price.currency", "rates.currency"},
	"distance": {"distance_to_haram", "distance.haram", "landmarks.haram.distance"},
	"address": {
		"address_raw", "address.line", "full_address",
		"address.address", "location.address", "formatted_address",
	},
}

var i18nAliases = map[string][]string{
	"name": {"name", "hotel_name", "translations.name"},
	"address": {
		"address", "address.line", "address_raw", "full_address",
		"address1", "address_line1", "location.address",
		"street", "street_address",
	},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) string {
	for _, p := range aliases[key] {
		if s := strings.TrimSpace(lookupStr(m, p)); s != "" {
			return s
		}
	}
	return ""
}

// getFloatFlexible: number from several paths (float64/int/string like "8,0").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// firstIntFlexible: int from several paths (float64/int/string).
func firstIntFlexible(m map[string]any, paths ...string) *int {
	if f := getFloatFlexible(m, paths...); f != nil {
		x := int(*f)
		return &x
	}
	return nil
}

// firstSliceStrings: accept []any with either strings or {url/src/name}.
func firstSliceStrings(m map[string]any, paths ...string) []string {
	for _, k := range paths {
		if raw, ok := lookupAny(m, k).([]any); ok {
			out := make([]string, 0, len(raw))
			for _, it := range raw {
				switch t := it.(type) {
				case string:
					if t != "" {
						out = append(out, t)
					}
				case map[string]any:
					for _, f := range []string{"url", "src", "name"} {
						if u, ok := t[f].(string); ok && u != "" {
							out = append(out, u)
							break
						}
					}
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

/********** hotel mapper **********/

// mapHotelListing builds a hotel listing from a supplier property payload and
// its per-language translations (keyed "en", "ar"; either may be missing).
func mapHotelListing(supplierID int64, p map[string]any, tr map[string]map[string]any) domain.Listing {
	title := domain.I18nText{
		EN: firstNonEmptyAlias(tr["en"], i18nAliases, "name"),
		AR: firstNonEmptyAlias(tr["ar"], i18nAliases, "name"),
	}
	if title.EN == "" {
		title.EN = firstNonEmptyAlias(p, propertyAliases, "name")
	}

	address := domain.I18nText{
		EN: firstNonEmptyAlias(tr["en"], i18nAliases, "address"),
		AR: firstNonEmptyAlias(tr["ar"], i18nAliases, "address"),
	}
	if address.EN == "" {
		address.EN = composeAddress(p)
	}

	currency := strings.ToUpper(firstNonEmptyAlias(p, propertyAliases, "currency"))
	if currency == "" {
		currency = "SAR"
	}

	return domain.Listing{
		ID:       supplierListingID(supplierID),
		Kind:     domain.KindHotel,
		Title:    title,
		Price:    getFloatFlexible(p, "price", "price.amount", "min_price", "rates.min"),
		Currency: currency,
		Rating:   fiveStarRating(getFloatFlexible(p, "review_score", "rating.value", "scores.overall", "rating")),
		Hotel: &domain.HotelDetails{
			Stars:           firstIntFlexible(p, "stars", "rating.stars"),
			City:            firstNonEmptyAlias(p, propertyAliases, "city"),
			Address:         address,
			Amenities:       firstSliceStrings(p, "facilities", "amenities"),
			Images:          firstSliceStrings(p, "photos", "images"),
			DistanceToHaram: distanceText(p),
			Reviews:         firstIntFlexible(p, "review_count", "reviews_count", "rating.count"),
		},
	}
}

// fiveStarRating folds 0..10 review scores onto the 0..5 listing scale.
func fiveStarRating(f *float64) *float64 {
	if f == nil {
		return nil
	}
	r := *f
	if r > 5 {
		r /= 2
	}
	if r > 5 {
		r = 5
	}
	if r < 0 {
		r = 0
	}
	return &r
}

// distanceText keeps free text as-is and renders bare numbers as meters.
func distanceText(p map[string]any) *string {
	if s := firstNonEmptyAlias(p, propertyAliases, "distance"); s != "" {
		return &s
	}
	if f := getFloatFlexible(p, propertyAliases["distance"]...); f != nil {
		s := strconv.FormatFloat(*f, 'f', -1, 64)
		return &s
	}
	return nil
}

func composeAddress(p map[string]any) string {
	if s := firstNonEmptyAlias(p, propertyAliases, "address"); s != "" {
		return s
	}
	parts := []string{
		lookupStr(p, "address.addressLine1"),
		lookupStr(p, "address.addressLine2"),
		lookupStr(p, "address.street"),
		lookupStr(p, "address.district"),
		lookupStr(p, "address.city"),
		lookupStr(p, "address.postcode"),
		lookupStr(p, "address.country"),
	}
	nonEmpty := make([]string, 0, len(parts))
	for _, part := range parts {
		if t := strings.TrimSpace(part); t != "" {
			nonEmpty = append(nonEmpty, t)
		}
	}
	if len(nonEmpty) == 0 {
		log.Debug().Str("context", "mapHotelListing").Msg("supplier payload has no address")
	}
	return strings.Join(nonEmpty, ", ")
}
