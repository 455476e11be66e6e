package geo

import (
	"strings"

	"github.com/tiendaref/tiendaref-backend/pkg/enums"
	"github.com/tiendaref/tiendaref-backend/pkg/types"
)

// argentineProvinces is the reference list used by the single-address
// classifier. Matching is case-insensitive substring containment.
var argentineProvinces = []string{
	"buenos aires",
	"córdoba",
	"santa fe",
	"mendoza",
	"tucumán",
	"entre ríos",
	"salta",
	"misiones",
	"chaco",
	"corrientes",
	"santiago del estero",
	"san juan",
	"jujuy",
	"río negro",
	"neuquén",
	"formosa",
	"chubut",
	"san luis",
	"catamarca",
	"la rioja",
	"la pampa",
	"santa cruz",
	"tierra del fuego",
}

// ClassifyRoute maps a seller and a buyer address to a shipping zone.
// Matching is case-insensitive and lenient on purpose: free-text addresses
// rarely agree exactly, so city and state comparisons use bidirectional
// substring containment. Empty strings never match anything.
func ClassifyRoute(origin, destination types.Location) enums.ShippingZone {
	originCountry := normalize(origin.Country)
	destCountry := normalize(destination.Country)

	if !sameValue(originCountry, destCountry) {
		return enums.ShippingZoneInternational
	}

	if containsEither(normalize(origin.City), normalize(destination.City)) {
		return enums.ShippingZoneLocal
	}

	if containsEither(normalize(origin.State), normalize(destination.State)) {
		return enums.ShippingZoneProvincial
	}

	return enums.ShippingZoneNational
}

// ClassifyBuyer derives a zone from the buyer's address alone, used when no
// seller address is in play yet (registration, profile updates). Argentina is
// the reference country; everything else is international.
func ClassifyBuyer(city, state, country string) enums.ShippingZone {
	normCountry := normalize(country)
	normState := normalize(state)
	normCity := normalize(city)

	if !strings.Contains(normCountry, "argentina") && !strings.Contains(normCountry, "arg") {
		return enums.ShippingZoneInternational
	}

	if strings.Contains(normCity, "buenos aires") || strings.Contains(normState, "buenos aires") {
		return enums.ShippingZoneLocal
	}

	for _, province := range argentineProvinces {
		if strings.Contains(normState, province) {
			return enums.ShippingZoneProvincial
		}
	}

	return enums.ShippingZoneNational
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func sameValue(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return a == b
}

func containsEither(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}
