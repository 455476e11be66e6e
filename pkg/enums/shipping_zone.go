package enums

import "fmt"

// ShippingZone describes the geographic tier between a company and a buyer.
type ShippingZone string

const (
	ShippingZoneLocal         ShippingZone = "local"
	ShippingZoneProvincial    ShippingZone = "provincial"
	ShippingZoneNational      ShippingZone = "nacional"
	ShippingZoneInternational ShippingZone = "internacional"
)

var validShippingZones = []ShippingZone{
	ShippingZoneLocal,
	ShippingZoneProvincial,
	ShippingZoneNational,
	ShippingZoneInternational,
}

// String implements fmt.Stringer.
func (z ShippingZone) String() string {
	return string(z)
}

// IsValid reports whether the value is a known ShippingZone.
func (z ShippingZone) IsValid() bool {
	for _, candidate := range validShippingZones {
		if candidate == z {
			return true
		}
	}
	return false
}

// ParseShippingZone converts raw input into a ShippingZone.
func ParseShippingZone(value string) (ShippingZone, error) {
	for _, candidate := range validShippingZones {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shipping zone %q", value)
}
