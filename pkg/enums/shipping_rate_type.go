package enums

import "fmt"

// ShippingRateType classifies the charge applied to a quoted shipment.
type ShippingRateType string

const (
	ShippingRateFree          ShippingRateType = "gratis"
	ShippingRateProvincial    ShippingRateType = "provincial"
	ShippingRateNational      ShippingRateType = "nacional"
	ShippingRateInternational ShippingRateType = "internacional"
	ShippingRateUnavailable   ShippingRateType = "no_disponible"
)

var validShippingRateTypes = []ShippingRateType{
	ShippingRateFree,
	ShippingRateProvincial,
	ShippingRateNational,
	ShippingRateInternational,
	ShippingRateUnavailable,
}

// String implements fmt.Stringer.
func (t ShippingRateType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known ShippingRateType.
func (t ShippingRateType) IsValid() bool {
	for _, candidate := range validShippingRateTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseShippingRateType converts raw input into a ShippingRateType.
func ParseShippingRateType(value string) (ShippingRateType, error) {
	for _, candidate := range validShippingRateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shipping rate type %q", value)
}
