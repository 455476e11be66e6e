package shipping

import (
	"github.com/shopspring/decimal"

	"github.com/tiendaref/tiendaref-backend/internal/geo"
	"github.com/tiendaref/tiendaref-backend/pkg/enums"
	"github.com/tiendaref/tiendaref-backend/pkg/types"
)

// Delivery estimates shown to buyers, one per zone tier.
const (
	deliveryLocalFree     = "1-2 días hábiles"
	deliveryLocalPaid     = "1-3 días hábiles"
	deliveryProvincial    = "2-4 días hábiles"
	deliveryNational      = "3-7 días hábiles"
	deliveryInternational = "7-15 días hábiles"
	deliveryUnavailable   = "Envío internacional no disponible"
	deliveryUnknown       = "No disponible"
)

// Quote is the cost decision for one company-to-buyer route.
type Quote struct {
	Cost              decimal.Decimal        `json:"cost"`
	Type              enums.ShippingRateType `json:"type"`
	EstimatedDelivery string                 `json:"estimatedDelivery"`
	Zone              enums.ShippingZone     `json:"zone"`
}

// QuoteZone selects a cost and delivery estimate for an already classified
// zone using the product's rate table.
func QuoteZone(zone enums.ShippingZone, rates types.ShippingConfig) Quote {
	switch zone {
	case enums.ShippingZoneLocal:
		if rates.FreeLocal {
			return Quote{
				Cost:              decimal.Zero,
				Type:              enums.ShippingRateFree,
				EstimatedDelivery: deliveryLocalFree,
				Zone:              zone,
			}
		}
		return Quote{
			Cost:              rates.Provincial,
			Type:              enums.ShippingRateProvincial,
			EstimatedDelivery: deliveryLocalPaid,
			Zone:              zone,
		}
	case enums.ShippingZoneProvincial:
		return Quote{
			Cost:              rates.Provincial,
			Type:              enums.ShippingRateProvincial,
			EstimatedDelivery: deliveryProvincial,
			Zone:              zone,
		}
	case enums.ShippingZoneNational:
		return Quote{
			Cost:              rates.National,
			Type:              enums.ShippingRateNational,
			EstimatedDelivery: deliveryNational,
			Zone:              zone,
		}
	case enums.ShippingZoneInternational:
		if rates.InternationalAvailable {
			return Quote{
				Cost:              rates.International,
				Type:              enums.ShippingRateInternational,
				EstimatedDelivery: deliveryInternational,
				Zone:              zone,
			}
		}
		return Quote{
			Cost:              decimal.Zero,
			Type:              enums.ShippingRateUnavailable,
			EstimatedDelivery: deliveryUnavailable,
			Zone:              zone,
		}
	default:
		return Quote{
			Cost:              decimal.Zero,
			Type:              enums.ShippingRateUnavailable,
			EstimatedDelivery: deliveryUnknown,
			Zone:              enums.ShippingZoneInternational,
		}
	}
}

// QuoteRoute classifies the route between a company and a buyer and prices
// it. Total function, never fails.
func QuoteRoute(origin, destination types.Location, rates types.ShippingConfig) Quote {
	return QuoteZone(geo.ClassifyRoute(origin, destination), rates)
}
