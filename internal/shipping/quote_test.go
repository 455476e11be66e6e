package shipping

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tiendaref/tiendaref-backend/pkg/enums"
	"github.com/tiendaref/tiendaref-backend/pkg/types"
)

func testRates() types.ShippingConfig {
	return types.ShippingConfig{
		FreeLocal:              true,
		Provincial:             decimal.NewFromInt(50),
		National:               decimal.NewFromInt(100),
		International:          decimal.NewFromInt(200),
		InternationalAvailable: false,
	}
}

func TestQuoteZone(t *testing.T) {
	cases := []struct {
		name         string
		zone         enums.ShippingZone
		rates        types.ShippingConfig
		wantCost     decimal.Decimal
		wantType     enums.ShippingRateType
		wantDelivery string
	}{
		{
			name:         "local free",
			zone:         enums.ShippingZoneLocal,
			rates:        testRates(),
			wantCost:     decimal.Zero,
			wantType:     enums.ShippingRateFree,
			wantDelivery: "1-2 días hábiles",
		},
		{
			name: "local paid falls back to provincial fee",
			zone: enums.ShippingZoneLocal,
			rates: types.ShippingConfig{
				FreeLocal:  false,
				Provincial: decimal.NewFromInt(50),
			},
			wantCost:     decimal.NewFromInt(50),
			wantType:     enums.ShippingRateProvincial,
			wantDelivery: "1-3 días hábiles",
		},
		{
			name:         "provincial",
			zone:         enums.ShippingZoneProvincial,
			rates:        testRates(),
			wantCost:     decimal.NewFromInt(50),
			wantType:     enums.ShippingRateProvincial,
			wantDelivery: "2-4 días hábiles",
		},
		{
			name:         "national",
			zone:         enums.ShippingZoneNational,
			rates:        testRates(),
			wantCost:     decimal.NewFromInt(100),
			wantType:     enums.ShippingRateNational,
			wantDelivery: "3-7 días hábiles",
		},
		{
			name:         "international unavailable",
			zone:         enums.ShippingZoneInternational,
			rates:        testRates(),
			wantCost:     decimal.Zero,
			wantType:     enums.ShippingRateUnavailable,
			wantDelivery: "Envío internacional no disponible",
		},
		{
			name: "international available",
			zone: enums.ShippingZoneInternational,
			rates: types.ShippingConfig{
				International:          decimal.NewFromInt(200),
				InternationalAvailable: true,
			},
			wantCost:     decimal.NewFromInt(200),
			wantType:     enums.ShippingRateInternational,
			wantDelivery: "7-15 días hábiles",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := QuoteZone(tc.zone, tc.rates)
			if !got.Cost.Equal(tc.wantCost) {
				t.Fatalf("cost = %s, want %s", got.Cost, tc.wantCost)
			}
			if got.Type != tc.wantType {
				t.Fatalf("type = %s, want %s", got.Type, tc.wantType)
			}
			if got.EstimatedDelivery != tc.wantDelivery {
				t.Fatalf("delivery = %q, want %q", got.EstimatedDelivery, tc.wantDelivery)
			}
		})
	}
}

func TestQuoteRoute(t *testing.T) {
	origin := types.Location{City: "Buenos Aires", State: "Buenos Aires", Country: "Argentina"}
	buyer := types.Location{City: "Rosario", State: "Santa Fe", Country: "Argentina"}

	got := QuoteRoute(origin, buyer, testRates())
	if got.Zone != enums.ShippingZoneNational {
		t.Fatalf("zone = %s, want nacional", got.Zone)
	}
	if !got.Cost.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("cost = %s, want 100", got.Cost)
	}
}
