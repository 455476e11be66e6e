package shipping

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tiendaref/tiendaref-backend/pkg/enums"
	"github.com/tiendaref/tiendaref-backend/pkg/types"
)

func buyerInRosario() types.Location {
	return types.Location{City: "Rosario", State: "Santa Fe", Country: "Argentina"}
}

func TestSummarizeCartMultipliesByQuantity(t *testing.T) {
	cfg := testRates()
	items := []types.LineItem{
		{
			ID:                "p1",
			Quantity:          3,
			ShippingAvailable: true,
			Company: &types.CompanyRef{
				ID: "emp-1", Name: "Verde SA",
				City: "Córdoba", State: "Córdoba", Country: "Argentina",
			},
			ShippingConfig: &cfg,
		},
	}

	summary := SummarizeCart(items, buyerInRosario())

	if !summary.CanShipAll {
		t.Fatal("expected cart to be fully shippable")
	}
	// National fee 100 x 3 units.
	if !summary.TotalShippingCost.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("total = %s, want 300", summary.TotalShippingCost)
	}
	if summary.EstimatedDeliveryRange != "3-7 días hábiles" {
		t.Fatalf("range = %q", summary.EstimatedDeliveryRange)
	}
	group, ok := summary.GroupedByCompany["emp-1"]
	if !ok {
		t.Fatal("missing company group")
	}
	if len(group.Items) != 1 || !group.ShippingCost.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("unexpected group %+v", group)
	}
}

func TestSummarizeCartMissingCompanyAddressIsUnavailable(t *testing.T) {
	items := []types.LineItem{
		{
			ID:                "p1",
			Quantity:          1,
			ShippingAvailable: true,
			Company:           &types.CompanyRef{ID: "emp-1", Name: "Verde SA"},
		},
	}

	summary := SummarizeCart(items, buyerInRosario())

	if summary.CanShipAll {
		t.Fatal("expected canShipAll = false")
	}
	if len(summary.Details) != 1 {
		t.Fatalf("expected 1 detail, got %d", len(summary.Details))
	}
	detail := summary.Details[0]
	if detail.Type != enums.ShippingRateUnavailable || !detail.Cost.IsZero() {
		t.Fatalf("unexpected detail %+v", detail)
	}
	if summary.EstimatedDeliveryRange != "No disponible" {
		t.Fatalf("range = %q", summary.EstimatedDeliveryRange)
	}
}

func TestSummarizeCartDefaultsRatesWhenConfigMissing(t *testing.T) {
	items := []types.LineItem{
		{
			ID:                "p1",
			Quantity:          1,
			ShippingAvailable: true,
			Company: &types.CompanyRef{
				ID: "emp-1", Name: "Verde SA",
				City: "Rosario", State: "Santa Fe", Country: "Argentina",
			},
		},
	}

	summary := SummarizeCart(items, buyerInRosario())

	// Default config ships local for free.
	if !summary.TotalShippingCost.IsZero() {
		t.Fatalf("total = %s, want 0", summary.TotalShippingCost)
	}
	if summary.Details[0].Type != enums.ShippingRateFree {
		t.Fatalf("type = %s, want gratis", summary.Details[0].Type)
	}
	if summary.EstimatedDeliveryRange != "1-2 días hábiles" {
		t.Fatalf("range = %q", summary.EstimatedDeliveryRange)
	}
}

func TestSummarizeCartCombinedDeliveryRange(t *testing.T) {
	cfg := testRates()
	items := []types.LineItem{
		{
			ID: "p1", Quantity: 1, ShippingAvailable: true, ShippingConfig: &cfg,
			Company: &types.CompanyRef{ID: "emp-1", Name: "A", City: "Rosario", State: "Santa Fe", Country: "Argentina"},
		},
		{
			ID: "p2", Quantity: 1, ShippingAvailable: true, ShippingConfig: &cfg,
			Company: &types.CompanyRef{ID: "emp-2", Name: "B", City: "Salta", State: "Salta", Country: "Argentina"},
		},
	}

	summary := SummarizeCart(items, buyerInRosario())

	// Local free (1-2) plus national (3-7) widen to 1-7.
	if summary.EstimatedDeliveryRange != "1-7 días hábiles" {
		t.Fatalf("range = %q", summary.EstimatedDeliveryRange)
	}
}

func TestExtractDeliveryDays(t *testing.T) {
	cases := []struct {
		text string
		min  int
		max  int
	}{
		{"1-2 días hábiles", 1, 2},
		{"3-7 días hábiles", 3, 7},
		{"5 días hábiles", 5, 5},
		{"1 día hábil", 1, 1},
		{"No disponible", 7, 7},
	}

	for _, tc := range cases {
		min, max := extractDeliveryDays(tc.text)
		if min != tc.min || max != tc.max {
			t.Fatalf("extractDeliveryDays(%q) = (%d, %d), want (%d, %d)", tc.text, min, max, tc.min, tc.max)
		}
	}
}

func TestFormatDeliveryRange(t *testing.T) {
	if got := formatDeliveryRange(1, 1); got != "1 día hábil" {
		t.Fatalf("got %q", got)
	}
	if got := formatDeliveryRange(3, 3); got != "3 días hábiles" {
		t.Fatalf("got %q", got)
	}
	if got := formatDeliveryRange(2, 4); got != "2-4 días hábiles" {
		t.Fatalf("got %q", got)
	}
}
