package shipping

import (
	"github.com/shopspring/decimal"

	"github.com/tiendaref/tiendaref-backend/pkg/types"
)

// Totals is the money breakdown for a cart at checkout. JSON field names
// follow the storefront wire format.
type Totals struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	TotalTax      decimal.Decimal `json:"totalIva"`
	TotalShipping decimal.Decimal `json:"totalEnvio"`
	GrandTotal    decimal.Decimal `json:"total"`
}

// CompanyCharge is the flat shipping fee shown per company.
type CompanyCharge struct {
	CompanyID   string          `json:"empresaId"`
	CompanyName string          `json:"nombre"`
	Cost        decimal.Decimal `json:"costo"`
	Free        bool            `json:"gratis"`
}

// AggregateCosts computes subtotal, tax and flat shipping for the cart.
//
// Tax is only added for lines with a positive rate that do not already embed
// it in the price. Flat shipping is charged once per distinct company, with
// company-less lines sharing a single sentinel bucket.
func AggregateCosts(items []types.LineItem) Totals {
	subtotal := decimal.Zero
	totalTax := decimal.Zero
	totalShipping := decimal.Zero
	charged := map[string]bool{}

	for _, item := range items {
		lineTotal := item.LineTotal()
		subtotal = subtotal.Add(lineTotal)

		if item.TaxRate.IsPositive() && !item.TaxIncluded {
			tax := lineTotal.Mul(item.TaxRate).Div(decimal.NewFromInt(100))
			totalTax = totalTax.Add(tax)
		}

		if item.ShippingAvailable && item.FlatShippingCost != nil && item.FlatShippingCost.IsPositive() {
			companyID := item.CompanyID()
			if !charged[companyID] {
				totalShipping = totalShipping.Add(*item.FlatShippingCost)
				charged[companyID] = true
			}
		}
	}

	return Totals{
		Subtotal:      subtotal,
		TotalTax:      totalTax,
		TotalShipping: totalShipping,
		GrandTotal:    subtotal.Add(totalTax).Add(totalShipping),
	}
}

// FlatShippingDetails lists the per-company flat fee exactly once per
// company, using the first shippable line seen for each.
func FlatShippingDetails(items []types.LineItem) []CompanyCharge {
	seen := map[string]bool{}
	charges := make([]CompanyCharge, 0)

	for _, item := range items {
		companyID := item.CompanyID()
		if seen[companyID] || !item.ShippingAvailable {
			continue
		}
		seen[companyID] = true

		cost := decimal.Zero
		if item.FlatShippingCost != nil {
			cost = *item.FlatShippingCost
		}
		charges = append(charges, CompanyCharge{
			CompanyID:   companyID,
			CompanyName: item.CompanyName(),
			Cost:        cost,
			Free:        cost.IsZero(),
		})
	}

	return charges
}
