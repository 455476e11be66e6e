package shipping

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/tiendaref/tiendaref-backend/pkg/enums"
	"github.com/tiendaref/tiendaref-backend/pkg/types"
)

var deliveryDaysRe = regexp.MustCompile(`(\d+)(?:-(\d+))?\s*días?`)

// ItemQuote is the priced shipping decision for one cart line.
type ItemQuote struct {
	ItemID            string                 `json:"itemId"`
	Cost              decimal.Decimal        `json:"cost"`
	Type              enums.ShippingRateType `json:"type"`
	EstimatedDelivery string                 `json:"estimatedDelivery"`
	CompanyName       string                 `json:"companyName"`
	Zone              enums.ShippingZone     `json:"zone"`
}

// CompanyGroup collects the lines and combined shipping cost for one company.
type CompanyGroup struct {
	CompanyName       string           `json:"companyName"`
	Items             []types.LineItem `json:"items"`
	ShippingCost      decimal.Decimal  `json:"shippingCost"`
	EstimatedDelivery string           `json:"estimatedDelivery"`
}

// Summary is the zone-aware shipping breakdown for a whole cart.
type Summary struct {
	TotalShippingCost      decimal.Decimal          `json:"totalShippingCost"`
	Details                []ItemQuote              `json:"shippingDetails"`
	CanShipAll             bool                     `json:"canShipAll"`
	EstimatedDeliveryRange string                   `json:"estimatedDeliveryRange"`
	GroupedByCompany       map[string]*CompanyGroup `json:"groupedByCompany"`
}

// SummarizeCart prices every line against the buyer's location, grouping by
// company and deriving a combined delivery range. Lines without shipping or
// without a usable company address are marked unavailable instead of failing
// the whole summary.
func SummarizeCart(items []types.LineItem, buyer types.Location) Summary {
	summary := Summary{
		TotalShippingCost:      decimal.Zero,
		Details:                make([]ItemQuote, 0, len(items)),
		CanShipAll:             true,
		EstimatedDeliveryRange: deliveryUnknown,
		GroupedByCompany:       map[string]*CompanyGroup{},
	}

	minDays := 0
	maxDays := 0
	haveDays := false

	for _, item := range items {
		if !item.ShippingAvailable || item.Company == nil || !item.Company.Location().IsComplete() {
			summary.Details = append(summary.Details, ItemQuote{
				ItemID:            item.ID,
				Cost:              decimal.Zero,
				Type:              enums.ShippingRateUnavailable,
				EstimatedDelivery: deliveryUnknown,
				CompanyName:       item.CompanyName(),
				Zone:              enums.ShippingZoneInternational,
			})
			summary.CanShipAll = false
			continue
		}

		rates := types.DefaultShippingConfig()
		if item.ShippingConfig != nil {
			rates = *item.ShippingConfig
		}

		quote := QuoteRoute(item.Company.Location(), buyer, rates)
		lineCost := quote.Cost.Mul(decimal.NewFromInt(int64(item.Quantity)))

		detail := ItemQuote{
			ItemID:            item.ID,
			Cost:              lineCost,
			Type:              quote.Type,
			EstimatedDelivery: quote.EstimatedDelivery,
			CompanyName:       item.CompanyName(),
			Zone:              quote.Zone,
		}
		summary.Details = append(summary.Details, detail)

		if quote.Type == enums.ShippingRateUnavailable {
			summary.CanShipAll = false
		} else {
			summary.TotalShippingCost = summary.TotalShippingCost.Add(lineCost)

			min, max := extractDeliveryDays(quote.EstimatedDelivery)
			if !haveDays || min < minDays {
				minDays = min
			}
			if !haveDays || max > maxDays {
				maxDays = max
			}
			haveDays = true
		}

		companyID := item.Company.ID
		group, ok := summary.GroupedByCompany[companyID]
		if !ok {
			group = &CompanyGroup{
				CompanyName:       item.CompanyName(),
				EstimatedDelivery: quote.EstimatedDelivery,
			}
			summary.GroupedByCompany[companyID] = group
		}
		group.Items = append(group.Items, item)
		group.ShippingCost = group.ShippingCost.Add(lineCost)
	}

	if summary.CanShipAll && haveDays {
		summary.EstimatedDeliveryRange = formatDeliveryRange(minDays, maxDays)
	}

	return summary
}

func extractDeliveryDays(text string) (int, int) {
	match := deliveryDaysRe.FindStringSubmatch(text)
	if match == nil {
		return 7, 7
	}
	min, _ := strconv.Atoi(match[1])
	max := min
	if match[2] != "" {
		max, _ = strconv.Atoi(match[2])
	}
	return min, max
}

func formatDeliveryRange(min, max int) string {
	if min == max {
		if min == 1 {
			return "1 día hábil"
		}
		return fmt.Sprintf("%d días hábiles", min)
	}
	return fmt.Sprintf("%d-%d días hábiles", min, max)
}
