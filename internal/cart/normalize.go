package cart

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/tiendaref/tiendaref-backend/pkg/types"
)

// legacyItem is the lenient decode form for stored snapshots. Optional
// commerce fields use pointers so absent and zero values can be told apart
// during migration.
type legacyItem struct {
	ID                string                `json:"id"`
	Name              string                `json:"nombre"`
	Price             decimal.Decimal       `json:"precio"`
	Image             *string               `json:"imagen"`
	Images            []string              `json:"imagenes"`
	Quantity          int                   `json:"cantidad"`
	Category          *string               `json:"categoria"`
	Features          *string               `json:"caracteristicas"`
	Inventory         *int                  `json:"inventario"`
	TaxRate           *decimal.Decimal      `json:"iva"`
	TaxIncluded       *bool                 `json:"ivaIncluido"`
	ShippingAvailable *bool                 `json:"envioDisponible"`
	FlatShippingCost  *decimal.Decimal      `json:"costoEnvio"`
	Company           *types.CompanyRef     `json:"empresa"`
	ShippingConfig    *types.ShippingConfig `json:"shippingConfig"`
}

// migrateItem backfills fields added after a snapshot was written. Idempotent:
// running it over an already current item changes nothing.
func migrateItem(raw legacyItem) types.LineItem {
	item := types.LineItem{
		ID:       raw.ID,
		Name:     raw.Name,
		Price:    raw.Price,
		Image:    raw.Image,
		Images:   raw.Images,
		Quantity: raw.Quantity,
		Category: raw.Category,
		Features: raw.Features,
		Company:  raw.Company,
	}

	if raw.Inventory != nil {
		item.Inventory = *raw.Inventory
	}
	if raw.TaxRate != nil {
		item.TaxRate = *raw.TaxRate
	}
	item.TaxIncluded = true
	if raw.TaxIncluded != nil {
		item.TaxIncluded = *raw.TaxIncluded
	}
	if raw.ShippingAvailable != nil {
		item.ShippingAvailable = *raw.ShippingAvailable
	}
	if raw.FlatShippingCost != nil {
		item.FlatShippingCost = raw.FlatShippingCost
	}

	if item.Images == nil {
		if raw.Image != nil && *raw.Image != "" {
			item.Images = []string{*raw.Image}
		} else {
			item.Images = []string{}
		}
	}

	if raw.ShippingConfig != nil {
		item.ShippingConfig = raw.ShippingConfig
	} else {
		cfg := types.DefaultShippingConfig()
		item.ShippingConfig = &cfg
	}

	return item
}

// decodeSnapshot parses a stored cart snapshot and migrates every line.
// Callers treat a decode error as an empty cart rather than failing.
func decodeSnapshot(data types.RawJSON) ([]types.LineItem, error) {
	if len(data) == 0 {
		return []types.LineItem{}, nil
	}

	var raw []legacyItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	items := make([]types.LineItem, 0, len(raw))
	for _, entry := range raw {
		items = append(items, migrateItem(entry))
	}
	return items, nil
}

func encodeSnapshot(items []types.LineItem) (types.RawJSON, error) {
	if items == nil {
		items = []types.LineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return types.RawJSON(data), nil
}
