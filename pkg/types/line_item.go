package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// CompanyRef is the company snapshot embedded in each cart line. The city,
// state and country fields feed shipping zone classification.
type CompanyRef struct {
	ID      string  `json:"id"`
	Name    string  `json:"nombre"`
	Email   *string `json:"email,omitempty"`
	City    string  `json:"ciudad,omitempty"`
	State   string  `json:"provincia,omitempty"`
	Country string  `json:"pais,omitempty"`
}

// Location projects the classification fields of the company address.
func (c CompanyRef) Location() Location {
	return Location{City: c.City, State: c.State, Country: c.Country}
}

// ShippingConfig is the per-product shipping tier table. Field names mirror
// the storefront wire format.
type ShippingConfig struct {
	FreeLocal              bool            `json:"envioGratisLocal"`
	Provincial             decimal.Decimal `json:"envioProvincial"`
	National               decimal.Decimal `json:"envioNacional"`
	International          decimal.Decimal `json:"envioInternacional"`
	InternationalAvailable bool            `json:"envioInternacionalDisponible"`
}

// DefaultShippingConfig returns the tier table applied when a product does
// not declare its own rates.
func DefaultShippingConfig() ShippingConfig {
	return ShippingConfig{
		FreeLocal:              true,
		Provincial:             decimal.NewFromInt(50),
		National:               decimal.NewFromInt(100),
		International:          decimal.NewFromInt(200),
		InternationalAvailable: false,
	}
}

// LineItem is one cart entry: a price/tax/shipping snapshot of the product
// taken at add time, plus the quantity. JSON tags keep the storefront wire
// format stable.
type LineItem struct {
	ID                string           `json:"id"`
	Name              string           `json:"nombre"`
	Price             decimal.Decimal  `json:"precio"`
	Image             *string          `json:"imagen,omitempty"`
	Images            []string         `json:"imagenes"`
	Quantity          int              `json:"cantidad"`
	Category          *string          `json:"categoria,omitempty"`
	Features          *string          `json:"caracteristicas,omitempty"`
	Inventory         int              `json:"inventario"`
	TaxRate           decimal.Decimal  `json:"iva"`
	TaxIncluded       bool             `json:"ivaIncluido"`
	ShippingAvailable bool             `json:"envioDisponible"`
	FlatShippingCost  *decimal.Decimal `json:"costoEnvio,omitempty"`
	Company           *CompanyRef      `json:"empresa,omitempty"`
	ShippingConfig    *ShippingConfig  `json:"shippingConfig,omitempty"`
}

// CompanyID returns the owning company id or the shared sentinel, so
// company-less items collapse into a single shipping charge.
func (li LineItem) CompanyID() string {
	if li.Company == nil || li.Company.ID == "" {
		return "sin-empresa"
	}
	return li.Company.ID
}

// CompanyName returns the owning company name or a display fallback.
func (li LineItem) CompanyName() string {
	if li.Company == nil || li.Company.Name == "" {
		return "Empresa desconocida"
	}
	return li.Company.Name
}

// LineTotal returns price multiplied by quantity.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// LineItems stores the full cart snapshot inside a JSONB column.
type LineItems []LineItem

// Value serializes the snapshot to JSON.
func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal(LineItems{})
	}
	return json.Marshal(l)
}

// Scan decodes JSONB into the snapshot slice.
func (l *LineItems) Scan(value interface{}) error {
	if value == nil {
		*l = LineItems{}
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, l)
}

func asJSON(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported jsonb scan type %T", value)
	}
}
