package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tiendaref/tiendaref-backend/pkg/types"
)

// Product is a purchasable catalog entry together with its tax and shipping
// commerce settings.
type Product struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string          `gorm:"column:name;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Image     *string         `gorm:"column:image"`
	Images    []string        `gorm:"column:images;type:jsonb;serializer:json"`
	Category  *string         `gorm:"column:category"`
	Features  *string         `gorm:"column:features"`
	Inventory int             `gorm:"column:inventory;not null;default:0"`

	TaxRate     decimal.Decimal `gorm:"column:tax_rate;type:numeric(5,2);not null;default:0"`
	TaxIncluded bool            `gorm:"column:tax_included;not null;default:true"`

	ShippingAvailable bool                  `gorm:"column:shipping_available;not null;default:false"`
	FlatShippingCost  *decimal.Decimal      `gorm:"column:flat_shipping_cost;type:numeric(12,2)"`
	ShippingConfig    *types.ShippingConfig `gorm:"column:shipping_config;type:jsonb;serializer:json"`

	CompanyID *uuid.UUID `gorm:"column:company_id;type:uuid"`
	Company   *Company   `gorm:"foreignKey:CompanyID"`

	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
