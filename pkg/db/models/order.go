package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tiendaref/tiendaref-backend/pkg/types"
)

// Order is the confirmed purchase snapshot recorded after a payment
// processor reports success. Confirmation is idempotent per payment
// reference.
type Order struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PaymentReference string          `gorm:"column:payment_reference;not null;uniqueIndex"`
	Provider         string          `gorm:"column:provider;not null"`
	UserID           *uuid.UUID      `gorm:"column:user_id;type:uuid"`
	SessionID        string          `gorm:"column:session_id;not null;index"`
	Items            types.RawJSON   `gorm:"column:items;type:jsonb"`
	Subtotal         decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null"`
	TotalTax         decimal.Decimal `gorm:"column:total_tax;type:numeric(12,2);not null"`
	TotalShipping    decimal.Decimal `gorm:"column:total_shipping;type:numeric(12,2);not null"`
	GrandTotal       decimal.Decimal `gorm:"column:grand_total;type:numeric(12,2);not null"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
}
