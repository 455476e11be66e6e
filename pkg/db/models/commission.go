package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tiendaref/tiendaref-backend/pkg/enums"
)

// Commission records the referrer's cut of an attributed purchase.
type Commission struct {
	ID             uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ReferrerID     string                 `gorm:"column:referrer_id;not null;index"`
	BuyerID        *uuid.UUID             `gorm:"column:buyer_id;type:uuid"`
	BuyerEmail     *string                `gorm:"column:buyer_email"`
	BuyerName      *string                `gorm:"column:buyer_name"`
	OrderReference string                 `gorm:"column:order_reference;not null"`
	OrderTotal     decimal.Decimal        `gorm:"column:order_total;type:numeric(12,2);not null"`
	Amount         decimal.Decimal        `gorm:"column:amount;type:numeric(12,2);not null"`
	RatePercent    int                    `gorm:"column:rate_percent;not null"`
	Status         enums.CommissionStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	CreatedAt      time.Time              `gorm:"column:created_at;autoCreateTime"`
}
