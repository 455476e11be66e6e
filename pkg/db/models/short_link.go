package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tiendaref/tiendaref-backend/pkg/enums"
	"github.com/tiendaref/tiendaref-backend/pkg/types"
)

// ShortLink maps a 6-character code to either a shared-cart payload or a
// plain referral. Records are immutable and never expire.
type ShortLink struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code        string              `gorm:"column:code;not null;uniqueIndex"`
	Kind        enums.ShortLinkKind `gorm:"column:kind;type:text;not null"`
	OwnerUserID *uuid.UUID          `gorm:"column:owner_user_id;type:uuid"`
	CartData    types.RawJSON       `gorm:"column:cart_data;type:jsonb"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
}

// ReferralCode is the legacy per-user referral code registry; resolution
// scans it by code value when a short link record is missing.
type ReferralCode struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Code      string    `gorm:"column:code;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
