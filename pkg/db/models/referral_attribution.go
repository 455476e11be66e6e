package models

import (
	"time"

	"github.com/google/uuid"
)

// ReferralAttribution remembers who referred a browsing session. One row per
// session; recording again overwrites it (last-touch attribution).
type ReferralAttribution struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SessionID  string    `gorm:"column:session_id;not null;uniqueIndex"`
	ReferrerID string    `gorm:"column:referrer_id;not null"`
	Source     string    `gorm:"column:source;not null;default:'referral'"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
