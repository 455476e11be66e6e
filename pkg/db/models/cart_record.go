package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tiendaref/tiendaref-backend/pkg/types"
)

// CartRecord is the durable cart snapshot for one browsing session. Items is
// kept as raw JSON so legacy snapshots can be migrated on read
// instead of failing the whole record.
type CartRecord struct {
	ID        uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SessionID string        `gorm:"column:session_id;not null;uniqueIndex"`
	UserID    *uuid.UUID    `gorm:"column:user_id;type:uuid"`
	Items     types.RawJSON `gorm:"column:items;type:jsonb"`
	CreatedAt time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}
