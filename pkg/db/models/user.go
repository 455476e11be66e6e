package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tiendaref/tiendaref-backend/pkg/enums"
)

// User represents the canonical identity entity. The location columns feed
// shipping zone classification for the buyer side.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string         `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Name         string         `gorm:"column:name;not null"`
	Role         enums.UserRole `gorm:"column:role;type:text;not null;default:'cliente'"`
	CompanyID    *uuid.UUID     `gorm:"column:company_id;type:uuid"`
	Company      *Company       `gorm:"foreignKey:CompanyID"`

	AddressLine *string `gorm:"column:address_line"`
	City        *string `gorm:"column:city"`
	State       *string `gorm:"column:state"`
	Country     *string `gorm:"column:country"`
	PostalCode  *string `gorm:"column:postal_code"`
	Zone        *string `gorm:"column:zone"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
