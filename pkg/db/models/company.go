package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tiendaref/tiendaref-backend/pkg/types"
)

// Company is a selling company; its address is the shipping origin for
// every product it owns.
type Company struct {
	ID      uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name    string    `gorm:"column:name;not null"`
	Email   *string   `gorm:"column:email"`
	City    string    `gorm:"column:city"`
	State   string    `gorm:"column:state"`
	Country string    `gorm:"column:country"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Ref projects the company into the snapshot embedded in cart lines.
func (c Company) Ref() types.CompanyRef {
	return types.CompanyRef{
		ID:      c.ID.String(),
		Name:    c.Name,
		Email:   c.Email,
		City:    c.City,
		State:   c.State,
		Country: c.Country,
	}
}
