package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/tiendaref/tiendaref-backend/pkg/db/models"
	"github.com/tiendaref/tiendaref-backend/pkg/enums"
	"github.com/tiendaref/tiendaref-backend/pkg/types"
)

// UserDTO is the wire representation of a user profile.
type UserDTO struct {
	ID        uuid.UUID         `json:"id"`
	Email     string            `json:"email"`
	Name      string            `json:"nombre"`
	Role      enums.UserRole    `json:"role"`
	Company   *types.CompanyRef `json:"empresa,omitempty"`
	Address   *AddressDTO       `json:"direccion,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// AddressDTO is the stored shipping address plus its classified zone.
type AddressDTO struct {
	AddressLine *string `json:"calle,omitempty"`
	City        *string `json:"ciudad,omitempty"`
	State       *string `json:"provincia,omitempty"`
	Country     *string `json:"pais,omitempty"`
	PostalCode  *string `json:"codigoPostal,omitempty"`
	Zone        *string `json:"zonaEnvio,omitempty"`
}

// FromModel maps a persisted user onto the wire DTO.
func FromModel(user *models.User) *UserDTO {
	if user == nil {
		return nil
	}
	dto := &UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
	if user.Company != nil {
		ref := user.Company.Ref()
		dto.Company = &ref
	}
	if user.AddressLine != nil || user.City != nil || user.State != nil ||
		user.Country != nil || user.PostalCode != nil || user.Zone != nil {
		dto.Address = &AddressDTO{
			AddressLine: user.AddressLine,
			City:        user.City,
			State:       user.State,
			Country:     user.Country,
			PostalCode:  user.PostalCode,
			Zone:        user.Zone,
		}
	}
	return dto
}
