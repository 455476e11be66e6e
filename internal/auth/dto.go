package auth

import (
	"github.com/tiendaref/tiendaref-backend/internal/users"
)

// RegisterRequest captures the signup payload. The address fields feed the
// shipping zone classifier; referralCode links the new account to a referrer.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"nombre" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=cliente embajador empresa"`

	AddressLine string `json:"calle"`
	City        string `json:"ciudad"`
	State       string `json:"provincia"`
	Country     string `json:"pais"`
	PostalCode  string `json:"codigoPostal"`

	SessionID    string `json:"sessionId"`
	ReferralCode string `json:"referralCode"`
}

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse contains the access token and profile returned after
// registration or login.
type AuthResponse struct {
	AccessToken string         `json:"access_token"`
	User        *users.UserDTO `json:"user"`
}
