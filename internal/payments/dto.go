package payments

import (
	"time"

	"github.com/google/uuid"

	"github.com/tiendaref/tiendaref-backend/internal/shipping"
)

// PublicConfig carries the browser-safe keys for both payment providers.
type PublicConfig struct {
	StripePublishableKey string `json:"stripePublishableKey"`
	MercadoPagoPublicKey string `json:"mercadopagoPublicKey"`
}

// IntentResponse is returned when a Stripe payment intent is created.
type IntentResponse struct {
	PaymentIntentID string          `json:"paymentIntentId"`
	ClientSecret    string          `json:"clientSecret"`
	Amount          int64           `json:"amount"`
	Currency        string          `json:"currency"`
	Totals          shipping.Totals `json:"totals"`
}

// PreferenceResponse is returned when a Mercado Pago preference is created.
type PreferenceResponse struct {
	PreferenceID     string          `json:"preferenceId"`
	InitPoint        string          `json:"initPoint"`
	SandboxInitPoint string          `json:"sandboxInitPoint,omitempty"`
	Totals           shipping.Totals `json:"totals"`
}

// ConfirmInput identifies the completed payment being recorded.
type ConfirmInput struct {
	SessionID        string
	PaymentReference string
	Provider         string
	BuyerID          *uuid.UUID
	BuyerEmail       *string
	BuyerName        *string
}

// OrderDTO is the wire representation of a confirmed order.
type OrderDTO struct {
	ID               uuid.UUID       `json:"id"`
	PaymentReference string          `json:"paymentReference"`
	Provider         string          `json:"provider"`
	Totals           shipping.Totals `json:"totals"`
	AlreadyProcessed bool            `json:"alreadyProcessed"`
	CreatedAt        time.Time       `json:"createdAt"`
}
