package controllers

import (
	"net/http"
	"strings"

	"github.com/tiendaref/tiendaref-backend/api/responses"
	"github.com/tiendaref/tiendaref-backend/api/validators"
	paymentsvc "github.com/tiendaref/tiendaref-backend/internal/payments"
	"github.com/tiendaref/tiendaref-backend/pkg/logger"
)

// PaymentConfig exposes the browser-safe provider keys.
func PaymentConfig(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.Config(r.Context()))
	}
}

// StripeIntentCreate opens a payment intent for the session's cart.
func StripeIntentCreate(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := validators.SessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		intent, err := svc.CreateStripeIntent(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, intent)
	}
}

// MercadoPagoPreferenceCreate opens a checkout preference for the session's cart.
func MercadoPagoPreferenceCreate(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := validators.SessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		preference, err := svc.CreateMercadoPagoPreference(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, preference)
	}
}

type confirmPaymentRequest struct {
	PaymentReference string  `json:"paymentReference" validate:"required"`
	Provider         string  `json:"provider" validate:"required,oneof=stripe mercadopago"`
	BuyerEmail       *string `json:"buyerEmail" validate:"omitempty,email"`
	BuyerName        *string `json:"buyerNombre"`
}

// PaymentConfirm records the completed payment and settles the referral.
func PaymentConfirm(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := validators.SessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload confirmPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := paymentsvc.ConfirmInput{
			SessionID:        sessionID,
			PaymentReference: strings.TrimSpace(payload.PaymentReference),
			Provider:         payload.Provider,
			BuyerID:          authedUserID(r),
			BuyerEmail:       payload.BuyerEmail,
			BuyerName:        payload.BuyerName,
		}
		order, err := svc.Confirm(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := http.StatusCreated
		if order.AlreadyProcessed {
			status = http.StatusOK
		}
		responses.WriteSuccessStatus(w, status, order)
	}
}
