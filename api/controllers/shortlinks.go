package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tiendaref/tiendaref-backend/api/responses"
	"github.com/tiendaref/tiendaref-backend/api/validators"
	linksvc "github.com/tiendaref/tiendaref-backend/internal/shortlinks"
	pkgerrors "github.com/tiendaref/tiendaref-backend/pkg/errors"
	"github.com/tiendaref/tiendaref-backend/pkg/logger"
	"github.com/tiendaref/tiendaref-backend/pkg/types"
)

// LinkResolve looks up a short code. Unknown codes still resolve, pointing
// the storefront at the registration page.
func LinkResolve(svc linksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		if code == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "code is required"))
			return
		}

		resolution, err := svc.Resolve(r.Context(), code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, resolution)
	}
}

type sharedCartRequest struct {
	Items []types.LineItem `json:"items" validate:"required,min=1"`
}

// SharedCartCreate mints a short link for the caller's cart snapshot.
func SharedCartCreate(svc linksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID := authedUserID(r)
		if ownerID == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var payload sharedCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		link, err := svc.CreateSharedCart(r.Context(), *ownerID, payload.Items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, link)
	}
}

// ReferralCreate returns the caller's referral link, minting one on first use.
func ReferralCreate(svc linksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID := authedUserID(r)
		if ownerID == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		link, err := svc.CreateReferral(r.Context(), *ownerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, link)
	}
}
