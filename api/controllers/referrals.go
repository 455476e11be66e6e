package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tiendaref/tiendaref-backend/api/middleware"
	"github.com/tiendaref/tiendaref-backend/api/responses"
	"github.com/tiendaref/tiendaref-backend/api/validators"
	referralsvc "github.com/tiendaref/tiendaref-backend/internal/referrals"
	"github.com/tiendaref/tiendaref-backend/pkg/enums"
	pkgerrors "github.com/tiendaref/tiendaref-backend/pkg/errors"
	"github.com/tiendaref/tiendaref-backend/pkg/logger"
)

type recordAttributionRequest struct {
	ReferrerID string `json:"referrerId" validate:"required"`
	Source     string `json:"source"`
}

// AttributionRecord pins the session's referrer; the latest link wins.
func AttributionRecord(svc referralsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := validators.SessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload recordAttributionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		attribution, err := svc.Record(r.Context(), sessionID, payload.ReferrerID, payload.Source)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, attribution)
	}
}

// AttributionRead returns the session's current referrer, if any.
func AttributionRead(svc referralsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := validators.SessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		attribution, err := svc.Read(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, attribution)
	}
}

// ReferralStats summarizes the caller's commission earnings.
func ReferralStats(svc referralsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authedUserID(r)
		if userID == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		stats, err := svc.Stats(r.Context(), userID.String())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}

// ReferralCommissions lists a referrer's commissions. Callers may only view
// their own unless they are admins.
func ReferralCommissions(svc referralsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID := authedUserID(r)
		if callerID == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		userID := chi.URLParam(r, "userId")
		if userID == "" {
			userID = callerID.String()
		}
		if userID != callerID.String() && middleware.RoleFromContext(r.Context()) != string(enums.UserRoleAdmin) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "cannot view another user's commissions"))
			return
		}

		commissions, err := svc.Commissions(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, commissions)
	}
}
