package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tiendaref/tiendaref-backend/api/responses"
	"github.com/tiendaref/tiendaref-backend/api/validators"
	productsvc "github.com/tiendaref/tiendaref-backend/internal/products"
	pkgerrors "github.com/tiendaref/tiendaref-backend/pkg/errors"
	"github.com/tiendaref/tiendaref-backend/pkg/logger"
)

// ProductList serves the filtered catalog.
func ProductList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		companyID, err := validators.ParseQueryUUID(r, "empresaId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userID, err := validators.ParseQueryUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		minPrice, err := validators.ParseQueryDecimal(r, "minPrecio")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		maxPrice, err := validators.ParseQueryDecimal(r, "maxPrecio")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := productsvc.ListInput{
			Search:    strings.TrimSpace(r.URL.Query().Get("buscar")),
			Category:  strings.TrimSpace(r.URL.Query().Get("categoria")),
			CompanyID: companyID,
			MinPrice:  minPrice,
			MaxPrice:  maxPrice,
			UserID:    userID,
		}

		products, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, products)
	}
}

// ProductGet serves a single catalog entry.
func ProductGet(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}
