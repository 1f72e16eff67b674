package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/avelinestudio/aveline-backend/api/responses"
	"github.com/avelinestudio/aveline-backend/internal/catalog"
	"github.com/avelinestudio/aveline-backend/internal/cms"
	pkgerrors "github.com/avelinestudio/aveline-backend/pkg/errors"
	"github.com/avelinestudio/aveline-backend/pkg/logger"
)

// ProductsList proxies the storefront catalog with normalized records.
func ProductsList(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		params := catalog.ListParams{
			Cursor:   strings.TrimSpace(r.URL.Query().Get("cursor")),
			Category: strings.TrimSpace(r.URL.Query().Get("category")),
			Query:    strings.TrimSpace(r.URL.Query().Get("q")),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid limit"))
				return
			}
			params.Limit = limit
		}

		result, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ProductGet returns a single normalized product by its handle, with any
// merchandising override applied on top.
func ProductGet(svc *catalog.Service, overrides *cms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		handle := chi.URLParam(r, "handle")
		product, err := svc.GetByHandle(r.Context(), handle)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload := productDetailResponse{Product: *product}
		if overrides != nil {
			override, err := overrides.Override(r.Context(), product.ID)
			if err != nil {
				if logg != nil {
					logg.Warn(logg.WithField(r.Context(), "product_id", product.ID), "override.lookup_failed")
				}
			} else {
				payload.Override = override
			}
		}

		responses.WriteSuccess(w, payload)
	}
}

type productDetailResponse struct {
	Product  catalog.Product      `json:"product"`
	Override *cms.ProductOverride `json:"override,omitempty"`
}
