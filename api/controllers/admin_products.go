package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avelinestudio/aveline-backend/api/responses"
	"github.com/avelinestudio/aveline-backend/api/validators"
	"github.com/avelinestudio/aveline-backend/internal/catalog"
	pkgerrors "github.com/avelinestudio/aveline-backend/pkg/errors"
	"github.com/avelinestudio/aveline-backend/pkg/logger"
)

type adminProductRequest struct {
	Title           string   `json:"title" validate:"required"`
	DescriptionHTML string   `json:"description_html"`
	ProductType     string   `json:"product_type"`
	Handle          string   `json:"handle"`
	Tags            []string `json:"tags" validate:"omitempty,dive,required"`
	Status          string   `json:"status" validate:"omitempty,oneof=ACTIVE DRAFT ARCHIVED"`
}

func (r adminProductRequest) toInput() catalog.ProductInput {
	return catalog.ProductInput{
		Title:           r.Title,
		DescriptionHTML: r.DescriptionHTML,
		ProductType:     r.ProductType,
		Handle:          r.Handle,
		Tags:            r.Tags,
		Status:          r.Status,
	}
}

// AdminProductCreate proxies product creation to the commerce platform's
// admin surface.
func AdminProductCreate(svc *catalog.AdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin catalog unavailable"))
			return
		}

		var payload adminProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func AdminProductUpdate(svc *catalog.AdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin catalog unavailable"))
			return
		}

		var payload adminProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), chi.URLParam(r, "productID"), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func AdminProductDelete(svc *catalog.AdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin catalog unavailable"))
			return
		}

		deletedID, err := svc.DeleteProduct(r.Context(), chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"deleted_id": deletedID})
	}
}
