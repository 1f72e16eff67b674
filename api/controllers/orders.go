package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/avelinestudio/aveline-backend/api/middleware"
	"github.com/avelinestudio/aveline-backend/api/responses"
	"github.com/avelinestudio/aveline-backend/api/validators"
	ordersvc "github.com/avelinestudio/aveline-backend/internal/orders"
	pkgerrors "github.com/avelinestudio/aveline-backend/pkg/errors"
	"github.com/avelinestudio/aveline-backend/pkg/logger"
)

func OrdersList(svc *ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		records, err := svc.ListByUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"orders": records})
	}
}

func OrderGet(svc *ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		record, err := svc.GetByID(r.Context(), userID, chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

type createOrderRequest struct {
	PlatformOrderID string                   `json:"platform_order_id" validate:"required"`
	CurrencyCode    string                   `json:"currency_code"`
	Email           string                   `json:"email" validate:"omitempty,email"`
	ShippingCents   int                      `json:"shipping_cents" validate:"min=0"`
	TaxCents        int                      `json:"tax_cents" validate:"min=0"`
	PlacedAt        *time.Time               `json:"placed_at"`
	Items           []createOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type createOrderItemRequest struct {
	ProductID      string `json:"product_id" validate:"required"`
	VariantID      string `json:"variant_id" validate:"required"`
	Title          string `json:"title" validate:"required"`
	Size           string `json:"size"`
	Color          string `json:"color"`
	ImageURL       string `json:"image_url"`
	UnitPriceCents int    `json:"unit_price_cents" validate:"min=0"`
	Quantity       int    `json:"quantity" validate:"required,min=1"`
}

// OrderCreate records a completed checkout against the authenticated user.
// Replays with the same platform order id return the original record.
func OrderCreate(svc *ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]ordersvc.LineItemParams, len(payload.Items))
		for i, item := range payload.Items {
			items[i] = ordersvc.LineItemParams{
				ProductID:      item.ProductID,
				VariantID:      item.VariantID,
				Title:          item.Title,
				Size:           item.Size,
				Color:          item.Color,
				ImageURL:       item.ImageURL,
				UnitPriceCents: item.UnitPriceCents,
				Quantity:       item.Quantity,
			}
		}

		params := ordersvc.CreateParams{
			PlatformOrderID: payload.PlatformOrderID,
			CurrencyCode:    payload.CurrencyCode,
			Email:           payload.Email,
			ShippingCents:   payload.ShippingCents,
			TaxCents:        payload.TaxCents,
			Items:           items,
		}
		if payload.PlacedAt != nil {
			params.PlacedAt = *payload.PlacedAt
		}

		userID := middleware.UserIDFromContext(r.Context())
		record, err := svc.Create(r.Context(), userID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}
