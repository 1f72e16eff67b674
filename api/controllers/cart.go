package controllers

import (
	"net/http"

	"github.com/avelinestudio/aveline-backend/api/responses"
	"github.com/avelinestudio/aveline-backend/api/validators"
	cartsvc "github.com/avelinestudio/aveline-backend/internal/cart"
	"github.com/avelinestudio/aveline-backend/internal/session"
	"github.com/avelinestudio/aveline-backend/pkg/logger"
)

type cartResponse struct {
	Items []cartsvc.Item `json:"items"`
}

// CartGet returns the current contents of the device's cart.
func CartGet(registry *session.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stores, err := acquireStores(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartResponse{Items: stores.Cart.Items(r.Context())})
	}
}

type addCartItemRequest struct {
	ProductID      string `json:"product_id" validate:"required"`
	VariantID      string `json:"variant_id"`
	Title          string `json:"title"`
	Size           string `json:"size"`
	Color          string `json:"color"`
	Quantity       int    `json:"quantity" validate:"required,min=1"`
	UnitPriceCents int    `json:"unit_price_cents" validate:"omitempty,min=0"`
	Image          string `json:"image"`
}

// CartAddItem merges an item into the cart, incrementing quantity when the
// same product and selection is already present.
func CartAddItem(registry *session.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stores, err := acquireStores(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := stores.Cart.Add(r.Context(), cartsvc.Item{
			ProductID:      payload.ProductID,
			VariantID:      payload.VariantID,
			Title:          payload.Title,
			Size:           payload.Size,
			Color:          payload.Color,
			Quantity:       payload.Quantity,
			UnitPriceCents: payload.UnitPriceCents,
			Image:          payload.Image,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartResponse{Items: items})
	}
}

type updateCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity" validate:"min=0"`
}

// CartUpdateItem sets the quantity for a selection. A quantity of zero
// removes the line.
func CartUpdateItem(registry *session.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stores, err := acquireStores(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := stores.Cart.UpdateQuantity(r.Context(), payload.ProductID, payload.Size, payload.Color, payload.Quantity)
		responses.WriteSuccess(w, cartResponse{Items: items})
	}
}

type removeCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

func CartRemoveItem(registry *session.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload removeCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stores, err := acquireStores(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := stores.Cart.Remove(r.Context(), payload.ProductID, payload.Size, payload.Color)
		responses.WriteSuccess(w, cartResponse{Items: items})
	}
}

func CartClear(registry *session.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stores, err := acquireStores(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartResponse{Items: stores.Cart.Clear(r.Context())})
	}
}
