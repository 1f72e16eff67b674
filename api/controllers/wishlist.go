package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avelinestudio/aveline-backend/api/responses"
	"github.com/avelinestudio/aveline-backend/api/validators"
	"github.com/avelinestudio/aveline-backend/internal/session"
	wishlistsvc "github.com/avelinestudio/aveline-backend/internal/wishlist"
	"github.com/avelinestudio/aveline-backend/pkg/logger"
)

type wishlistResponse struct {
	Entries []wishlistsvc.Entry `json:"entries"`
}

func WishlistGet(registry *session.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stores, err := acquireStores(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, wishlistResponse{Entries: stores.Wishlist.Entries(r.Context())})
	}
}

type addWishlistEntryRequest struct {
	ProductID  string `json:"product_id" validate:"required"`
	Handle     string `json:"handle"`
	Title      string `json:"title"`
	PriceCents int    `json:"price_cents" validate:"omitempty,min=0"`
	Image      string `json:"image"`
}

// WishlistAdd saves a product. Adding a product that is already saved is a
// no-op rather than an error.
func WishlistAdd(registry *session.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addWishlistEntryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stores, err := acquireStores(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := stores.Wishlist.Add(r.Context(), wishlistsvc.Entry{
			ProductID:  payload.ProductID,
			Handle:     payload.Handle,
			Title:      payload.Title,
			PriceCents: payload.PriceCents,
			Image:      payload.Image,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, wishlistResponse{Entries: entries})
	}
}

// WishlistToggle adds the product when absent and removes it when present.
func WishlistToggle(registry *session.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addWishlistEntryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stores, err := acquireStores(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := stores.Wishlist.Toggle(r.Context(), wishlistsvc.Entry{
			ProductID:  payload.ProductID,
			Handle:     payload.Handle,
			Title:      payload.Title,
			PriceCents: payload.PriceCents,
			Image:      payload.Image,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, wishlistResponse{Entries: entries})
	}
}

func WishlistRemove(registry *session.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stores, err := acquireStores(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID := chi.URLParam(r, "productID")
		entries := stores.Wishlist.Remove(r.Context(), productID)
		responses.WriteSuccess(w, wishlistResponse{Entries: entries})
	}
}

func WishlistClear(registry *session.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stores, err := acquireStores(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, wishlistResponse{Entries: stores.Wishlist.Clear(r.Context())})
	}
}
