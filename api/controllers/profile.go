package controllers

import (
	"net/http"

	"github.com/avelinestudio/aveline-backend/api/responses"
	"github.com/avelinestudio/aveline-backend/api/validators"
	profilesvc "github.com/avelinestudio/aveline-backend/internal/profile"
	"github.com/avelinestudio/aveline-backend/internal/session"
	"github.com/avelinestudio/aveline-backend/pkg/logger"
)

type profileResponse struct {
	Profile *profilesvc.Record `json:"profile"`
}

func ProfileGet(registry *session.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stores, err := acquireStores(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profileResponse{Profile: stores.Profile.Get(r.Context())})
	}
}

type updateProfileRequest struct {
	Email     string               `json:"email" validate:"required,email"`
	FirstName string               `json:"first_name"`
	LastName  string               `json:"last_name"`
	Phone     string               `json:"phone"`
	Addresses []profilesvc.Address `json:"addresses" validate:"omitempty,dive"`
}

// ProfileUpdate replaces the stored profile wholesale.
func ProfileUpdate(registry *session.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateProfileRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stores, err := acquireStores(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := stores.Profile.Update(r.Context(), profilesvc.Record{
			Email:     payload.Email,
			FirstName: payload.FirstName,
			LastName:  payload.LastName,
			Phone:     payload.Phone,
			Addresses: payload.Addresses,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profileResponse{Profile: record})
	}
}
