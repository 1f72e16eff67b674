package controllers

import (
	"net/http"

	"github.com/avelinestudio/aveline-backend/api/middleware"
	"github.com/avelinestudio/aveline-backend/internal/session"
)

// acquireStores resolves the per-device store set for the request identity.
// Login and logout transitions are applied as a side effect of the lookup.
func acquireStores(r *http.Request, registry *session.Registry) (session.Stores, error) {
	identity := session.Identity{
		DeviceID: middleware.DeviceIDFromContext(r.Context()),
		UserID:   middleware.UserIDFromContext(r.Context()),
		Role:     middleware.RoleFromContext(r.Context()),
	}
	return registry.Acquire(r.Context(), identity)
}
