package controllers

import (
	"context"
	"net/http"

	"github.com/avelinestudio/aveline-backend/api/responses"
	"github.com/avelinestudio/aveline-backend/pkg/config"
	pkgerrors "github.com/avelinestudio/aveline-backend/pkg/errors"
	"github.com/avelinestudio/aveline-backend/pkg/logger"
)

// Pinger is any dependency that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Aveline-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness only once the named dependencies answer a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Aveline-Env", cfg.App.Env)

		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
