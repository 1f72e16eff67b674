package middleware

import (
	"net/http"
	"strings"

	"github.com/avelinestudio/aveline-backend/api/responses"
	pkgAuth "github.com/avelinestudio/aveline-backend/pkg/auth"
	"github.com/avelinestudio/aveline-backend/pkg/config"
	pkgerrors "github.com/avelinestudio/aveline-backend/pkg/errors"
	"github.com/avelinestudio/aveline-backend/pkg/logger"
)

const deviceIDHeader = "X-Device-Id"

// Identity resolves the caller for the request. Every request must carry a
// device identifier; a bearer token is optional and, when present and valid,
// promotes the session to an authenticated user.
func Identity(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			deviceID := strings.TrimSpace(r.Header.Get(deviceIDHeader))
			if deviceID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "missing device id"))
				return
			}

			ctx := WithDeviceID(r.Context(), deviceID)
			if logg != nil {
				ctx = logg.WithDeviceID(ctx, deviceID)
			}

			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw != "" {
				token := raw
				if strings.HasPrefix(strings.ToLower(token), "bearer ") {
					token = strings.TrimSpace(token[7:])
				}
				if token == "" {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
					return
				}

				claims, err := pkgAuth.ParseIdentityToken(cfg, token)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
					return
				}

				ctx = WithUserID(ctx, claims.UserID)
				ctx = WithRole(ctx, claims.Role)
				if logg != nil {
					ctx = logg.WithFields(ctx, map[string]any{
						"user_id":    claims.UserID,
						"actor_role": string(claims.Role),
					})
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser rejects requests that did not present a valid bearer token.
func RequireUser(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserIDFromContext(r.Context()) == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
