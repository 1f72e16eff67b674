package middleware

import (
	"context"

	"github.com/avelinestudio/aveline-backend/pkg/auth"
)

type contextKey string

const (
	ctxUserID   contextKey = "user_id"
	ctxRole     contextKey = "actor_role"
	ctxDeviceID contextKey = "device_id"
)

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) auth.Role {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(auth.Role); ok {
		return v
	}
	return ""
}

func DeviceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxDeviceID).(string); ok {
		return v
	}
	return ""
}

// WithUserID injects the user identifier into the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

// WithRole injects the actor role into the context.
func WithRole(ctx context.Context, role auth.Role) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRole, role)
}

// WithDeviceID injects the device identifier into the context for downstream handlers.
func WithDeviceID(ctx context.Context, deviceID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxDeviceID, deviceID)
}
