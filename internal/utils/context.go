package utils

import (
	"context"

	"github.com/taskvault/taskvault-api/internal/models"
)

type contextKey int

const (
	userKey contextKey = iota
	requestIDKey
)

// WithUser stores the authenticated user on the context
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUserFromContext returns the user placed by AuthMiddleware
func GetUserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userKey).(models.User)
	return user, ok
}

// WithRequestID stores the request id on the context
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID returns the request id, or "" outside a request
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
