// Package contexthelpers defines the typed context keys shared between the
// HTTP layer and the coaching engine.
package contexthelpers

import (
	"context"
	"net/http"
)

type contextKey string

// IsAuthenticatedContextKey marks a request as carrying a logged-in user.
const IsAuthenticatedContextKey = contextKey("isAuthenticated")

// AuthenticatedUserIDContextKey carries the logged-in user's id.
const AuthenticatedUserIDContextKey = contextKey("authenticatedUserID")

// IsAuthenticated reports whether the context carries a logged-in user.
func IsAuthenticated(ctx context.Context) bool {
	isAuthenticated, ok := ctx.Value(IsAuthenticatedContextKey).(bool)
	if !ok {
		return false
	}
	return isAuthenticated
}

// AuthenticatedUserID returns the logged-in user's id or 0 when absent.
func AuthenticatedUserID(ctx context.Context) int64 {
	userID, ok := ctx.Value(AuthenticatedUserIDContextKey).(int64)
	if !ok {
		return 0
	}
	return userID
}

// AuthenticateContext returns a shallow copy of r whose context carries the
// authenticated user.
func AuthenticateContext(r *http.Request, userID int64) *http.Request {
	ctx := r.Context()
	ctx = context.WithValue(ctx, IsAuthenticatedContextKey, true)
	ctx = context.WithValue(ctx, AuthenticatedUserIDContextKey, userID)
	return r.WithContext(ctx)
}
