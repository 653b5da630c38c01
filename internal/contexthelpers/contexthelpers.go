// Package contexthelpers stores and retrieves request-scoped values such as
// the signed-in athlete.
package contexthelpers

import (
	"context"
	"net/http"
)

type contextKey string

const IsAuthenticatedContextKey = contextKey("isAuthenticated")
const AuthenticatedAthleteIDContextKey = contextKey("authenticatedAthleteID")

// IsAuthenticated reports whether the request has a signed-in athlete.
func IsAuthenticated(ctx context.Context) bool {
	isAuthenticated, ok := ctx.Value(IsAuthenticatedContextKey).(bool)
	if !ok {
		return false
	}
	return isAuthenticated
}

// AuthenticatedAthleteID returns the signed-in athlete's id or 0 when the
// request is anonymous.
func AuthenticatedAthleteID(ctx context.Context) int {
	athleteID, ok := ctx.Value(AuthenticatedAthleteIDContextKey).(int)
	if !ok {
		return 0
	}
	return athleteID
}

// AuthenticateContext marks the request as belonging to the given athlete.
func AuthenticateContext(r *http.Request, athleteID int) *http.Request {
	ctx := r.Context()
	ctx = context.WithValue(ctx, IsAuthenticatedContextKey, true)
	ctx = context.WithValue(ctx, AuthenticatedAthleteIDContextKey, athleteID)
	return r.WithContext(ctx)
}
