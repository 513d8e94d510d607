package auth

import (
	"context"
)

type contextKey string

var currentUserKey contextKey = "current_user"

func SetCurrentUser(ctx context.Context, user CurrentUser) context.Context {
	return context.WithValue(ctx, currentUserKey, user)
}

// GetCurrentUser returns the authenticated user on the request, if any.
func GetCurrentUser(ctx context.Context) (CurrentUser, bool) {
	val := ctx.Value(currentUserKey)
	if user, ok := val.(CurrentUser); ok {
		return user, true
	}
	return CurrentUser{}, false
}
