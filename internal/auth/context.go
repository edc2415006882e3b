// Package auth carries the signed-in identity through request contexts.
package auth

import (
	"context"

	"github.com/dukerupert/grocerymate/internal/model"
)

type contextKey struct{}

func WithUser(ctx context.Context, u model.CurrentUser) context.Context {
	return context.WithValue(ctx, contextKey{}, u)
}

func FromContext(ctx context.Context) (model.CurrentUser, bool) {
	u, ok := ctx.Value(contextKey{}).(model.CurrentUser)
	return u, ok
}

// UserID returns the signed-in user's id, or "" when nobody is signed in.
func UserID(ctx context.Context) string {
	u, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return u.ID
}

func IsSignedIn(ctx context.Context) bool {
	u, ok := FromContext(ctx)
	return ok && u.IsLoggedIn
}
