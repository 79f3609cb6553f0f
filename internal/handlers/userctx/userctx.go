package userctx

import (
	"context"

	"github.com/dkarpov/goblog/internal/models"
)

type ctxKey string

const (
	userKey  ctxKey = "user"
	tokenKey ctxKey = "sessionToken"
)

// Create a new context carrying the authenticated user and the opaque
// session token it authenticated with
func New(ctx context.Context, u models.User, sessionToken string) context.Context {
	ctx = context.WithValue(ctx, userKey, u)
	return context.WithValue(ctx, tokenKey, sessionToken)
}

// Extract the user from the context
func FromContext(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey).(models.User)
	return u, ok
}

// Extract the session token from the context
// Logout needs it to revoke the right session
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok
}
