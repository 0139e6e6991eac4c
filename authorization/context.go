package authorization

import (
	"context"

	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
)

type contextKey int

const (
	userKey contextKey = iota
	claimsKey
)

func WithUser(ctx context.Context, user *domain.User, claims *Claims) context.Context {
	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, claimsKey, claims)
}

// UserFrom returns the authenticated caller, if any.
func UserFrom(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok && user != nil
}

func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok && claims != nil
}

// RoleOf is the casbin subject for the request: the caller's role, or
// "anonymous".
func RoleOf(ctx context.Context) string {
	if user, ok := UserFrom(ctx); ok {
		return string(user.Role)
	}
	return Anonymous
}
