package auth

import (
	"context"

	"attendance/internal/entity"
)

// Identity is the authenticated user as recorded in the session cookie.
type Identity struct {
	UserID int
	Role   entity.Role
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity stored by WithIdentity, if any.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
