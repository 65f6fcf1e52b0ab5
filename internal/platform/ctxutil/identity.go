package ctxutil

import "context"

type identityKey struct{}

// Identity is the verified caller attached by the auth middleware.
type Identity struct {
	UID         string
	Role        string
	Email       string
	DisplayName string
	SessionID   string
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == "admin"
}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func GetIdentity(ctx context.Context) *Identity {
	if id, ok := ctx.Value(identityKey{}).(*Identity); ok {
		return id
	}
	return nil
}
