package auth

import "context"

type contextKey string

const identityKey = contextKey("callerIdentity")

// WithIdentity returns a context carrying the resolved caller identity.
func WithIdentity(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, identityKey, userID)
}

// IdentityFrom returns the caller identity resolved for this request, or ""
// when the request carried no valid token.
func IdentityFrom(ctx context.Context) string {
	id, _ := ctx.Value(identityKey).(string)
	return id
}
