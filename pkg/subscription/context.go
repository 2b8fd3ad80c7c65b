package subscription

import "context"

type principalCtxKey struct{}

// SetPrincipalToContext stores the authenticated principal in the context.
// The identity subsystem's middleware calls this after session validation.
func SetPrincipalToContext(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, p)
}

// GetPrincipalFromContext retrieves the authenticated principal, if any.
func GetPrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalCtxKey{}).(Principal)
	return p, ok
}
