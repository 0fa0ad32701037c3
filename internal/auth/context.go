package auth

import "context"

type contextKey string

const claimsKey contextKey = "claims"

// WithClaims attaches the authenticated staff identity to the context. The
// auth middleware calls this once per request after token validation.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// ClaimsFromContext returns the staff identity for the request, or nil when
// the request never passed token validation. The report handler uses the nil
// case to refuse generation for anonymous callers.
func ClaimsFromContext(ctx context.Context) *Claims {
	v := ctx.Value(claimsKey)
	if v == nil {
		return nil
	}
	c, _ := v.(*Claims)
	return c
}
