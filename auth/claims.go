package auth

import "context"

// Well-known claim names consumed by the host.
const (
	AudienceClaim = "aud"
	AppIDClaim    = "appid"
	TenantClaim   = "tid"
)

// ClaimsIdentity carries the authenticated caller's claims for one request.
type ClaimsIdentity struct {
	Claims          map[string]string
	IsAuthenticated bool
	AuthType        string
}

// Claim returns a claim value or empty string.
func (c *ClaimsIdentity) Claim(name string) string {
	if c == nil {
		return ""
	}
	return c.Claims[name]
}

// NewAnonymousIdentity builds the identity used when no auth configuration is
// present (local development mode).
func NewAnonymousIdentity() *ClaimsIdentity {
	return &ClaimsIdentity{
		Claims: map[string]string{
			AudienceClaim: "anonymous",
			AppIDClaim:    "anonymous-app",
		},
		IsAuthenticated: false,
		AuthType:        "Anonymous",
	}
}

type contextKey struct{}

// WithIdentity attaches a claims identity to the context.
func WithIdentity(ctx context.Context, id *ClaimsIdentity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// IdentityFrom extracts the claims identity from the context, or nil.
func IdentityFrom(ctx context.Context) *ClaimsIdentity {
	id, _ := ctx.Value(contextKey{}).(*ClaimsIdentity)
	return id
}
