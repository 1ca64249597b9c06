package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier errors.
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrWrongTenant  = errors.New("token issued for a different tenant")
)

// Verifier validates a bearer token and produces the caller's identity.
type Verifier interface {
	Verify(tokenString string) (*ClaimsIdentity, error)
}

// EntraVerifier validates bearer tokens issued by Entra ID for this app
// registration: audience must match the client id and the tenant claim must
// match the configured tenant. Signature validation happens upstream at the
// channel gateway, so only claims are checked here.
type EntraVerifier struct {
	clientID string
	tenantID string
	parser   *jwt.Parser
}

// NewEntraVerifier creates a verifier for the given app registration.
func NewEntraVerifier(clientID, tenantID string) *EntraVerifier {
	return &EntraVerifier{
		clientID: clientID,
		tenantID: tenantID,
		parser:   jwt.NewParser(),
	}
}

// Verify implements Verifier.
func (v *EntraVerifier) Verify(tokenString string) (*ClaimsIdentity, error) {
	claims := jwt.MapClaims{}
	if _, _, err := v.parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil && exp.Before(time.Now()) {
		return nil, ErrExpiredToken
	}

	aud, _ := claims.GetAudience()
	if !containsAudience(aud, v.clientID) {
		return nil, fmt.Errorf("%w: audience mismatch", ErrInvalidToken)
	}

	if tid, _ := claims[TenantClaim].(string); v.tenantID != "" && tid != v.tenantID {
		return nil, ErrWrongTenant
	}

	out := map[string]string{}
	for name, value := range claims {
		if s, ok := value.(string); ok {
			out[name] = s
		}
	}
	if _, ok := out[AudienceClaim]; !ok && len(aud) > 0 {
		out[AudienceClaim] = aud[0]
	}

	return &ClaimsIdentity{Claims: out, IsAuthenticated: true, AuthType: "Bearer"}, nil
}

func containsAudience(aud jwt.ClaimStrings, clientID string) bool {
	for _, a := range aud {
		if a == clientID || a == "api://"+clientID {
			return true
		}
	}
	return false
}

// StaticTokenVerifier accepts exactly one pre-shared bearer token. Used for
// the local development auth path (ENV_ID/BEARER_TOKEN).
type StaticTokenVerifier struct {
	envID string
	token string
}

// NewStaticTokenVerifier creates a verifier for a pre-shared token.
func NewStaticTokenVerifier(envID, token string) *StaticTokenVerifier {
	return &StaticTokenVerifier{envID: envID, token: token}
}

// Verify implements Verifier.
func (v *StaticTokenVerifier) Verify(tokenString string) (*ClaimsIdentity, error) {
	if v.token == "" || tokenString != v.token {
		return nil, ErrInvalidToken
	}
	return &ClaimsIdentity{
		Claims:          map[string]string{AudienceClaim: v.envID, AppIDClaim: v.envID},
		IsAuthenticated: true,
		AuthType:        "LocalBearer",
	}, nil
}

func extractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", errors.New("missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", errors.New("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", errors.New("empty token")
	}
	return token, nil
}

// Middleware returns an HTTP middleware that requires a valid bearer token
// and attaches the resulting identity to the request context.
func Middleware(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := extractBearerToken(r.Header.Get("Authorization"))
			if err != nil {
				http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusUnauthorized)
				return
			}
			identity, err := verifier.Verify(token)
			if err != nil {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// AnonymousMiddleware attaches an anonymous claims identity to every request.
// Used when no CLIENT_ID/TENANT_ID is configured.
func AnonymousMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), NewAnonymousIdentity())))
		})
	}
}
