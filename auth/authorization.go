package auth

import (
	"context"
	"errors"
	"time"
)

// ObservabilityScope is the delegated scope requested for the telemetry
// exporter token exchange.
const ObservabilityScope = "https://observability.agents.microsoft.com/.default"

// ErrNoExchanger is returned when a token exchange is requested but no
// exchanger is configured.
var ErrNoExchanger = errors.New("no token exchanger configured")

// Token is an opaque bearer token with its expiry.
type Token struct {
	Value     string
	ExpiresOn time.Time
}

// TokenExchanger performs a delegated (on-behalf-of) token exchange for the
// given scopes through a named auth handler. The platform SDK owns the
// protocol; implementations here only model the seam.
type TokenExchanger interface {
	ExchangeToken(ctx context.Context, scopes []string, handlerID string) (Token, error)
}

// TokenExchangerFunc adapts a function to the TokenExchanger interface.
type TokenExchangerFunc func(ctx context.Context, scopes []string, handlerID string) (Token, error)

// ExchangeToken implements TokenExchanger.
func (f TokenExchangerFunc) ExchangeToken(ctx context.Context, scopes []string, handlerID string) (Token, error) {
	return f(ctx, scopes, handlerID)
}

// StaticTokenExchanger returns a fixed token for every exchange. Used with
// the local development auth path where a pre-provisioned token stands in for
// the OBO flow.
type StaticTokenExchanger struct {
	token Token
}

// NewStaticTokenExchanger creates an exchanger returning the given token.
func NewStaticTokenExchanger(value string) *StaticTokenExchanger {
	return &StaticTokenExchanger{token: Token{Value: value}}
}

// ExchangeToken implements TokenExchanger.
func (s *StaticTokenExchanger) ExchangeToken(context.Context, []string, string) (Token, error) {
	if s.token.Value == "" {
		return Token{}, ErrNoExchanger
	}
	return s.token, nil
}
