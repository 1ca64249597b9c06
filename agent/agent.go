// Package agent defines the contract between the host and a hosted agent.
// The host owns transport, auth and lifecycle; the agent owns reasoning.
// Optional capabilities such as notification handling are modeled as
// separate interfaces the host checks with a type assertion.
package agent

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/rodrigodemos/microsoft-agents-starterkit/activity"
	"github.com/rodrigodemos/microsoft-agents-starterkit/auth"
)

// ErrNilAgent is returned when a factory produces a nil agent.
var ErrNilAgent = errors.New("agent factory returned nil agent")

// Agent is the minimal surface a hosted agent implements.
//
// ProcessUserMessage returns a plain response string. Failures are reported
// as an error-describing string rather than an error value so the host can
// always relay something to the user; the agent must not panic.
type Agent interface {
	// Initialize prepares the agent before the first turn. Returning an
	// error aborts host startup.
	Initialize(ctx context.Context) error

	// ProcessUserMessage handles one user turn. The exchanger and handler
	// name give the agent access to delegated tokens for downstream calls;
	// the turn context lets it send intermediate activities.
	ProcessUserMessage(ctx context.Context, message string, exchanger auth.TokenExchanger, authHandlerName string, turn *activity.TurnContext) string

	// Cleanup releases agent resources. Called once during shutdown.
	Cleanup(ctx context.Context) error
}

// NotificationHandler is the optional capability for agents that process
// platform notifications. The host checks for it with a type assertion and
// replies with a capability message when it is absent.
type NotificationHandler interface {
	ProcessNotification(ctx context.Context, notification activity.Notification, turn *activity.TurnContext) (string, error)
}

// Factory constructs a fresh agent instance for the host.
type Factory func() (Agent, error)

// Validate checks a factory result before the host adopts it.
func Validate(a Agent, err error) (Agent, error) {
	if err != nil {
		return nil, err
	}
	if a == nil || reflect.ValueOf(a).Kind() == reflect.Ptr && reflect.ValueOf(a).IsNil() {
		return nil, ErrNilAgent
	}
	return a, nil
}

// TypeName returns the agent's concrete type name without package path or
// pointer markers, used in greetings and health reporting.
func TypeName(a Agent) string {
	if a == nil {
		return "Agent"
	}
	t := reflect.TypeOf(a)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	name := t.Name()
	if name == "" {
		name = t.String()
		if idx := strings.LastIndex(name, "."); idx >= 0 {
			name = name[idx+1:]
		}
	}
	return name
}
