package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rodrigodemos/microsoft-agents-starterkit/activity"
	"github.com/rodrigodemos/microsoft-agents-starterkit/auth"
)

type EchoAgent struct{}

func (e *EchoAgent) Initialize(ctx context.Context) error { return nil }

func (e *EchoAgent) ProcessUserMessage(ctx context.Context, message string, exchanger auth.TokenExchanger, authHandlerName string, turn *activity.TurnContext) string {
	return message
}

func (e *EchoAgent) Cleanup(ctx context.Context) error { return nil }

func TestValidatePassesThroughAgent(t *testing.T) {
	a, err := Validate(&EchoAgent{}, nil)
	require.NoError(t, err)
	assert.NotNil(t, a)
}

func TestValidateRejectsNil(t *testing.T) {
	_, err := Validate(nil, nil)
	assert.ErrorIs(t, err, ErrNilAgent)

	var typed *EchoAgent
	_, err = Validate(typed, nil)
	assert.ErrorIs(t, err, ErrNilAgent)
}

func TestValidatePropagatesFactoryError(t *testing.T) {
	boom := errors.New("construction failed")
	_, err := Validate(nil, boom)
	assert.ErrorIs(t, err, boom)
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "EchoAgent", TypeName(&EchoAgent{}))
	assert.Equal(t, "Agent", TypeName(nil))
}

func TestNotificationHandlerAssertion(t *testing.T) {
	var a Agent = &EchoAgent{}
	_, ok := a.(NotificationHandler)
	assert.False(t, ok)
}
