package activity

import (
	"context"
	"sync"
)

// Sender delivers outbound activities back to the caller. The HTTP adapter
// supplies one per turn.
type Sender interface {
	SendActivity(ctx context.Context, a *Activity) error
}

// SenderFunc adapts a plain function to the Sender interface.
type SenderFunc func(ctx context.Context, a *Activity) error

// SendActivity implements Sender.
func (f SenderFunc) SendActivity(ctx context.Context, a *Activity) error { return f(ctx, a) }

// TurnContext carries the inbound activity for one turn and sends replies
// through the adapter. It records everything sent so handlers and tests can
// inspect the outbound side of a turn.
type TurnContext struct {
	activity *Activity
	sender   Sender

	mu   sync.Mutex
	sent []*Activity
}

// NewTurnContext builds a turn context for an inbound activity.
func NewTurnContext(a *Activity, sender Sender) *TurnContext {
	return &TurnContext{activity: a, sender: sender}
}

// Activity returns the inbound activity for this turn.
func (tc *TurnContext) Activity() *Activity { return tc.activity }

// SendActivity sends an outbound activity and records it.
func (tc *TurnContext) SendActivity(ctx context.Context, a *Activity) error {
	if err := tc.sender.SendActivity(ctx, a); err != nil {
		return err
	}
	tc.mu.Lock()
	tc.sent = append(tc.sent, a)
	tc.mu.Unlock()
	return nil
}

// SendText sends a plain text reply to the inbound activity.
func (tc *TurnContext) SendText(ctx context.Context, text string) error {
	return tc.SendActivity(ctx, NewReply(tc.activity, text))
}

// Sent returns a copy of all activities sent during this turn.
func (tc *TurnContext) Sent() []*Activity {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	out := make([]*Activity, len(tc.sent))
	copy(out, tc.sent)
	return out
}
