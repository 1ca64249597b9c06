package observability

import (
	"context"

	"go.opentelemetry.io/otel/baggage"
)

// BaggageBuilder accumulates turn-scoped identifiers and applies them to a
// context as OpenTelemetry baggage, so downstream spans and exporters can
// correlate telemetry with the tenant and agent that produced it.
type BaggageBuilder struct {
	members []baggage.Member
	err     error
}

// NewBaggageBuilder returns an empty builder.
func NewBaggageBuilder() *BaggageBuilder {
	return &BaggageBuilder{}
}

// TenantID records the tenant identifier. Empty values are skipped.
func (b *BaggageBuilder) TenantID(id string) *BaggageBuilder {
	return b.add("tenant_id", id)
}

// AgentID records the agentic application identifier. Empty values are
// skipped.
func (b *BaggageBuilder) AgentID(id string) *BaggageBuilder {
	return b.add("agent_id", id)
}

// Set records an arbitrary baggage entry.
func (b *BaggageBuilder) Set(key, value string) *BaggageBuilder {
	return b.add(key, value)
}

func (b *BaggageBuilder) add(key, value string) *BaggageBuilder {
	if b.err != nil || value == "" {
		return b
	}
	member, err := baggage.NewMemberRaw(key, value)
	if err != nil {
		b.err = err
		return b
	}
	b.members = append(b.members, member)
	return b
}

// Build merges the accumulated members into the context's baggage and
// returns the derived context.
func (b *BaggageBuilder) Build(ctx context.Context) (context.Context, error) {
	if b.err != nil {
		return ctx, b.err
	}
	if len(b.members) == 0 {
		return ctx, nil
	}

	bag := baggage.FromContext(ctx)
	for _, m := range b.members {
		var err error
		if bag, err = bag.SetMember(m); err != nil {
			return ctx, err
		}
	}
	return baggage.ContextWithBaggage(ctx, bag), nil
}
