package correlation

import (
	"context"
	"strings"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/baggage"
)

// BaggageKey is the W3C baggage member that carries the id across services.
const BaggageKey = "correlation_id"

const maxIDLen = 128

type correlationKey struct{}

// ExtractCorrelationID returns the id stored on ctx, falling back to the
// incoming baggage.
func ExtractCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if val, ok := ctx.Value(correlationKey{}).(string); ok {
		return val
	}
	return sanitize(baggage.FromContext(ctx).Member(BaggageKey).Value())
}

// ContextWithCorrelationID stores id on ctx and in its baggage. Ids that are
// empty, oversized or carry control characters leave ctx untouched.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	id = sanitize(id)
	if id == "" {
		return ctx
	}
	ctx = context.WithValue(ctx, correlationKey{}, id)
	if member, err := baggage.NewMember(BaggageKey, id); err == nil {
		if bag, err := baggage.FromContext(ctx).SetMember(member); err == nil {
			ctx = baggage.ContextWithBaggage(ctx, bag)
		}
	}
	return ctx
}

// EnsureCorrelationID guarantees a correlation id on ctx, minting a ULID
// when none arrived.
func EnsureCorrelationID(ctx context.Context) (context.Context, string) {
	cid := ExtractCorrelationID(ctx)
	if cid == "" {
		cid = ulid.Make().String()
	}
	return ContextWithCorrelationID(ctx, cid), cid
}

func sanitize(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || len(id) > maxIDLen {
		return ""
	}
	for _, r := range id {
		if r < 0x21 || r > 0x7e {
			return ""
		}
	}
	return id
}
