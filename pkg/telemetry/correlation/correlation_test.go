package correlation

import (
	"context"
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/baggage"
)

func TestEnsureCorrelationID(t *testing.T) {
	ctx, cid := EnsureCorrelationID(context.Background())
	_, err := ulid.Parse(cid)
	require.NoError(t, err)
	assert.Equal(t, cid, ExtractCorrelationID(ctx))

	ctx = ContextWithCorrelationID(context.Background(), "upstream-1")
	_, cid = EnsureCorrelationID(ctx)
	assert.Equal(t, "upstream-1", cid)
}

func TestContextWithEmptyID(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, ContextWithCorrelationID(ctx, ""))
}

func TestCorrelationIDTravelsInBaggage(t *testing.T) {
	ctx := ContextWithCorrelationID(context.Background(), "inv-batch-7")
	assert.Equal(t, "inv-batch-7", baggage.FromContext(ctx).Member(BaggageKey).Value())

	member, err := baggage.NewMember(BaggageKey, "from-upstream")
	require.NoError(t, err)
	bag, err := baggage.New(member)
	require.NoError(t, err)
	incoming := baggage.ContextWithBaggage(context.Background(), bag)
	assert.Equal(t, "from-upstream", ExtractCorrelationID(incoming))
}

func TestRejectsMalformedIDs(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, ContextWithCorrelationID(ctx, "has space"))
	assert.Equal(t, ctx, ContextWithCorrelationID(ctx, strings.Repeat("a", 129)))

	_, cid := EnsureCorrelationID(ContextWithCorrelationID(ctx, "bad\nid"))
	_, err := ulid.Parse(cid)
	assert.NoError(t, err)
}
