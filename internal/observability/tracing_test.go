package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.uber.org/zap"
)

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		rate float64
		root string
	}{
		{1, "root:AlwaysOnSampler"},
		{2, "root:AlwaysOnSampler"},
		{0, "root:AlwaysOffSampler"},
		{-1, "root:AlwaysOffSampler"},
		{0.25, "root:TraceIDRatioBased{0.25}"},
	}
	for _, tt := range tests {
		desc := samplerFor(tt.rate).Description()
		assert.Contains(t, desc, "ParentBased")
		assert.Contains(t, desc, tt.root, "rate %v", tt.rate)
	}
}

func TestInitTracing_RequiresEndpoint(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), zap.NewNop(), "campaigninsight", "", 1)
	require.ErrorIs(t, err, ErrNoTracingEndpoint)
	assert.Nil(t, shutdown)
}

func TestNewResource(t *testing.T) {
	t.Setenv("ENV", "staging")

	attrs := newResource("campaigninsight").Set()
	name, ok := attrs.Value(semconv.ServiceNameKey)
	require.True(t, ok)
	assert.Equal(t, "campaigninsight", name.AsString())

	env, ok := attrs.Value("environment")
	require.True(t, ok)
	assert.Equal(t, "staging", env.AsString())
}
