package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracerWithoutCollectorIsNoop(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), ServiceName, "")
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	_, span := Tracer().Start(context.Background(), "noop")
	defer span.End()
	assert.False(t, span.SpanContext().IsValid())
}

func TestAttributeHelpers(t *testing.T) {
	assert.Equal(t, "jobs", String("table", "jobs").Value.AsString())
	assert.Equal(t, int64(3), Int("rows", 3).Value.AsInt64())
}
