package otel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTracer_NoopWithoutSetup(t *testing.T) {
	tracer = nil

	_, span := GetTracer().Start(context.Background(), "noop")
	defer span.End()

	assert.False(t, span.SpanContext().IsValid())
	assert.False(t, span.IsRecording())
}

func TestSetup_EmptyCollectorDisablesTracing(t *testing.T) {
	tracer = nil

	shutdown, err := Setup(context.Background(), "lead-conversion", "")
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
	assert.Nil(t, tracer)
}

func TestSetup_InstallsTracer(t *testing.T) {
	tracer = nil
	t.Cleanup(func() { tracer = nil })

	shutdown, err := Setup(context.Background(), "lead-conversion", "localhost:4318")
	require.NoError(t, err)

	ctx, span := GetTracer().Start(context.Background(), "convert")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	// Nothing listens on the collector port, so only the call itself matters.
	_ = shutdown(ctx)
}

func TestGetMeter_UsableWithoutSetup(t *testing.T) {
	counter, err := GetMeter("lead-conversion").Int64Counter("requests")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)
}
