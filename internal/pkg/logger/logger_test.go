package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// helper to capture log entries at the given level
func setupTestLogger(t *testing.T, level zapcore.Level) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(level)
	previous := SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(previous) })
	return logs
}

func TestGetRequestID(t *testing.T) {
	ctxWithID := WithRequestID(context.Background(), "id123")
	assert.Equal(t, "id123", getRequestID(ctxWithID))
	assert.Equal(t, "id123", RequestID(ctxWithID))

	assert.Empty(t, getRequestID(context.Background()))

	ctxWrongType := context.WithValue(context.Background(), requestIDKey, 42)
	assert.Empty(t, getRequestID(ctxWrongType))
}

func TestCtxInfo_InjectsRequestID(t *testing.T) {
	logs := setupTestLogger(t, zap.DebugLevel)

	ctx := WithRequestID(context.Background(), "req-edge")
	CtxInfo(ctx, "info with request ID", zap.String("leadId", "00Q"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "info with request ID", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "req-edge", fields["request_id"])
	assert.Equal(t, "00Q", fields["leadId"])
	assert.Equal(t, serviceName, fields["service_name"])
	assert.NotContains(t, fields, "trace_id")
}

func TestCtxWarn_InjectsTraceID(t *testing.T) {
	logs := setupTestLogger(t, zap.DebugLevel)

	traceID := trace.TraceID{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	spanContext := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  trace.SpanID{1, 2, 3, 4, 5, 6, 7, 8},
	})
	ctx := trace.ContextWithSpanContext(context.Background(), spanContext)

	CtxWarn(ctx, "warn with trace")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zap.WarnLevel, logs.All()[0].Level)
	assert.Equal(t, traceID.String(), logs.All()[0].ContextMap()["trace_id"])
	assert.NotContains(t, logs.All()[0].ContextMap(), "request_id")
}

func TestCtxError_IncludesError(t *testing.T) {
	logs := setupTestLogger(t, zap.DebugLevel)

	ctx := WithRequestID(context.Background(), "req-error")
	CtxError(ctx, "error occurred", errors.New("fatal error"))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "fatal error", fields["error"])
	assert.Equal(t, "req-error", fields["request_id"])
}

func TestNonContextError_IncludesErrorField(t *testing.T) {
	logs := setupTestLogger(t, zap.DebugLevel)

	Error("error message", errors.New("fail"))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "fail", fields["error"])
	assert.NotContains(t, fields, "request_id")
}

func TestLogLevelFiltering(t *testing.T) {
	logs := setupTestLogger(t, zap.InfoLevel)

	Debug("debug should not show")
	CtxDebug(context.Background(), "ctx debug should not show")
	Info("info should show")
	Warn("warn should show")

	assert.Equal(t, 2, logs.Len())
	assert.Equal(t, 1, logs.FilterMessage("info should show").Len())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zap.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zap.InfoLevel, parseLevel("INFO"))
	assert.Equal(t, zap.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zap.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zap.InfoLevel, parseLevel("verbose"))
}

func TestInit_NoPanic(t *testing.T) {
	previous := SetLogger(log)
	t.Cleanup(func() { SetLogger(previous) })

	assert.NotPanics(t, func() {
		Init("debug", "lead-conversion-test")
		Info("after init")
	})
	assert.Equal(t, "lead-conversion-test", serviceName)
	serviceName = "lead-conversion"
}
