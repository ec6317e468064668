package logger

import (
	"context"
	"os"
	"strings"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type contextKey string

const requestIDKey contextKey = "request_id"

var (
	log         = newLogger(zap.InfoLevel)
	serviceName = "lead-conversion"
)

// getRequestID retrieves request_id from context, returns empty string if missing
func getRequestID(ctx context.Context) string {
	if v := ctx.Value(requestIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// WithRequestID returns a new context with the given request ID
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID returns the request ID stored by WithRequestID.
func RequestID(ctx context.Context) string {
	return getRequestID(ctx)
}

func parseLevel(logLevel string) zapcore.Level {
	switch strings.ToLower(logLevel) {
	case "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "warn", "warning":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

func newLogger(level zapcore.Level) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.LevelKey = "log_level"
	encoderConfig.MessageKey = "message"
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.StacktraceKey = ""

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.Lock(os.Stdout),
		zap.NewAtomicLevelAt(level),
	)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
}

// Init sets up the global JSON logger.
func Init(logLevel, service string) {
	if service != "" {
		serviceName = service
	}
	log = newLogger(parseLevel(logLevel))
}

// SetLogger replaces the global logger and returns the previous one.
func SetLogger(l *zap.Logger) *zap.Logger {
	previous := log
	log = l
	return previous
}

// Sync flushes buffered entries.
func Sync() {
	_ = log.Sync()
}

func contextFields(ctx context.Context, fields []zap.Field) []zap.Field {
	if reqID := getRequestID(ctx); reqID != "" {
		fields = append(fields, zap.String("request_id", reqID))
	}
	if spanContext := trace.SpanContextFromContext(ctx); spanContext.HasTraceID() {
		fields = append(fields, zap.String("trace_id", spanContext.TraceID().String()))
	}
	return append(fields, zap.String("service_name", serviceName))
}

// CONTEXT-AWARE LOGGING //

// CtxInfo logs an info message with request and trace IDs
func CtxInfo(ctx context.Context, msg string, fields ...zap.Field) {
	log.Info(msg, contextFields(ctx, fields)...)
}

// CtxError logs an error with request and trace IDs and error detail
func CtxError(ctx context.Context, msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	log.Error(msg, contextFields(ctx, fields)...)
}

// CtxDebug logs debug messages
func CtxDebug(ctx context.Context, msg string, fields ...zap.Field) {
	log.Debug(msg, contextFields(ctx, fields)...)
}

// CtxWarn logs warnings
func CtxWarn(ctx context.Context, msg string, fields ...zap.Field) {
	log.Warn(msg, contextFields(ctx, fields)...)
}

// NON-CONTEXT LOGGING //

func Info(msg string, fields ...zap.Field) {
	log.Info(msg, fields...)
}

func Debug(msg string, fields ...zap.Field) {
	log.Debug(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	log.Warn(msg, fields...)
}

func Error(msg string, err error, fields ...zap.Field) {
	log.Error(msg, append(fields, zap.Error(err))...)
}
