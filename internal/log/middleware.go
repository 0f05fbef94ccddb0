package log

import (
	"context"
	"log/slog"
	"net/http"
)

// ContextKey type for context keys
type ContextKey string

const (
	// LoggerContextKey is the context key for the logger
	LoggerContextKey ContextKey = "logger"
)

// Middleware creates HTTP middleware that adds a logger to the request context
func Middleware(logger *Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), LoggerContextKey, logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext extracts a logger from the request context
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return &Logger{
		Logger:    slog.Default(),
		component: "unknown",
	}
}

// RequestIDMiddleware adds request ID to logger context
func RequestIDMiddleware(extractRequestID func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := extractRequestID(r)

			logger := FromContext(r.Context()).With(FieldRequestID, requestID)

			ctx := context.WithValue(r.Context(), LoggerContextKey, logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StructuredLogger provides structured logging methods with context awareness
type StructuredLogger struct {
	logger *Logger
}

// NewStructuredLogger creates a new structured logger
func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{
		logger: logger,
	}
}

// LogEntryAdded logs a successful ledger append
func (sl *StructuredLogger) LogEntryAdded(ctx context.Context, index int, kind, category, amount string) {
	fields := NewFields().
		WithEntry(kind, category, amount).
		WithIndex(index).
		WithOperation(OpAdd).
		WithComponent(ComponentLedger)

	sl.logger.Logger.InfoContext(ctx, "Entry added", fields.ToSlice()...)
}

// LogEntryRemoved logs a successful ledger removal
func (sl *StructuredLogger) LogEntryRemoved(ctx context.Context, index int, kind, category, amount string) {
	fields := NewFields().
		WithEntry(kind, category, amount).
		WithIndex(index).
		WithOperation(OpRemove).
		WithComponent(ComponentLedger)

	sl.logger.Logger.InfoContext(ctx, "Entry removed", fields.ToSlice()...)
}

// LogRejected logs an operation refused by ledger validation
func (sl *StructuredLogger) LogRejected(ctx context.Context, operation string, err error) {
	fields := NewFields().
		WithError(err).
		WithErrorType(ErrorTypeValidation).
		WithOperation(operation).
		WithComponent(ComponentLedger)

	sl.logger.Logger.WarnContext(ctx, "Ledger operation rejected", fields.ToSlice()...)
}

// LogError logs an error with structured context
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, component string, operation string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	allFields := fields.
		WithError(err).
		WithOperation(operation).
		WithComponent(component)

	sl.logger.Logger.ErrorContext(ctx, msg, allFields.ToSlice()...)
}
