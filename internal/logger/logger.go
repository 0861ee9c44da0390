package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu     sync.RWMutex
	global *slog.Logger
)

// ParseLevel maps a config string onto a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Initialize sets up the global logger writing to stdout.
func Initialize(level, format string) {
	InitializeWithWriter(os.Stdout, level, format)
}

// InitializeWithWriter sets up the global logger on an arbitrary writer.
func InitializeWithWriter(w io.Writer, level, format string) {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	h := slog.Handler(slog.NewTextHandler(w, opts))
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(w, opts)
	}

	l := slog.New(h).With("app", "carrental")
	mu.Lock()
	global = l
	mu.Unlock()
	slog.SetDefault(l)
}

// Get returns the global logger, initializing it with defaults if needed.
func Get() *slog.Logger {
	mu.RLock()
	l := global
	mu.RUnlock()
	if l == nil {
		Initialize("info", "text")
		return Get()
	}
	return l
}

func Debug(msg string, args ...any) { Get().Debug(msg, args...) }
func Info(msg string, args ...any)  { Get().Info(msg, args...) }
func Warn(msg string, args ...any)  { Get().Warn(msg, args...) }
func Error(msg string, args ...any) { Get().Error(msg, args...) }

func InfoContext(ctx context.Context, msg string, args ...any) {
	Get().InfoContext(ctx, msg, args...)
}

func WarnContext(ctx context.Context, msg string, args ...any) {
	Get().WarnContext(ctx, msg, args...)
}

func ErrorContext(ctx context.Context, msg string, args ...any) {
	Get().ErrorContext(ctx, msg, args...)
}

// WithService returns a logger tagged with the service name.
func WithService(serviceName string) *slog.Logger {
	return Get().With("service", serviceName)
}

func prefixed(args []any, head ...any) []any {
	return append(head, args...)
}

// EnterMethod logs method entry at debug level.
func EnterMethod(method string, args ...any) {
	Get().Debug("→ enter", prefixed(args, "method", method)...)
}

// ExitMethod logs a successful method exit at debug level.
func ExitMethod(method string, args ...any) {
	Get().Debug("← exit", prefixed(args, "method", method)...)
}

// ExitMethodWithError logs a failed method exit. Business rejections
// (conflicts, validation) go out at warn, everything else at error.
func ExitMethodWithError(method string, err error, expected bool, args ...any) {
	fields := prefixed(args, "method", method, "error", err)
	if expected {
		Get().Warn("← rejected", fields...)
		return
	}
	Get().Error("← failed", fields...)
}

// DatabaseCall logs a database operation at debug level.
func DatabaseCall(operation string, args ...any) {
	Get().Debug("db →", prefixed(args, "operation", operation)...)
}

// DatabaseResult logs a database operation result.
func DatabaseResult(operation string, rowsAffected int64, err error, args ...any) {
	outcome("db ←", err, prefixed(args, "operation", operation, "rows_affected", rowsAffected))
}

// ExternalServiceCall logs a call to an external collaborator.
func ExternalServiceCall(service, operation string, args ...any) {
	Get().Debug("external →", prefixed(args, "service", service, "operation", operation)...)
}

// ExternalServiceResult logs the result of a call to an external collaborator.
func ExternalServiceResult(service, operation string, err error, args ...any) {
	outcome("external ←", err, prefixed(args, "service", service, "operation", operation))
}

func outcome(msg string, err error, fields []any) {
	if err != nil {
		Get().Error(msg+" failed", append(fields, "error", err)...)
		return
	}
	Get().Debug(msg+" ok", fields...)
}
