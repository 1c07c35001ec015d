package log

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
)

// DefaultContextProvider returns the context used by the context-unaware
// logging methods. It defaults to [context.TODO].
var DefaultContextProvider func() context.Context = context.TODO

// defaultLogger holds the process-wide logger used by the package-level
// logging functions.
var defaultLogger atomic.Pointer[Logger]

func init() {
	l := Make(os.Stderr, WithFormat(FormatText))
	defaultLogger.Store(&l)
}

// Default returns the process-wide logger.
func Default() Logger {
	return *defaultLogger.Load()
}

// Config layers the given options onto the process-wide logger and
// installs the result, returning it. The output writer is retained
// unless replaced with [WithOutput].
func Config(opts ...Option) Logger {
	l := Default().Wrap(opts...)
	defaultLogger.Store(&l)

	return l
}

// SetDefault replaces the process-wide logger.
func SetDefault(l Logger) {
	defaultLogger.Store(&l)
}

// Trace logs a message at Trace level using the process-wide logger.
func Trace(msg string, attrs ...slog.Attr) {
	Default().TraceContext(DefaultContextProvider(), msg, attrs...)
}

// Debug logs a message at Debug level using the process-wide logger.
func Debug(msg string, attrs ...slog.Attr) {
	Default().DebugContext(DefaultContextProvider(), msg, attrs...)
}

// Info logs a message at Info level using the process-wide logger.
func Info(msg string, attrs ...slog.Attr) {
	Default().InfoContext(DefaultContextProvider(), msg, attrs...)
}

// Warn logs a message at Warn level using the process-wide logger.
func Warn(msg string, attrs ...slog.Attr) {
	Default().WarnContext(DefaultContextProvider(), msg, attrs...)
}

// Error logs a message at Error level using the process-wide logger.
func Error(msg string, attrs ...slog.Attr) {
	Default().ErrorContext(DefaultContextProvider(), msg, attrs...)
}

// TraceContext logs a message at Trace level using the process-wide logger.
func TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().TraceContext(ctx, msg, attrs...)
}

// DebugContext logs a message at Debug level using the process-wide logger.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().DebugContext(ctx, msg, attrs...)
}

// InfoContext logs a message at Info level using the process-wide logger.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().InfoContext(ctx, msg, attrs...)
}

// WarnContext logs a message at Warn level using the process-wide logger.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().WarnContext(ctx, msg, attrs...)
}

// ErrorContext logs a message at Error level using the process-wide logger.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().ErrorContext(ctx, msg, attrs...)
}
