package log

import (
	"context"
	stderrors "errors"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/evbook/evbook/internal/errors"
)

type ctxKey struct{}

// ContextWithRequestID returns a context carrying the request id that
// WithContext and the *Context log methods attach as "request_id".
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestIDFromContext returns the request id stored by ContextWithRequestID.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}

// Logger provides structured logging backed by zerolog
type Logger struct {
	zl     zerolog.Logger
	config Config
	redact redactor
}

// New creates a new Logger with the given configuration
func New(config Config) *Logger {
	out := config.writer()
	if config.Format == FormatText {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	zctx := zerolog.New(out).
		Level(config.Level.zerolog()).
		With().
		Timestamp()
	if config.Service != "" {
		zctx = zctx.Str("service", config.Service)
	}
	if config.Version != "" {
		zctx = zctx.Str("version", config.Version)
	}
	if config.Caller {
		zctx = zctx.Caller()
	}

	return &Logger{
		zl:     zctx.Logger(),
		config: config,
		redact: newRedactor(config.Redact),
	}
}

// Nop returns a logger that writes nothing.
func Nop() *Logger {
	cfg := DefaultConfig()
	cfg.Writer = io.Discard
	return &Logger{zl: zerolog.Nop(), config: cfg, redact: newRedactor(nil)}
}

func (l *Logger) derive(zl zerolog.Logger) *Logger {
	return &Logger{zl: zl, config: l.config, redact: l.redact}
}

// With returns a new Logger with the given key/value pairs added to all log entries
func (l *Logger) With(args ...any) *Logger {
	if len(args) == 0 {
		return l
	}
	return l.derive(l.zl.With().Fields(l.redact.apply(args)).Logger())
}

// Component returns a new Logger tagged with the emitting component
func (l *Logger) Component(name string) *Logger {
	return l.derive(l.zl.With().Str("component", name).Logger())
}

// WithError adds error details to the logger
// If the error is an EvbookError, it adds error_code and suggestions
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}

	var appErr *errors.EvbookError
	if stderrors.As(err, &appErr) {
		args := []any{
			"error", appErr.Message,
			"error_code", string(appErr.Code),
		}

		if len(appErr.Suggestions) > 0 {
			args = append(args, "suggestions", appErr.Suggestions)
		}

		if appErr.Cause != nil {
			args = append(args, "cause", appErr.Cause.Error())
		}

		return l.With(args...)
	}

	return l.With("error", err.Error())
}

// WithContext returns a new Logger with context values added
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if id, ok := RequestIDFromContext(ctx); ok {
		return l.With("request_id", id)
	}
	return l
}

func (l *Logger) log(ev *zerolog.Event, msg string, args []any) {
	if len(args) > 0 {
		ev = ev.Fields(l.redact.apply(args))
	}
	ev.Msg(msg)
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, args ...any) {
	l.log(l.zl.Debug(), msg, args)
}

// DebugContext logs a debug message with context
func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.WithContext(ctx).Debug(msg, args...)
}

// Info logs an info message
func (l *Logger) Info(msg string, args ...any) {
	l.log(l.zl.Info(), msg, args)
}

// InfoContext logs an info message with context
func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.WithContext(ctx).Info(msg, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, args ...any) {
	l.log(l.zl.Warn(), msg, args)
}

// WarnContext logs a warning message with context
func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.WithContext(ctx).Warn(msg, args...)
}

// Error logs an error message
func (l *Logger) Error(msg string, args ...any) {
	l.log(l.zl.Error(), msg, args)
}

// ErrorContext logs an error message with context
func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.WithContext(ctx).Error(msg, args...)
}

// Config returns the logger configuration
func (l *Logger) Config() Config {
	return l.config
}
