package filestore

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with filestore-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithEndpoint adds the root endpoint to every record.
func (l *Logger) WithEndpoint(endpoint string) *Logger {
	return &Logger{
		Logger: l.Logger.With("endpoint", endpoint),
	}
}

// logFailure logs a failed operation. Canceled calls are not failures of the
// remote filesystem and go to debug.
func (l *Logger) logFailure(ctx context.Context, msg, p string, err error) {
	if isCanceled(err) {
		l.DebugContext(ctx, msg, "path", p, "error", err)
		return
	}
	l.ErrorContext(ctx, msg, "path", p, "error", err)
}

// LogCreate logs a create operation.
func (l *Logger) LogCreate(ctx context.Context, p string, err error) {
	switch {
	case err == nil:
		l.InfoContext(ctx, "file created", "path", p)
	case isExist(err):
		l.InfoContext(ctx, "file or directory already exists", "path", p)
	default:
		l.logFailure(ctx, "create failed", p, err)
	}
}

// LogMkdir logs a mkdir operation.
func (l *Logger) LogMkdir(ctx context.Context, p string, err error) {
	switch {
	case err == nil:
		l.InfoContext(ctx, "directory created", "path", p)
	case isExist(err):
		l.InfoContext(ctx, "file or directory already exists", "path", p)
	default:
		l.logFailure(ctx, "mkdir failed", p, err)
	}
}

// LogAppend logs an append operation.
func (l *Logger) LogAppend(ctx context.Context, p string, n int, err error) {
	switch {
	case err == nil:
		l.InfoContext(ctx, "content appended",
			"path", p,
			"bytes", n,
		)
	case isAbsent(err):
		l.InfoContext(ctx, "file doesn't exist", "path", p)
	default:
		l.ErrorContext(ctx, "append failed",
			"path", p,
			"bytes", n,
			"error", err,
		)
	}
}

// LogRead logs a read operation.
func (l *Logger) LogRead(ctx context.Context, p string, n int, err error) {
	switch {
	case err == nil:
		l.DebugContext(ctx, "file read",
			"path", p,
			"bytes", n,
		)
	case isAbsent(err):
		l.InfoContext(ctx, "file doesn't exist", "path", p)
	default:
		l.ErrorContext(ctx, "read failed",
			"path", p,
			"bytes", n,
			"error", err,
		)
	}
}

// LogDelete logs a delete operation.
func (l *Logger) LogDelete(ctx context.Context, p string, err error) {
	switch {
	case err == nil:
		l.InfoContext(ctx, "file or directory deleted", "path", p)
	case isAbsent(err):
		l.InfoContext(ctx, "file or directory doesn't exist", "path", p)
	default:
		l.logFailure(ctx, "delete failed", p, err)
	}
}

// LogList logs a list operation.
func (l *Logger) LogList(ctx context.Context, p string, entries int, err error) {
	switch {
	case err == nil:
		l.DebugContext(ctx, "directory listed",
			"path", p,
			"entries", entries,
		)
	case isAbsent(err):
		l.InfoContext(ctx, "directory doesn't exist", "path", p)
	default:
		l.ErrorContext(ctx, "list failed",
			"path", p,
			"entries", entries,
			"error", err,
		)
	}
}

// LogIsDirectory logs an isDirectory probe. The probe never fails, so errors go to debug.
func (l *Logger) LogIsDirectory(ctx context.Context, p string, isDir bool, err error) {
	if err != nil && !isAbsent(err) {
		l.DebugContext(ctx, "directory check failed",
			"path", p,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "directory check",
		"path", p,
		"is_dir", isDir,
	)
}

// LogOpen logs obtaining the remote filesystem client.
func (l *Logger) LogOpen(ctx context.Context, endpoint string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "unable to connect to filesystem",
			"endpoint", endpoint,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "connected to filesystem",
			"endpoint", endpoint,
		)
	}
}

// LogClose logs releasing the remote filesystem client.
func (l *Logger) LogClose(ctx context.Context, err error) {
	if err != nil {
		l.ErrorContext(ctx, "close failed", "error", err)
	} else {
		l.DebugContext(ctx, "filesystem client closed")
	}
}
