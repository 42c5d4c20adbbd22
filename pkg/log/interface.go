// Package log provides a structured logging interface for mllib estimators.
//
// The interface is slog-shaped so that any backend can sit behind it; the
// default backend is zerolog (see NewZerologLogger). Estimators obtain a
// logger from GetLogger and attach their identity with With:
//
//	logger := log.GetLogger().With(
//	    log.ModelNameKey, "LinearRegression",
//	)
//	logger.Debug("Training started",
//	    log.OperationKey, log.OperationTrain,
//	    log.SamplesKey, 5,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// Fields are alternating key/value pairs. An error passed in key position is
// logged under ErrAttrKey, so logger.Error("msg", err, "k", v) is accepted.
type Logger interface {
	// Debug logs a debug-level message with optional structured fields.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional structured fields.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional structured fields.
	// Precondition violations reported by estimators are logged here.
	Warn(msg string, fields ...any)

	// Error logs an error-level message with optional structured fields.
	Error(msg string, fields ...any)

	// With returns a new Logger that includes the given fields in every entry.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits entries at the given level.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents the severity of a log entry. Values match log/slog.
type Level int

const (
	LevelDebug Level = -4 // Detailed diagnostic information
	LevelInfo  Level = 0  // General operational information
	LevelWarn  Level = 4  // Warning conditions
	LevelError Level = 8  // Error conditions
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
