package logging

import (
	"maps"

	"github.com/goliatone/go-cms-zones/pkg/interfaces"
)

// WithFields attaches fields when logger implements interfaces.FieldsLogger.
// Loggers without field support are returned unchanged.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		copied := make(map[string]any, len(fields))
		maps.Copy(copied, fields)
		return fieldsLogger.WithFields(copied)
	}

	return logger
}

// OrNoOp returns logger, or the no-op logger when logger is nil.
func OrNoOp(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return NoOp()
	}
	return logger
}
