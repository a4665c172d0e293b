package logging

import (
	"maps"

	"github.com/goliatone/go-blogpub/pkg/interfaces"
)

// WithFields attaches fields to logger when it implements
// interfaces.FieldsLogger. Loggers without field support are returned as is.
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
