package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldRunID is the structured log field key for the ranking run identifier.
	FieldRunID = "run_id"
	// FieldFilename is the structured log field key for the processed document name.
	FieldFilename = "filename"
	// FieldFormat is the structured log field key for the detected document format.
	FieldFormat = "format"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// If the logger is nil or no fields are supplied, the input logger is returned
// unchanged, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// DocumentFields returns the fields describing a single input document.
// The format is omitted for files without an extension.
func DocumentFields(filename, format string) []zap.Field {
	return StringFields(
		StringField{Key: FieldFilename, Value: filename},
		StringField{Key: FieldFormat, Value: format},
	)
}

// WithDocument attaches the document fields to the provided logger.
func WithDocument(logger *zap.Logger, filename, format string) *zap.Logger {
	return WithFields(logger, DocumentFields(filename, format)...)
}

// WithRun attaches the run identifier to the provided logger.
func WithRun(logger *zap.Logger, runID string) *zap.Logger {
	return WithFields(logger, StringFields(StringField{Key: FieldRunID, Value: runID})...)
}
