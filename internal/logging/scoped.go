package logging

import (
	"slices"

	"github.com/arloliu/intake/types"
)

// Scoper is implemented by loggers that can carry fixed key-value pairs natively.
type Scoper interface {
	With(keysAndValues ...any) types.Logger
}

// With returns a logger that adds keysAndValues to every message logged
// through it.
//
// Loggers implementing Scoper scope themselves; any other logger is wrapped.
//
// Parameters:
//   - l: logger to scope
//   - keysAndValues: alternating keys and values, e.g. "step", "ingest"
//
// Returns:
//   - types.Logger: the scoped logger
func With(l types.Logger, keysAndValues ...any) types.Logger {
	if len(keysAndValues) == 0 {
		return l
	}
	if s, ok := l.(Scoper); ok {
		return s.With(keysAndValues...)
	}

	return &scopedLogger{inner: l, fields: slices.Clone(keysAndValues)}
}

type scopedLogger struct {
	inner  types.Logger
	fields []any
}

func (s *scopedLogger) With(keysAndValues ...any) types.Logger {
	return &scopedLogger{inner: s.inner, fields: s.merge(keysAndValues)}
}

func (s *scopedLogger) merge(keysAndValues []any) []any {
	out := make([]any, 0, len(s.fields)+len(keysAndValues))
	out = append(out, s.fields...)

	return append(out, keysAndValues...)
}

func (s *scopedLogger) Debug(msg string, keysAndValues ...any) {
	s.inner.Debug(msg, s.merge(keysAndValues)...)
}

func (s *scopedLogger) Info(msg string, keysAndValues ...any) {
	s.inner.Info(msg, s.merge(keysAndValues)...)
}

func (s *scopedLogger) Warn(msg string, keysAndValues ...any) {
	s.inner.Warn(msg, s.merge(keysAndValues)...)
}

func (s *scopedLogger) Error(msg string, keysAndValues ...any) {
	s.inner.Error(msg, s.merge(keysAndValues)...)
}

func (s *scopedLogger) Fatal(msg string, keysAndValues ...any) {
	s.inner.Fatal(msg, s.merge(keysAndValues)...)
}
