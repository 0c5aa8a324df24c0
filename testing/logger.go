package testing

import (
	"fmt"
	"strings"
	"testing"

	"github.com/arloliu/intake/types"
)

// NewTestLogger creates a new logger instance that writes to the testing.T logger.
// This is useful for seeing runner logs during test runs.
func NewTestLogger(t *testing.T) types.Logger {
	return &testLogger{t: t}
}

type testLogger struct {
	t *testing.T
}

var _ types.Logger = (*testLogger)(nil)

func (l *testLogger) Debug(msg string, keysAndValues ...any) {
	l.t.Logf("DEBUG: %s%s", msg, formatKeyValues(keysAndValues))
}

func (l *testLogger) Info(msg string, keysAndValues ...any) {
	l.t.Logf("INFO: %s%s", msg, formatKeyValues(keysAndValues))
}

func (l *testLogger) Warn(msg string, keysAndValues ...any) {
	l.t.Logf("WARN: %s%s", msg, formatKeyValues(keysAndValues))
}

func (l *testLogger) Error(msg string, keysAndValues ...any) {
	l.t.Logf("ERROR: %s%s", msg, formatKeyValues(keysAndValues))
}

func (l *testLogger) Fatal(msg string, keysAndValues ...any) {
	l.t.Fatalf("FATAL: %s%s", msg, formatKeyValues(keysAndValues))
}

// formatKeyValues renders key-value pairs as " k=v k=v".
func formatKeyValues(keysAndValues []any) string {
	var b strings.Builder
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fmt.Fprintf(&b, " %v=%v", keysAndValues[i], keysAndValues[i+1])
		} else {
			fmt.Fprintf(&b, " %v=<missing>", keysAndValues[i])
		}
	}

	return b.String()
}
