// Package testing provides test utilities for the intake library.
//
// It follows Go's convention of shipping testing helpers in a dedicated
// package (similar to net/http/httptest).
//
// Key utilities:
//   - StartEmbeddedNATS: single NATS server with JetStream
//   - CreateJetStreamKV: convenience wrapper for KV bucket creation
//   - Drain, DrainBatches: poll a partition to exhaustion
//   - NewTestLogger: types.Logger writing to t.Logf
//
// Example usage:
//
//	import (
//	    "testing"
//	    intaketest "github.com/arloliu/intake/testing"
//	)
//
//	func TestMyConnector(t *testing.T) {
//	    part, _ := src.BuildPart(t.Context(), "p0", nil)
//	    items := intaketest.Drain(t, part, 100)
//	    require.Equal(t, want, items)
//	}
package testing
