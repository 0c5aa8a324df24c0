// Package metrics provides types.MetricsCollector implementations.
package metrics

import "github.com/arloliu/intake/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external
// metrics collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A new no-op metrics collector instance
//
// Example:
//
//	runner, err := intake.NewFixedRunner(cfg, src, sink, intake.WithMetrics(metrics.NewNop()))
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// PollMetrics implementation

// RecordBatch discards the batch metric.
func (n *NopMetrics) RecordBatch(_ /* key */ string, _ /* size */ int) {
	// No-op
}

// RecordEmptyPoll discards the empty poll metric.
func (n *NopMetrics) RecordEmptyPoll(_ /* key */ string) {
	// No-op
}

// RecordExhausted discards the exhaustion metric.
func (n *NopMetrics) RecordExhausted(_ /* key */ string) {
	// No-op
}

// RecordPollLatency discards the poll latency metric.
func (n *NopMetrics) RecordPollLatency(_ /* duration */ float64) {
	// No-op
}

// RecordLivePartitions discards the live partition gauge.
func (n *NopMetrics) RecordLivePartitions(_ /* count */ int) {
	// No-op
}

// CheckpointMetrics implementation

// RecordSnapshot discards the snapshot metric.
func (n *NopMetrics) RecordSnapshot(_ /* duration */ float64, _ /* success */ bool) {
	// No-op
}
