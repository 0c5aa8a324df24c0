package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
//
// This interface composes smaller, domain-focused interfaces.
type MetricsCollector interface {
	PollMetrics
	CheckpointMetrics
}

// PollMetrics defines metrics for the partition poll loop.
type PollMetrics interface {
	// RecordBatch records a non-empty batch emitted by a partition.
	//
	// Parameters:
	//   - key: partition key
	//   - size: number of items in the batch
	RecordBatch(key string, size int)

	// RecordEmptyPoll records a NextBatch call that returned no items.
	RecordEmptyPoll(key string)

	// RecordExhausted records a partition reaching permanent exhaustion.
	RecordExhausted(key string)

	// RecordPollLatency records how long a NextBatch call took.
	//
	// Parameters:
	//   - duration: Time taken in seconds
	RecordPollLatency(duration float64)

	// RecordLivePartitions sets the number of partitions still being polled (gauge metric).
	RecordLivePartitions(count int)
}

// CheckpointMetrics defines metrics for snapshot persistence.
type CheckpointMetrics interface {
	// RecordSnapshot records an epoch snapshot round.
	//
	// Parameters:
	//   - duration: Time taken in seconds
	//   - success: true if every partition state was stored
	RecordSnapshot(duration float64, success bool)
}
