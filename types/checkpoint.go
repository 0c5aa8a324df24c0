package types

import "context"

// Checkpoint is the recovery record of one partition.
type Checkpoint struct {
	// Epoch is the snapshot epoch the state was taken at.
	Epoch uint64 `json:"epoch"`

	// State is the partition snapshot. Nil when the partition reported none.
	State ResumeState `json:"state"`
}

// CheckpointStore persists partition snapshots between executions.
//
// The runtime saves the snapshot of every stateful partition at each epoch
// boundary and loads it back when the partition is rebuilt. Stores treat the
// state as opaque bytes.
//
// Implementations:
//   - checkpoint.Memory: process-local map, for tests and single-process runs
//   - checkpoint.KV: NATS JetStream key-value bucket
type CheckpointStore interface {
	// Load returns the latest checkpoint of a partition.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - stepID: dataflow step owning the partition
	//   - key: partition key
	//
	// Returns:
	//   - Checkpoint: stored checkpoint (zero value when not found)
	//   - bool: true if a checkpoint was found
	//   - error: storage failure
	Load(ctx context.Context, stepID, key string) (Checkpoint, bool, error)

	// Save stores the checkpoint of a partition, replacing any earlier one.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - stepID: dataflow step owning the partition
	//   - key: partition key
	//   - cp: checkpoint to store
	//
	// Returns:
	//   - error: storage failure
	Save(ctx context.Context, stepID, key string, cp Checkpoint) error
}
