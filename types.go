package intake

import "github.com/arloliu/intake/types"

// Re-export types from the types package.
//
// Connector packages depend on types alone, so they never import the root
// package; applications get intake.Batch, intake.Logger and friends here.
type (
	ResumeState = types.ResumeState
	BatchStatus = types.BatchStatus
	Checkpoint  = types.Checkpoint
	SourceKind  = types.SourceKind
)

// Batch is the result of one NextBatch call.
type Batch[T any] = types.Batch[T]

// Partition is an independently pollable read head.
type Partition[T any] = types.Partition[T]

// StatefulPartition is a partition that supports snapshot and resume.
type StatefulPartition[T any] = types.StatefulPartition[T]

// StatelessPartition is a partition without resume support.
type StatelessPartition[T any] = types.StatelessPartition[T]

// FixedPartitionedSource is a source with a fixed set of resumable partitions.
type FixedPartitionedSource[T any] = types.FixedPartitionedSource[T]

// DynamicSource is a source building one stateless partition per worker.
type DynamicSource[T any] = types.DynamicSource[T]

// Re-export interfaces from the types package for convenience.
type (
	Awaker             = types.Awaker
	Snapshotter        = types.Snapshotter
	CheckpointStore    = types.CheckpointStore
	AssignmentStrategy = types.AssignmentStrategy
	MetricsCollector   = types.MetricsCollector
	Logger             = types.Logger
	Hooks              = types.Hooks
)

// Re-export constants from the types package.
const (
	BatchEmpty     = types.BatchEmpty
	BatchReady     = types.BatchReady
	BatchExhausted = types.BatchExhausted

	KindUnknown          = types.KindUnknown
	KindFixedPartitioned = types.KindFixedPartitioned
	KindDynamic          = types.KindDynamic

	DefaultIdleDelay = types.DefaultIdleDelay
)
