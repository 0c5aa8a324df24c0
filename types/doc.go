// Package types provides core type definitions and interfaces for the intake library.
//
// This package contains the contracts shared by the root intake package, the
// batch adapters, the built-in sources and the checkpoint stores. Keeping them
// here avoids import cycles between the root package and its implementations.
//
// Key types:
//   - Batch: tri-state NextBatch result (ready, empty, exhausted)
//   - Partition, StatefulPartition, StatelessPartition: pollable read heads
//   - Awaker, Snapshotter: optional partition capabilities
//   - FixedPartitionedSource, DynamicSource: source variants
//   - CheckpointStore: snapshot persistence
//   - Logger, MetricsCollector, Hooks: observability
package types
