// Package checkpoint provides types.CheckpointStore implementations.
//
//   - Memory: process-local store, for tests and single-process runs
//   - KV: NATS JetStream key-value bucket, shared by all workers of an execution
//
// Stores treat partition state as opaque bytes and keep only the latest
// checkpoint of each (step, partition) pair.
package checkpoint
