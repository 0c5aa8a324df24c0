// Package source provides ready-made input sources.
//
//   - SimplePolling: calls a producer at a fixed, optionally aligned interval
//   - Static: in-memory fixed-partitioned source with offset resume state
//   - Sharded: dynamic source hashing a key space across workers
//   - Local: narrows a global key listing to one worker's share
//
// Connectors for real systems implement types.FixedPartitionedSource or
// types.DynamicSource directly, usually on top of the batch adapters.
package source
