// Package intake provides non-blocking, pollable input sources for streaming
// dataflows.
//
// A source is split into partitions. Each partition is an independent read
// head polled by the runtime through NextBatch, which must never block: it
// returns the items available now, an empty batch when nothing is ready, or
// an exhausted batch when the partition is done for good.
//
// # Quick Start
//
// Poll a sensor every five seconds and print the readings:
//
//	import (
//	    "github.com/arloliu/intake"
//	    "github.com/arloliu/intake/source"
//	)
//
//	src, err := source.NewSimplePolling(source.PollingConfig{Interval: 5 * time.Second}, readSensor)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	runner, err := intake.NewFixedRunner(intake.DefaultConfig(), src,
//	    func(ctx context.Context, key string, items []Reading) error {
//	        fmt.Println(items)
//	        return nil
//	    })
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = runner.Run(ctx)
//
// # Source Variants
//
//   - FixedPartitionedSource: a fixed set of worker-local partitions, each
//     snapshotted at epoch boundaries and rebuilt from its resume state after
//     a restart. Supports exactly-once processing when the data can seek.
//   - DynamicSource: one stateless partition per worker; at-most-once.
//
// # Partition Capabilities
//
// Besides NextBatch, a partition may implement:
//
//   - Awaker: hint of the earliest time to poll again (default: at once
//     after a non-empty batch, DefaultIdleDelay after an empty one)
//   - Snapshotter: resume state, required for fixed-partitioned sources
//   - io.Closer: cleanup after exhaustion; skipped when the runtime aborts
//
// # Building Partitions
//
// The batch package turns common producer shapes into non-blocking batch
// functions: iterators (FromSeq), polling getters (FromGetter,
// FromGetterErr), blocking async producers (FromAsync) and channels
// (FromChan). Wrap any of them with batch.NewPartition to get a stateless
// partition.
//
// # Checkpoints
//
// The Runner persists snapshots through a CheckpointStore:
// checkpoint.Memory for tests, checkpoint.KV for NATS JetStream.
//
// # Observability
//
//	runner, err := intake.NewFixedRunner(cfg, src, sink,
//	    intake.WithLogger(intake.NewSlogLogger(slog.Default())),
//	    intake.WithMetrics(intake.NewPrometheusMetrics(prometheus.DefaultRegisterer)),
//	    intake.WithCheckpointStore(store),
//	)
package intake
