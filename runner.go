package intake

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/arloliu/intake/checkpoint"
	"github.com/arloliu/intake/internal/hooks"
	"github.com/arloliu/intake/internal/logger"
	"github.com/arloliu/intake/internal/logging"
	"github.com/arloliu/intake/internal/metrics"
	"github.com/arloliu/intake/types"
)

// Sink receives every non-empty batch, in poll order.
//
// It runs on the poll goroutine: a slow sink delays all partitions of the
// worker. A returned error aborts Run.
type Sink[T any] func(ctx context.Context, key string, items []T) error

// Runner drives the partitions of one worker.
//
// Runner is the reference poll loop for sources. It:
//   - Builds the worker's partitions, resuming them from stored checkpoints
//   - Polls each partition no earlier than its awake time
//   - Hands non-empty batches to the sink
//   - Snapshots stateful partitions at every epoch boundary
//   - Closes partitions once they are exhausted
//
// All partitions are polled from the goroutine calling Run.
//
// Lifecycle:
//  1. Create with NewFixedRunner or NewDynamicRunner
//  2. Call Run, which blocks until every partition is exhausted, a
//     partition or the sink fails, or ctx is done
//
// A Runner can only be run once.
type Runner[T any] struct {
	cfg     Config
	fixed   FixedPartitionedSource[T]
	dynamic DynamicSource[T]
	sink    Sink[T]

	store   CheckpointStore
	hooks   Hooks
	metrics MetricsCollector
	logger  Logger

	started atomic.Bool
	epoch   atomic.Uint64
}

// livePartition is the runner-side bookkeeping of one partition.
type livePartition[T any] struct {
	key       string
	part      Partition[T]
	snap      Snapshotter // nil for stateless partitions
	awake     time.Time
	lastEmpty bool
}

// NewFixedRunner creates a runner over a fixed-partitioned source.
//
// Parameters:
//   - cfg: runner configuration (defaults are applied to zero fields)
//   - src: source listing and building this worker's partitions
//   - sink: receiver of every non-empty batch
//   - opts: optional configuration (WithCheckpointStore, WithLogger, WithMetrics, WithHooks)
//
// Returns:
//   - *Runner[T]: the runner, ready to Run
//   - error: missing source or sink, or invalid configuration
//
// Example:
//
//	src := source.NewStatic(data, 100)
//	runner, err := intake.NewFixedRunner(cfg, src, func(ctx context.Context, key string, items []Event) error {
//	    return handle(items)
//	}, intake.WithCheckpointStore(store))
//	if err != nil { /* handle */ }
//	err = runner.Run(ctx)
func NewFixedRunner[T any](cfg Config, src FixedPartitionedSource[T], sink Sink[T], opts ...Option) (*Runner[T], error) {
	if src == nil {
		return nil, ErrSourceRequired
	}

	r, err := newRunner(cfg, sink, opts)
	if err != nil {
		return nil, err
	}
	r.fixed = src

	return r, nil
}

// NewDynamicRunner creates a runner over a dynamic source.
//
// Dynamic partitions are stateless: no checkpoint is loaded or saved.
//
// Parameters:
//   - cfg: runner configuration (defaults are applied to zero fields)
//   - src: source building this worker's single partition
//   - sink: receiver of every non-empty batch
//   - opts: optional configuration (WithLogger, WithMetrics, WithHooks)
//
// Returns:
//   - *Runner[T]: the runner, ready to Run
//   - error: missing source or sink, or invalid configuration
func NewDynamicRunner[T any](cfg Config, src DynamicSource[T], sink Sink[T], opts ...Option) (*Runner[T], error) {
	if src == nil {
		return nil, ErrSourceRequired
	}

	r, err := newRunner(cfg, sink, opts)
	if err != nil {
		return nil, err
	}
	r.dynamic = src

	return r, nil
}

func newRunner[T any](cfg Config, sink Sink[T], opts []Option) (*Runner[T], error) {
	if sink == nil {
		return nil, ErrSinkRequired
	}

	SetDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	options := &runnerOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Safe defaults for optional dependencies to avoid nil checks everywhere
	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	var loggerInstance Logger = logger.NewNop()
	if options.logger != nil {
		loggerInstance = options.logger
	}

	cfg.ValidateWithWarnings(loggerInstance)

	store := options.store
	if store == nil {
		store = checkpoint.NewMemory()
	}

	return &Runner[T]{
		cfg:     cfg,
		sink:    sink,
		store:   store,
		hooks:   hooks.WithDefaults(options.hooks),
		metrics: metricsCollector,
		logger:  logging.With(loggerInstance, "step", cfg.StepID, "worker", cfg.WorkerIndex),
	}, nil
}

// Epoch returns the current snapshot epoch.
//
// A fresh execution starts at epoch 1; a resumed one continues after the
// newest loaded checkpoint.
func (r *Runner[T]) Epoch() uint64 {
	return r.epoch.Load()
}

// Run builds the partitions and polls them until they are all exhausted.
//
// Exhausted partitions get a final snapshot and are closed. Run does not
// close partitions when it aborts: partitions must not rely on Close for
// correctness.
//
// Parameters:
//   - ctx: Context for cancellation; also passed to the source and the sink
//
// Returns:
//   - error: nil when every partition is exhausted, ctx.Err() on
//     cancellation, or the wrapped build, partition, snapshot or sink error
func (r *Runner[T]) Run(ctx context.Context) error {
	if !r.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	live, err := r.build(ctx)
	if err != nil {
		return err
	}

	r.metrics.RecordLivePartitions(len(live))
	r.logger.Info("input started", "partitions", len(live), "epoch", r.epoch.Load())

	nextSnapshot := time.Now().Add(r.cfg.SnapshotInterval)
	for len(live) > 0 {
		wake := earliestAwake(live)
		if hasStateful(live) && nextSnapshot.Before(wake) {
			wake = nextSnapshot
		}

		if err := sleepUntil(ctx, wake); err != nil {
			r.logger.Info("input stopped", "reason", err, "live", len(live))
			return err
		}

		now := time.Now()
		if !now.Before(nextSnapshot) {
			if err := r.snapshotAll(ctx, live); err != nil {
				return err
			}
			r.epoch.Add(1)
			nextSnapshot = now.Add(r.cfg.SnapshotInterval)
		}

		live, err = r.pollDue(ctx, live, now)
		if err != nil {
			return err
		}
	}

	r.logger.Info("input exhausted", "epoch", r.epoch.Load())

	return nil
}

func (r *Runner[T]) build(ctx context.Context) ([]*livePartition[T], error) {
	if r.dynamic != nil {
		return r.buildDynamic(ctx)
	}

	return r.buildFixed(ctx)
}

func (r *Runner[T]) buildFixed(ctx context.Context) ([]*livePartition[T], error) {
	keys, err := r.fixed.ListParts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list partitions: %w", err)
	}

	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePartition, key)
		}
		seen[key] = struct{}{}
	}

	epoch := uint64(1)
	live := make([]*livePartition[T], 0, len(keys))
	for _, key := range keys {
		cp, found, err := r.load(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to load checkpoint of partition %q: %w", key, err)
		}

		var resume ResumeState
		if found {
			resume = cp.State
			epoch = max(epoch, cp.Epoch+1)
		}

		part, err := r.fixed.BuildPart(ctx, key, resume)
		if err != nil {
			return nil, fmt.Errorf("failed to build partition %q: %w", key, err)
		}
		if part == nil {
			return nil, fmt.Errorf("failed to build partition %q: source returned no partition", key)
		}

		live = append(live, r.track(ctx, key, part, part, found))
	}
	r.epoch.Store(epoch)

	return live, nil
}

func (r *Runner[T]) buildDynamic(ctx context.Context) ([]*livePartition[T], error) {
	key := "worker-" + strconv.Itoa(r.cfg.WorkerIndex)

	part, err := r.dynamic.Build(ctx, r.cfg.WorkerIndex, r.cfg.WorkerCount)
	if err != nil {
		return nil, fmt.Errorf("failed to build partition %q: %w", key, err)
	}
	if part == nil {
		return nil, fmt.Errorf("failed to build partition %q: source returned no partition", key)
	}
	r.epoch.Store(1)

	return []*livePartition[T]{r.track(ctx, key, part, nil, false)}, nil
}

func (r *Runner[T]) track(ctx context.Context, key string, part Partition[T], snap Snapshotter, resumed bool) *livePartition[T] {
	p := &livePartition[T]{
		key:   key,
		part:  part,
		snap:  snap,
		awake: types.ResolveAwake(types.NextAwake(part), false, time.Now(), r.cfg.IdleDelay),
	}

	r.logger.Debug("partition built", "partition", key, "resumed", resumed)
	if err := r.hooks.OnPartitionBuilt(ctx, key, resumed); err != nil {
		r.logger.Warn("OnPartitionBuilt hook failed", "partition", key, "error", err)
	}

	return p
}

// pollDue polls every partition whose awake time has passed and returns the
// partitions still live.
func (r *Runner[T]) pollDue(ctx context.Context, live []*livePartition[T], now time.Time) ([]*livePartition[T], error) {
	before := len(live)
	remaining := live[:0]
	for _, p := range live {
		if p.awake.After(now) {
			remaining = append(remaining, p)
			continue
		}

		exhausted, err := r.poll(ctx, p)
		if err != nil {
			return nil, err
		}
		if !exhausted {
			remaining = append(remaining, p)
		}
	}

	if len(remaining) != before {
		r.metrics.RecordLivePartitions(len(remaining))
	}

	return remaining, nil
}

// poll calls NextBatch once and reports whether the partition is exhausted.
func (r *Runner[T]) poll(ctx context.Context, p *livePartition[T]) (bool, error) {
	start := time.Now()
	batch, err := p.part.NextBatch()
	r.metrics.RecordPollLatency(time.Since(start).Seconds())
	if err != nil {
		r.logger.Error("partition failed", "partition", p.key, "error", err)
		return false, fmt.Errorf("partition %q: %w", p.key, err)
	}

	switch batch.Status() {
	case BatchExhausted:
		return true, r.finish(ctx, p)
	case BatchReady:
		if err := r.sink(ctx, p.key, batch.Items); err != nil {
			r.logger.Error("sink failed", "partition", p.key, "error", err)
			return false, fmt.Errorf("sink failed for partition %q: %w", p.key, err)
		}
		r.metrics.RecordBatch(p.key, batch.Len())
		p.lastEmpty = false
	default:
		r.metrics.RecordEmptyPoll(p.key)
		p.lastEmpty = true
	}

	p.awake = types.ResolveAwake(types.NextAwake(p.part), p.lastEmpty, time.Now(), r.cfg.IdleDelay)

	return false, nil
}

// finish takes the final snapshot of an exhausted partition and closes it.
func (r *Runner[T]) finish(ctx context.Context, p *livePartition[T]) error {
	if p.snap != nil {
		state, err := p.snap.Snapshot()
		if err != nil {
			return fmt.Errorf("failed to snapshot partition %q: %w", p.key, err)
		}
		if err := r.save(ctx, p.key, state); err != nil {
			r.reportError(ctx, err)
		}
	}

	if err := types.ClosePartition(p.part); err != nil {
		r.logger.Warn("failed to close partition", "partition", p.key, "error", err)
	}

	r.metrics.RecordExhausted(p.key)
	r.logger.Debug("partition exhausted", "partition", p.key)
	if err := r.hooks.OnPartitionExhausted(ctx, p.key); err != nil {
		r.logger.Warn("OnPartitionExhausted hook failed", "partition", p.key, "error", err)
	}

	return nil
}

// snapshotAll saves the state of every live stateful partition for the
// current epoch. Save failures are reported and retried next epoch.
func (r *Runner[T]) snapshotAll(ctx context.Context, live []*livePartition[T]) error {
	if !hasStateful(live) {
		return nil
	}

	start := time.Now()
	success := true
	for _, p := range live {
		if p.snap == nil {
			continue
		}

		state, err := p.snap.Snapshot()
		if err != nil {
			return fmt.Errorf("failed to snapshot partition %q: %w", p.key, err)
		}
		if err := r.save(ctx, p.key, state); err != nil {
			success = false
			r.reportError(ctx, err)
		}
	}
	r.metrics.RecordSnapshot(time.Since(start).Seconds(), success)

	return nil
}

func (r *Runner[T]) load(ctx context.Context, key string) (Checkpoint, bool, error) {
	opCtx, cancel := context.WithTimeout(ctx, r.cfg.OperationTimeout)
	defer cancel()

	return r.store.Load(opCtx, r.cfg.StepID, key)
}

func (r *Runner[T]) save(ctx context.Context, key string, state ResumeState) error {
	opCtx, cancel := context.WithTimeout(ctx, r.cfg.OperationTimeout)
	defer cancel()

	cp := Checkpoint{Epoch: r.epoch.Load(), State: state}
	if err := r.store.Save(opCtx, r.cfg.StepID, key, cp); err != nil {
		return fmt.Errorf("failed to save checkpoint of partition %q: %w", key, err)
	}

	return nil
}

func (r *Runner[T]) reportError(ctx context.Context, err error) {
	r.logger.Warn("checkpoint save failed", "epoch", r.epoch.Load(), "error", err)
	if hookErr := r.hooks.OnError(ctx, err); hookErr != nil {
		r.logger.Warn("OnError hook failed", "error", hookErr)
	}
}

func earliestAwake[T any](live []*livePartition[T]) time.Time {
	earliest := live[0].awake
	for _, p := range live[1:] {
		if p.awake.Before(earliest) {
			earliest = p.awake
		}
	}

	return earliest
}

func hasStateful[T any](live []*livePartition[T]) bool {
	for _, p := range live {
		if p.snap != nil {
			return true
		}
	}

	return false
}

// sleepUntil blocks until t or until ctx is done.
func sleepUntil(ctx context.Context, t time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d := time.Until(t)
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
