package source

import (
	"context"
	"fmt"
	"sync"

	"github.com/arloliu/intake/strategy"
	"github.com/arloliu/intake/types"
)

// Local narrows a fixed-partitioned source listing global keys to the keys
// owned by one worker.
//
// Ownership is decided by an assignment strategy over the worker IDs returned
// by strategy.WorkerIDs. All workers must use the same strategy configuration
// so that every key is listed by exactly one worker.
type Local[T any] struct {
	inner       types.FixedPartitionedSource[T]
	workerIndex int
	workerCount int
	strategy    types.AssignmentStrategy

	mu    sync.Mutex
	owned map[string]struct{}
}

var _ types.FixedPartitionedSource[int] = (*Local[int])(nil)

// NewLocal creates a worker-local view of inner.
//
// Parameters:
//   - inner: source whose ListParts returns the global key set
//   - workerIndex: index of this worker in [0, workerCount)
//   - workerCount: total number of workers
//   - strat: assignment strategy (e.g., strategy.NewConsistentHash())
//
// Returns:
//   - *Local[T]: the worker-local source
//   - error: wraps types.ErrInvalidWorker or types.ErrInvalidConfig
func NewLocal[T any](inner types.FixedPartitionedSource[T], workerIndex, workerCount int, strat types.AssignmentStrategy) (*Local[T], error) {
	if err := types.ValidateWorker(workerIndex, workerCount); err != nil {
		return nil, err
	}
	if inner == nil || strat == nil {
		return nil, fmt.Errorf("%w: local source needs an inner source and a strategy", types.ErrInvalidConfig)
	}

	return &Local[T]{
		inner:       inner,
		workerIndex: workerIndex,
		workerCount: workerCount,
		strategy:    strat,
	}, nil
}

// ListParts returns the share of the inner keys assigned to this worker.
func (l *Local[T]) ListParts(ctx context.Context) ([]string, error) {
	all, err := l.inner.ListParts(ctx)
	if err != nil {
		return nil, err
	}

	workers := strategy.WorkerIDs(l.workerCount)
	assignments, err := l.strategy.Assign(workers, all)
	if err != nil {
		return nil, fmt.Errorf("failed to assign partitions: %w", err)
	}

	mine := assignments[workers[l.workerIndex]]

	owned := make(map[string]struct{}, len(mine))
	for _, k := range mine {
		owned[k] = struct{}{}
	}

	l.mu.Lock()
	l.owned = owned
	l.mu.Unlock()

	return mine, nil
}

// BuildPart builds a partition listed by this worker.
//
// Returns:
//   - types.StatefulPartition[T]: the inner partition
//   - error: wraps types.ErrUnknownPartition for keys owned by other workers
func (l *Local[T]) BuildPart(ctx context.Context, key string, resume types.ResumeState) (types.StatefulPartition[T], error) {
	l.mu.Lock()
	_, ok := l.owned[key]
	l.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q is not assigned to worker %d", types.ErrUnknownPartition, key, l.workerIndex)
	}

	return l.inner.BuildPart(ctx, key, resume)
}
