package source

import (
	"context"
	"fmt"

	"github.com/arloliu/intake/internal/hash"
	"github.com/arloliu/intake/types"
)

// OpenFunc builds the partition reading the given keys on one worker.
type OpenFunc[T any] func(ctx context.Context, keys []string) (types.StatelessPartition[T], error)

// Sharded is a dynamic source that spreads a key space across workers by hash.
//
// Every worker sees the same key list and keeps the keys whose xxh3 shard
// equals its index, so workers read disjoint keys and together cover all of
// them. The kept keys are handed to the opener, which builds the partition
// (for example one subscription per subject).
type Sharded[T any] struct {
	keys []string
	seed uint64
	open OpenFunc[T]
}

var _ types.DynamicSource[int] = (*Sharded[int])(nil)

// NewSharded creates a sharded dynamic source.
//
// Parameters:
//   - keys: global key space, identical on every worker
//   - seed: hash seed, identical on every worker
//   - open: opener called by Build with this worker's keys
//
// Returns:
//   - *Sharded[T]: the source
func NewSharded[T any](keys []string, seed uint64, open OpenFunc[T]) *Sharded[T] {
	return &Sharded[T]{keys: keys, seed: seed, open: open}
}

// KeysFor returns the keys owned by workerIndex, in key list order.
func (s *Sharded[T]) KeysFor(workerIndex, workerCount int) []string {
	owned := make([]string, 0, len(s.keys)/max(workerCount, 1)+1)
	for _, k := range s.keys {
		if hash.Shard(k, workerCount, s.seed) == workerIndex {
			owned = append(owned, k)
		}
	}

	return owned
}

// Build opens the partition of one worker.
//
// Returns:
//   - types.StatelessPartition[T]: partition over this worker's keys
//   - error: wraps types.ErrInvalidWorker, or the opener's error
func (s *Sharded[T]) Build(ctx context.Context, workerIndex, workerCount int) (types.StatelessPartition[T], error) {
	if err := types.ValidateWorker(workerIndex, workerCount); err != nil {
		return nil, err
	}
	if s.open == nil {
		return nil, fmt.Errorf("%w: sharded source has no opener", types.ErrInvalidConfig)
	}

	part, err := s.open(ctx, s.KeysFor(workerIndex, workerCount))
	if err != nil {
		return nil, fmt.Errorf("failed to open worker %d: %w", workerIndex, err)
	}

	return part, nil
}
