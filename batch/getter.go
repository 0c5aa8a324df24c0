package batch

import (
	"errors"

	"github.com/arloliu/intake/types"
)

// Getter batches a zero-argument getter that might not have an item ready.
type Getter[T any] struct {
	get      func() (T, error)
	size     int
	sentinel func(T) bool
	yieldErr error

	done    bool
	pending error
}

// FromGetter batches a getter that returns a sentinel value when no item is
// ready yet.
//
// Each Next calls get until size items are gathered or get returns yieldOn,
// which ends the current batch early (not the stream). When get returns
// types.ErrExhausted the gathered items are returned and the next call
// reports exhaustion. Any other error is returned after the items gathered
// before it.
//
// Parameters:
//   - get: item getter
//   - size: maximum number of items per batch (values < 1 mean 1)
//   - yieldOn: sentinel meaning "no item yet"
//
// Returns:
//   - *Getter[T]: batching getter
//
// Example:
//
//	// 0 means the ring buffer is empty right now.
//	b := batch.FromGetter(ring.Pop, 64, 0)
func FromGetter[T comparable](get func() (T, error), size int, yieldOn T) *Getter[T] {
	return &Getter[T]{
		get:      get,
		size:     clampSize(size),
		sentinel: func(v T) bool { return v == yieldOn },
	}
}

// FromGetterErr batches a getter that returns an error when no item is ready yet.
//
// It behaves like FromGetter, except that "no item yet" is signaled by an
// error matching yieldErr (errors.Is) instead of a sentinel value. A nil
// yieldErr defaults to types.ErrNoItem.
//
// Parameters:
//   - get: item getter
//   - size: maximum number of items per batch (values < 1 mean 1)
//   - yieldErr: error meaning "no item yet"
//
// Returns:
//   - *Getter[T]: batching getter
func FromGetterErr[T any](get func() (T, error), size int, yieldErr error) *Getter[T] {
	if yieldErr == nil {
		yieldErr = types.ErrNoItem
	}

	return &Getter[T]{
		get:      get,
		size:     clampSize(size),
		yieldErr: yieldErr,
	}
}

// Next gathers the next batch.
//
// Returns:
//   - types.Batch[T]: ready, empty or exhausted batch
//   - error: getter failure other than exhaustion or "no item yet"
func (g *Getter[T]) Next() (types.Batch[T], error) {
	if g.pending != nil {
		err := g.pending
		g.pending = nil

		return types.Batch[T]{}, err
	}
	if g.done {
		return types.ExhaustedBatch[T](), nil
	}

	var items []T
	for len(items) < g.size {
		v, err := g.get()
		if err != nil {
			if errors.Is(err, types.ErrExhausted) {
				g.done = true
				if len(items) == 0 {
					return types.ExhaustedBatch[T](), nil
				}

				return types.NewBatch(items...), nil
			}
			if g.yieldErr != nil && errors.Is(err, g.yieldErr) {
				break
			}
			if len(items) == 0 {
				return types.Batch[T]{}, err
			}
			g.pending = err

			return types.NewBatch(items...), nil
		}
		if g.sentinel != nil && g.sentinel(v) {
			break
		}
		items = append(items, v)
	}

	return types.NewBatch(items...), nil
}
