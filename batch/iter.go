package batch

import (
	"iter"
	"slices"

	"github.com/arloliu/intake/types"
)

// Iter batches a pull iterator.
type Iter[T any] struct {
	next func() (T, bool)
	stop func()
	size int
	done bool
}

// FromSeq batches an iter.Seq.
//
// Each Next draws up to size items. The first draw that yields no item at all
// reports exhaustion, after which the sequence is never queried again.
//
// Parameters:
//   - seq: underlying sequence of items
//   - size: maximum number of items per batch (values < 1 mean 1)
//
// Returns:
//   - *Iter[T]: batching iterator; Close releases the sequence early
//
// Example:
//
//	lines := batch.FromSeq(scannerSeq(r), 100)
//	b, err := lines.Next()
func FromSeq[T any](seq iter.Seq[T], size int) *Iter[T] {
	next, stop := iter.Pull(seq)

	return &Iter[T]{
		next: next,
		stop: stop,
		size: clampSize(size),
	}
}

// FromSlice batches a slice. The slice must not be modified while batching.
func FromSlice[T any](items []T, size int) *Iter[T] {
	return FromSeq(slices.Values(items), size)
}

// Next returns up to size items, or an exhausted batch once the sequence is drained.
//
// Returns:
//   - types.Batch[T]: ready batch or exhausted batch (never empty-for-now)
//   - error: always nil
func (it *Iter[T]) Next() (types.Batch[T], error) {
	if it.done {
		return types.ExhaustedBatch[T](), nil
	}

	items := make([]T, 0, it.size)
	for len(items) < it.size {
		v, ok := it.next()
		if !ok {
			break
		}
		items = append(items, v)
	}

	if len(items) == 0 {
		it.done = true
		it.stop()

		return types.ExhaustedBatch[T](), nil
	}

	return types.NewBatch(items...), nil
}

// Close stops the underlying sequence. Later Next calls report exhaustion.
func (it *Iter[T]) Close() error {
	it.done = true
	it.stop()

	return nil
}
