package batch

import (
	"time"

	"github.com/arloliu/intake/types"
)

// Chan batches a channel under a per-call time budget.
type Chan[T any] struct {
	ch      <-chan T
	timeout time.Duration
	size    int
	ended   bool
}

// FromChan batches items received from ch.
//
// Each Next collects up to size items, returning early once the cumulative
// wait reaches timeout. A closed channel is the end of the stream, with the
// same end shape as FromAsync: a non-empty batch is returned first, then
// exhaustion.
//
// Parameters:
//   - ch: channel the producer pushes items to
//   - timeout: maximum cumulative wait per Next call
//   - size: maximum number of items per batch (values < 1 mean 1)
//
// Returns:
//   - *Chan[T]: batching adapter
func FromChan[T any](ch <-chan T, timeout time.Duration, size int) *Chan[T] {
	return &Chan[T]{
		ch:      ch,
		timeout: timeout,
		size:    clampSize(size),
	}
}

// Next gathers the next batch.
//
// Returns:
//   - types.Batch[T]: ready, empty or exhausted batch
//   - error: always nil
func (c *Chan[T]) Next() (types.Batch[T], error) {
	if c.ended {
		return types.ExhaustedBatch[T](), nil
	}

	budget := newWaitBudget(c.timeout)
	defer budget.stop()

	items := make([]T, 0, c.size)
	for len(items) < c.size {
		v, ok, received := c.receive(budget)
		if !received {
			break
		}
		if !ok {
			c.ended = true
			if len(items) == 0 {
				return types.ExhaustedBatch[T](), nil
			}

			break
		}
		items = append(items, v)
	}

	return types.NewBatch(items...), nil
}

// receive takes one value within the budget. received is false when the
// budget ran out; ok is false when the channel is closed.
func (c *Chan[T]) receive(budget *waitBudget) (v T, ok bool, received bool) {
	select {
	case v, ok = <-c.ch:
		return v, ok, true
	default:
	}

	if budget.expired() {
		return v, false, false
	}

	select {
	case v, ok = <-c.ch:
		return v, ok, true
	case <-budget.C():
		return v, false, false
	}
}
