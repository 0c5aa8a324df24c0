package batch

import (
	"context"
	"errors"
	"time"

	"github.com/arloliu/intake/types"
)

// AsyncSeq is a push-style sequence whose Next blocks until an item arrives.
//
// Next returns types.ErrExhausted at the end of the stream and should return
// promptly once ctx is cancelled.
type AsyncSeq[T any] interface {
	Next(ctx context.Context) (T, error)
}

// AsyncSeqFunc adapts a function to AsyncSeq.
type AsyncSeqFunc[T any] func(ctx context.Context) (T, error)

// Next calls f.
func (f AsyncSeqFunc[T]) Next(ctx context.Context) (T, error) {
	return f(ctx)
}

// Executor runs fetch tasks. The default starts one goroutine per task.
type Executor interface {
	Go(task func())
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(task func())

// Go calls f.
func (f ExecutorFunc) Go(task func()) {
	f(task)
}

type goExecutor struct{}

func (goExecutor) Go(task func()) { go task() }

// AsyncOption configures an Async adapter.
type AsyncOption func(*asyncOptions)

type asyncOptions struct {
	executor Executor
}

// WithExecutor sets the executor that runs fetches.
//
// Parameters:
//   - exec: Executor implementation (e.g., a bounded worker pool)
//
// Returns:
//   - AsyncOption: Functional option for FromAsync
func WithExecutor(exec Executor) AsyncOption {
	return func(o *asyncOptions) {
		o.executor = exec
	}
}

type fetchResult[T any] struct {
	item T
	err  error
}

// Async batches an AsyncSeq under a per-call time budget.
//
// At most one fetch is in flight at any time. When the budget runs out, the
// call returns what it gathered and leaves the fetch running; the next call
// waits on that same fetch first. A timeout therefore defers an item, never
// drops it.
type Async[T any] struct {
	ctx     context.Context //nolint:containedctx // owns the lifetime of background fetches
	cancel  context.CancelFunc
	seq     AsyncSeq[T]
	timeout time.Duration
	size    int
	exec    Executor

	inflight chan fetchResult[T]
	ended    bool
	pending  error
}

// FromAsync batches an asynchronous sequence.
//
// Each Next collects up to size items, returning early once the cumulative
// wait of the call reaches timeout. Items already fetched are always taken
// without waiting, so a timeout <= 0 collects only what is ready.
//
// End of stream: if the current batch has items they are returned and the
// next call reports exhaustion; otherwise exhaustion is reported at once.
//
// Parameters:
//   - ctx: execution context; cancelling it aborts in-flight fetches
//   - seq: underlying asynchronous sequence
//   - timeout: maximum cumulative wait per Next call
//   - size: maximum number of items per batch (values < 1 mean 1)
//   - opts: optional configuration (WithExecutor)
//
// Returns:
//   - *Async[T]: batching adapter; Close cancels any in-flight fetch
//
// Example:
//
//	b := batch.FromAsync(ctx, batch.AsyncSeqFunc[Event](client.Receive), 50*time.Millisecond, 100)
//	defer b.Close()
func FromAsync[T any](ctx context.Context, seq AsyncSeq[T], timeout time.Duration, size int, opts ...AsyncOption) *Async[T] {
	options := &asyncOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.executor == nil {
		options.executor = goExecutor{}
	}

	fetchCtx, cancel := context.WithCancel(ctx)

	return &Async[T]{
		ctx:     fetchCtx,
		cancel:  cancel,
		seq:     seq,
		timeout: timeout,
		size:    clampSize(size),
		exec:    options.executor,
	}
}

// Next gathers the next batch.
//
// Returns:
//   - types.Batch[T]: ready, empty or exhausted batch
//   - error: sequence failure, or the context error once the execution context is done
func (a *Async[T]) Next() (types.Batch[T], error) {
	if a.pending != nil {
		err := a.pending
		a.pending = nil

		return types.Batch[T]{}, err
	}
	if a.ended {
		return types.ExhaustedBatch[T](), nil
	}

	budget := newWaitBudget(a.timeout)
	defer budget.stop()

	items := make([]T, 0, a.size)
	for len(items) < a.size {
		if a.inflight == nil {
			a.inflight = a.fetch()
		}

		res, ok := a.await(budget)
		if !ok {
			if err := a.ctx.Err(); err != nil && len(items) == 0 {
				return types.Batch[T]{}, err
			}

			break
		}
		a.inflight = nil

		if res.err != nil {
			if errors.Is(res.err, types.ErrExhausted) {
				a.ended = true
				if len(items) == 0 {
					return types.ExhaustedBatch[T](), nil
				}

				return types.NewBatch(items...), nil
			}
			if len(items) == 0 {
				return types.Batch[T]{}, res.err
			}
			a.pending = res.err

			break
		}
		items = append(items, res.item)
	}

	return types.NewBatch(items...), nil
}

// await waits for the in-flight fetch within the budget. It reports false
// when the budget ran out or the context ended; the fetch is kept either way.
func (a *Async[T]) await(budget *waitBudget) (fetchResult[T], bool) {
	select {
	case res := <-a.inflight:
		return res, true
	default:
	}

	if budget.expired() {
		return fetchResult[T]{}, false
	}

	select {
	case res := <-a.inflight:
		return res, true
	case <-budget.C():
		return fetchResult[T]{}, false
	case <-a.ctx.Done():
		return fetchResult[T]{}, false
	}
}

// fetch starts one fetch and returns the channel its result lands on.
// The channel is buffered so the fetch never blocks on an absent reader.
func (a *Async[T]) fetch() chan fetchResult[T] {
	ch := make(chan fetchResult[T], 1)
	a.exec.Go(func() {
		item, err := a.seq.Next(a.ctx)
		ch <- fetchResult[T]{item: item, err: err}
	})

	return ch
}

// Close cancels any in-flight fetch. Later Next calls report exhaustion.
func (a *Async[T]) Close() error {
	a.cancel()
	a.ended = true
	a.pending = nil

	return nil
}
