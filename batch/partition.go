package batch

import (
	"errors"
	"io"

	"github.com/arloliu/intake/types"
)

// Batcher is implemented by every adapter in this package.
type Batcher[T any] interface {
	Next() (types.Batch[T], error)
}

// Partition turns a Batcher into a stateless partition.
type Partition[T any] struct {
	src    Batcher[T]
	closer func() error
}

var _ types.StatelessPartition[int] = (*Partition[int])(nil)

// NewPartition wraps src as a stateless partition.
//
// Close closes src when it implements io.Closer, then runs closer if set.
//
// Parameters:
//   - src: batch adapter backing NextBatch
//   - closer: extra cleanup (e.g., unsubscribing), may be nil
//
// Returns:
//   - *Partition[T]: stateless partition
//
// Example:
//
//	sub, _ := nc.ChanSubscribe(subject, ch)
//	part := batch.NewPartition[*nats.Msg](batch.FromChan(ch, 10*time.Millisecond, 256), sub.Unsubscribe)
func NewPartition[T any](src Batcher[T], closer func() error) *Partition[T] {
	return &Partition[T]{src: src, closer: closer}
}

// NextBatch returns the next batch of the wrapped adapter.
func (p *Partition[T]) NextBatch() (types.Batch[T], error) {
	return p.src.Next()
}

// Close releases the adapter and runs the extra cleanup.
func (p *Partition[T]) Close() error {
	var errs []error
	if c, ok := p.src.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	if p.closer != nil {
		errs = append(errs, p.closer())
	}

	return errors.Join(errs...)
}
