package types

// BatchStatus is the outcome of a single NextBatch call.
type BatchStatus uint8

const (
	// BatchEmpty means no items are ready yet. The partition must be polled again.
	BatchEmpty BatchStatus = iota

	// BatchReady means the batch carries at least one item.
	BatchReady

	// BatchExhausted means the partition is permanently done.
	// The caller must not poll the partition again.
	BatchExhausted
)

// String returns the lowercase name of the status.
func (s BatchStatus) String() string {
	switch s {
	case BatchEmpty:
		return "empty"
	case BatchReady:
		return "ready"
	case BatchExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Batch is an ordered group of items returned by one NextBatch call.
//
// Item order reflects source order. Batch boundaries carry no meaning beyond
// grouping. An exhausted batch never carries items: a partition that hits the
// end of its data while holding items returns them first and reports
// exhaustion on the following call.
type Batch[T any] struct {
	// Items holds the items ready for emission, possibly none.
	Items []T

	exhausted bool
}

// NewBatch returns a batch holding the given items.
//
// An empty argument list yields an empty, not exhausted, batch.
func NewBatch[T any](items ...T) Batch[T] {
	return Batch[T]{Items: items}
}

// EmptyBatch returns a batch signaling "nothing ready yet".
func EmptyBatch[T any]() Batch[T] {
	return Batch[T]{}
}

// ExhaustedBatch returns a batch signaling permanent exhaustion.
func ExhaustedBatch[T any]() Batch[T] {
	return Batch[T]{exhausted: true}
}

// Status reports whether the batch is ready, empty or exhausted.
func (b Batch[T]) Status() BatchStatus {
	switch {
	case b.exhausted:
		return BatchExhausted
	case len(b.Items) > 0:
		return BatchReady
	default:
		return BatchEmpty
	}
}

// Exhausted reports whether the batch signals permanent exhaustion.
func (b Batch[T]) Exhausted() bool {
	return b.exhausted
}

// Len returns the number of items in the batch.
func (b Batch[T]) Len() int {
	return len(b.Items)
}
