// Package batch converts pull iterators, fallible getters, asynchronous
// sequences and channels into the non-blocking batch-pull shape required by
// partitions.
//
// Every adapter exposes Next() (types.Batch[T], error) and is meant to be
// called from a partition's NextBatch:
//
//	func (p *queuePartition) NextBatch() (types.Batch[Msg], error) {
//	    return p.batcher.Next()
//	}
//
// Adapters are lazy and stateful. Once an adapter reports an exhausted batch
// it keeps doing so; restarting means building a new adapter.
//
// Adapters:
//   - FromSeq, FromSlice: draw up to size items from an iter.Seq
//   - FromGetter: poll a getter, a sentinel value ends the current batch
//   - FromGetterErr: poll a getter, a designated error ends the current batch
//   - FromAsync: collect from a blocking fetch under a time budget, never
//     dropping a fetch that is in flight when the budget runs out
//   - FromChan: collect from a channel under a time budget
//
// In every adapter, "no item yet" ends only the current batch. Only
// types.ErrExhausted (or a closed channel) ends the stream.
package batch

// clampSize returns size, or 1 when size is not positive.
func clampSize(size int) int {
	if size < 1 {
		return 1
	}

	return size
}
