package testing

import (
	"testing"

	"github.com/arloliu/intake/types"
)

// DrainBatches polls p until it reports exhaustion and returns the non-empty
// batches in order.
//
// It never sleeps and ignores awake hints, so it only suits partitions whose
// data is already available. The test fails when p returns an error or is
// not exhausted after maxPolls calls.
//
// Parameters:
//   - t: Testing context
//   - p: partition to drain
//   - maxPolls: upper bound on NextBatch calls
//
// Returns:
//   - [][]T: items of every non-empty batch
func DrainBatches[T any](t testing.TB, p types.Partition[T], maxPolls int) [][]T {
	t.Helper()

	var batches [][]T
	for range maxPolls {
		b, err := p.NextBatch()
		if err != nil {
			t.Fatalf("NextBatch failed: %v", err)
		}
		if b.Exhausted() {
			return batches
		}
		if b.Len() > 0 {
			batches = append(batches, b.Items)
		}
	}

	t.Fatalf("partition not exhausted after %d polls", maxPolls)

	return nil
}

// Drain is DrainBatches flattened into a single item slice.
func Drain[T any](t testing.TB, p types.Partition[T], maxPolls int) []T {
	t.Helper()

	var items []T
	for _, b := range DrainBatches(t, p, maxPolls) {
		items = append(items, b...)
	}

	return items
}
