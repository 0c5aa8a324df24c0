package testing

import (
	"testing"

	"github.com/arloliu/intake/types"
	"github.com/stretchr/testify/require"
)

type scriptedPartition struct {
	batches []types.Batch[int]
	calls   int
}

func (p *scriptedPartition) NextBatch() (types.Batch[int], error) {
	b := p.batches[p.calls]
	p.calls++

	return b, nil
}

func TestDrainBatches(t *testing.T) {
	p := &scriptedPartition{batches: []types.Batch[int]{
		types.NewBatch(1, 2),
		types.EmptyBatch[int](),
		types.NewBatch(3),
		types.ExhaustedBatch[int](),
	}}

	batches := DrainBatches[int](t, p, 10)

	require.Equal(t, [][]int{{1, 2}, {3}}, batches)
	require.Equal(t, 4, p.calls, "no poll after exhaustion")
}

func TestDrain(t *testing.T) {
	p := &scriptedPartition{batches: []types.Batch[int]{
		types.NewBatch(1),
		types.NewBatch(2, 3),
		types.ExhaustedBatch[int](),
	}}

	require.Equal(t, []int{1, 2, 3}, Drain[int](t, p, 10))
}
