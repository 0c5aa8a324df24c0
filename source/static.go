package source

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"sync"

	"github.com/arloliu/intake/types"
)

// DefaultStaticBatchSize is the batch size used by Static when none is given.
const DefaultStaticBatchSize = 100

// Static implements a fixed-partitioned source over in-memory data.
//
// Every map entry is one partition. The resume state of a partition is the
// decimal offset of its next unread item, so replays are exactly-once.
type Static[T any] struct {
	mu        sync.RWMutex
	data      map[string][]T
	batchSize int
}

var _ types.FixedPartitionedSource[int] = (*Static[int])(nil)

// NewStatic creates a new static source.
//
// The source is useful for testing and for scenarios where data is known at
// startup.
//
// Parameters:
//   - data: items per partition key
//   - batchSize: maximum items per batch (values < 1 mean DefaultStaticBatchSize)
//
// Returns:
//   - *Static[T]: Initialized static source
//
// Example:
//
//	src := source.NewStatic(map[string][]string{
//	    "tool001": {"a", "b"},
//	    "tool002": {"c"},
//	}, 0)
//	runner, err := intake.NewFixedRunner[string](cfg, src, sink)
//	if err != nil { /* handle */ }
func NewStatic[T any](data map[string][]T, batchSize int) *Static[T] {
	if batchSize < 1 {
		batchSize = DefaultStaticBatchSize
	}

	s := &Static[T]{batchSize: batchSize}
	s.Update(data)

	return s
}

// ListParts returns the partition keys in sorted order.
//
// Returns:
//   - []string: partition keys
//   - error: Always nil (never fails)
func (s *Static[T]) ListParts(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Sorted(maps.Keys(s.data)), nil
}

// BuildPart builds the partition of key, resuming at the offset in resume.
//
// Returns:
//   - types.StatefulPartition[T]: the partition
//   - error: wraps types.ErrUnknownPartition or types.ErrInvalidResumeState
func (s *Static[T]) BuildPart(_ context.Context, key string, resume types.ResumeState) (types.StatefulPartition[T], error) {
	s.mu.RLock()
	items, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownPartition, key)
	}

	offset := 0
	if resume != nil {
		n, err := strconv.Atoi(string(resume))
		if err != nil || n < 0 || n > len(items) {
			return nil, fmt.Errorf("%w: partition %q: offset %q", types.ErrInvalidResumeState, key, string(resume))
		}
		offset = n
	}

	return &staticPartition[T]{
		items:     items,
		offset:    offset,
		batchSize: s.batchSize,
	}, nil
}

// Update replaces the source data.
//
// Partitions already built keep reading the data they were built with; the
// new data applies to future builds.
//
// Parameters:
//   - data: new items per partition key
func (s *Static[T]) Update(data map[string][]T) {
	cloned := make(map[string][]T, len(data))
	for k, v := range data {
		cloned[k] = slices.Clone(v)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = cloned
}

type staticPartition[T any] struct {
	items     []T
	offset    int
	batchSize int
}

func (p *staticPartition[T]) NextBatch() (types.Batch[T], error) {
	if p.offset >= len(p.items) {
		return types.ExhaustedBatch[T](), nil
	}

	end := min(p.offset+p.batchSize, len(p.items))
	batch := types.NewBatch(p.items[p.offset:end]...)
	p.offset = end

	return batch, nil
}

func (p *staticPartition[T]) Snapshot() (types.ResumeState, error) {
	return types.ResumeState(strconv.Itoa(p.offset)), nil
}
