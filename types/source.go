package types

import (
	"context"
	"fmt"
)

// FixedPartitionedSource is an input source with a fixed set of independent,
// worker-local partitions.
//
// The runtime keeps the snapshot of each partition and rebuilds from it on
// resume. If the underlying data supports seeking, this source can provide
// exactly-once processing. Each partition must hold distinct data; the same
// item read through two partitions is processed twice.
type FixedPartitionedSource[T any] interface {
	// ListParts lists the partition keys this worker can read.
	//
	// The list need not be globally exhaustive; global assignment belongs to
	// the runtime. A key reported once must stay buildable for the rest of
	// the execution.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//
	// Returns:
	//   - []string: worker-local partition keys
	//   - error: discovery failure
	ListParts(ctx context.Context) ([]string, error)

	// BuildPart builds a partition anew or resumes it.
	//
	// Called once per execution for each key this worker reported. All state
	// must be derived from resume; state pre-computed elsewhere (for example
	// in the source constructor) breaks recovery.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - key: partition key, always one returned by ListParts on this worker
	//   - resume: last snapshot of this partition, nil to start from the beginning
	//
	// Returns:
	//   - StatefulPartition[T]: the built partition
	//   - error: build failure
	BuildPart(ctx context.Context, key string, resume ResumeState) (StatefulPartition[T], error)
}

// DynamicSource is an input source where every worker reads distinct items.
//
// It stores no resume state and so only supports at-most-once processing.
// The implementation must split the data space across workers itself, for
// example by hashing keys modulo workerCount.
type DynamicSource[T any] interface {
	// Build builds the partition of one worker. Called once per worker.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - workerIndex: index of this worker in [0, workerCount)
	//   - workerCount: total number of workers
	//
	// Returns:
	//   - StatelessPartition[T]: the built partition
	//   - error: build failure
	Build(ctx context.Context, workerIndex, workerCount int) (StatelessPartition[T], error)
}

// SourceKind identifies which source variant a value implements.
type SourceKind uint8

const (
	// KindUnknown is returned for values that implement no source variant.
	KindUnknown SourceKind = iota

	// KindFixedPartitioned identifies a FixedPartitionedSource.
	KindFixedPartitioned

	// KindDynamic identifies a DynamicSource.
	KindDynamic
)

// String returns the name of the source kind.
func (k SourceKind) String() string {
	switch k {
	case KindFixedPartitioned:
		return "fixed_partitioned"
	case KindDynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// KindOf reports which source variant src implements for item type T.
//
// A value implementing both variants is reported as fixed-partitioned, since
// that variant is strictly more capable.
func KindOf[T any](src any) SourceKind {
	switch src.(type) {
	case FixedPartitionedSource[T]:
		return KindFixedPartitioned
	case DynamicSource[T]:
		return KindDynamic
	default:
		return KindUnknown
	}
}

// ValidateWorker checks that workerIndex lies in [0, workerCount).
func ValidateWorker(workerIndex, workerCount int) error {
	if workerCount <= 0 {
		return fmt.Errorf("%w: worker count must be > 0, got %d", ErrInvalidWorker, workerCount)
	}
	if workerIndex < 0 || workerIndex >= workerCount {
		return fmt.Errorf("%w: worker index %d out of range [0, %d)", ErrInvalidWorker, workerIndex, workerCount)
	}

	return nil
}
