package types

// AssignmentStrategy maps partition keys to workers.
//
// A fixed-partitioned source that can see every key of a system uses a
// strategy to narrow ListParts down to the keys local to one worker (see
// source.Local). Every worker must run the same strategy over the same
// inputs so that each key lands on exactly one worker.
//
// Strategy implementations should:
//   - Be deterministic (same input → same output)
//   - Handle edge cases (no workers, no keys)
//   - Be stateless (no side effects)
type AssignmentStrategy interface {
	// Assign calculates key assignments for the given workers.
	//
	// Parameters:
	//   - workers: worker IDs to assign keys to
	//   - keys: partition keys to assign
	//
	// Returns:
	//   - map[string][]string: worker ID → assigned keys, in input order
	//   - error: assignment error (e.g., no workers)
	Assign(workers []string, keys []string) (map[string][]string, error)
}
