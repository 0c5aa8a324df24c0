package strategy

import (
	"slices"

	"github.com/arloliu/intake/types"
)

// RoundRobin implements simple round-robin key assignment.
type RoundRobin struct{}

var _ types.AssignmentStrategy = (*RoundRobin)(nil)

// NewRoundRobin creates a new round-robin strategy.
//
// The strategy deals keys out evenly in sorted key order, so every worker
// computes the same assignment whatever order its key listing came in.
// Unlike ConsistentHash it moves most keys when the worker count changes.
//
// Returns:
//   - *RoundRobin: Initialized round-robin strategy
func NewRoundRobin() *RoundRobin {
	return &RoundRobin{}
}

// Assign calculates key assignments using round-robin distribution.
//
// Parameters:
//   - workers: List of worker IDs
//   - keys: List of partition keys to assign
//
// Returns:
//   - map[string][]string: Map from workerID to assigned keys, each list in input order
//   - error: ErrNoWorkers when workers is empty
func (rr *RoundRobin) Assign(workers []string, keys []string) (map[string][]string, error) {
	if len(workers) == 0 {
		return nil, ErrNoWorkers
	}

	assignments := make(map[string][]string, len(workers))
	for _, w := range workers {
		assignments[w] = []string{}
	}

	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	owner := make(map[string]string, len(sorted))
	for i, key := range sorted {
		owner[key] = workers[i%len(workers)]
	}

	for _, key := range keys {
		w := owner[key]
		assignments[w] = append(assignments[w], key)
	}

	return assignments, nil
}
