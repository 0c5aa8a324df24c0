package strategy

import (
	"errors"

	"github.com/arloliu/intake/internal/hash"
	"github.com/arloliu/intake/types"
)

// ConsistentHash implements consistent hashing with virtual nodes.
type ConsistentHash struct {
	virtualNodes int
	hashSeed     uint64
}

var _ types.AssignmentStrategy = (*ConsistentHash)(nil)

// ConsistentHashOption configures a ConsistentHash strategy.
type ConsistentHashOption func(*ConsistentHash)

// NewConsistentHash creates a new consistent hash strategy.
//
// The strategy uses a hash ring with virtual nodes to spread keys evenly
// across workers while keeping most keys in place when the worker count
// changes between executions.
//
// Parameters:
//   - opts: Optional configuration (WithVirtualNodes, WithHashSeed)
//
// Returns:
//   - *ConsistentHash: Initialized consistent hash strategy
//
// Example:
//
//	src := source.NewLocal[Event](global, cfg.WorkerIndex, cfg.WorkerCount,
//	    strategy.NewConsistentHash(strategy.WithVirtualNodes(300)))
func NewConsistentHash(opts ...ConsistentHashOption) *ConsistentHash {
	ch := &ConsistentHash{
		virtualNodes: 150,
	}

	for _, opt := range opts {
		opt(ch)
	}

	return ch
}

// WithVirtualNodes sets the number of virtual nodes per worker.
//
// Higher values provide better distribution but increase memory usage.
// Recommended range: 100-300 (default: 150).
func WithVirtualNodes(nodes int) ConsistentHashOption {
	return func(ch *ConsistentHash) {
		ch.virtualNodes = nodes
	}
}

// WithHashSeed sets a custom hash seed. All workers must use the same seed.
func WithHashSeed(seed uint64) ConsistentHashOption {
	return func(ch *ConsistentHash) {
		ch.hashSeed = seed
	}
}

// Assign calculates key assignments using consistent hashing.
//
// Parameters:
//   - workers: List of worker IDs (e.g., ["worker-0", "worker-1"])
//   - keys: List of partition keys to assign
//
// Returns:
//   - map[string][]string: Map from workerID to assigned keys
//   - error: ErrNoWorkers when workers is empty
func (ch *ConsistentHash) Assign(workers []string, keys []string) (map[string][]string, error) {
	if len(workers) == 0 {
		return nil, ErrNoWorkers
	}

	ring := hash.NewRing(workers, ch.virtualNodes, ch.hashSeed)

	assignments := make(map[string][]string, len(workers))
	for _, w := range workers {
		assignments[w] = []string{}
	}

	for _, key := range keys {
		worker := ring.GetNode(key)
		if worker == "" {
			return nil, errors.New("consistent hash returned empty worker")
		}
		assignments[worker] = append(assignments[worker], key)
	}

	return assignments, nil
}
