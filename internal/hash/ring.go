// Package hash provides the xxh3-based hashing used to spread partition keys
// over workers.
package hash

import (
	"encoding/binary"
	"slices"

	"github.com/zeebo/xxh3"
)

// Ring implements a consistent hash ring with virtual nodes.
//
// The ring maps partition keys to workers using consistent hashing, which
// keeps most keys on the same worker when the worker set changes.
type Ring struct {
	// nodes contains all virtual nodes on the ring, sorted by hash
	nodes []virtualNode

	// workers holds the unique list of workers present on the ring
	workers []string

	// seed for hash function (0 means no seed)
	seed uint64
}

type virtualNode struct {
	hash     uint64
	workerID string
}

// NewRing creates a new consistent hash ring.
//
// Parameters:
//   - workers: List of worker IDs to place on the ring (duplicates are ignored)
//   - virtualNodesPerWorker: Number of virtual nodes per worker (higher = better distribution)
//   - seed: Seed for hash function (0 for unseeded hashing)
//
// Returns:
//   - *Ring: Initialized hash ring
//
// Example:
//
//	ring := hash.NewRing([]string{"worker-0", "worker-1"}, 150, 0)
//	owner := ring.GetNode("orders-7")
func NewRing(workers []string, virtualNodesPerWorker int, seed uint64) *Ring {
	ring := &Ring{
		nodes: make([]virtualNode, 0, len(workers)*virtualNodesPerWorker),
		seed:  seed,
	}

	seen := make(map[string]struct{}, len(workers))
	ring.workers = make([]string, 0, len(workers))
	for _, w := range workers {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		ring.workers = append(ring.workers, w)
	}

	for _, workerID := range ring.workers {
		ring.addWorker(workerID, virtualNodesPerWorker)
	}

	slices.SortFunc(ring.nodes, func(a, b virtualNode) int {
		if a.hash < b.hash {
			return -1
		}
		if a.hash > b.hash {
			return 1
		}

		return 0
	})

	return ring
}

// GetNode finds the worker responsible for a partition key.
//
// Uses binary search to find the first virtual node whose hash is >= the key
// hash, wrapping around to the first node past the end of the ring.
//
// Parameters:
//   - key: Partition key
//
// Returns:
//   - string: Worker ID responsible for this key ("" for an empty ring)
func (r *Ring) GetNode(key string) string {
	if len(r.nodes) == 0 {
		return ""
	}

	target := Key(key, r.seed)
	idx, _ := slices.BinarySearchFunc(r.nodes, target, func(node virtualNode, t uint64) int {
		if node.hash < t {
			return -1
		}
		if node.hash > t {
			return 1
		}

		return 0
	})
	if idx >= len(r.nodes) {
		idx = 0
	}

	return r.nodes[idx].workerID
}

// Workers returns the list of unique workers on the ring.
func (r *Ring) Workers() []string {
	return append([]string(nil), r.workers...)
}

// Size returns the total number of virtual nodes on the ring.
func (r *Ring) Size() int {
	return len(r.nodes)
}

func (r *Ring) addWorker(workerID string, virtualNodes int) {
	base := Key(workerID, r.seed)
	for i := range virtualNodes {
		// Fold the vnode index into the worker hash instead of building "id#i" strings.
		var ib [8]byte
		binary.LittleEndian.PutUint64(ib[:], uint64(i)) //nolint:gosec
		r.nodes = append(r.nodes, virtualNode{
			hash:     xxh3.HashSeed(ib[:], base),
			workerID: workerID,
		})
	}
}

// Key computes the 64-bit xxh3 hash of a partition key.
func Key(key string, seed uint64) uint64 {
	if seed != 0 {
		return xxh3.HashStringSeed(key, seed)
	}

	return xxh3.HashString(key)
}

// Shard maps a key to a shard in [0, n). It returns -1 when n <= 0.
//
// Every worker computing Shard over the same key and n agrees on the owner,
// which is what lets dynamic sources split a keyspace without coordination.
func Shard(key string, n int, seed uint64) int {
	if n <= 0 {
		return -1
	}

	return int(Key(key, seed) % uint64(n)) //nolint:gosec // n > 0 checked above
}
