// Package strategy provides built-in assignment strategy implementations.
//
// Assignment strategies decide which worker owns which partition key. The
// intake runtime itself never assigns keys globally: each worker lists only
// its local keys. A source that can see the global key set uses a strategy
// (through source.Local) to narrow its listing down to the local share.
//
//   - ConsistentHash: consistent hashing with virtual nodes; keeps most keys
//     on the same worker when the worker count changes
//   - RoundRobin: even distribution in sorted key order
//
// Custom strategies can be implemented by satisfying the types.AssignmentStrategy interface.
package strategy
