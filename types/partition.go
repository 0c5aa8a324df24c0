package types

import (
	"io"
	"time"
)

// DefaultIdleDelay is the delay applied before re-polling a partition that
// returned an empty batch and gave no awake hint.
const DefaultIdleDelay = time.Millisecond

// ResumeState is opaque position data produced by Snapshot and handed back to
// the partition builder after a restart.
//
// It represents the read position after the last item already emitted. The
// runtime stores and replays it verbatim; only the connector interprets it.
// A nil ResumeState means "no state": build from the beginning.
type ResumeState []byte

// Partition is an independently pollable, ordered read head over a slice of
// source data.
//
// NextBatch must never block. Absence of data is signaled by an empty batch
// and permanent completion by an exhausted batch. Errors returned from
// NextBatch are connector failures and propagate to the runtime unchanged.
//
// A partition is driven from a single goroutine; implementations don't need
// to be safe for concurrent use.
type Partition[T any] interface {
	// NextBatch returns the items immediately available.
	//
	// Returns:
	//   - Batch[T]: ready items, an empty batch, or an exhausted batch
	//   - error: connector failure (the runtime stops polling and aborts)
	NextBatch() (Batch[T], error)
}

// Awaker is an optional partition capability giving the runtime a hint of the
// earliest time NextBatch is worth calling again.
//
// NextAwake is called after the partition is built and after every NextBatch,
// and possibly at other times. Earlier answers are not remembered; every call
// must return the full current hint. A zero time means "no hint".
//
// Use this instead of sleeping inside NextBatch.
type Awaker interface {
	NextAwake() time.Time
}

// Snapshotter is the capability that makes a partition resumable.
type Snapshotter interface {
	// Snapshot returns the position of the next read of this partition.
	//
	// The state must resume reading after the last item returned by the most
	// recent NextBatch, never at it. Snapshot is never called after Close.
	Snapshot() (ResumeState, error)
}

// StatefulPartition is a partition that supports snapshot and resume.
type StatefulPartition[T any] interface {
	Partition[T]
	Snapshotter
}

// StatelessPartition is a partition without resume support. It never receives
// resume state, so sources built on it deliver at-most-once.
type StatelessPartition[T any] interface {
	Partition[T]
}

// NextAwake returns the awake hint of p, or the zero time when p does not
// implement Awaker.
func NextAwake(p any) time.Time {
	if a, ok := p.(Awaker); ok {
		return a.NextAwake()
	}

	return time.Time{}
}

// ClosePartition releases the resources of p if it implements io.Closer.
//
// Close is best-effort: it only runs on graceful, finite completion and never
// after an abort, so partitions must not rely on it for correctness.
func ClosePartition(p any) error {
	if c, ok := p.(io.Closer); ok {
		return c.Close()
	}

	return nil
}

// ResolveAwake turns an awake hint into the concrete time of the next poll.
//
// Rules:
//   - A non-zero hint is used as is
//   - Without a hint, poll immediately (now) after a non-empty batch
//   - Without a hint, wait idleDelay after an empty batch
//
// Parameters:
//   - hint: value returned by NextAwake (zero for none)
//   - lastEmpty: whether the previous NextBatch returned no items
//   - now: current time
//   - idleDelay: delay after an empty batch (DefaultIdleDelay when <= 0)
//
// Returns:
//   - time.Time: earliest time NextBatch should be called again
func ResolveAwake(hint time.Time, lastEmpty bool, now time.Time, idleDelay time.Duration) time.Time {
	if !hint.IsZero() {
		return hint
	}
	if !lastEmpty {
		return now
	}
	if idleDelay <= 0 {
		idleDelay = DefaultIdleDelay
	}

	return now.Add(idleDelay)
}
