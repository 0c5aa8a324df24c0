package types

import "errors"

// Sentinel errors for the intake library.
//
// Check them with errors.Is. Components wrap external errors with context
// using fmt.Errorf("%s: %w", msg, err).

// Configuration and construction errors.
var (
	// ErrInvalidConfig is returned when a configuration value is out of range.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrSourceRequired is returned when a runner is built without a source.
	ErrSourceRequired = errors.New("source is required")

	// ErrSinkRequired is returned when a runner is built without a sink.
	ErrSinkRequired = errors.New("sink is required")

	// ErrInvalidWorker is returned when a worker index or count is out of range.
	ErrInvalidWorker = errors.New("invalid worker index or count")

	// ErrAlreadyStarted is returned when Run is called on a runner that already ran.
	ErrAlreadyStarted = errors.New("runner already started")
)

// Read errors.
var (
	// ErrExhausted is returned by item getters to signal that no more items
	// will ever be produced. Batch adapters turn it into an exhausted batch;
	// it never reaches the runtime as a failure.
	ErrExhausted = errors.New("source exhausted")

	// ErrNoItem is the default "no item yet" signal for getters used with
	// batch.FromGetterErr. It ends the current batch, not the stream.
	ErrNoItem = errors.New("no item available yet")
)

// Partition errors.
var (
	// ErrUnknownPartition is returned when a partition key was not reported
	// by the source on this worker.
	ErrUnknownPartition = errors.New("unknown partition key")

	// ErrDuplicatePartition is returned when a source lists the same key twice.
	ErrDuplicatePartition = errors.New("duplicate partition key")

	// ErrInvalidResumeState is returned when a connector cannot decode the
	// resume state handed to it.
	ErrInvalidResumeState = errors.New("invalid resume state")
)

// Checkpoint errors.
var (
	// ErrCheckpointFailed is returned when loading or saving a checkpoint fails.
	ErrCheckpointFailed = errors.New("checkpoint operation failed")
)
