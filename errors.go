package intake

import "github.com/arloliu/intake/types"

// Sentinel errors re-exported from the types package.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrSourceRequired is returned when a runner is built without a source.
	ErrSourceRequired = types.ErrSourceRequired

	// ErrSinkRequired is returned when a runner is built without a sink.
	ErrSinkRequired = types.ErrSinkRequired

	// ErrInvalidWorker is returned when a worker index or count is out of range.
	ErrInvalidWorker = types.ErrInvalidWorker

	// ErrAlreadyStarted is returned when Run is called twice on the same runner.
	ErrAlreadyStarted = types.ErrAlreadyStarted

	// ErrExhausted is returned by getters to end a stream.
	ErrExhausted = types.ErrExhausted

	// ErrNoItem is the default "no item yet" signal for batch.FromGetterErr.
	ErrNoItem = types.ErrNoItem

	// ErrUnknownPartition is returned when building a key that was not listed.
	ErrUnknownPartition = types.ErrUnknownPartition

	// ErrDuplicatePartition is returned when a source lists the same key twice.
	ErrDuplicatePartition = types.ErrDuplicatePartition

	// ErrInvalidResumeState is returned when a connector cannot decode its resume state.
	ErrInvalidResumeState = types.ErrInvalidResumeState

	// ErrCheckpointFailed is returned when loading or saving a checkpoint fails.
	ErrCheckpointFailed = types.ErrCheckpointFailed
)
