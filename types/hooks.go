package types

import "context"

// Hooks defines callbacks for runner lifecycle events.
//
// All hooks are optional. They run synchronously on the poll goroutine, so
// they must complete quickly: a slow hook delays every partition.
//
// Hook errors are logged but don't fail the runner.
//
// Example:
//
//	hooks := &intake.Hooks{
//	    OnPartitionExhausted: func(ctx context.Context, key string) error {
//	        log.Printf("partition %s done", key)
//	        return nil
//	    },
//	}
type Hooks struct {
	// OnPartitionBuilt is called after a partition is built.
	// resumed reports whether a checkpoint was handed to the builder.
	OnPartitionBuilt func(ctx context.Context, key string, resumed bool) error

	// OnPartitionExhausted is called once a partition reports exhaustion,
	// after its final snapshot and Close.
	OnPartitionExhausted func(ctx context.Context, key string) error

	// OnError is called when a recoverable error occurs (for example a failed
	// checkpoint save that will be retried at the next epoch).
	OnError func(ctx context.Context, err error) error
}
