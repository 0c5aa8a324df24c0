// Package kvutil provides utilities for working with NATS JetStream KeyValue stores.
package kvutil

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/intake/internal/backoff"
)

// EnsureKVBucket creates or opens a KV bucket, retrying transient failures.
//
// Several workers of one execution typically start together and race to
// create the same checkpoint bucket. Losing the race surfaces as
// jetstream.ErrBucketExists, in which case the existing bucket is opened.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - js: JetStream context
//   - config: KV bucket configuration
//   - policy: retry policy (backoff.DefaultPolicy() for the usual settings)
//
// Returns:
//   - jetstream.KeyValue: The KV bucket instance
//   - error: Any error that occurred after all retries
//
// Example:
//
//	kv, err := kvutil.EnsureKVBucket(ctx, js, jetstream.KeyValueConfig{
//	    Bucket: "intake-checkpoints",
//	}, backoff.DefaultPolicy())
func EnsureKVBucket(
	ctx context.Context,
	js jetstream.JetStream,
	config jetstream.KeyValueConfig,
	policy backoff.Policy,
) (jetstream.KeyValue, error) {
	var kv jetstream.KeyValue

	err := backoff.Retry(ctx, policy, nil, func(ctx context.Context) error {
		created, err := js.CreateKeyValue(ctx, config)
		if err == nil {
			kv = created
			return nil
		}
		if !errors.Is(err, jetstream.ErrBucketExists) {
			return err
		}

		opened, err := js.KeyValue(ctx, config.Bucket)
		if err != nil {
			return fmt.Errorf("bucket exists but failed to open: %w", err)
		}
		kv = opened

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create/open KV bucket %s: %w", config.Bucket, err)
	}

	return kv, nil
}
