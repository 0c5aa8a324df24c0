package checkpoint

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/intake/internal/backoff"
	"github.com/arloliu/intake/internal/kvutil"
	"github.com/arloliu/intake/internal/natsutil"
	"github.com/arloliu/intake/types"
)

// KVConfig configures the JetStream bucket backing a KV store.
type KVConfig struct {
	// Bucket is the KV bucket name.
	Bucket string `yaml:"bucket"`

	// Replicas is the number of bucket replicas (default 1).
	Replicas int `yaml:"replicas"`

	// History is the number of revisions kept per key (default 1).
	History uint8 `yaml:"history"`

	// MemoryStorage keeps the bucket in memory instead of on disk.
	// Checkpoints then do not survive a server restart.
	MemoryStorage bool `yaml:"memoryStorage"`
}

// DefaultKVConfig returns a KVConfig with the default bucket settings.
func DefaultKVConfig() KVConfig {
	return KVConfig{
		Bucket:   "intake-checkpoints",
		Replicas: 1,
		History:  1,
	}
}

// Validate checks the bucket configuration.
func (c *KVConfig) Validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("%w: checkpoint bucket name is required", types.ErrInvalidConfig)
	}
	if c.Replicas < 1 {
		return fmt.Errorf("%w: checkpoint bucket replicas must be >= 1, got %d", types.ErrInvalidConfig, c.Replicas)
	}
	if c.History < 1 {
		return fmt.Errorf("%w: checkpoint bucket history must be >= 1", types.ErrInvalidConfig)
	}

	return nil
}

// KV stores checkpoints in a NATS JetStream key-value bucket.
//
// Entries are JSON encoded. Step IDs and partition keys are base64url
// encoded into the KV key, so any string is a valid partition key. Puts are
// retried with jittered backoff while the failure looks transient.
type KV struct {
	kv     jetstream.KeyValue
	policy backoff.Policy
}

var _ types.CheckpointStore = (*KV)(nil)

// KVOption configures a KV store.
type KVOption func(*KV)

// WithRetry overrides how often Save retries a transient failure.
//
// Parameters:
//   - attempts: total number of Put calls (values < 1 keep the default of 3)
//   - base: first backoff delay (values <= 0 keep the default of 10ms)
func WithRetry(attempts int, base time.Duration) KVOption {
	return func(k *KV) {
		if attempts > 0 {
			k.policy.MaxAttempts = attempts
		}
		if base > 0 {
			k.policy.Base = base
		}
	}
}

// NewKV creates a store on an existing bucket.
//
// Parameters:
//   - kv: JetStream KV bucket
//   - opts: optional configuration (WithRetry)
//
// Returns:
//   - *KV: checkpoint store
func NewKV(kv jetstream.KeyValue, opts ...KVOption) *KV {
	k := &KV{kv: kv, policy: backoff.DefaultPolicy()}
	for _, opt := range opts {
		opt(k)
	}

	return k
}

// OpenKV creates the bucket described by cfg if needed and returns a store on it.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - js: JetStream context
//   - cfg: bucket configuration
//   - opts: optional configuration (WithRetry)
//
// Returns:
//   - *KV: checkpoint store
//   - error: invalid configuration or bucket creation failure
//
// Example:
//
//	js, _ := jetstream.New(nc)
//	store, err := checkpoint.OpenKV(ctx, js, checkpoint.DefaultKVConfig())
//	if err != nil { /* handle */ }
func OpenKV(ctx context.Context, js jetstream.JetStream, cfg KVConfig, opts ...KVOption) (*KV, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	storage := jetstream.FileStorage
	if cfg.MemoryStorage {
		storage = jetstream.MemoryStorage
	}

	kv, err := kvutil.EnsureKVBucket(ctx, js, jetstream.KeyValueConfig{
		Bucket:      cfg.Bucket,
		Description: "intake partition checkpoints",
		History:     cfg.History,
		Replicas:    cfg.Replicas,
		Storage:     storage,
	}, backoff.DefaultPolicy())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrCheckpointFailed, err)
	}

	return NewKV(kv, opts...), nil
}

// Load returns the latest checkpoint of a partition.
func (k *KV) Load(ctx context.Context, stepID, key string) (types.Checkpoint, bool, error) {
	entry, err := k.kv.Get(ctx, kvKey(stepID, key))
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return types.Checkpoint{}, false, nil
	}
	if err != nil {
		return types.Checkpoint{}, false, fmt.Errorf("%w: load %s/%s: %w", types.ErrCheckpointFailed, stepID, key, err)
	}

	var cp types.Checkpoint
	if err := json.Unmarshal(entry.Value(), &cp); err != nil {
		return types.Checkpoint{}, false, fmt.Errorf("%w: decode %s/%s: %w", types.ErrCheckpointFailed, stepID, key, err)
	}

	return cp, true, nil
}

// Save stores the checkpoint of a partition, replacing any earlier one.
func (k *KV) Save(ctx context.Context, stepID, key string, cp types.Checkpoint) error {
	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("%w: encode %s/%s: %w", types.ErrCheckpointFailed, stepID, key, err)
	}

	err = backoff.Retry(ctx, k.policy, natsutil.IsRetryable, func(ctx context.Context) error {
		_, err := k.kv.Put(ctx, kvKey(stepID, key), data)
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: save %s/%s: %w", types.ErrCheckpointFailed, stepID, key, err)
	}

	return nil
}

// Keys returns the partition keys with a checkpoint under stepID.
func (k *KV) Keys(ctx context.Context, stepID string) ([]string, error) {
	lister, err := k.kv.ListKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list keys: %w", types.ErrCheckpointFailed, err)
	}
	defer func() { _ = lister.Stop() }()

	prefix := encodeKeyPart(stepID) + "."
	var keys []string
	for raw := range lister.Keys() {
		encoded, ok := strings.CutPrefix(raw, prefix)
		if !ok {
			continue
		}
		key, err := decodeKeyPart(encoded)
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}

	return keys, nil
}

// kvKey builds "<step>.<key>" with both parts base64url encoded.
// An empty part is encoded as "_" since KV keys can't contain empty tokens.
func kvKey(stepID, key string) string {
	return encodeKeyPart(stepID) + "." + encodeKeyPart(key)
}

func encodeKeyPart(s string) string {
	if s == "" {
		return "_"
	}

	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func decodeKeyPart(s string) (string, error) {
	if s == "_" {
		return "", nil
	}
	b, err := base64.RawURLEncoding.DecodeString(s)

	return string(b), err
}
