package intake

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/intake/checkpoint"
	"github.com/arloliu/intake/types"
)

// Config is the configuration of one worker's input runner.
//
// Every worker of an execution runs the same step with the same
// WorkerCount and its own WorkerIndex.
type Config struct {
	// StepID names the input step. Checkpoints are stored per step and
	// partition key, so it must stay the same across executions to resume.
	StepID string `yaml:"stepId"`

	// WorkerIndex is the index of this worker in [0, WorkerCount).
	WorkerIndex int `yaml:"workerIndex"`

	// WorkerCount is the total number of workers in the execution.
	WorkerCount int `yaml:"workerCount"`

	// SnapshotInterval is the epoch length: how often live stateful
	// partitions are snapshotted and their state saved.
	// Shorter intervals replay less after a crash but write more often.
	// Recommended: 10 seconds.
	SnapshotInterval time.Duration `yaml:"snapshotInterval"`

	// IdleDelay is how long a partition without an awake hint rests after
	// returning an empty batch.
	// Default: 1ms
	IdleDelay time.Duration `yaml:"idleDelay"`

	// OperationTimeout bounds each checkpoint load or save.
	// Recommended: 10 seconds.
	OperationTimeout time.Duration `yaml:"operationTimeout"`

	// Checkpoint configures the JetStream bucket used by checkpoint.OpenKV.
	Checkpoint checkpoint.KVConfig `yaml:"checkpoint"`
}

// DefaultConfig returns a single-worker configuration with default timings.
//
// Returns:
//   - Config: configuration with all defaults applied
func DefaultConfig() Config {
	return Config{
		StepID:           "input",
		WorkerIndex:      0,
		WorkerCount:      1,
		SnapshotInterval: 10 * time.Second,
		IdleDelay:        types.DefaultIdleDelay,
		OperationTimeout: 10 * time.Second,
		Checkpoint:       checkpoint.DefaultKVConfig(),
	}
}

// SetDefaults fills zero-valued fields of cfg with defaults.
//
// WorkerIndex is left untouched since zero is a valid index.
//
// Parameters:
//   - cfg: configuration to complete in place
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.StepID == "" {
		cfg.StepID = defaults.StepID
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = defaults.WorkerCount
	}
	if cfg.SnapshotInterval == 0 {
		cfg.SnapshotInterval = defaults.SnapshotInterval
	}
	if cfg.IdleDelay == 0 {
		cfg.IdleDelay = defaults.IdleDelay
	}
	if cfg.OperationTimeout == 0 {
		cfg.OperationTimeout = defaults.OperationTimeout
	}
	if cfg.Checkpoint.Bucket == "" {
		cfg.Checkpoint.Bucket = defaults.Checkpoint.Bucket
	}
	if cfg.Checkpoint.Replicas == 0 {
		cfg.Checkpoint.Replicas = defaults.Checkpoint.Replicas
	}
	if cfg.Checkpoint.History == 0 {
		cfg.Checkpoint.History = defaults.Checkpoint.History
	}
}

// Validate checks configuration values and their relationships.
//
// Returns:
//   - error: wraps ErrInvalidConfig or ErrInvalidWorker describing the first violation
func (cfg *Config) Validate() error {
	if cfg.StepID == "" {
		return fmt.Errorf("%w: StepID is required", ErrInvalidConfig)
	}

	if err := types.ValidateWorker(cfg.WorkerIndex, cfg.WorkerCount); err != nil {
		return err
	}

	if cfg.SnapshotInterval <= 0 {
		return fmt.Errorf("%w: SnapshotInterval must be > 0, got %v", ErrInvalidConfig, cfg.SnapshotInterval)
	}

	if cfg.IdleDelay < 0 {
		return fmt.Errorf("%w: IdleDelay must be >= 0, got %v", ErrInvalidConfig, cfg.IdleDelay)
	}

	if cfg.OperationTimeout <= 0 {
		return fmt.Errorf("%w: OperationTimeout must be > 0, got %v", ErrInvalidConfig, cfg.OperationTimeout)
	}

	return cfg.Checkpoint.Validate()
}

// ValidateWithWarnings logs warnings for valid but non-recommended values.
//
// Parameters:
//   - logger: logger receiving the warnings
func (cfg *Config) ValidateWithWarnings(logger Logger) {
	if cfg.SnapshotInterval < time.Second {
		logger.Warn(
			"SnapshotInterval is very short, checkpoint writes may dominate",
			"snapshotInterval", cfg.SnapshotInterval,
			"recommended", "1s or higher",
		)
	}

	if cfg.IdleDelay > time.Second {
		logger.Warn(
			"IdleDelay is long, idle partitions will react slowly to new data",
			"idleDelay", cfg.IdleDelay,
			"default", types.DefaultIdleDelay,
		)
	}

	if cfg.OperationTimeout > cfg.SnapshotInterval {
		logger.Warn(
			"OperationTimeout exceeds SnapshotInterval, a slow store can stall epochs",
			"operationTimeout", cfg.OperationTimeout,
			"snapshotInterval", cfg.SnapshotInterval,
		)
	}
}

// ParseConfig decodes a YAML document into a Config, applies defaults and
// validates the result.
//
// Parameters:
//   - data: YAML document
//
// Returns:
//   - Config: decoded configuration
//   - error: decode or validation failure
//
// Example:
//
//	cfg, err := intake.ParseConfig([]byte(`
//	stepId: orders
//	workerIndex: 1
//	workerCount: 4
//	snapshotInterval: 30s
//	`))
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	SetDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	return ParseConfig(data)
}

// TestConfig returns a configuration optimized for fast test execution.
//
// Example:
//
//	cfg := intake.TestConfig()
//	runner, err := intake.NewFixedRunner(cfg, src, sink)
func TestConfig() Config {
	cfg := DefaultConfig()

	cfg.StepID = "test"
	cfg.SnapshotInterval = 50 * time.Millisecond // 200x faster
	cfg.OperationTimeout = 2 * time.Second
	cfg.Checkpoint.MemoryStorage = true

	return cfg
}
