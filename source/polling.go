package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arloliu/intake/types"
)

// MinPollingInterval is the shortest interval accepted by SimplePolling.
const MinPollingInterval = 10 * time.Millisecond

// SingletonKey is the only partition key of a SimplePolling source.
const SingletonKey = "singleton"

// PollingConfig configures a SimplePolling source.
type PollingConfig struct {
	// Interval is the time between producer calls. Must be >= MinPollingInterval.
	Interval time.Duration `yaml:"interval"`

	// AlignTo, when set, aligns the cadence so that polls happen at
	// AlignTo + k*Interval. The first poll is the first such instant after
	// the partition is built.
	AlignTo *time.Time `yaml:"alignTo,omitempty"`
}

// Validate checks the polling configuration.
//
// Returns:
//   - error: wraps types.ErrInvalidConfig when Interval is below MinPollingInterval
func (c *PollingConfig) Validate() error {
	if c.Interval < MinPollingInterval {
		return fmt.Errorf("%w: polling interval must be >= %v, got %v", types.ErrInvalidConfig, MinPollingInterval, c.Interval)
	}

	return nil
}

// PollingOption configures a SimplePolling source.
type PollingOption func(*pollingOptions)

type pollingOptions struct {
	now func() time.Time
}

// WithClock overrides the clock used to compute awake times.
func WithClock(now func() time.Time) PollingOption {
	return func(o *pollingOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// SimplePolling calls a producer at a fixed interval.
//
// It is a fixed-partitioned source with the single key SingletonKey and no
// resume state. Each poll calls the producer once and emits its item as a
// one-element batch. The producer may return types.ErrNoItem to skip a tick
// and types.ErrExhausted to end the source; any other error is a failure.
//
// The producer should not block for long: the runtime drives all partitions
// of a worker from one goroutine.
type SimplePolling[T any] struct {
	cfg      PollingConfig
	nextItem func() (T, error)
	now      func() time.Time
}

var _ types.FixedPartitionedSource[int] = (*SimplePolling[int])(nil)

// NewSimplePolling creates a polling source.
//
// Parameters:
//   - cfg: polling interval and optional alignment
//   - nextItem: producer called once per interval
//   - opts: optional configuration (WithClock)
//
// Returns:
//   - *SimplePolling[T]: the source
//   - error: wraps types.ErrInvalidConfig when the interval is too short
//
// Example:
//
//	src, err := source.NewSimplePolling(source.PollingConfig{Interval: 5 * time.Second},
//	    func() (Reading, error) { return sensor.Read() })
//	if err != nil { /* handle */ }
func NewSimplePolling[T any](cfg PollingConfig, nextItem func() (T, error), opts ...PollingOption) (*SimplePolling[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if nextItem == nil {
		return nil, fmt.Errorf("%w: polling producer is required", types.ErrInvalidConfig)
	}

	o := pollingOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	return &SimplePolling[T]{
		cfg:      cfg,
		nextItem: nextItem,
		now:      o.now,
	}, nil
}

// ListParts returns the single key SingletonKey.
func (s *SimplePolling[T]) ListParts(_ context.Context) ([]string, error) {
	return []string{SingletonKey}, nil
}

// BuildPart builds the polling partition. The resume state is ignored.
//
// Returns:
//   - types.StatefulPartition[T]: the polling partition
//   - error: wraps types.ErrUnknownPartition for any key but SingletonKey
func (s *SimplePolling[T]) BuildPart(_ context.Context, key string, _ types.ResumeState) (types.StatefulPartition[T], error) {
	if key != SingletonKey {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownPartition, key)
	}

	return &pollingPartition[T]{
		interval: s.cfg.Interval,
		nextItem: s.nextItem,
		awake:    firstAwake(s.now(), s.cfg.Interval, s.cfg.AlignTo),
	}, nil
}

// firstAwake returns now, or the first aligned instant after now.
func firstAwake(now time.Time, interval time.Duration, alignTo *time.Time) time.Time {
	if alignTo == nil {
		return now
	}

	since := now.Sub(*alignTo) % interval
	if since < 0 {
		since += interval
	}

	return now.Add(interval - since)
}

type pollingPartition[T any] struct {
	interval time.Duration
	nextItem func() (T, error)
	awake    time.Time
}

// NextBatch advances the schedule by one interval and calls the producer once.
func (p *pollingPartition[T]) NextBatch() (types.Batch[T], error) {
	p.awake = p.awake.Add(p.interval)

	item, err := p.nextItem()
	switch {
	case err == nil:
		return types.NewBatch(item), nil
	case errors.Is(err, types.ErrNoItem):
		return types.EmptyBatch[T](), nil
	case errors.Is(err, types.ErrExhausted):
		return types.ExhaustedBatch[T](), nil
	default:
		return types.Batch[T]{}, err
	}
}

func (p *pollingPartition[T]) NextAwake() time.Time {
	return p.awake
}

// Snapshot returns nil: polling carries no position.
func (p *pollingPartition[T]) Snapshot() (types.ResumeState, error) {
	return nil, nil
}
