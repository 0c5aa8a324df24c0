package intake

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arloliu/intake/internal/logging"
	"github.com/arloliu/intake/internal/metrics"
)

// Option configures a Runner with optional dependencies.
type Option func(*runnerOptions)

// runnerOptions holds optional Runner configuration.
type runnerOptions struct {
	hooks   *Hooks
	metrics MetricsCollector
	logger  Logger
	store   CheckpointStore
}

// WithHooks sets lifecycle event hooks.
//
// Parameters:
//   - hooks: Hooks structure with callback functions
//
// Returns:
//   - Option: Functional option for NewFixedRunner and NewDynamicRunner
//
// Example:
//
//	hooks := &intake.Hooks{
//	    OnPartitionExhausted: func(ctx context.Context, key string) error {
//	        return markDone(key)
//	    },
//	}
//	runner, err := intake.NewFixedRunner(cfg, src, sink, intake.WithHooks(hooks))
func WithHooks(hooks *Hooks) Option {
	return func(o *runnerOptions) {
		o.hooks = hooks
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for NewFixedRunner and NewDynamicRunner
//
// Example:
//
//	runner, err := intake.NewFixedRunner(cfg, src, sink,
//	    intake.WithMetrics(intake.NewPrometheusMetrics(prometheus.DefaultRegisterer)))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *runnerOptions) {
		o.metrics = metrics
	}
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger)
//
// Returns:
//   - Option: Functional option for NewFixedRunner and NewDynamicRunner
func WithLogger(logger Logger) Option {
	return func(o *runnerOptions) {
		o.logger = logger
	}
}

// WithCheckpointStore sets where partition snapshots are persisted.
//
// Without this option snapshots go to a process-local checkpoint.Memory,
// which resumes nothing after a restart.
//
// Parameters:
//   - store: CheckpointStore implementation (e.g., checkpoint.OpenKV)
//
// Returns:
//   - Option: Functional option for NewFixedRunner
func WithCheckpointStore(store CheckpointStore) Option {
	return func(o *runnerOptions) {
		o.store = store
	}
}

// NewSlogLogger adapts a *slog.Logger to Logger. A nil logger means slog.Default().
func NewSlogLogger(l *slog.Logger) Logger {
	return logging.NewSlog(l)
}

// NewPrometheusMetrics returns a MetricsCollector registering its metrics
// under the "intake" namespace of reg (prometheus.DefaultRegisterer if nil).
func NewPrometheusMetrics(reg prometheus.Registerer) MetricsCollector {
	return metrics.NewPrometheus(reg, "intake")
}
