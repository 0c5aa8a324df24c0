package metrics

import (
	"strconv"
	"sync"

	"github.com/arloliu/intake/types"
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Metrics are registered lazily on first use, so constructing a collector
// that is never used leaves the registry untouched.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	batches        *prometheus.CounterVec
	items          *prometheus.CounterVec
	emptyPolls     *prometheus.CounterVec
	exhausted      *prometheus.CounterVec
	pollLatency    prometheus.Histogram
	livePartitions prometheus.Gauge
	snapshots      *prometheus.CounterVec
	snapshotTime   prometheus.Histogram
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Per-partition series are labeled by partition key; keep key cardinality
// in mind for sources with many partitions.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "intake" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "intake"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.batches = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "partition",
			Name:      "batches_total",
			Help:      "Total non-empty batches emitted by partition.",
		}, []string{"partition"})
		p.items = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "partition",
			Name:      "items_total",
			Help:      "Total items emitted by partition.",
		}, []string{"partition"})
		p.emptyPolls = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "partition",
			Name:      "empty_polls_total",
			Help:      "Total polls that returned no items, by partition.",
		}, []string{"partition"})
		p.exhausted = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "partition",
			Name:      "exhausted_total",
			Help:      "Partitions that reached exhaustion.",
		}, []string{"partition"})
		p.pollLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "partition",
			Name:      "poll_latency_seconds",
			Help:      "Latency of NextBatch calls in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2.5, 10), // 100µs .. ~0.4s
		})
		p.livePartitions = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "partition",
			Name:      "live",
			Help:      "Current number of partitions still being polled.",
		})
		p.snapshots = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "checkpoint",
			Name:      "snapshots_total",
			Help:      "Total snapshot rounds by outcome.",
		}, []string{"success"})
		p.snapshotTime = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "checkpoint",
			Name:      "snapshot_duration_seconds",
			Help:      "Duration of snapshot rounds in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms .. ~2s
		})

		p.reg.MustRegister(p.batches)
		p.reg.MustRegister(p.items)
		p.reg.MustRegister(p.emptyPolls)
		p.reg.MustRegister(p.exhausted)
		p.reg.MustRegister(p.pollLatency)
		p.reg.MustRegister(p.livePartitions)
		p.reg.MustRegister(p.snapshots)
		p.reg.MustRegister(p.snapshotTime)
	})
}

// RecordBatch increments batch and item counters.
func (p *PrometheusCollector) RecordBatch(key string, size int) {
	p.ensureRegistered()
	p.batches.WithLabelValues(key).Inc()
	p.items.WithLabelValues(key).Add(float64(size))
}

// RecordEmptyPoll increments the empty poll counter.
func (p *PrometheusCollector) RecordEmptyPoll(key string) {
	p.ensureRegistered()
	p.emptyPolls.WithLabelValues(key).Inc()
}

// RecordExhausted increments the exhaustion counter.
func (p *PrometheusCollector) RecordExhausted(key string) {
	p.ensureRegistered()
	p.exhausted.WithLabelValues(key).Inc()
}

// RecordPollLatency observes a NextBatch latency.
func (p *PrometheusCollector) RecordPollLatency(duration float64) {
	p.ensureRegistered()
	p.pollLatency.Observe(duration)
}

// RecordLivePartitions sets the live partition gauge.
func (p *PrometheusCollector) RecordLivePartitions(count int) {
	p.ensureRegistered()
	p.livePartitions.Set(float64(count))
}

// RecordSnapshot counts a snapshot round and observes its duration.
func (p *PrometheusCollector) RecordSnapshot(duration float64, success bool) {
	p.ensureRegistered()
	p.snapshots.WithLabelValues(strconv.FormatBool(success)).Inc()
	p.snapshotTime.Observe(duration)
}
