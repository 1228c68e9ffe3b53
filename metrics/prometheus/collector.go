// Package prometheus exports file store metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	collector, err := fsprom.NewCollector(reg)
//	store, _ := filestore.Open(ctx, endpoint, filestore.WithMetricsCollector(collector))
package prometheus

import (
	"errors"
	"time"

	"github.com/hupe1980/filestore"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	OutcomeOK       = "ok"
	OutcomeNotExist = "not_exist"
	OutcomeExist    = "exist"
	OutcomeError    = "error"
)

// Options configures NewCollector.
type Options struct {
	// Namespace prefixes every metric name. Default: "filestore".
	Namespace string

	// Buckets are the latency histogram buckets in seconds. Default: prometheus.DefBuckets.
	Buckets []float64

	// ConstLabels are attached to every metric (e.g. the endpoint).
	ConstLabels prometheus.Labels
}

// Collector implements filestore.MetricsCollector with Prometheus metrics.
type Collector struct {
	ops       *prometheus.CounterVec
	opLatency *prometheus.HistogramVec
	bytes     *prometheus.CounterVec
}

var _ filestore.MetricsCollector = (*Collector)(nil)

// NewCollector creates the metrics and registers them with reg.
func NewCollector(reg prometheus.Registerer, optFns ...func(o *Options)) (*Collector, error) {
	opts := Options{
		Namespace: "filestore",
		Buckets:   prometheus.DefBuckets,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	c := &Collector{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   opts.Namespace,
			Name:        "operations_total",
			Help:        "File store operations by operation and outcome.",
			ConstLabels: opts.ConstLabels,
		}, []string{"op", "outcome"}),
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   opts.Namespace,
			Name:        "operation_duration_seconds",
			Help:        "Latency of file store operations.",
			Buckets:     opts.Buckets,
			ConstLabels: opts.ConstLabels,
		}, []string{"op"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   opts.Namespace,
			Name:        "payload_bytes_total",
			Help:        "Payload bytes moved by append and read.",
			ConstLabels: opts.ConstLabels,
		}, []string{"op"}),
	}

	for _, col := range []prometheus.Collector{c.ops, c.opLatency, c.bytes} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// MustNewCollector is like NewCollector but panics if registration fails.
func MustNewCollector(reg prometheus.Registerer, optFns ...func(o *Options)) *Collector {
	c, err := NewCollector(reg, optFns...)
	if err != nil {
		panic(err)
	}
	return c
}

// RecordOp implements filestore.MetricsCollector.
func (c *Collector) RecordOp(op filestore.Op, duration time.Duration, err error) {
	c.ops.WithLabelValues(string(op), outcome(err)).Inc()
	c.opLatency.WithLabelValues(string(op)).Observe(duration.Seconds())
}

// RecordBytes implements filestore.MetricsCollector.
func (c *Collector) RecordBytes(op filestore.Op, n int) {
	if n <= 0 {
		return
	}
	c.bytes.WithLabelValues(string(op)).Add(float64(n))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, filestore.ErrNotExist):
		return OutcomeNotExist
	case errors.Is(err, filestore.ErrExist):
		return OutcomeExist
	default:
		return OutcomeError
	}
}
