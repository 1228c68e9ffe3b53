package filestore

import (
	"log/slog"
)

// DefaultMaxLineSize is the longest line Read accepts unless overridden.
const DefaultMaxLineSize = 4 * 1024 * 1024

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	hdfsUser         string
	maxInFlight      int64
	ioLimit          int64
	maxLineSize      int
	dialers          map[string]Dialer
}

// Option configures Open and New.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &filestore.BasicMetricsCollector{}
//	store, _ := filestore.Open(ctx, "hdfs://namenode:8020", filestore.WithMetricsCollector(metrics))
//	// ... use store ...
//	stats := metrics.GetStats()
//	fmt.Printf("Appends: %d, bytes: %d\n", stats.AppendCount, stats.AppendBytes)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := filestore.NewJSONLogger(slog.LevelInfo)
//	store, _ := filestore.Open(ctx, endpoint, filestore.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithHDFSUser sets the user the hdfs backend acts as.
// It takes precedence over the endpoint userinfo and HADOOP_USER_NAME.
func WithHDFSUser(user string) Option {
	return func(o *options) {
		o.hdfsUser = user
	}
}

// WithMaxInFlight bounds the number of operations talking to the remote
// filesystem at the same time. Callers beyond the limit block until a slot
// frees or their context ends. Zero means unlimited.
func WithMaxInFlight(n int) Option {
	return func(o *options) {
		o.maxInFlight = int64(n)
	}
}

// WithIOLimit caps the payload throughput of Append and Read in bytes per
// second, shared by all operations of the store. Zero means unlimited.
func WithIOLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.ioLimit = bytesPerSec
	}
}

// WithMaxLineSize sets the longest line Read accepts, in bytes and not
// counting the terminator. A longer line fails the
// read with bufio.ErrTooLong after returning the lines before it.
func WithMaxLineSize(n int) Option {
	return func(o *options) {
		o.maxLineSize = n
	}
}

// WithDialer registers d for endpoints with the given scheme, replacing the
// built-in dialer if there is one.
func WithDialer(scheme string, d Dialer) Option {
	return func(o *options) {
		if o.dialers == nil {
			o.dialers = make(map[string]Dialer)
		}
		o.dialers[scheme] = d
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NewLogger(nil),
		maxLineSize:      DefaultMaxLineSize,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.maxLineSize <= 0 {
		o.maxLineSize = DefaultMaxLineSize
	}
	return o
}
