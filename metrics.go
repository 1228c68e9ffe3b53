package filestore

import (
	"sync/atomic"
	"time"
)

// Op names an operation reported to a MetricsCollector.
type Op string

// Operations reported to a MetricsCollector.
const (
	OpCreate      Op = "create"
	OpMkdir       Op = "mkdir"
	OpAppend      Op = "append"
	OpRead        Op = "read"
	OpDelete      Op = "delete"
	OpList        Op = "list"
	OpIsDirectory Op = "is_directory"
	OpStat        Op = "stat"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus;
// see package metrics/prometheus for a ready-made one.
type MetricsCollector interface {
	// RecordOp is called after each operation.
	// duration is the total time taken, err is nil if successful.
	// No-op outcomes (absent path, path already exists) are reported with
	// their sentinel error.
	RecordOp(op Op, duration time.Duration, err error)

	// RecordBytes is called with the payload size moved by append and read.
	RecordBytes(op Op, n int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordOp(Op, time.Duration, error) {}
func (NoopMetricsCollector) RecordBytes(Op, int)               {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	CreateCount   atomic.Int64
	CreateErrors  atomic.Int64
	AppendCount   atomic.Int64
	AppendErrors  atomic.Int64
	AppendBytes   atomic.Int64
	ReadCount     atomic.Int64
	ReadErrors    atomic.Int64
	ReadBytes     atomic.Int64
	DeleteCount   atomic.Int64
	DeleteErrors  atomic.Int64
	ListCount     atomic.Int64
	ListErrors    atomic.Int64
	OtherCount    atomic.Int64
	OtherErrors   atomic.Int64
	TotalNanos    atomic.Int64
	NotExistCount atomic.Int64
}

// RecordOp implements MetricsCollector.
func (b *BasicMetricsCollector) RecordOp(op Op, duration time.Duration, err error) {
	b.TotalNanos.Add(duration.Nanoseconds())

	count, errs := b.counters(op)
	count.Add(1)
	if err != nil {
		errs.Add(1)
		if isAbsent(err) {
			b.NotExistCount.Add(1)
		}
	}
}

// RecordBytes implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBytes(op Op, n int) {
	switch op {
	case OpAppend:
		b.AppendBytes.Add(int64(n))
	case OpRead:
		b.ReadBytes.Add(int64(n))
	}
}

func (b *BasicMetricsCollector) counters(op Op) (count, errs *atomic.Int64) {
	switch op {
	case OpCreate:
		return &b.CreateCount, &b.CreateErrors
	case OpAppend:
		return &b.AppendCount, &b.AppendErrors
	case OpRead:
		return &b.ReadCount, &b.ReadErrors
	case OpDelete:
		return &b.DeleteCount, &b.DeleteErrors
	case OpList:
		return &b.ListCount, &b.ListErrors
	default:
		return &b.OtherCount, &b.OtherErrors
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	s := BasicMetricsStats{
		CreateCount:   b.CreateCount.Load(),
		CreateErrors:  b.CreateErrors.Load(),
		AppendCount:   b.AppendCount.Load(),
		AppendErrors:  b.AppendErrors.Load(),
		AppendBytes:   b.AppendBytes.Load(),
		ReadCount:     b.ReadCount.Load(),
		ReadErrors:    b.ReadErrors.Load(),
		ReadBytes:     b.ReadBytes.Load(),
		DeleteCount:   b.DeleteCount.Load(),
		DeleteErrors:  b.DeleteErrors.Load(),
		ListCount:     b.ListCount.Load(),
		ListErrors:    b.ListErrors.Load(),
		OtherCount:    b.OtherCount.Load(),
		OtherErrors:   b.OtherErrors.Load(),
		NotExistCount: b.NotExistCount.Load(),
	}

	total := s.CreateCount + s.AppendCount + s.ReadCount + s.DeleteCount + s.ListCount + s.OtherCount
	if total > 0 {
		s.AvgNanos = b.TotalNanos.Load() / total
	}
	return s
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	CreateCount   int64
	CreateErrors  int64
	AppendCount   int64
	AppendErrors  int64
	AppendBytes   int64
	ReadCount     int64
	ReadErrors    int64
	ReadBytes     int64
	DeleteCount   int64
	DeleteErrors  int64
	ListCount     int64
	ListErrors    int64
	OtherCount    int64
	OtherErrors   int64
	NotExistCount int64
	AvgNanos      int64
}
