// Package tracing times the steps of a run and reports them as debug logs.
package tracing

import (
	"context"
	"log/slog"
	"time"
)

var (
	_ Tracer = LoggingTracer{}
	_ Span   = loggingSpan{}
)

// Tracer starts spans.
type Tracer interface {
	StartSpan(operationName string) Span
}

// Span is a timed operation. Attributes set on a span are reported when it
// finishes.
type Span interface {
	SetAttr(key string, value any)
	Finish()
}

// LoggingTracer logs each finished span at debug level.
type LoggingTracer struct {
	logger *slog.Logger
}

// NewLoggingTracer returns a [LoggingTracer] writing to logger. A nil logger
// selects the default logger at the time each span finishes.
func NewLoggingTracer(logger *slog.Logger) *LoggingTracer {
	return &LoggingTracer{
		logger: logger,
	}
}

//nolint:ireturn
func (l LoggingTracer) StartSpan(operationName string) Span {
	return loggingSpan{
		logger:        l.logger,
		operationName: operationName,
		attrs:         &[]slog.Attr{},
		start:         time.Now(),
	}
}

type loggingSpan struct {
	logger        *slog.Logger
	attrs         *[]slog.Attr
	start         time.Time
	operationName string
}

func (s loggingSpan) SetAttr(key string, value any) {
	*s.attrs = append(*s.attrs, slog.Any(key, value))
}

func (s loggingSpan) Finish() {
	logger := s.logger
	if logger == nil {
		logger = slog.Default()
	}

	attrs := make([]slog.Attr, 0, len(*s.attrs)+2)
	attrs = append(attrs, *s.attrs...)
	attrs = append(attrs,
		slog.String("operation_name", s.operationName),
		slog.Float64("time_ms", float64(time.Since(s.start).Microseconds())/1e3),
	)

	logger.LogAttrs(context.Background(), slog.LevelDebug, "trace", attrs...)
}
