package service

import (
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"attachapi/internal/metrics"
)

const tracerName = "attachapi/internal/service"

type options struct {
	baseURL   string
	chunkSize int
	logger    *slog.Logger
	metrics   *metrics.Downloads
	tracer    trace.Tracer
	now       func() time.Time
	token     func() string
}

// Option customizes an AttachmentService.
type Option func(*options)

// WithBaseURL sets the public origin download URLs are built on.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = strings.TrimRight(u, "/") }
}

// WithChunkSize sets how many bytes a transfer writes between flushes.
func WithChunkSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.chunkSize = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func WithMetrics(m *metrics.Downloads) Option {
	return func(o *options) { o.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func defaultOptions() options {
	return options{
		chunkSize: DefaultChunkSize,
		logger:    slog.Default(),
		tracer:    otel.Tracer(tracerName),
		now:       func() time.Time { return time.Now().UTC() },
		token:     uuid.NewString,
	}
}
