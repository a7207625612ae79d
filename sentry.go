package busclient

import (
	"log/slog"
	"sync"
	"time"
)

// ErrorSink is the external telemetry collaborator a [Consumer]
// forwards a rate-limited subset of its internal errors to. Production
// callers typically wire this to their existing error-telemetry
// transport (Sentry, an APM, etc); it is process-wide and must be
// concurrency-safe.
type ErrorSink interface {
	Notify(err error)
}

// ErrorSinkFunc adapts a function to [ErrorSink].
type ErrorSinkFunc func(err error)

// Notify implements ErrorSink.
func (f ErrorSinkFunc) Notify(err error) { f(err) }

// logSentry throttles how often internal consumer errors are
// forwarded to the process-wide [ErrorSink], while always logging
// locally: a time-windowed allow gate in front of a noisy channel,
// rather than a counter reset per interval.
//
// last_sent is seeded in the past by 2*suspendSentryInterval so the
// first error of a Consumer's lifetime is always forwarded; every
// report thereafter is gated by suspendInterval, not
// suspendSentryInterval — suspendSentryInterval only primes the
// initial timestamp.
type logSentry struct {
	mu sync.Mutex

	lastSent time.Time
	interval time.Duration

	logger *slog.Logger
	sink   ErrorSink

	now func() time.Time
}

func newLogSentry(cfg ConsumerConfig, logger *slog.Logger, sink ErrorSink) *logSentry {
	now := time.Now
	return &logSentry{
		lastSent: now().Add(-2 * cfg.SuspendSentryInterval.Duration()),
		interval: cfg.SuspendInterval.Duration(),
		logger:   logger,
		sink:     sink,
		now:      now,
	}
}

// logNotify always logs err locally, and forwards it to the
// [ErrorSink] only if at least `interval` has elapsed since the last
// forward.
func (s *logSentry) logNotify(err error) {
	s.logger.Error("nats consumer error", "error", err)

	if s.sink == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSent) >= s.interval {
		s.lastSent = now
		s.sink.Notify(err)
	}
}
