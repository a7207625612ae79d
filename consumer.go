package busclient

import (
	"context"
	"log/slog"
	"time"
)

// outcomeKind classifies how a [Handler] wants its message acknowledged.
type outcomeKind int

const (
	outcomeProcessed outcomeKind = iota
	outcomeTransient
	outcomePermanent
)

// Outcome is what a [Handler] returns after looking at one [Message].
// Build one with [Processed], [Transient] or [Permanent]; the zero
// value is handled the same as [Processed].
type Outcome struct {
	kind outcomeKind
	err  error
}

// Processed reports that the message was handled successfully. The
// consumer acks it and resets its retry counter.
func Processed() Outcome { return Outcome{kind: outcomeProcessed} }

// Transient reports a recoverable failure (a downstream dependency
// timed out, a lock was held, ...). The consumer naks the message,
// suspends delivery for an exponentially growing interval, and keeps
// the message eligible for redelivery.
func Transient(err error) Outcome { return Outcome{kind: outcomeTransient, err: err} }

// Permanent reports a failure that will never succeed on retry (the
// payload doesn't parse, the referenced entity is gone, ...). The
// consumer quarantines the message via [BusClient.Terminate] instead
// of redelivering it.
func Permanent(err error) Outcome { return Outcome{kind: outcomePermanent, err: err} }

// Handler processes one inbound [Message] and reports the outcome.
// Implementations must not retain msg past their return (Ack/Nak/Term
// is driven by the consumer loop, never by the handler itself).
type Handler func(ctx context.Context, msg Message) Outcome

// Consumer runs the resubscribe-and-process loop against a
// [BusClient]'s durable pull stream, calling a [Handler] for every
// delivered message and mapping its [Outcome] to the matching ack
// action: subscribe, run until the stream closes or is cancelled,
// back off, resubscribe.
type Consumer struct {
	client  BusClient
	cfg     ConsumerConfig
	handler Handler

	logger  *slog.Logger
	metrics *Metrics
	sentry  *logSentry

	sleep func(ctx context.Context, d time.Duration) bool
}

// ConsumerOption configures a [Consumer] constructed by [NewConsumer].
type ConsumerOption func(*Consumer)

// WithLogger overrides the consumer's logger (default slog.Default()).
func WithLogger(logger *slog.Logger) ConsumerOption {
	return func(c *Consumer) { c.logger = logger }
}

// WithMetrics attaches Prometheus counters to the consumer loop. A
// nil *Metrics (the default) disables instrumentation.
func WithMetrics(m *Metrics) ConsumerOption {
	return func(c *Consumer) { c.metrics = m }
}

// WithErrorSink attaches an external telemetry collaborator. Without
// this option, internal errors are only logged locally.
func WithErrorSink(sink ErrorSink) ConsumerOption {
	return func(c *Consumer) { c.sentry.sink = sink }
}

// NewConsumer builds a [Consumer] that pulls from client's durable
// subscription and dispatches every message to handler. cfg tunes the
// suspend/backoff/resubscribe timings.
func NewConsumer(client BusClient, cfg ConsumerConfig, handler Handler, opts ...ConsumerOption) *Consumer {
	c := &Consumer{
		client:  client,
		cfg:     cfg,
		handler: handler,
		logger:  slog.Default(),
		sleep:   sleepCtx,
	}
	c.sentry = newLogSentry(cfg, c.logger, nil)
	for _, opt := range opts {
		opt(c)
	}
	c.sentry.logger = c.logger
	return c
}

// sleepCtx blocks for d or until ctx is done, whichever comes first,
// reporting whether the full duration elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// completionReason is why runInner returned control to the outer
// supervisor.
type completionReason int

const (
	completionShutdown completionReason = iota
	completionStreamClosed
)

// Run drives the consumer's outer resubscription supervisor
// (Subscribing → Running → Backoff, looping, with ShuttingDown as the
// terminal state) until ctx is cancelled. It returns nil on a clean
// shutdown; subscribe and stream failures are logged and sentried,
// never returned, since they're expected, recoverable operating
// conditions rather than a reason to give up the whole loop.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			c.logger.Info("nats consumer shutting down")
			return nil
		}

		c.logger.Debug("nats consumer subscribing")
		stream, err := c.client.SubscribeDurable(ctx)
		if err != nil {
			c.metrics.incResubscribe()
			c.sentry.logNotify(&SubscriptionFailedError{Err: err})
			if !c.sleep(ctx, c.cfg.ResubscribeInterval.Duration()) {
				c.logger.Info("nats consumer shutting down")
				return nil
			}
			continue
		}

		c.logger.Info("nats consumer running")
		reason := c.runInner(ctx, stream)
		stream.Stop()

		if reason == completionShutdown {
			c.logger.Info("nats consumer shutting down")
			return nil
		}

		c.metrics.incStreamError()
		c.sentry.logNotify(&StreamClosedError{})
		c.logger.Warn("nats consumer backing off before resubscribe")
		if !c.sleep(ctx, c.cfg.ResubscribeInterval.Duration()) {
			c.logger.Info("nats consumer shutting down")
			return nil
		}
	}
}

// runInner pulls and dispatches messages from one subscription until
// the stream closes or ctx is cancelled. A transiently-failed message
// suspends the whole stream (not just that message) for an
// exponentially growing interval before the next pull is attempted,
// and the interval resets to zero the moment any message processes
// successfully.
func (c *Consumer) runInner(ctx context.Context, stream MessageStream) completionReason {
	var retryCount uint
	var suspendFor time.Duration

	// Unblocks stream.Next when ctx is cancelled: the jetstream pull
	// iterator this wraps has no context-aware Next, only a Stop that
	// unblocks whatever Next call is in flight.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			stream.Stop()
		case <-done:
		}
	}()

	for {
		if suspendFor > 0 {
			c.logger.Warn("nats consumer suspending delivery", "duration", suspendFor)
			if !c.sleep(ctx, suspendFor) {
				return completionShutdown
			}
			suspendFor = 0
		}

		if ctx.Err() != nil {
			return completionShutdown
		}

		msg, err, ok := stream.Next(ctx)
		if !ok {
			if ctx.Err() != nil {
				return completionShutdown
			}
			return completionStreamClosed
		}
		if err != nil {
			// A recoverable per-item transport error (heartbeat miss,
			// unknown message, failed pull request). retry_count is
			// untouched: this isn't a message processing failure.
			c.sentry.logNotify(err)
			continue
		}

		c.logger.Log(ctx, LevelTrace, "nats consumer received message", "subject", msg.Subject())
		c.metrics.incProcessed()

		outcome := c.handler(ctx, msg)
		switch outcome.kind {
		case outcomeProcessed:
			retryCount = 0
			if ackErr := msg.Ack(); ackErr != nil {
				c.sentry.logNotify(&InternalError{Err: ackErr})
			}
			c.metrics.incAcked()

		case outcomeTransient:
			c.sentry.logNotify(outcome.err)
			if nakErr := msg.Nak(); nakErr != nil {
				c.sentry.logNotify(&InternalError{Err: nakErr})
			}
			c.metrics.incNakked()
			retryCount++
			suspendFor = backoff(retryCount, c.cfg)

		case outcomePermanent:
			c.sentry.logNotify(outcome.err)
			if termErr := c.client.Terminate(ctx, msg); termErr != nil {
				c.sentry.logNotify(termErr)
			}
			c.metrics.incTerminated()
		}
	}
}

// backoff computes the suspend interval for the n-th consecutive
// transient failure: suspend_interval * 2^n, capped at
// max_suspend_interval. n is retry_count after being incremented for
// this failure, so n is 1 for the first failure.
func backoff(n uint, cfg ConsumerConfig) time.Duration {
	base := cfg.SuspendInterval.Duration()
	max := cfg.MaxSuspendInterval.Duration()

	if n == 0 {
		return 0
	}
	shift := n
	if shift > 32 {
		shift = 32
	}
	d := base << shift
	if d <= 0 || (max > 0 && d > max) {
		return max
	}
	return d
}
