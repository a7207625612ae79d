package busclient

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// DeliverPolicy selects where an ephemeral consumer starts delivering
// from.
type DeliverPolicy int

const (
	DeliverAll DeliverPolicy = iota
	DeliverNew
	DeliverLast
)

// AckPolicy selects the acknowledgement mode of an ephemeral consumer.
type AckPolicy int

const (
	AckExplicit AckPolicy = iota
	AckNone
	AckAll
)

// BusClient is the capability set the [Consumer] and producers depend
// on. It is implemented by [NATSClient] for production use and by
// [RecordingClient] for tests. Implementations must be safe for
// concurrent use and cheaply cloneable (a *NATSClient value is already
// a thin handle over a shared connection).
type BusClient interface {
	// Publish submits an event and waits for the bus to confirm
	// durable storage. Distinguishes "failed to enqueue"
	// ([PublishFailedError]) from "failed to durably store"
	// ([AckFailedError]).
	Publish(ctx context.Context, event Event) error

	// SubscribeDurable opens a pull stream against the configured
	// stream/consumer pair. Both must already exist server-side;
	// SubscribeDurable does not create them.
	SubscribeDurable(ctx context.Context) (MessageStream, error)

	// SubscribeEphemeral creates a server-side ephemeral push consumer
	// bound to a fresh private delivery subject, filtered by
	// subjectFilter. Not used by [Consumer]; intended for per-request
	// tailing by callers.
	SubscribeEphemeral(ctx context.Context, subjectFilter string, deliver DeliverPolicy, ack AckPolicy) (MessageStream, error)

	// Terminate republishes msg under a "terminated.<prefix>" subject
	// preserving payload, event id, and sender id, then sends a Term
	// acknowledgement on the original so the bus drops it. Returns
	// [*AlreadyTerminatedError] if msg's subject is already
	// terminated.
	Terminate(ctx context.Context, msg Message) error
}

// NATSClient is the production [BusClient], wrapping a NATS JetStream
// connection. Construct with [Connect].
type NATSClient struct {
	nc       *nats.Conn
	js       jetstream.JetStream
	legacyJS nats.JetStreamContext
	cfg      Config
	logger   *slog.Logger
}

// Connect dials the bus at cfg.URL using the credentials file at
// cfg.Creds and returns a ready-to-use [NATSClient]. A nil logger is
// replaced with slog.Default().
func Connect(ctx context.Context, cfg Config, logger *slog.Logger) (*NATSClient, error) {
	if logger == nil {
		logger = slog.Default()
	}

	nc, err := nats.Connect(cfg.URL,
		nats.UserCredentials(cfg.Creds),
		nats.ErrorHandler(func(_ *nats.Conn, sub *nats.Subscription, err error) {
			subj := ""
			if sub != nil {
				subj = sub.Subject
			}
			logger.Error("nats client error occurred", "subject", subj, "error", err)
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(*nats.Conn) {
			logger.Info("nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("busclient: connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("busclient: jetstream: %w", err)
	}

	legacyJS, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("busclient: jetstream (legacy): %w", err)
	}

	_ = ctx // reserved: credential/handshake timeout is controlled via nats.Timeout option, not ctx, in this client version.

	return &NATSClient{nc: nc, js: js, legacyJS: legacyJS, cfg: cfg, logger: logger}, nil
}

// Close drains and closes the underlying connection.
func (c *NATSClient) Close() error {
	return c.nc.Drain()
}

// Publish implements [BusClient].
func (c *NATSClient) Publish(ctx context.Context, event Event) error {
	msg := &nats.Msg{
		Subject: event.Subject().String(),
		Data:    event.Payload(),
		Header:  make(nats.Header),
	}
	for k, v := range event.Headers().Encode() {
		msg.Header.Set(k, v)
	}

	c.logger.Log(ctx, LevelTrace, "publishing event", "subject", msg.Subject, "payload_size", len(msg.Data))

	ackFuture, err := c.legacyJS.PublishMsgAsync(msg)
	if err != nil {
		return &PublishFailedError{Err: err}
	}

	select {
	case <-ackFuture.Ok():
		return nil
	case err := <-ackFuture.Err():
		return &AckFailedError{Err: err}
	case <-ctx.Done():
		return &AckFailedError{Err: ctx.Err()}
	}
}

// SubscribeDurable implements [BusClient].
func (c *NATSClient) SubscribeDurable(ctx context.Context) (MessageStream, error) {
	durCfg := c.cfg.SubscribeDurable
	if durCfg == nil {
		return nil, ErrSubscribeConfigNotFound
	}

	stream, err := c.js.Stream(ctx, durCfg.Stream)
	if err != nil {
		return nil, &GettingStreamFailedError{Err: err}
	}

	consumer, err := stream.Consumer(ctx, durCfg.Consumer)
	if err != nil {
		return nil, &GettingConsumerFailedError{Err: err}
	}

	opts := []jetstream.PullMessagesOpt{}
	if durCfg.Batch > 0 {
		opts = append(opts, jetstream.PullMaxMessages(durCfg.Batch))
	}
	if durCfg.IdleHeartbeat.Duration() > 0 {
		opts = append(opts, jetstream.PullHeartbeat(durCfg.IdleHeartbeat.Duration()))
	}

	msgCtx, err := consumer.Messages(opts...)
	if err != nil {
		return nil, &StreamCreationFailedError{Err: err}
	}

	c.logger.Info("subscribed to durable nats consumer", "stream", durCfg.Stream, "consumer", durCfg.Consumer)

	return &natsMessageStream{ctx: msgCtx}, nil
}

// SubscribeEphemeral implements [BusClient]. It is not called by
// [Consumer]; it exists for per-request tailing by callers that need
// a private, non-durable view of a subject.
func (c *NATSClient) SubscribeEphemeral(ctx context.Context, subjectFilter string, deliver DeliverPolicy, ack AckPolicy) (MessageStream, error) {
	eph := c.cfg.SubscribeEphemeral
	if eph == nil {
		return nil, ErrSubscribeConfigNotFound
	}

	ch := make(chan *nats.Msg, 64)

	opts := []nats.SubOpt{
		nats.BindStream(eph.Stream),
		nats.InactiveThreshold(time.Minute),
	}
	switch deliver {
	case DeliverNew:
		opts = append(opts, nats.DeliverNew())
	case DeliverLast:
		opts = append(opts, nats.DeliverLast())
	default:
		opts = append(opts, nats.DeliverAll())
	}
	switch ack {
	case AckNone:
		opts = append(opts, nats.AckNone())
	case AckAll:
		opts = append(opts, nats.AckAll())
	default:
		opts = append(opts, nats.AckExplicit())
	}

	sub, err := c.legacyJS.ChanSubscribe(subjectFilter, ch, opts...)
	if err != nil {
		return nil, &EphemeralConsumerCreationFailedError{Err: err}
	}

	c.logger.Info("created ephemeral consumer", "subject_filter", subjectFilter, "inbox", sub.Subject)

	return &ephemeralMessageStream{sub: sub, ch: ch}, nil
}

// Terminate implements [BusClient].
func (c *NATSClient) Terminate(ctx context.Context, msg Message) error {
	// Checked on the raw wire subject: a terminated subject's dotted
	// prefix does not survive ParseSubject.
	if strings.HasPrefix(msg.Subject(), TerminatedPrefix+".") {
		return &AlreadyTerminatedError{Subject: msg.Subject()}
	}

	headers, err := DecodeHeaders(msg.HeaderMap())
	if err != nil {
		return err
	}

	subject, err := ParseSubject(msg.Subject())
	if err != nil {
		return err
	}

	newEvent := NewEventBuilder(subject.Terminated(), msg.Payload(), headers.EventID(), headers.SenderID()).Build()

	if err := c.Publish(ctx, newEvent); err != nil {
		return err
	}

	if err := msg.Term(); err != nil {
		return &AckTermFailedError{Err: err}
	}

	c.logger.Info("terminated message", "original_subject", msg.Subject(), "terminated_subject", newEvent.Subject().String())

	return nil
}
