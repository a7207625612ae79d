package busclient

import (
	"context"
	"errors"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Message is an inbound bus message together with the ack actions
// available on it. Concrete instances are produced by a
// [MessageStream] or an ephemeral subscription.
type Message interface {
	// Subject is the wire subject the message was delivered on.
	Subject() string
	// Payload is the message body.
	Payload() []byte
	// HeaderMap is the raw wire header map, suitable for
	// [DecodeHeaders].
	HeaderMap() map[string]string

	// Ack positively acknowledges the message, removing it from the
	// stream.
	Ack() error
	// Nak negatively acknowledges the message for immediate
	// redelivery, with no server-side delay (the consumer's own
	// suspend/backoff provides the delay instead).
	Nak() error
	// Term drops the message without redelivery. Used only after a
	// successful republish to the message's "terminated.*" subject.
	Term() error
}

// MessageStream is a lazy, finite, non-restartable sequence of inbound
// messages, as produced by [BusClient.SubscribeDurable]. Next returns
// (msg, nil, true) for a normally delivered message, (nil, err, true)
// for a recoverable per-item transport error (heartbeat miss, unknown
// message, failed request-send — the consumer loop treats these as
// non-fatal and keeps pulling), and (nil, nil, false) once the stream
// has closed terminally (deleted consumer, server-side timeout, torn
// down connection past recovery). A stream that returns ok=false must
// never be reused; the caller resubscribes to get a fresh one.
type MessageStream interface {
	Next(ctx context.Context) (msg Message, err error, ok bool)
	// Stop releases resources held by the stream (the underlying pull
	// request). Safe to call multiple times.
	Stop()
}

// natsMessage adapts a jetstream.Msg to the [Message] interface.
type natsMessage struct {
	msg jetstream.Msg
}

func (m *natsMessage) Subject() string { return m.msg.Subject() }
func (m *natsMessage) Payload() []byte { return m.msg.Data() }

func (m *natsMessage) HeaderMap() map[string]string {
	hdr := m.msg.Headers()
	out := make(map[string]string, len(hdr))
	for k, v := range hdr {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

func (m *natsMessage) Ack() error  { return m.msg.Ack() }
func (m *natsMessage) Nak() error  { return m.msg.Nak() }
func (m *natsMessage) Term() error { return m.msg.Term() }

// natsMessageStream adapts a jetstream.MessagesContext pull iterator
// to [MessageStream].
type natsMessageStream struct {
	ctx jetstream.MessagesContext
}

func (s *natsMessageStream) Next(_ context.Context) (Message, error, bool) {
	msg, err := s.ctx.Next()
	if err != nil {
		if errors.Is(err, jetstream.ErrMsgIteratorClosed) ||
			errors.Is(err, jetstream.ErrConsumerDeleted) ||
			errors.Is(err, jetstream.ErrConsumerNotFound) {
			return nil, nil, false
		}
		// Heartbeat misses, unknown messages, and failed pull requests
		// surface here as recoverable per-item errors.
		return nil, &InternalError{Err: err}, true
	}
	return &natsMessage{msg: msg}, nil, true
}

func (s *natsMessageStream) Stop() { s.ctx.Stop() }

// legacyNatsMessage adapts a push-delivered *nats.Msg (ephemeral
// consumers) to the [Message] interface.
type legacyNatsMessage struct {
	msg *nats.Msg
}

func (m *legacyNatsMessage) Subject() string { return m.msg.Subject }
func (m *legacyNatsMessage) Payload() []byte { return m.msg.Data }

func (m *legacyNatsMessage) HeaderMap() map[string]string {
	out := make(map[string]string, len(m.msg.Header))
	for k, v := range m.msg.Header {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

func (m *legacyNatsMessage) Ack() error  { return m.msg.Ack() }
func (m *legacyNatsMessage) Nak() error  { return m.msg.Nak() }
func (m *legacyNatsMessage) Term() error { return m.msg.Term() }

// ephemeralMessageStream adapts a channel-delivered ephemeral push
// subscription to [MessageStream].
type ephemeralMessageStream struct {
	sub *nats.Subscription
	ch  chan *nats.Msg

	stopOnce sync.Once
}

func (s *ephemeralMessageStream) Next(ctx context.Context) (Message, error, bool) {
	select {
	case msg, open := <-s.ch:
		if !open {
			return nil, nil, false
		}
		return &legacyNatsMessage{msg: msg}, nil, true
	case <-ctx.Done():
		return nil, &InternalError{Err: ctx.Err()}, true
	}
}

func (s *ephemeralMessageStream) Stop() {
	s.stopOnce.Do(func() {
		_ = s.sub.Unsubscribe()
	})
}
