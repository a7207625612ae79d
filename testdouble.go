package busclient

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// RecordingClient is a [BusClient] test double that records every
// Publish and Terminate call instead of talking to a real bus.
// SubscribeDurable and SubscribeEphemeral are unimplemented: a
// recording client is for exercising producer-side code paths, not
// the consumer loop, which should be driven directly against a
// [Handler] instead. Grounded on
// original_source/src/test_helpers.rs's TestNatsClient, generalized
// from its two locked Vecs to the same pattern under a single mutex.
type RecordingClient struct {
	mu                sync.Mutex
	publishRequests   []Event
	terminateRequests []Message
	publishErr        error
	terminateErr      error
}

// NewRecordingClient returns an empty [RecordingClient].
func NewRecordingClient() *RecordingClient {
	return &RecordingClient{}
}

// SetPublishErr makes every subsequent Publish call fail with err.
func (c *RecordingClient) SetPublishErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.publishErr = err
}

// SetTerminateErr makes every subsequent Terminate call fail with err.
func (c *RecordingClient) SetTerminateErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.terminateErr = err
}

// Publish implements [BusClient] by recording event.
func (c *RecordingClient) Publish(_ context.Context, event Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.publishErr != nil {
		return c.publishErr
	}
	c.publishRequests = append(c.publishRequests, event)
	return nil
}

// SubscribeDurable is unimplemented on a RecordingClient.
func (c *RecordingClient) SubscribeDurable(context.Context) (MessageStream, error) {
	panic("busclient: RecordingClient.SubscribeDurable is not implemented, this is a test client")
}

// SubscribeEphemeral is unimplemented on a RecordingClient.
func (c *RecordingClient) SubscribeEphemeral(context.Context, string, DeliverPolicy, AckPolicy) (MessageStream, error) {
	panic("busclient: RecordingClient.SubscribeEphemeral is not implemented, this is a test client")
}

// Terminate implements [BusClient] by recording msg.
func (c *RecordingClient) Terminate(_ context.Context, msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.terminateErr != nil {
		return c.terminateErr
	}
	c.terminateRequests = append(c.terminateRequests, msg)
	return nil
}

// PublishRequests returns a snapshot of every event passed to Publish,
// in call order.
func (c *RecordingClient) PublishRequests() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.publishRequests))
	copy(out, c.publishRequests)
	return out
}

// TerminateRequests returns a snapshot of every message passed to
// Terminate, in call order.
func (c *RecordingClient) TerminateRequests() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.terminateRequests))
	copy(out, c.terminateRequests)
	return out
}

// fakeMessage is an in-memory [Message] for driving a [Handler] or
// [Consumer] in tests without a real NATS connection.
type fakeMessage struct {
	subject string
	payload []byte
	headers map[string]string

	mu      sync.Mutex
	acked   bool
	nakked  bool
	termed  bool
	ackErr  error
	nakErr  error
	termErr error
}

func (m *fakeMessage) Subject() string              { return m.subject }
func (m *fakeMessage) Payload() []byte              { return m.payload }
func (m *fakeMessage) HeaderMap() map[string]string { return m.headers }

func (m *fakeMessage) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acked = true
	return m.ackErr
}

func (m *fakeMessage) Nak() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nakked = true
	return m.nakErr
}

func (m *fakeMessage) Term() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.termed = true
	return m.termErr
}

// Acked reports whether Ack was called.
func (m *fakeMessage) Acked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.acked
}

// Nakked reports whether Nak was called.
func (m *fakeMessage) Nakked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nakked
}

// Termed reports whether Term was called.
func (m *fakeMessage) Termed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.termed
}

// NewTestHeaders builds a ready-to-use [Headers] value for tests, with
// the given entity type and sequence id and a fixed sender,
// mirroring original_source/src/test_helpers.rs's role of producing
// disposable fixtures without each test hand-assembling every field.
func NewTestHeaders(entityType string, sequenceID int64) Headers {
	return NewHeaderBuilder(NewEventID(entityType, sequenceID), NewAgentID("test-agent.test-account")).Build()
}

// NewTestEvent builds a ready-to-use [Event] for tests: a subject
// under a fixed classroom id, the given payload, and headers from
// [NewTestHeaders].
func NewTestEvent(entityType string, sequenceID int64, payload []byte) Event {
	subject := NewSubject("test", uuid.MustParse("00000000-0000-0000-0000-000000000001"), entityType)
	return NewEventBuilder(subject, payload, NewEventID(entityType, sequenceID), NewAgentID("test-agent.test-account")).Build()
}
