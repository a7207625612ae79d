package busclient

// Event is an outbound or reconstructed message: a routing [Subject],
// an opaque payload, and typed [Headers]. Immutable once built.
type Event struct {
	subject Subject
	payload []byte
	headers Headers
}

// Subject returns the event's routing subject.
func (e Event) Subject() Subject { return e.subject }

// Payload returns the event's payload bytes.
func (e Event) Payload() []byte { return e.payload }

// Headers returns the event's typed headers.
func (e Event) Headers() Headers { return e.headers }

// EventBuilder constructs an [Event] with optional header mutators
// layered on top of the required fields.
type EventBuilder struct {
	subject Subject
	payload []byte
	headers *HeaderBuilder
}

// NewEventBuilder starts building an event for the given subject and
// payload, with a new [HeaderBuilder] seeded from eventID and senderID.
func NewEventBuilder(subject Subject, payload []byte, eventID EventID, senderID AgentID) *EventBuilder {
	return &EventBuilder{
		subject: subject,
		payload: payload,
		headers: NewHeaderBuilder(eventID, senderID),
	}
}

// NotInternal marks the event as externally originated.
func (b *EventBuilder) NotInternal() *EventBuilder {
	b.headers.NotInternal()
	return b
}

// WithReceiver attaches an explicit receiver agent id.
func (b *EventBuilder) WithReceiver(receiverID AgentID) *EventBuilder {
	b.headers.WithReceiver(receiverID)
	return b
}

// DisableDeduplication turns off the server-side message-id dedup hint.
func (b *EventBuilder) DisableDeduplication() *EventBuilder {
	b.headers.DisableDeduplication()
	return b
}

// Build finalizes the event. Never fails: the builder does no
// validation beyond what [Subject] and [Headers] already enforce at
// construction.
func (b *EventBuilder) Build() Event {
	return Event{
		subject: b.subject,
		payload: b.payload,
		headers: b.headers.Build(),
	}
}
