package busclient

import "fmt"

// Sentinel errors for the no-payload subscribe-config failure kinds.
var (
	ErrSubscribeConfigNotFound = fmt.Errorf("busclient: subscribe config not found")
)

// PublishFailedError reports that the bus rejected the publish before
// it could be durably stored (the "enqueue" stage of a publish).
type PublishFailedError struct{ Err error }

func (e *PublishFailedError) Error() string { return fmt.Sprintf("busclient: publish failed: %v", e.Err) }
func (e *PublishFailedError) Unwrap() error  { return e.Err }

// AckFailedError reports that the bus accepted the publish but failed
// to confirm durable storage (the "ack" stage of a publish).
type AckFailedError struct{ Err error }

func (e *AckFailedError) Error() string { return fmt.Sprintf("busclient: publish ack failed: %v", e.Err) }
func (e *AckFailedError) Unwrap() error  { return e.Err }

// GettingStreamFailedError wraps a failure to look up the configured
// durable stream.
type GettingStreamFailedError struct{ Err error }

func (e *GettingStreamFailedError) Error() string {
	return fmt.Sprintf("busclient: getting stream failed: %v", e.Err)
}
func (e *GettingStreamFailedError) Unwrap() error { return e.Err }

// GettingConsumerFailedError wraps a failure to look up the configured
// durable consumer.
type GettingConsumerFailedError struct{ Err error }

func (e *GettingConsumerFailedError) Error() string {
	return fmt.Sprintf("busclient: getting consumer failed: %v", e.Err)
}
func (e *GettingConsumerFailedError) Unwrap() error { return e.Err }

// StreamCreationFailedError wraps a failure to open the pull-message
// stream from an otherwise valid consumer.
type StreamCreationFailedError struct{ Err error }

func (e *StreamCreationFailedError) Error() string {
	return fmt.Sprintf("busclient: stream creation failed: %v", e.Err)
}
func (e *StreamCreationFailedError) Unwrap() error { return e.Err }

// EphemeralConsumerCreationFailedError wraps a failure to create an
// ephemeral push consumer bound to a private inbox.
type EphemeralConsumerCreationFailedError struct{ Err error }

func (e *EphemeralConsumerCreationFailedError) Error() string {
	return fmt.Sprintf("busclient: ephemeral consumer creation failed: %v", e.Err)
}
func (e *EphemeralConsumerCreationFailedError) Unwrap() error { return e.Err }

// AckTermFailedError reports that a message was successfully
// republished under its quarantine subject but the final Term
// acknowledgement on the original message failed.
type AckTermFailedError struct{ Err error }

func (e *AckTermFailedError) Error() string {
	return fmt.Sprintf("busclient: term ack failed: %v", e.Err)
}
func (e *AckTermFailedError) Unwrap() error { return e.Err }

// AlreadyTerminatedError is returned by [BusClient.Terminate] when the
// inbound message's subject already begins with [TerminatedPrefix].
// Re-terminating such a message would produce a nonsensical
// "terminated.terminated...." subject; implementations reject it
// outright instead.
type AlreadyTerminatedError struct{ Subject string }

func (e *AlreadyTerminatedError) Error() string {
	return fmt.Sprintf("busclient: message on %q is already terminated", e.Subject)
}

// Consumer-internal errors.

// StreamClosedError reports that the consumer's underlying message
// stream has closed terminally (a None from the stream). It is never
// returned across the consumer's public API; the outer supervisor
// only logs it (and forwards it to the error sink) before backing off
// and resubscribing.
type StreamClosedError struct{}

func (e *StreamClosedError) Error() string { return "busclient: nats stream was closed" }

// SubscriptionFailedError wraps a failed subscribe attempt as observed
// by the consumer's resubscription supervisor.
type SubscriptionFailedError struct{ Err error }

func (e *SubscriptionFailedError) Error() string {
	return fmt.Sprintf("busclient: failed to subscribe to nats: %v", e.Err)
}
func (e *SubscriptionFailedError) Unwrap() error { return e.Err }

// InternalError wraps any other internal failure observed by the
// consumer loop that does not fit the other kinds (e.g. a per-item
// stream transport error).
type InternalError struct{ Err error }

func (e *InternalError) Error() string {
	return fmt.Sprintf("busclient: internal nats error: %v", e.Err)
}
func (e *InternalError) Unwrap() error { return e.Err }
