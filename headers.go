package busclient

import (
	"fmt"
	"strconv"
)

// Wire header keys, exactly as specified. Unknown additional keys are
// ignored on decode and are never reproduced on an encode (the
// terminate path always rebuilds headers from the typed [Headers]
// value, so extra keys on an inbound message do not survive a
// republish).
const (
	HeaderNatsMsgID       = "Nats-Msg-Id"
	HeaderEntityEventType = "Entity-Event-Type"
	HeaderEntitySeqID     = "Entity-Event-Sequence-Id"
	HeaderSenderAgentID   = "Sender-Agent-Id"
	HeaderIsInternal      = "Is-Internal"
	HeaderReceiverAgentID = "Receiver-Agent-Id"
)

// Headers is the typed view over a message's wire headers.
type Headers struct {
	eventID              EventID
	senderID             AgentID
	isInternal           bool
	receiverID           *AgentID
	deduplicationEnabled bool
}

// HeaderBuilder constructs a [Headers] value with defaults
// (is_internal=true, deduplication_enabled=true per invariant I1) and
// optional mutators.
type HeaderBuilder struct {
	h Headers
}

// NewHeaderBuilder starts building headers for the given event and
// sender, with defaults applied.
func NewHeaderBuilder(eventID EventID, senderID AgentID) *HeaderBuilder {
	return &HeaderBuilder{h: Headers{
		eventID:              eventID,
		senderID:             senderID,
		isInternal:           true,
		deduplicationEnabled: true,
	}}
}

// NotInternal marks the event as externally originated.
func (b *HeaderBuilder) NotInternal() *HeaderBuilder {
	b.h.isInternal = false
	return b
}

// WithReceiver attaches an explicit receiver agent id.
func (b *HeaderBuilder) WithReceiver(receiverID AgentID) *HeaderBuilder {
	b.h.receiverID = &receiverID
	return b
}

// DisableDeduplication turns off the server-side message-id dedup hint.
func (b *HeaderBuilder) DisableDeduplication() *HeaderBuilder {
	b.h.deduplicationEnabled = false
	return b
}

// Build finalizes the headers. Never fails.
func (b *HeaderBuilder) Build() Headers { return b.h }

// EventID returns the event id carried by these headers.
func (h Headers) EventID() EventID { return h.eventID }

// SenderID returns the sending agent's id.
func (h Headers) SenderID() AgentID { return h.senderID }

// IsInternal reports whether the event is internally originated.
func (h Headers) IsInternal() bool { return h.isInternal }

// ReceiverID returns the receiver agent id, if one was set.
func (h Headers) ReceiverID() (AgentID, bool) {
	if h.receiverID == nil {
		return AgentID{}, false
	}
	return *h.receiverID, true
}

// DeduplicationEnabled reports whether the message-id dedup hint is
// sent on encode.
func (h Headers) DeduplicationEnabled() bool { return h.deduplicationEnabled }

// Encode fills a wire header map per the §3 table: the six keys,
// conditionally including Nats-Msg-Id (iff deduplication is enabled)
// and Receiver-Agent-Id (iff a receiver was set). Satisfies invariant
// I2: the outbound header set is exactly these keys.
func (h Headers) Encode() map[string]string {
	out := make(map[string]string, 6)

	if h.deduplicationEnabled {
		out[HeaderNatsMsgID] = h.eventID.String()
	}
	out[HeaderEntityEventType] = h.eventID.EntityType()
	out[HeaderEntitySeqID] = strconv.FormatInt(h.eventID.SequenceID(), 10)
	out[HeaderSenderAgentID] = h.senderID.String()
	out[HeaderIsInternal] = strconv.FormatBool(h.isInternal)

	if h.receiverID != nil {
		out[HeaderReceiverAgentID] = h.receiverID.String()
	}

	return out
}

// HeaderError kinds returned by [DecodeHeaders].
type (
	// InvalidHeaderError reports a missing required header key.
	InvalidHeaderError struct{ Key string }
	// InvalidSequenceIDError wraps a failure to parse the sequence id
	// header as a base-10 signed integer.
	InvalidSequenceIDError struct{ Err error }
	// InvalidIsInternalError wraps a failure to parse the Is-Internal
	// header as a boolean.
	InvalidIsInternalError struct{ Err error }
)

func (e *InvalidHeaderError) Error() string {
	return fmt.Sprintf("busclient: missing header %q", e.Key)
}

func (e *InvalidSequenceIDError) Error() string {
	return fmt.Sprintf("busclient: parse %s header: %v", HeaderEntitySeqID, e.Err)
}
func (e *InvalidSequenceIDError) Unwrap() error { return e.Err }

func (e *InvalidIsInternalError) Error() string {
	return fmt.Sprintf("busclient: parse %s header: %v", HeaderIsInternal, e.Err)
}
func (e *InvalidIsInternalError) Unwrap() error { return e.Err }

// DecodeHeaders reconstructs a [Headers] value from a wire header map.
// Required keys are read in the order entity-type, sequence-id,
// sender, then the optional receiver, then is-internal; deduplication
// is derived from whether Nats-Msg-Id was present. Each missing
// required key surfaces as [InvalidHeaderError] naming that key; parse
// failures surface as their typed kinds.
//
// The event id's sequence number is read from Entity-Event-Sequence-Id
// (not from Nats-Msg-Id, which one historical code path conflated with
// both the event id and the sender — see spec open questions; this is
// the corrected reading).
func DecodeHeaders(wire map[string]string) (Headers, error) {
	entityType, ok := wire[HeaderEntityEventType]
	if !ok {
		return Headers{}, &InvalidHeaderError{Key: HeaderEntityEventType}
	}

	seqStr, ok := wire[HeaderEntitySeqID]
	if !ok {
		return Headers{}, &InvalidHeaderError{Key: HeaderEntitySeqID}
	}
	seq, err := strconv.ParseInt(seqStr, 10, 64)
	if err != nil {
		return Headers{}, &InvalidSequenceIDError{Err: err}
	}

	senderStr, ok := wire[HeaderSenderAgentID]
	if !ok {
		return Headers{}, &InvalidHeaderError{Key: HeaderSenderAgentID}
	}
	senderID, err := ParseAgentID(senderStr)
	if err != nil {
		return Headers{}, err
	}

	var receiverID *AgentID
	if receiverStr, ok := wire[HeaderReceiverAgentID]; ok {
		rid, err := ParseAgentID(receiverStr)
		if err != nil {
			return Headers{}, err
		}
		receiverID = &rid
	}

	isInternalStr, ok := wire[HeaderIsInternal]
	if !ok {
		return Headers{}, &InvalidHeaderError{Key: HeaderIsInternal}
	}
	isInternal, err := strconv.ParseBool(isInternalStr)
	if err != nil {
		return Headers{}, &InvalidIsInternalError{Err: err}
	}

	_, dedupEnabled := wire[HeaderNatsMsgID]

	return Headers{
		eventID:              NewEventID(entityType, seq),
		senderID:             senderID,
		isInternal:           isInternal,
		receiverID:           receiverID,
		deduplicationEnabled: dedupEnabled,
	}, nil
}
