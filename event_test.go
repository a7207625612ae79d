package busclient

import (
	"bytes"
	"testing"
)

func TestEventBuilderDefaults(t *testing.T) {
	subject := NewSubject("room", testClassroomID, "message")
	payload := []byte(`{"text":"hi"}`)
	eventID := NewEventID("message", 1)
	senderID := NewAgentID("teacher.abc")

	ev := NewEventBuilder(subject, payload, eventID, senderID).Build()

	if ev.Subject() != subject {
		t.Errorf("Subject() = %+v, want %+v", ev.Subject(), subject)
	}
	if !bytes.Equal(ev.Payload(), payload) {
		t.Errorf("Payload() = %q, want %q", ev.Payload(), payload)
	}
	if !ev.Headers().IsInternal() {
		t.Error("expected default headers to be internal")
	}
	if !ev.Headers().DeduplicationEnabled() {
		t.Error("expected default headers to have deduplication enabled")
	}
	if _, ok := ev.Headers().ReceiverID(); ok {
		t.Error("expected no receiver by default")
	}
}

func TestEventBuilderMutators(t *testing.T) {
	subject := NewSubject("room", testClassroomID, "message")
	receiver := NewAgentID("student.xyz")

	ev := NewEventBuilder(subject, nil, NewEventID("message", 1), NewAgentID("teacher.abc")).
		NotInternal().
		WithReceiver(receiver).
		DisableDeduplication().
		Build()

	if ev.Headers().IsInternal() {
		t.Error("expected NotInternal() to flip IsInternal() to false")
	}
	if ev.Headers().DeduplicationEnabled() {
		t.Error("expected DisableDeduplication() to flip DeduplicationEnabled() to false")
	}
	got, ok := ev.Headers().ReceiverID()
	if !ok || got != receiver {
		t.Errorf("ReceiverID() = %+v, %v, want %+v, true", got, ok, receiver)
	}
}

func TestNewTestEventAndHeadersFixtures(t *testing.T) {
	ev := NewTestEvent("message", 1, []byte("payload"))

	if ev.Subject().EntityType() != "message" {
		t.Errorf("entity type = %q, want %q", ev.Subject().EntityType(), "message")
	}
	if ev.Headers().EventID().SequenceID() != 1 {
		t.Errorf("sequence id = %d, want 1", ev.Headers().EventID().SequenceID())
	}

	h := NewTestHeaders("reaction", 2)
	if h.EventID().EntityType() != "reaction" || h.EventID().SequenceID() != 2 {
		t.Errorf("NewTestHeaders produced %+v", h.EventID())
	}
}
