package busclient

import (
	"testing"

	"github.com/google/uuid"
)

var testClassroomID = uuid.MustParse("11111111-1111-1111-1111-111111111111")

func TestSubjectStringRoundTrip(t *testing.T) {
	s := NewSubject("room", testClassroomID, "message")

	got, err := ParseSubject(s.String())
	if err != nil {
		t.Fatalf("ParseSubject(%q) returned error: %v", s.String(), err)
	}
	if got != s {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, s)
	}
}

func TestParseSubjectMissingComponents(t *testing.T) {
	if _, err := ParseSubject(""); err != ErrPrefixNotFound {
		t.Errorf("empty string: got %v, want ErrPrefixNotFound", err)
	}
	if _, err := ParseSubject("room"); err != ErrClassroomIDNotFound {
		t.Errorf("prefix only: got %v, want ErrClassroomIDNotFound", err)
	}
	if _, err := ParseSubject("room." + testClassroomID.String()); err != ErrEntityTypeNotFound {
		t.Errorf("prefix+classroom only: got %v, want ErrEntityTypeNotFound", err)
	}
	if _, err := ParseSubject("room.not-a-uuid.message"); err == nil {
		t.Errorf("expected a ClassroomIDParseError for a malformed uuid")
	}
}

func TestParseSubjectIgnoresTrailingComponents(t *testing.T) {
	// Strictly the first three dot-separated components are taken; a
	// fourth is discarded rather than folded into entity type.
	s, err := ParseSubject("room." + testClassroomID.String() + ".message.extra")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.EntityType() != "message" {
		t.Errorf("entity type = %q, want %q", s.EntityType(), "message")
	}
}

func TestSubjectTerminated(t *testing.T) {
	s := NewSubject("room", testClassroomID, "message")
	term := s.Terminated()

	if term.Prefix() != "terminated.room" {
		t.Errorf("terminated prefix = %q, want %q", term.Prefix(), "terminated.room")
	}
	if !term.IsTerminated() {
		t.Error("IsTerminated() = false, want true")
	}
	if s.IsTerminated() {
		t.Error("original subject reports IsTerminated() = true")
	}
	if term.ClassroomID() != s.ClassroomID() || term.EntityType() != s.EntityType() {
		t.Error("Terminated() must preserve classroom id and entity type")
	}
}

func TestSubjectTerminatedStringDoesNotRoundTrip(t *testing.T) {
	// Documented, intentional asymmetry: a terminated subject's prefix
	// itself contains a dot ("terminated.room"), so reparsing its wire
	// form shifts every subsequent component by one — the dotted
	// prefix's second half lands where the classroom id belongs, which
	// isn't a UUID, and parsing fails. A terminated subject must always
	// be built directly via Terminated(), never recovered by reparsing.
	s := NewSubject("room", testClassroomID, "message").Terminated()

	if _, err := ParseSubject(s.String()); err == nil {
		t.Fatal("expected reparsing a terminated subject's wire form to fail")
	}
}
