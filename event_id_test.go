package busclient

import "testing"

func TestEventIDStringRoundTrip(t *testing.T) {
	cases := []struct {
		entityType string
		sequenceID int64
	}{
		{"message", 1},
		{"message", 0},
		{"whiteboard", -1},
		{"reaction", 9223372036854775807},
	}

	for _, tc := range cases {
		id := NewEventID(tc.entityType, tc.sequenceID)
		got, err := ParseEventID(id.String())
		if err != nil {
			t.Fatalf("ParseEventID(%q) returned error: %v", id.String(), err)
		}
		if got != id {
			t.Errorf("round trip mismatch: got %+v, want %+v", got, id)
		}
	}
}

func TestParseEventIDInvalid(t *testing.T) {
	cases := []string{
		"",
		"noseparator",
		"_5",
		"message_notanumber",
	}

	for _, s := range cases {
		if _, err := ParseEventID(s); err == nil {
			t.Errorf("ParseEventID(%q): expected error, got nil", s)
		}
	}
}

func TestParseEventIDSplitsOnFirstUnderscore(t *testing.T) {
	// An entity type that itself contains an underscore splits at the
	// first one, so the remainder must still parse as an int64.
	if _, err := ParseEventID("whiteboard_draw_42"); err == nil {
		t.Fatalf("expected error splitting on first underscore to leave a non-numeric remainder")
	}

	got, err := ParseEventID("message_42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.EntityType() != "message" || got.SequenceID() != 42 {
		t.Errorf("got %+v, want entity type %q sequence 42", got, "message")
	}
}
