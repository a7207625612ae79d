package busclient

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// TerminatedPrefix is the reserved subject prefix used by the
// terminate protocol: a quarantined message is republished with
// "terminated." prepended to its original prefix.
const TerminatedPrefix = "terminated"

// Subject is the structured routing key of a message: a prefix, a
// classroom id, and an entity type. Its canonical wire form is
// "prefix.classroom_id.entity_type" — see [Subject.String] and
// [ParseSubject]. A prefix built by [Subject.Terminated] contains a
// dot; [ParseSubject] takes only the first three dot-separated
// components, so such a subject's wire form does not parse back.
type Subject struct {
	prefix      string
	classroomID uuid.UUID
	entityType  string
}

// NewSubject builds a Subject from its parts.
func NewSubject(prefix string, classroomID uuid.UUID, entityType string) Subject {
	return Subject{prefix: prefix, classroomID: classroomID, entityType: entityType}
}

// Prefix returns the subject's routing prefix.
func (s Subject) Prefix() string { return s.prefix }

// ClassroomID returns the subject's classroom id.
func (s Subject) ClassroomID() uuid.UUID { return s.classroomID }

// EntityType returns the subject's entity type.
func (s Subject) EntityType() string { return s.entityType }

// String renders the canonical wire form.
func (s Subject) String() string {
	return s.prefix + "." + s.classroomID.String() + "." + s.entityType
}

// Terminated returns a new Subject with "terminated." prepended to the
// prefix, preserving classroom id and entity type. Used by the
// terminate protocol to build the quarantine subject.
func (s Subject) Terminated() Subject {
	return Subject{
		prefix:      TerminatedPrefix + "." + s.prefix,
		classroomID: s.classroomID,
		entityType:  s.entityType,
	}
}

// IsTerminated reports whether the subject's prefix already begins
// with the reserved "terminated" prefix. [BusClient.Terminate]
// implementations must reject re-terminating such a subject.
func (s Subject) IsTerminated() bool {
	return s.prefix == TerminatedPrefix || strings.HasPrefix(s.prefix, TerminatedPrefix+".")
}

// SubjectError kinds returned by [ParseSubject].
var (
	ErrPrefixNotFound      = fmt.Errorf("busclient: subject prefix not found")
	ErrClassroomIDNotFound = fmt.Errorf("busclient: subject classroom id not found")
	ErrEntityTypeNotFound  = fmt.Errorf("busclient: subject entity type not found")
)

// ClassroomIDParseError wraps a failure to parse the classroom id
// segment of a subject as a UUID.
type ClassroomIDParseError struct {
	Input string
	Err   error
}

func (e *ClassroomIDParseError) Error() string {
	return fmt.Sprintf("busclient: parse classroom id in %q: %v", e.Input, e.Err)
}

func (e *ClassroomIDParseError) Unwrap() error { return e.Err }

// ParseSubject parses the canonical "prefix.classroom_id.entity_type"
// wire form. It takes strictly the first three dot-separated
// components — prefix, classroom id, entity type — and ignores
// anything beyond the third.
// This means a prefix that itself contains a dot (as produced by
// [Subject.Terminated]) is not correctly recovered by round-tripping
// its string form back through ParseSubject; terminated subjects are
// always built directly via [Subject.Terminated], never reparsed.
func ParseSubject(s string) (Subject, error) {
	parts := strings.Split(s, ".")

	if len(parts) < 1 || parts[0] == "" {
		return Subject{}, ErrPrefixNotFound
	}
	prefix := parts[0]

	if len(parts) < 2 || parts[1] == "" {
		return Subject{}, ErrClassroomIDNotFound
	}
	classroomIDStr := parts[1]

	if len(parts) < 3 || parts[2] == "" {
		return Subject{}, ErrEntityTypeNotFound
	}
	entityType := parts[2]

	classroomID, err := uuid.Parse(classroomIDStr)
	if err != nil {
		return Subject{}, &ClassroomIDParseError{Input: classroomIDStr, Err: err}
	}

	return Subject{prefix: prefix, classroomID: classroomID, entityType: entityType}, nil
}
