package busclient

import "fmt"

// AgentID is an opaque, externally-parsed agent identifier. Production
// callers typically have a richer type (account label + client device
// id) from their own identity package; AgentID only needs a stable
// string form to round-trip through headers, so it stays a thin
// wrapper here rather than reimplementing agent-identity parsing,
// which this library treats as an external collaborator.
type AgentID struct {
	raw string
}

// NewAgentID wraps a pre-validated agent identifier string.
func NewAgentID(raw string) AgentID { return AgentID{raw: raw} }

// String returns the wire form of the agent id.
func (a AgentID) String() string { return a.raw }

// AgentIDParseError is returned by [ParseAgentID] when the input is
// empty. Real deployments are expected to substitute a stricter parser
// (account.label/device format, UUID checks, etc.) behind the same
// signature.
type AgentIDParseError struct {
	Input string
}

func (e *AgentIDParseError) Error() string {
	return fmt.Sprintf("busclient: invalid agent id %q", e.Input)
}

// ParseAgentID parses the wire form of an agent id. The only structural
// rule enforced at this layer is non-emptiness.
func ParseAgentID(s string) (AgentID, error) {
	if s == "" {
		return AgentID{}, &AgentIDParseError{Input: s}
	}
	return AgentID{raw: s}, nil
}
