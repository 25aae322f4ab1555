package agent

import (
	"fmt"

	"github.com/wikiforge/wikiforge/internal/document"
)

// Exception is raised when the agent runtime exhausts its retry policy,
// either because the transport kept failing or because every response
// failed to parse. Cause
// distinguishes the two: a transport error or a parse error wrapping the
// last raw response.
type Exception struct {
	Role document.AgentRole
	Attempts int
	Cause error
}

func (e *Exception) Error() string {
	return fmt.Sprintf("agent: %s exhausted %d attempt(s): %v", e.Role, e.Attempts, e.Cause)
}

func (e *Exception) Unwrap() error { return e.Cause }

// ParseError wraps a response that could not be turned into the agent's
// declared schema, carrying the raw text for diagnostics.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("agent: parsing response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
