package document

import "fmt"

// DocumentState is a node in the publishing pipeline's state machine.
type DocumentState string

const (
	StateCreated        DocumentState = "CREATED"
	StateResearching    DocumentState = "RESEARCHING"
	StateDrafting       DocumentState = "DRAFTING"
	StateFactChecking   DocumentState = "FACT_CHECKING"
	StateEditing        DocumentState = "EDITING"
	StateCritiquing     DocumentState = "CRITIQUING"
	StatePublished      DocumentState = "PUBLISHED"
	StateRejected       DocumentState = "REJECTED"
	StateAwaitingApproval DocumentState = "AWAITING_APPROVAL"
)

// forwardSequence is the pipeline's fixed happy-path ordering. next() walks
// this slice; revisionTargets below are the only other legal destinations.
var forwardSequence = []DocumentState{
	StateCreated,
	StateResearching,
	StateDrafting,
	StateFactChecking,
	StateEditing,
	StateCritiquing,
	StatePublished,
}

// revisionTargets enumerates the non-forward transitions that are still
// legal: a revision loop stepping back to re-run an earlier phase.
var revisionTargets = map[DocumentState]map[DocumentState]bool{
	StateFactChecking: {StateDrafting: true},
	StateCritiquing:   {StateEditing: true},
}

func isTerminal(s DocumentState) bool {
	return s == StatePublished || s == StateRejected
}

// Next returns the state that follows s on the forward sequence. It returns
// ("", false) when s has no successor (terminal states, or an unknown state).
func (s DocumentState) Next() (DocumentState, bool) {
	for i, st := range forwardSequence {
		if st == s && i+1 < len(forwardSequence) {
			return forwardSequence[i+1], true
		}
	}
	return "", false
}

// CanTransition reports whether s -> target is a legal transition: target
// is s's forward successor, a declared revision target, REJECTED from any
// non-terminal state, or AWAITING_APPROVAL from any non-terminal state.
func (s DocumentState) CanTransition(target DocumentState) bool {
	if next, ok := s.Next(); ok && next == target {
		return true
	}
	if targets, ok := revisionTargets[s]; ok && targets[target] {
		return true
	}
	if target == StateRejected && !isTerminal(s) {
		return true
	}
	if target == StateAwaitingApproval && !isTerminal(s) {
		return true
	}
	return false
}

// ErrInvalidTransition is returned by PublishingDocument.Transition when the requested
// move is not legal per CanTransition.
type ErrInvalidTransition struct {
	From, To DocumentState
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("document: invalid transition %s -> %s", e.From, e.To)
}

// Transition moves the document to target, enforcing I1. It does not touch
// UpdatedAt itself; callers append a contribution (which does) as part of the
// same phase-boundary mutation.
func (d *PublishingDocument) Transition(target DocumentState) error {
	if !d.State.CanTransition(target) {
		return &ErrInvalidTransition{From: d.State, To: target}
	}
	d.State = target
	return nil
}
