// Package approval implements the approval service: it suspends
// orchestration between phases and consults a pluggable decision capability,
// skipping the consultation entirely for phases the configured mask marks as
// auto-approved. Outcomes are typed errors, not a bare bool, so a caller
// cannot conflate rejection with a request for changes.
package approval

import (
	"context"
	"fmt"

	"github.com/wikiforge/wikiforge/internal/document"
)

// Decision is the tagged outcome a decision capability returns.
type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionRequestChanges Decision = "REQUEST_CHANGES"
	DecisionReject Decision = "REJECT"
)

// Phase identifies one of the five approval checkpoints that fire after
// every phase.
type Phase string

const (
	PhaseAfterResearch Phase = "after-research"
	PhaseAfterDraft Phase = "after-draft"
	PhaseAfterFactcheck Phase = "after-factcheck"
	PhaseAfterEditing Phase = "after-editing"
	PhaseBeforePublish Phase = "before-publish"
)

// AfterPhaseRequest carries the context a decision capability needs to make
// an informed call: which phase just completed and the document as it
// stands. The Decider's response carries the free-text reason.
type AfterPhaseRequest struct {
	Phase Phase
	Document *document.PublishingDocument
}

// DecisionResult is what a Decider returns: a tagged Decision plus the
// free-text reason the decision capability supplies.
type DecisionResult struct {
	Decision Decision
	Reason string
}

// Decider is the pluggable decision capability. A human-in-the-loop UI, an
// LM-as-judge, or an always-approve stub can all implement it.
type Decider interface {
	Decide(ctx context.Context, req AfterPhaseRequest) (DecisionResult, error)
}

// Mask is the per-phase boolean gate the configuration key
// pipeline.approval.{after-research,after-draft,after-factcheck,before-publish}
// populates. A phase absent from (or false in) the mask auto-approves
// without consulting the Decider. PhaseAfterEditing has no corresponding
// configuration knob in the enumerated options, so it always auto-approves;
// it exists only so every phase in the five-phase pipeline has a Phase
// constant to key off of.
type Mask map[Phase]bool

// Rejected is returned when the Decider rejects a phase outright. The
// orchestrator treats it as fatal.
type Rejected struct {
	Phase Phase
	Reason string
}

func (e *Rejected) Error() string {
	return fmt.Sprintf("approval: %s rejected: %s", e.Phase, e.Reason)
}

// ChangesRequested is returned when the Decider asks for changes. The
// orchestrator treats it as fatal rather than resubmitting to an earlier
// phase.
type ChangesRequested struct {
	Phase Phase
	Reason string
}

func (e *ChangesRequested) Error() string {
	return fmt.Sprintf("approval: %s requested changes: %s", e.Phase, e.Reason)
}

// Service wraps a Decider with the configured mask.
type Service struct {
	Decider Decider
	Mask Mask
}

// NewService builds a Service. A nil decider is valid as long as every
// relevant mask entry is false (the service never calls a nil Decider).
func NewService(decider Decider, mask Mask) *Service {
	return &Service{Decider: decider, Mask: mask}
}

// CheckAndApprove consults the Decider for phase unless the mask marks it
// auto-approved, returning nil on approval and a typed error
// (*Rejected / *ChangesRequested) otherwise.
func (s *Service) CheckAndApprove(ctx context.Context, req AfterPhaseRequest) error {
	if !s.Mask[req.Phase] {
		return nil
	}
	if s.Decider == nil {
		return nil
	}

	result, err := s.Decider.Decide(ctx, req)
	if err != nil {
		return fmt.Errorf("approval: deciding %s: %w", req.Phase, err)
	}

	switch result.Decision {
	case DecisionApprove:
		return nil
	case DecisionReject:
		return &Rejected{Phase: req.Phase, Reason: result.Reason}
	case DecisionRequestChanges:
		return &ChangesRequested{Phase: req.Phase, Reason: result.Reason}
	default:
		return fmt.Errorf("approval: %s: unrecognized decision %q", req.Phase, result.Decision)
	}
}

// AutoApprove is the no-op Decider used when no human-in-the-loop or LM
// judge is wired: it approves every request unconditionally. It gives the
// composition root a zero-value-safe default rather than requiring callers
// to special-case a nil Decider everywhere.
type AutoApprove struct{}

func (AutoApprove) Decide(ctx context.Context, req AfterPhaseRequest) (DecisionResult, error) {
	return DecisionResult{Decision: DecisionApprove, Reason: "auto-approved"}, nil
}
