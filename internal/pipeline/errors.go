package pipeline

import (
	"fmt"

	"github.com/wikiforge/wikiforge/internal/document"
)

// QualityError is raised in EDITING when the FinalArticle's qualityScore
// falls below the configured minimum.
type QualityError struct {
	State document.DocumentState
	Score float64
	Minimum float64
}

func (e *QualityError) Error() string {
	return fmt.Sprintf("pipeline: quality score %.2f below minimum %.2f at %s", e.Score, e.Minimum, e.State)
}

// TimeoutError is raised when a phase exceeds its configured phaseTimeout.
type TimeoutError struct {
	State document.DocumentState
	Cause error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("pipeline: phase %s timed out: %v", e.State, e.Cause)
}

func (e *TimeoutError) Unwrap() error { return e.Cause }

// phaseFailure wraps any of the taxonomy's fatal errors with the
// state the failure occurred at, so Execute can populate
// PipelineResult.FailedAtState uniformly regardless of the error's concrete
// type.
type phaseFailure struct {
	State document.DocumentState
	Cause error
}

func (e *phaseFailure) Error() string {
	return fmt.Sprintf("pipeline: failed at %s: %v", e.State, e.Cause)
}

func (e *phaseFailure) Unwrap() error { return e.Cause }

func fail(state document.DocumentState, cause error) *phaseFailure {
	return &phaseFailure{State: state, Cause: cause}
}
