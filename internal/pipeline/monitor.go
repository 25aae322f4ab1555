package pipeline

import (
	"time"

	"github.com/wikiforge/wikiforge/internal/document"
)

// ContributionEvent is a structured message describing one phase invocation,
// emitted for the benefit of a CLI status line, TUI, or future listener
// without the orchestrator ever blocking on a slow consumer.
type ContributionEvent struct {
	DocumentID string
	Role       document.AgentRole
	State      document.DocumentState
	Attempt    int
	Duration   time.Duration
	Err        error
	Timestamp  time.Time
}

// Monitor fans out ContributionEvents to an optional listener channel. A nil
// channel (the zero value's default) makes every Emit call a no-op, so the
// orchestrator never needs to special-case "no listener attached".
type Monitor struct {
	events chan<- ContributionEvent
}

// NewMonitor builds a Monitor broadcasting onto ch. ch may be nil.
func NewMonitor(ch chan<- ContributionEvent) *Monitor {
	return &Monitor{events: ch}
}

// Emit sends ev on the listener channel using a non-blocking select: a slow
// or absent consumer never stalls phase execution.
func (m *Monitor) Emit(ev ContributionEvent) {
	if m == nil || m.events == nil {
		return
	}
	select {
	case m.events <- ev:
	default:
	}
}

// record builds an AgentContribution from a completed phase invocation and
// appends it to doc: append-only, exactly one entry per completed phase
// invocation including revision attempts. inputHash and outputHash are the
// xxhash of the phase's input and output artifacts, computed by the caller
// via document.HashContent.
func record(doc *document.PublishingDocument, role document.AgentRole, inputHash, outputHash uint64, d time.Duration) {
	doc.AddContribution(document.AgentContribution{
		AgentRole:      role,
		Timestamp:      time.Now(),
		InputHash:      inputHash,
		OutputHash:     outputHash,
		ProcessingTime: d,
	})
}
