package agent

import (
	"context"

	"github.com/wikiforge/wikiforge/internal/document"
)

// PhaseAgent is the capability set every phase agent implements: a small
// capability set (invoke(doc) -> doc, validate(doc) -> bool, role), composed
// rather than inherited. Process mutates doc's phase-specific artifact in
// place; Validate enforces that artifact's invariants plus the agent's own
// extra-validation rule.
type PhaseAgent interface {
	Role() document.AgentRole
	Process(ctx context.Context, doc *document.PublishingDocument) error
	Validate(doc *document.PublishingDocument) bool
}

// ModelConfig carries the per-agent sampling configuration named by
// (anthropic.model, anthropic.max-tokens,
// anthropic.temperature.<role>).
type ModelConfig struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

func (m ModelConfig) chatOptions() ChatOptions {
	return ChatOptions{Model: m.Model, MaxTokens: m.MaxTokens, Temperature: m.Temperature}
}
