package agent

import (
	"context"

	"github.com/wikiforge/wikiforge/internal/document"
)

// Reviser is implemented by phase agents that participate in a bounded
// revision loop: the orchestrator calls ReviseWith instead of
// Process on every re-run after the first, appending prior-failure context
// to the prompt and accumulating it across cycles.
type Reviser interface {
	ReviseWith(ctx context.Context, doc *document.PublishingDocument, note string) error
}

// Writer implements PhaseAgent for the DRAFTING phase: it consumes a
// ResearchBrief and the existing-pages list, and produces an ArticleDraft.
type Writer struct {
	Runtime *Runtime
	Config ModelConfig
	ExistingPages func() []string
}

var (
	_ PhaseAgent = (*Writer)(nil)
	_ Reviser = (*Writer)(nil)
)

func (w *Writer) Role() document.AgentRole { return document.RoleWriter }

type writerPromptData struct {
	PageName string
	Audience string
	TargetWordCount int
	ResearchBrief *document.ResearchBrief
	ExistingPages []string
	RevisionContext string
}

func (w *Writer) existingPages() []string {
	if w.ExistingPages == nil {
		return nil
	}
	return w.ExistingPages()
}

func (w *Writer) process(ctx context.Context, doc *document.PublishingDocument, revisionContext string) error {
	prompt, err := renderPrompt("writer", writerPromptData{
			PageName: doc.PageName,
			Audience: doc.Brief.Audience,
			TargetWordCount: doc.Brief.TargetWordCount,
			ResearchBrief: doc.ResearchBrief,
			ExistingPages: w.existingPages(),
			RevisionContext: revisionContext,
	})
	if err != nil {
		return err
	}

	var draft document.ArticleDraft
	if err := w.Runtime.InvokeJSON(ctx, w.Role(), prompt, w.Config.chatOptions(), &draft); err != nil {
		return err
	}

	doc.Draft = &draft
	return nil
}

func (w *Writer) Process(ctx context.Context, doc *document.PublishingDocument) error {
	return w.process(ctx, doc, "")
}

func (w *Writer) ReviseWith(ctx context.Context, doc *document.PublishingDocument, note string) error {
	return w.process(ctx, doc, note)
}

// Validate enforces the ArticleDraft invariant.
func (w *Writer) Validate(doc *document.PublishingDocument) bool {
	return doc.Draft.Valid()
}
