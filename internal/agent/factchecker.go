package agent

import (
	"context"

	"github.com/wikiforge/wikiforge/internal/document"
)

// FactChecker implements PhaseAgent for the FACT_CHECKING phase: it consumes
// an ArticleDraft and ResearchBrief, and produces a FactCheckReport.
type FactChecker struct {
	Runtime *Runtime
	Config ModelConfig
}

var _ PhaseAgent = (*FactChecker)(nil)

func (f *FactChecker) Role() document.AgentRole { return document.RoleFactChecker }

type factcheckerPromptData struct {
	WikiContent string
	Sources []document.Source
}

func (f *FactChecker) Process(ctx context.Context, doc *document.PublishingDocument) error {
	var sources []document.Source
	if doc.ResearchBrief != nil {
		sources = doc.ResearchBrief.Sources
	}

	prompt, err := renderPrompt("factchecker", factcheckerPromptData{
			WikiContent: doc.Draft.WikiContent,
			Sources: sources,
	})
	if err != nil {
		return err
	}

	var report document.FactCheckReport
	if err := f.Runtime.InvokeJSON(ctx, f.Role(), prompt, f.Config.chatOptions(), &report); err != nil {
		return err
	}

	doc.FactCheckReport = &report
	return nil
}

// Validate enforces the extra-validation rule: recommendedAction
// must be present.
func (f *FactChecker) Validate(doc *document.PublishingDocument) bool {
	return doc.FactCheckReport.Valid()
}
