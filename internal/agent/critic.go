package agent

import (
	"context"

	"github.com/wikiforge/wikiforge/internal/document"
)

// Critic implements PhaseAgent for the CRITIQUING phase: it consumes the
// FinalArticle and produces a CriticReport.
type Critic struct {
	Runtime *Runtime
	Config ModelConfig
}

var _ PhaseAgent = (*Critic)(nil)

func (c *Critic) Role() document.AgentRole { return document.RoleCritic }

type criticPromptData struct {
	WikiContent string
}

// Process re-evaluates the (possibly just-revised) FinalArticle from
// scratch. The critique revision loop re-runs the Editor with
// accumulated context, then re-runs the Critic plainly against the new
// article — the Critic itself never sees "revision context", only a fresh
// article each time.
func (c *Critic) Process(ctx context.Context, doc *document.PublishingDocument) error {
	prompt, err := renderPrompt("critic", criticPromptData{
			WikiContent: doc.FinalArticle.WikiContent,
	})
	if err != nil {
		return err
	}

	var report document.CriticReport
	if err := c.Runtime.InvokeJSON(ctx, c.Role(), prompt, c.Config.chatOptions(), &report); err != nil {
		return err
	}

	doc.CriticReport = &report
	return nil
}

// Validate enforces the extra-validation rule: recommendedAction
// must be present.
func (c *Critic) Validate(doc *document.PublishingDocument) bool {
	return doc.CriticReport.Valid()
}
