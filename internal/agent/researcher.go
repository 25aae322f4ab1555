package agent

import (
	"context"

	"github.com/wikiforge/wikiforge/internal/document"
)

// SearchSnippet is one supplementary result a SearchProvider contributes to
// the researcher's prompt. It deliberately carries only text, not a
// Reliability tier or URL, keeping this package free of a compile-time
// dependency on internal/search.
type SearchSnippet struct {
	Title string
	Snippet string
}

// SearchProvider is the narrow capability Researcher needs from
// internal/search's Provider: enough to enrich a prompt with supplementary
// results without this package importing that one (internal/search already
// depends on internal/agent for its retry policy, so the reverse import
// would cycle).
type SearchProvider interface {
	Search(ctx context.Context, query string) ([]SearchSnippet, error)
}

// Researcher implements PhaseAgent for the RESEARCHING phase: it consumes a
// TopicBrief and produces a ResearchBrief.
type Researcher struct {
	Runtime *Runtime
	Config ModelConfig

	// Search, when non-nil, supplies supplementary search snippets folded
	// into the research prompt. A nil Search is equivalent to a disabled
	// provider: the researcher proceeds on the brief and the model's own
	// knowledge alone.
	Search SearchProvider
}

var _ PhaseAgent = (*Researcher)(nil)

func (r *Researcher) Role() document.AgentRole { return document.RoleResearcher }

type researcherPromptData struct {
	Topic string
	Audience string
	TargetWordCount int
	RequiredSections []string
	RelatedPages []string
	SourceURLs []string
	SearchSnippets []string
}

func (r *Researcher) Process(ctx context.Context, doc *document.PublishingDocument) error {
	var snippets []string
	if r.Search != nil {
		results, err := r.Search.Search(ctx, doc.Brief.Topic)
		if err == nil {
			for _, res := range results {
				snippets = append(snippets, res.Title+": "+res.Snippet)
			}
		}
	}

	prompt, err := renderPrompt("researcher", researcherPromptData{
			Topic: doc.Brief.Topic,
			Audience: doc.Brief.Audience,
			TargetWordCount: doc.Brief.TargetWordCount,
			RequiredSections: doc.Brief.RequiredSections,
			RelatedPages: doc.Brief.RelatedPages,
			SourceURLs: doc.Brief.SourceURLs,
			SearchSnippets: snippets,
	})
	if err != nil {
		return err
	}

	var brief document.ResearchBrief
	if err := r.Runtime.InvokeJSON(ctx, r.Role(), prompt, r.Config.chatOptions(), &brief); err != nil {
		return err
	}

	doc.ResearchBrief = &brief
	return nil
}

// Validate enforces the extra-validation rule: keyFacts >= 1 and
// outline >= 1 (ResearchBrief.Valid already encodes this).
func (r *Researcher) Validate(doc *document.PublishingDocument) bool {
	return doc.ResearchBrief.Valid()
}
