package agent

import (
	"context"

	"github.com/wikiforge/wikiforge/internal/document"
)

// Editor implements PhaseAgent for the EDITING phase: it consumes the
// ArticleDraft, an optional FactCheckReport, and the existing-pages list, and
// produces a FinalArticle.
type Editor struct {
	Runtime *Runtime
	Config ModelConfig
	ExistingPages func() []string
	MinEditorScore float64
}

var (
	_ PhaseAgent = (*Editor)(nil)
	_ Reviser = (*Editor)(nil)
)

func (e *Editor) Role() document.AgentRole { return document.RoleEditor }

type editorPromptData struct {
	WikiContent string
	FactCheckAnnotated string
	ExistingPages []string
	RevisionContext string
}

func (e *Editor) process(ctx context.Context, doc *document.PublishingDocument, revisionContext string) error {
	var annotated string
	if doc.FactCheckReport != nil {
		annotated = doc.FactCheckReport.AnnotatedContent
	}

	var existing []string
	if e.ExistingPages != nil {
		existing = e.ExistingPages()
	}

	prompt, err := renderPrompt("editor", editorPromptData{
			WikiContent: doc.Draft.WikiContent,
			FactCheckAnnotated: annotated,
			ExistingPages: existing,
			RevisionContext: revisionContext,
	})
	if err != nil {
		return err
	}

	var article document.FinalArticle
	if err := e.Runtime.InvokeJSON(ctx, e.Role(), prompt, e.Config.chatOptions(), &article); err != nil {
		return err
	}

	doc.FinalArticle = &article
	return nil
}

func (e *Editor) Process(ctx context.Context, doc *document.PublishingDocument) error {
	return e.process(ctx, doc, "")
}

// ReviseWith re-edits the article, folding in the critic's notes from the
// prior cycle — the critique loop's mirror of the fact-check loop re-running
// the Writer.
func (e *Editor) ReviseWith(ctx context.Context, doc *document.PublishingDocument, note string) error {
	return e.process(ctx, doc, note)
}

// Validate enforces the extra-validation rule: qualityScore must
// meet the configured minimum.
func (e *Editor) Validate(doc *document.PublishingDocument) bool {
	return doc.FinalArticle.Valid(e.MinEditorScore)
}
