package pipeline

import (
	"context"
	"fmt"

	"github.com/wikiforge/wikiforge/internal/approval"
	"github.com/wikiforge/wikiforge/internal/document"
)

// resumeOrder is the same forward sequence document.DocumentState encodes
// privately; pipeline needs its own ordered view to decide which phases a
// resumed run still owes.
var resumeOrder = []document.DocumentState{
	document.StateCreated,
	document.StateResearching,
	document.StateDrafting,
	document.StateFactChecking,
	document.StateEditing,
	document.StateCritiquing,
	document.StatePublished,
}

func resumeIndex(s document.DocumentState) int {
	for i, st := range resumeOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// ErrAlreadyTerminal's message is what Resume reports in
// PipelineResult.ErrorMessage when the checkpointed document has already
// reached PUBLISHED or REJECTED.
var ErrAlreadyTerminal = fmt.Errorf("pipeline: document already in a terminal state")

// Resume reloads a checkpointed document by id and continues it from
// whatever phase it last completed, re-running only the
// phases it had not yet reached. A document checkpointed mid-revision-loop
// (FACT_CHECKING or CRITIQUING with a REVISE verdict still pending) resumes
// by acting on the verdict of the report saved with the checkpoint; the gate
// agent is not re-run first. The orchestrator does not checkpoint partial LM
// calls, only completed phase transitions.
func (o *Orchestrator) Resume(ctx context.Context, id string) *PipelineResult {
	if o.Repository == nil {
		return &PipelineResult{ErrorMessage: "pipeline: resume requires a configured repository"}
	}

	doc, err := o.Repository.Load(ctx, id)
	if err != nil {
		return &PipelineResult{ErrorMessage: fmt.Sprintf("pipeline: loading %q: %v", id, err)}
	}
	if doc.State == document.StatePublished || doc.State == document.StateRejected {
		return &PipelineResult{Document: doc, ErrorMessage: ErrAlreadyTerminal.Error()}
	}

	return o.runFrom(ctx, doc)
}

// runFrom is Execute's continuation logic, parameterized over doc's current
// state so both a brand-new document (state CREATED) and a resumed one can
// share it.
func (o *Orchestrator) runFrom(ctx context.Context, doc *document.PublishingDocument) *PipelineResult {
	start := o.now()
	result := &PipelineResult{Document: doc}

	finish := o.finisher(doc, result, start)

	idx := resumeIndex(doc.State)
	if idx < 0 {
		return finish(fmt.Errorf("pipeline: unrecognized checkpoint state %q", doc.State))
	}

	if idx < resumeIndex(document.StateResearching) {
		if err := o.runProcess(ctx, doc, document.StateResearching, o.Researcher, approval.PhaseAfterResearch, doc.Brief, nil); err != nil {
			return finish(err)
		}
	}
	if err := ctx.Err(); err != nil {
		return finish(fail(doc.State, err))
	}

	if resumeIndex(doc.State) < resumeIndex(document.StateDrafting) {
		if err := o.runProcess(ctx, doc, document.StateDrafting, o.Writer, approval.PhaseAfterDraft, doc.ResearchBrief, nil); err != nil {
			return finish(err)
		}
	}
	if err := ctx.Err(); err != nil {
		return finish(fail(doc.State, err))
	}

	switch {
	case resumeIndex(doc.State) < resumeIndex(document.StateFactChecking):
		if err := o.runFactCheckLoop(ctx, doc); err != nil {
			return finish(err)
		}
	case doc.State == document.StateFactChecking:
		if err := o.continueFactCheckLoop(ctx, doc); err != nil {
			return finish(err)
		}
	}
	if err := ctx.Err(); err != nil {
		return finish(fail(doc.State, err))
	}

	onQualityFail := func() error {
		return &QualityError{State: document.StateEditing, Score: doc.FinalArticle.QualityScore, Minimum: o.Editor.MinEditorScore}
	}
	if resumeIndex(doc.State) < resumeIndex(document.StateEditing) {
		if err := o.runProcess(ctx, doc, document.StateEditing, o.Editor, approval.PhaseAfterEditing, editorInput(doc), onQualityFail); err != nil {
			return finish(err)
		}
	}
	if err := ctx.Err(); err != nil {
		return finish(fail(doc.State, err))
	}

	switch {
	case resumeIndex(doc.State) < resumeIndex(document.StateCritiquing):
		if err := o.runCritiqueLoop(ctx, doc); err != nil {
			return finish(err)
		}
	case doc.State == document.StateCritiquing:
		if err := o.continueCritiqueLoop(ctx, doc); err != nil {
			return finish(err)
		}
	}

	path, err := o.publish(ctx, doc)
	if err != nil {
		return finish(fail(document.StatePublished, err))
	}
	result.OutputPath = path
	return finish(nil)
}
