// Package pipeline implements the orchestrator: the
// phase-sequenced state machine that drives a PublishingDocument through
// RESEARCHING -> DRAFTING -> FACT_CHECKING -> EDITING -> CRITIQUING ->
// PUBLISHED, with bounded revision loops, per-phase approval gates, and
// partial-failure continuation. Each phase follows the same
// invoke-validate-transition-record shape over a fixed five-phase sequence
// with two inner revision loops.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wikiforge/wikiforge/internal/agent"
	"github.com/wikiforge/wikiforge/internal/approval"
	"github.com/wikiforge/wikiforge/internal/document"
	"github.com/wikiforge/wikiforge/internal/output"
	"github.com/wikiforge/wikiforge/internal/repository"
)

// reviserAgent is implemented by the two phase agents that participate in a
// revision loop: Writer (fact-check loop) and Editor (critique loop).
type reviserAgent interface {
	agent.PhaseAgent
	agent.Reviser
}

// Orchestrator wires the five phase agents, the approval service, the
// output writer, and an optional repository/monitor into the
// phase-transition algorithm.
type Orchestrator struct {
	Researcher *agent.Researcher
	Writer *agent.Writer
	FactChecker *agent.FactChecker
	Editor *agent.Editor
	Critic *agent.Critic

	Approval *approval.Service
	Output *output.Writer

	// Repository, when non-nil, persists doc after every successful phase
	// transition so a failed or interrupted run can be resumed later.
	Repository repository.DocumentRepository
	Monitor *Monitor

	MaxRevisionCycles int
	PhaseTimeout time.Duration

	// MinFactcheckConfidence gates the fact-check loop alongside
	// recommendedAction: a report confident enough to APPROVE but below this
	// floor is still treated as REVISE, the way MinEditorScore gates EDITING
	// alongside the editor's own recommendation.
	MinFactcheckConfidence document.Confidence

	Logger *log.Logger
}

// PipelineResult is the execute return value.
type PipelineResult struct {
	Success bool
	Document *document.PublishingDocument
	OutputPath string
	ErrorMessage string
	FailedAtState document.DocumentState
	FailedDocumentPath string
	TotalTime time.Duration
}

// Execute drives brief through every phase to PUBLISHED, or returns a
// PipelineResult describing where and why it failed. Execute itself never
// returns a Go error: PipelineResult is a tagged result so callers cannot
// forget to handle rejection vs. changes-requested vs. approved.
func (o *Orchestrator) Execute(ctx context.Context, brief document.TopicBrief) *PipelineResult {
	doc := document.New(brief, brief.Topic)
	return o.runFrom(ctx, doc)
}

// finisher builds the finish(err) closure Execute and Resume both use to
// turn a terminal error (or nil) into a PipelineResult, writing the
// failure-path debug artifact when the run did not succeed.
func (o *Orchestrator) finisher(doc *document.PublishingDocument, result *PipelineResult, start time.Time) func(err error) *PipelineResult {
	return func(err error) *PipelineResult {
		result.TotalTime = time.Since(start)
		if err == nil {
			result.Success = true
			return result
		}
		result.Success = false
		result.ErrorMessage = err.Error()
		var pf *phaseFailure
		if errors.As(err, &pf) {
			result.FailedAtState = pf.State
		} else {
			result.FailedAtState = doc.State
		}
		if o.Output != nil {
			if path, werr := o.writeDebugArtifact(doc, result.FailedAtState, err); werr == nil {
				result.FailedDocumentPath = path
			} else {
				o.logf("writing debug artifact: %v", werr)
			}
		}
		return result
	}
}

func (o *Orchestrator) now() time.Time { return time.Now() }

// runFactCheckLoop runs FactChecker, then follows the revision
// loop: APPROVE proceeds, REJECT fails at FACT_CHECKING, REVISE re-runs the
// Writer with accumulated context and re-checks, up to maxRevisionCycles --
// after which the loop embeds markers into the draft and proceeds to
// EDITING anyway (RevisionExhausted is not fatal).
func (o *Orchestrator) runFactCheckLoop(ctx context.Context, doc *document.PublishingDocument) error {
	if err := o.runProcess(ctx, doc, document.StateFactChecking, o.FactChecker, approval.PhaseAfterFactcheck, doc.Draft, nil); err != nil {
		return err
	}
	return o.continueFactCheckLoop(ctx, doc)
}

// continueFactCheckLoop acts on doc's current FactCheckReport -- used both
// by runFactCheckLoop right after the first check, and by Resume when a
// checkpoint lands exactly on FACT_CHECKING and the loop's verdict still
// needs acting on.
func (o *Orchestrator) continueFactCheckLoop(ctx context.Context, doc *document.PublishingDocument) error {
	for {
		report := doc.FactCheckReport
		switch report.RecommendedAction {
		case document.ActionApprove:
			if report.OverallConfidence.MeetsMinimum(o.minFactcheckConfidence()) {
				return nil
			}
			fallthrough
		case document.ActionRevise:
			if report.RecommendedAction == document.ActionApprove {
				o.logf("fact-check: confidence %s below configured minimum %s; revising despite APPROVE", report.OverallConfidence, o.minFactcheckConfidence())
			}
			if doc.RevisionCount("FACT_CHECKING") >= o.MaxRevisionCycles {
				doc.Draft.WikiContent += factCheckMarkerBlock(report, o.MaxRevisionCycles)
				return nil
			}
			doc.IncrementRevisionCount("FACT_CHECKING")
			note := buildFactCheckRevisionNote(report)
			if err := o.runRevise(ctx, doc, document.StateDrafting, o.Writer, approval.PhaseAfterDraft, doc.ResearchBrief, note); err != nil {
				return err
			}
			if err := o.runProcess(ctx, doc, document.StateFactChecking, o.FactChecker, approval.PhaseAfterFactcheck, doc.Draft, nil); err != nil {
				return err
			}
		case document.ActionReject:
			return fail(document.StateFactChecking, fmt.Errorf("fact-check rejected the draft: %s", strings.Join(report.ConsistencyIssues, "; ")))
		default:
			return fail(document.StateFactChecking, fmt.Errorf("fact-checker: unrecognized recommendedAction %q", report.RecommendedAction))
		}
	}
}

// runCritiqueLoop mirrors runFactCheckLoop around CriticReport: REVISE
// re-runs the Editor, exhaustion embeds markers into the final article.
func (o *Orchestrator) runCritiqueLoop(ctx context.Context, doc *document.PublishingDocument) error {
	if err := o.runProcess(ctx, doc, document.StateCritiquing, o.Critic, approval.PhaseBeforePublish, doc.FinalArticle, nil); err != nil {
		return err
	}
	return o.continueCritiqueLoop(ctx, doc)
}

// continueCritiqueLoop is continueFactCheckLoop's counterpart for the
// critique loop.
func (o *Orchestrator) continueCritiqueLoop(ctx context.Context, doc *document.PublishingDocument) error {
	for {
		report := doc.CriticReport
		switch report.RecommendedAction {
		case document.ActionApprove:
			return nil
		case document.ActionReject:
			return fail(document.StateCritiquing, fmt.Errorf("critique rejected the article: %s", strings.Join(report.Suggestions, "; ")))
		case document.ActionRevise:
			if doc.RevisionCount("CRITIQUING") >= o.MaxRevisionCycles {
				doc.FinalArticle.WikiContent += critiqueMarkerBlock(report, o.MaxRevisionCycles)
				return nil
			}
			doc.IncrementRevisionCount("CRITIQUING")
			note := buildCritiqueRevisionNote(report)
			if err := o.runRevise(ctx, doc, document.StateEditing, o.Editor, approval.PhaseAfterEditing, editorInput(doc), note); err != nil {
				return err
			}
			if err := o.runProcess(ctx, doc, document.StateCritiquing, o.Critic, approval.PhaseBeforePublish, doc.FinalArticle, nil); err != nil {
				return err
			}
		default:
			return fail(document.StateCritiquing, fmt.Errorf("critic: unrecognized recommendedAction %q", report.RecommendedAction))
		}
	}
}

// publish materializes the approved FinalArticle via the output writer and
// transitions the document to PUBLISHED.
func (o *Orchestrator) publish(ctx context.Context, doc *document.PublishingDocument) (string, error) {
	if !doc.State.CanTransition(document.StatePublished) {
		return "", &document.ErrInvalidTransition{From: doc.State, To: document.StatePublished}
	}
	path, err := o.Output.WriteArticle(doc.PageName, doc.FinalArticle.WikiContent)
	if err != nil {
		return "", fmt.Errorf("pipeline: publishing: %w", err)
	}
	if err := doc.Transition(document.StatePublished); err != nil {
		return "", err
	}
	if o.Repository != nil {
		_ = o.Repository.Save(ctx, doc)
	}
	return path, nil
}

// runProcess executes a.Process under the phase-transition algorithm
// pre-check, invoke, validate, transition, record,
// checkpoint, approve.
func (o *Orchestrator) runProcess(ctx context.Context, doc *document.PublishingDocument, target document.DocumentState, a agent.PhaseAgent, approvalPhase approval.Phase, input any, onInvalid func() error) error {
	return o.runPhase(ctx, doc, target, a.Role(), func(c context.Context) error { return a.Process(c, doc) }, func() bool { return a.Validate(doc) }, approvalPhase, input, onInvalid)
}

// runRevise is runProcess's counterpart for a revision-loop re-invocation:
// it calls ReviseWith(note) instead of Process.
func (o *Orchestrator) runRevise(ctx context.Context, doc *document.PublishingDocument, target document.DocumentState, a reviserAgent, approvalPhase approval.Phase, input any, note string) error {
	return o.runPhase(ctx, doc, target, a.Role(), func(c context.Context) error { return a.ReviseWith(c, doc, note) }, func() bool { return a.Validate(doc) }, approvalPhase, input, nil)
}

// runPhase is the common body both runProcess and runRevise share: the
// invoke-validate-transition-record-checkpoint-approve sequence every phase
// follows.
func (o *Orchestrator) runPhase(
	ctx context.Context,
	doc *document.PublishingDocument,
	target document.DocumentState,
	role document.AgentRole,
	invoke func(context.Context) error,
	validate func() bool,
	approvalPhase approval.Phase,
	input any,
	onInvalid func() error,
) error {
	if !doc.State.CanTransition(target) {
		return fail(target, &document.ErrInvalidTransition{From: doc.State, To: target})
	}

	phaseCtx, cancel := context.WithTimeout(ctx, o.phaseTimeout())
	defer cancel()

	start := time.Now()
	err := invoke(phaseCtx)
	duration := time.Since(start)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fail(target, &TimeoutError{State: target, Cause: err})
		}
		return fail(target, err)
	}

	if !validate() {
		if onInvalid != nil {
			return fail(target, onInvalid())
		}
		return fail(target, fmt.Errorf("pipeline: %s produced an invalid artifact", role))
	}

	if err := doc.Transition(target); err != nil {
		return fail(target, err)
	}

	record(doc, role, document.HashContent(input), document.HashContent(currentArtifact(doc, role)), duration)
	o.Monitor.Emit(ContributionEvent{DocumentID: doc.ID, Role: role, State: target, Duration: duration, Timestamp: time.Now()})
	o.logf("phase %s completed in %s", target, duration)

	if o.Repository != nil {
		if err := o.Repository.Save(ctx, doc); err != nil {
			o.logf("checkpointing after %s: %v", target, err)
		}
	}

	if err := o.Approval.CheckAndApprove(ctx, approval.AfterPhaseRequest{Phase: approvalPhase, Document: doc}); err != nil {
		return fail(target, err)
	}
	return nil
}

func (o *Orchestrator) phaseTimeout() time.Duration {
	if o.PhaseTimeout <= 0 {
		return 5 * time.Minute
	}
	return o.PhaseTimeout
}

func (o *Orchestrator) minFactcheckConfidence() document.Confidence {
	if o.MinFactcheckConfidence == "" {
		return document.ConfidenceMedium
	}
	return o.MinFactcheckConfidence
}

func (o *Orchestrator) logf(format string, args ...any) {
	if o.Logger == nil {
		return
	}
	o.Logger.Debug(fmt.Sprintf(format, args...))
}

// currentArtifact returns the phase-specific artifact role just populated
// on doc, used to compute AgentContribution.outputHash.
func currentArtifact(doc *document.PublishingDocument, role document.AgentRole) any {
	switch role {
		case document.RoleResearcher:
		return doc.ResearchBrief
		case document.RoleWriter:
		return doc.Draft
		case document.RoleFactChecker:
		return doc.FactCheckReport
		case document.RoleEditor:
		return doc.FinalArticle
		case document.RoleCritic:
		return doc.CriticReport
		default:
		return nil
	}
}

// editorInputSnapshot bundles the Editor's two inputs for contribution
// hashing purposes.
type editorInputSnapshot struct {
	Draft *document.ArticleDraft
	FactCheck *document.FactCheckReport
}

func editorInput(doc *document.PublishingDocument) editorInputSnapshot {
	return editorInputSnapshot{Draft: doc.Draft, FactCheck: doc.FactCheckReport}
}

// buildFactCheckRevisionNote summarizes a FactCheckReport's questionable
// claims and consistency issues as revision context appended to the
// Writer's prompt.
func buildFactCheckRevisionNote(report *document.FactCheckReport) string {
	var sb strings.Builder
	sb.WriteString("The fact-checker flagged issues in the previous draft that must be addressed:\n")
	for _, qc := range report.QuestionableClaims {
		fmt.Fprintf(&sb, "- %s: %s", qc.Claim, qc.Issue)
		if qc.Suggestion != "" {
			fmt.Fprintf(&sb, " (suggestion: %s)", qc.Suggestion)
		}
		sb.WriteString("\n")
	}
	for _, ci := range report.ConsistencyIssues {
		fmt.Fprintf(&sb, "- consistency issue: %s\n", ci)
	}
	return sb.String()
}

// buildCritiqueRevisionNote is buildFactCheckRevisionNote's counterpart for
// the critique loop's re-edit.
func buildCritiqueRevisionNote(report *document.CriticReport) string {
	var sb strings.Builder
	sb.WriteString("The critic flagged issues in the previous article that must be addressed:\n")
	for _, issue := range report.StructureIssues {
		fmt.Fprintf(&sb, "- structure: %s\n", issue)
	}
	for _, issue := range report.SyntaxIssues {
		fmt.Fprintf(&sb, "- syntax: %s\n", issue)
	}
	for _, issue := range report.StyleIssues {
		fmt.Fprintf(&sb, "- style: %s\n", issue)
	}
	for _, s := range report.Suggestions {
		fmt.Fprintf(&sb, "- suggestion: %s\n", s)
	}
	return sb.String()
}

// writeDebugArtifact assembles and persists the failure-path debug artifact:
// the last available draft, embedded fact-check issues, and a research
// brief summary.
func (o *Orchestrator) writeDebugArtifact(doc *document.PublishingDocument, failedState document.DocumentState, cause error) (string, error) {
	var researchSummary string
	if doc.ResearchBrief != nil {
		researchSummary = strings.Join(doc.ResearchBrief.KeyFacts, "; ")
	}
	var draftContent string
	if doc.Draft != nil {
		draftContent = doc.Draft.WikiContent
	}
	var factCheckIssues, consistencyIssues []string
	if doc.FactCheckReport != nil {
		for _, qc := range doc.FactCheckReport.QuestionableClaims {
			factCheckIssues = append(factCheckIssues, fmt.Sprintf("%s: %s", qc.Claim, qc.Issue))
		}
		consistencyIssues = doc.FactCheckReport.ConsistencyIssues
	}

	return o.Output.WriteDebugArtifact(output.DebugArtifact{
			PageName: doc.PageName,
			FailedState: failedState,
			ErrorMessage: cause.Error(),
			ResearchSummary: researchSummary,
			Draft: draftContent,
			FactCheckIssues: factCheckIssues,
			ConsistencyIssues: consistencyIssues,
	})
}
