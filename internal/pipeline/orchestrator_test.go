package pipeline

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikiforge/wikiforge/internal/agent"
	"github.com/wikiforge/wikiforge/internal/approval"
	"github.com/wikiforge/wikiforge/internal/document"
	"github.com/wikiforge/wikiforge/internal/output"
)

// scriptedChat plays back a fixed queue of raw responses, one per Chat call,
// mirroring internal/agent's own test helper of the same shape.
type scriptedChat struct {
	responses []string
	calls     int
}

func (s *scriptedChat) Chat(ctx context.Context, prompt string, opts agent.ChatOptions) (string, error) {
	if s.calls >= len(s.responses) {
		return "", errors.New("scriptedChat: no more responses")
	}
	r := s.responses[s.calls]
	s.calls++
	return r, nil
}

func fastPolicy() agent.RetryPolicy {
	return agent.RetryPolicy{MaxAttempts: 2, InitialDelay: time.Millisecond, Multiplier: 2, MaxDelay: 5 * time.Millisecond}
}

func newTestOrchestrator(t *testing.T, chat agent.Chat, maxRevisionCycles int, minEditorScore float64, approvalSvc *approval.Service) (*Orchestrator, *output.Writer) {
	t.Helper()
	rt := &agent.Runtime{Chat: chat, Policy: fastPolicy()}
	outDir := t.TempDir()
	w, err := output.New(outDir, ".wiki")
	require.NoError(t, err)

	if approvalSvc == nil {
		approvalSvc = approval.NewService(approval.AutoApprove{}, approval.Mask{})
	}

	return &Orchestrator{
		Researcher:        &agent.Researcher{Runtime: rt},
		Writer:            &agent.Writer{Runtime: rt},
		FactChecker:       &agent.FactChecker{Runtime: rt},
		Editor:            &agent.Editor{Runtime: rt, MinEditorScore: minEditorScore},
		Critic:            &agent.Critic{Runtime: rt},
		Approval:          approvalSvc,
		Output:            w,
		MaxRevisionCycles: maxRevisionCycles,
		PhaseTimeout:      time.Second,
	}, w
}

const (
	researchApprove  = `{"keyFacts":["Git tracks content snapshots."],"sources":[{"text":"git-scm.com","reliability":"OFFICIAL"}],"suggestedOutline":["Introduction","History"]}`
	draftOK          = `{"wikiContent":"Git is a distributed version control system.","summary":"An overview of Git."}`
	draftRevisedOK   = `{"wikiContent":"Git is a distributed version control system, created by Linus Torvalds.","summary":"A revised overview of Git."}`
	factcheckApprove = `{"annotatedContent":"Git is a distributed version control system.","recommendedAction":"APPROVE","overallConfidence":"HIGH"}`
	factcheckRevise  = `{"annotatedContent":"Git is a distributed version control system.","recommendedAction":"REVISE","overallConfidence":"MEDIUM","questionableClaims":[{"claim":"Git was created in 2005","issue":"unverified against sources","suggestion":"cite an authoritative source"}]}`
	factcheckReject  = `{"annotatedContent":"","recommendedAction":"REJECT","overallConfidence":"LOW","consistencyIssues":["draft contradicts itself about Git's origin"]}`
	editorHighScore  = `{"wikiContent":"Git is a distributed version control system. [[Linux]]","editSummary":"tightened prose","qualityScore":0.95}`
	editorLowScore   = `{"wikiContent":"Git is a distributed version control system.","editSummary":"minor cleanup","qualityScore":0.4}`
	criticApprove    = `{"overall":0.9,"structure":0.9,"syntax":0.9,"style":0.9,"recommendedAction":"APPROVE"}`
	criticRevise     = `{"overall":0.5,"structure":0.5,"syntax":0.6,"style":0.5,"recommendedAction":"REVISE","styleIssues":["tone drifts informal in the second paragraph"]}`
)

func testBrief() document.TopicBrief {
	return document.TopicBrief{Topic: "Git", Audience: "general", TargetWordCount: 400}
}

func TestOrchestrator_Execute_HappyPath(t *testing.T) {
	chat := &scriptedChat{responses: []string{researchApprove, draftOK, factcheckApprove, editorHighScore, criticApprove}}
	o, w := newTestOrchestrator(t, chat, 2, 0.7, nil)

	result := o.Execute(context.Background(), testBrief())

	require.True(t, result.Success, result.ErrorMessage)
	assert.Equal(t, document.StatePublished, result.Document.State)
	assert.Len(t, result.Document.Contributions, 5)
	assert.NotEmpty(t, result.OutputPath)

	content, err := os.ReadFile(w.PagePath(result.Document.PageName))
	require.NoError(t, err)
	assert.Contains(t, string(content), "Linux")
}

func TestOrchestrator_Execute_FactCheckRevisionThenApprove(t *testing.T) {
	chat := &scriptedChat{responses: []string{researchApprove, draftOK, factcheckRevise, draftRevisedOK, factcheckApprove, editorHighScore, criticApprove}}
	o, _ := newTestOrchestrator(t, chat, 2, 0.7, nil)

	result := o.Execute(context.Background(), testBrief())

	require.True(t, result.Success, result.ErrorMessage)
	assert.Equal(t, 1, result.Document.RevisionCount("FACT_CHECKING"))
	assert.Contains(t, result.Document.FinalArticle.WikiContent, "Linux")
}

func TestOrchestrator_Execute_FactCheckExhaustionEmbedsMarkers(t *testing.T) {
	chat := &scriptedChat{responses: []string{
		researchApprove, draftOK,
		factcheckRevise, draftRevisedOK, factcheckRevise,
		editorHighScore, criticApprove,
	}}
	o, _ := newTestOrchestrator(t, chat, 1, 0.7, nil)

	result := o.Execute(context.Background(), testBrief())

	require.True(t, result.Success, result.ErrorMessage)
	assert.Contains(t, result.Document.Draft.WikiContent, "__FACT CHECK FAIL BEGIN__")
	assert.Contains(t, result.Document.Draft.WikiContent, "Git was created in 2005")
	assert.Contains(t, result.Document.Draft.WikiContent, "After 1 revision attempts")
	assert.Contains(t, result.Document.Draft.WikiContent, "__FACT CHECK FAIL END__")
}

func TestOrchestrator_Execute_FactCheckRejectIsFatal(t *testing.T) {
	chat := &scriptedChat{responses: []string{researchApprove, draftOK, factcheckReject}}
	o, _ := newTestOrchestrator(t, chat, 2, 0.7, nil)

	result := o.Execute(context.Background(), testBrief())

	require.False(t, result.Success)
	assert.Equal(t, document.StateFactChecking, result.FailedAtState)
	assert.Contains(t, result.ErrorMessage, "rejected")
	assert.NotEmpty(t, result.FailedDocumentPath)
}

func TestOrchestrator_Execute_QualityBelowMinimumStopsBeforeCritique(t *testing.T) {
	chat := &scriptedChat{responses: []string{researchApprove, draftOK, factcheckApprove, editorLowScore}}
	o, _ := newTestOrchestrator(t, chat, 2, 0.8, nil)

	result := o.Execute(context.Background(), testBrief())

	require.False(t, result.Success)
	assert.Equal(t, document.StateEditing, result.FailedAtState)
	assert.Contains(t, result.ErrorMessage, "quality score")
	assert.Equal(t, 4, chat.calls, "critic must not have been invoked")
}

func TestOrchestrator_Execute_CritiqueRevisionThenApprove(t *testing.T) {
	chat := &scriptedChat{responses: []string{
		researchApprove, draftOK, factcheckApprove,
		editorHighScore, criticRevise, editorHighScore, criticApprove,
	}}
	o, _ := newTestOrchestrator(t, chat, 2, 0.7, nil)

	result := o.Execute(context.Background(), testBrief())

	require.True(t, result.Success, result.ErrorMessage)
	assert.Equal(t, 1, result.Document.RevisionCount("CRITIQUING"))
}

type rejectAfterDraft struct{}

func (rejectAfterDraft) Decide(ctx context.Context, req approval.AfterPhaseRequest) (approval.DecisionResult, error) {
	if req.Phase == approval.PhaseAfterDraft {
		return approval.DecisionResult{Decision: approval.DecisionRequestChanges, Reason: "needs a citations section"}, nil
	}
	return approval.DecisionResult{Decision: approval.DecisionApprove}, nil
}

func TestOrchestrator_Execute_ApprovalGateStopsThePipeline(t *testing.T) {
	chat := &scriptedChat{responses: []string{researchApprove, draftOK}}
	svc := approval.NewService(rejectAfterDraft{}, approval.Mask{approval.PhaseAfterDraft: true})
	o, _ := newTestOrchestrator(t, chat, 2, 0.7, svc)

	result := o.Execute(context.Background(), testBrief())

	require.False(t, result.Success)
	assert.Equal(t, document.StateDrafting, result.FailedAtState)
	assert.Contains(t, result.ErrorMessage, "needs a citations section")
}

func TestOrchestrator_Resume_ContinuesFromCheckpoint(t *testing.T) {
	chat := &scriptedChat{responses: []string{researchApprove, draftOK, factcheckApprove, editorHighScore, criticApprove}}
	o, _ := newTestOrchestrator(t, chat, 2, 0.7, nil)

	doc := document.New(testBrief(), "Git")
	require.NoError(t, doc.Transition(document.StateResearching))
	doc.ResearchBrief = &document.ResearchBrief{KeyFacts: []string{"fact"}, SuggestedOutline: []string{"intro"}}

	repo := newFakeRepo()
	o.Repository = repo
	require.NoError(t, repo.Save(context.Background(), doc))

	chat.calls = 1 // skip the researcher response; resume starts at DRAFTING
	result := o.Resume(context.Background(), doc.ID)

	require.True(t, result.Success, result.ErrorMessage)
	assert.Equal(t, document.StatePublished, result.Document.State)
}

// fakeRepo is an in-memory DocumentRepository for orchestrator tests that do
// not need the filesystem.
type fakeRepo struct {
	docs map[string]*document.PublishingDocument
}

func newFakeRepo() *fakeRepo { return &fakeRepo{docs: map[string]*document.PublishingDocument{}} }

func (r *fakeRepo) Save(ctx context.Context, doc *document.PublishingDocument) error {
	r.docs[doc.ID] = doc
	return nil
}

func (r *fakeRepo) Load(ctx context.Context, id string) (*document.PublishingDocument, error) {
	doc, ok := r.docs[id]
	if !ok {
		return nil, errors.New("fakeRepo: not found")
	}
	return doc, nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := r.docs[id]; !ok {
		return false, nil
	}
	delete(r.docs, id)
	return true, nil
}

func (r *fakeRepo) List(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(r.docs))
	for id := range r.docs {
		ids = append(ids, id)
	}
	return ids, nil
}
