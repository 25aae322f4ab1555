// Package document defines the entities the publishing pipeline mutates: the
// immutable input brief, the mutable document that accumulates phase
// artifacts, and the value types each phase agent produces.
package document

import "time"

// TopicBrief is the immutable input to a pipeline run.
type TopicBrief struct {
	Topic             string   `json:"topic"`
	Audience          string   `json:"audience"`
	TargetWordCount   int      `json:"targetWordCount"`
	RequiredSections  []string `json:"requiredSections,omitempty"`
	RelatedPages      []string `json:"relatedPages,omitempty"`
	SourceURLs        []string `json:"sourceUrls,omitempty"`
}

// Reliability ranks a source's trustworthiness.
type Reliability string

const (
	ReliabilityOfficial      Reliability = "OFFICIAL"
	ReliabilityAcademic      Reliability = "ACADEMIC"
	ReliabilityAuthoritative Reliability = "AUTHORITATIVE"
	ReliabilityReputable     Reliability = "REPUTABLE"
	ReliabilityCommunity     Reliability = "COMMUNITY"
	ReliabilityUncertain     Reliability = "UNCERTAIN"
)

// Confidence is the fact-checker's aggregate confidence in a draft.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// confidenceRank orders Confidence from least to most confident, so callers
// can compare a report's OverallConfidence against a configured minimum.
var confidenceRank = map[Confidence]int{
	ConfidenceLow:    0,
	ConfidenceMedium: 1,
	ConfidenceHigh:   2,
}

// MeetsMinimum reports whether c is at least as confident as min. An
// unrecognized Confidence on either side ranks the same as LOW: an
// unrecognized c meets only a LOW minimum, and an unrecognized min is met by
// every value.
func (c Confidence) MeetsMinimum(min Confidence) bool {
	return confidenceRank[c] >= confidenceRank[min]
}

// RecommendedAction is the tagged outcome a fact-check or critique report
// carries; it drives the orchestrator's revision loop.
type RecommendedAction string

const (
	ActionApprove RecommendedAction = "APPROVE"
	ActionRevise  RecommendedAction = "REVISE"
	ActionReject  RecommendedAction = "REJECT"
)

// Source is one piece of supporting evidence a researcher cites.
type Source struct {
	Text        string      `json:"text"`
	Reliability Reliability `json:"reliability"`
}

// ResearchBrief is the Researcher agent's output.
type ResearchBrief struct {
	KeyFacts               []string          `json:"keyFacts"`
	Sources                []Source          `json:"sources"`
	SuggestedOutline       []string          `json:"suggestedOutline"`
	RelatedPageSuggestions []string          `json:"relatedPageSuggestions,omitempty"`
	Glossary               map[string]string `json:"glossary,omitempty"`
	UncertainAreas         []string          `json:"uncertainAreas,omitempty"`
}

// Valid reports whether the brief satisfies its required-fields invariant.
func (r *ResearchBrief) Valid() bool {
	return r != nil && len(r.KeyFacts) >= 1 && len(r.SuggestedOutline) >= 1
}

// ArticleDraft is the Writer agent's output.
type ArticleDraft struct {
	WikiContent   string            `json:"wikiContent"`
	Summary       string            `json:"summary"`
	InternalLinks []string          `json:"internalLinks,omitempty"`
	Categories    []string          `json:"categories,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// Valid reports whether the draft satisfies its non-blank-content invariant.
func (a *ArticleDraft) Valid() bool {
	return a != nil && nonBlank(a.WikiContent) && nonBlank(a.Summary)
}

// VerifiedClaim records a claim the fact-checker matched against a source.
type VerifiedClaim struct {
	Claim       string `json:"claim"`
	Status      string `json:"status"`
	SourceIndex int    `json:"sourceIndex"`
}

// QuestionableClaim records a claim the fact-checker could not verify.
type QuestionableClaim struct {
	Claim      string `json:"claim"`
	Issue      string `json:"issue"`
	Suggestion string `json:"suggestion,omitempty"`
}

// FactCheckReport is the FactChecker agent's output.
type FactCheckReport struct {
	AnnotatedContent    string              `json:"annotatedContent"`
	VerifiedClaims      []VerifiedClaim     `json:"verifiedClaims,omitempty"`
	QuestionableClaims  []QuestionableClaim `json:"questionableClaims,omitempty"`
	ConsistencyIssues   []string            `json:"consistencyIssues,omitempty"`
	OverallConfidence   Confidence          `json:"overallConfidence"`
	RecommendedAction   RecommendedAction   `json:"recommendedAction"`
}

// Valid reports whether the report carries a recommended action.
func (f *FactCheckReport) Valid() bool {
	return f != nil && f.RecommendedAction != ""
}

// FinalArticle is the Editor agent's output.
type FinalArticle struct {
	WikiContent  string            `json:"wikiContent"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	EditSummary  string            `json:"editSummary"`
	QualityScore float64           `json:"qualityScore"`
	AddedLinks   []string          `json:"addedLinks,omitempty"`
}

// Valid reports whether the article meets minEditorScore; the threshold is
// supplied by the caller since it is a configuration value, not a constant.
func (f *FinalArticle) Valid(minEditorScore float64) bool {
	return f != nil && f.QualityScore >= minEditorScore
}

// CriticReport is the Critic agent's output.
type CriticReport struct {
	Overall           float64           `json:"overall"`
	Structure         float64           `json:"structure"`
	Syntax            float64           `json:"syntax"`
	Style             float64           `json:"style"`
	StructureIssues   []string          `json:"structureIssues,omitempty"`
	SyntaxIssues      []string          `json:"syntaxIssues,omitempty"`
	StyleIssues       []string          `json:"styleIssues,omitempty"`
	Suggestions       []string          `json:"suggestions,omitempty"`
	RecommendedAction RecommendedAction `json:"recommendedAction"`
}

// Valid reports whether the report carries a recommended action.
func (c *CriticReport) Valid() bool {
	return c != nil && c.RecommendedAction != ""
}

// AgentRole identifies which phase agent produced a contribution.
type AgentRole string

const (
	RoleResearcher  AgentRole = "researcher"
	RoleWriter      AgentRole = "writer"
	RoleFactChecker AgentRole = "fact-checker"
	RoleEditor      AgentRole = "editor"
	RoleCritic      AgentRole = "critic"
)

// AgentContribution is an append-only audit record of one phase invocation.
// It is value-typed and carries only the role enum, never a pointer back to
// the agent that produced it, so that Document and Agent cannot form a cycle.
type AgentContribution struct {
	AgentRole      AgentRole         `json:"agentRole"`
	Timestamp      time.Time         `json:"timestamp"`
	InputHash      uint64            `json:"inputHash"`
	OutputHash     uint64            `json:"outputHash"`
	ProcessingTime time.Duration     `json:"processingTime"`
	Metrics        map[string]string `json:"metrics,omitempty"`
}

// GapType classifies how a dangling wiki reference should be resolved.
type GapType string

const (
	GapDefinition  GapType = "DEFINITION"
	GapRedirect    GapType = "REDIRECT"
	GapFullArticle GapType = "FULL_ARTICLE"
	GapIgnore      GapType = "IGNORE"
)

// GapConcept is a referenced-but-unresolved wiki page awaiting classification.
type GapConcept struct {
	Name           string   `json:"name"`
	PageName       string   `json:"pageName"`
	Type           GapType  `json:"type"`
	ReferencedBy   []string `json:"referencedBy"`
	RedirectTarget string   `json:"redirectTarget,omitempty"`
	Category       string   `json:"category,omitempty"`
}

// SearchResult is a single ranked hit from a search provider.
type SearchResult struct {
	Title       string      `json:"title"`
	URL         string      `json:"url"`
	Snippet     string      `json:"snippet"`
	Reliability Reliability `json:"reliability"`
}

// QualityAssessment is advisory metadata only; no invariant or approval
// gate reads it.
type QualityAssessment struct {
	Notes  string             `json:"notes,omitempty"`
	Scores map[string]float64 `json:"scores,omitempty"`
}

// PublishingDocument is the mutable aggregate the orchestrator drives through
// DocumentState. It is mutated only by the orchestrator, at phase boundaries.
type PublishingDocument struct {
	ID       string `json:"id"`
	PageName string `json:"pageName"`
	Title    string `json:"title"`

	State DocumentState `json:"state"`

	Brief TopicBrief `json:"brief"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ResearchBrief   *ResearchBrief   `json:"researchBrief,omitempty"`
	Draft           *ArticleDraft    `json:"draft,omitempty"`
	FactCheckReport *FactCheckReport `json:"factCheckReport,omitempty"`
	FinalArticle    *FinalArticle    `json:"finalArticle,omitempty"`
	CriticReport    *CriticReport    `json:"criticReport,omitempty"`

	Contributions []AgentContribution `json:"contributions"`

	QualityAssessment *QualityAssessment `json:"qualityAssessment,omitempty"`

	// RevisionCounts tracks how many times each inner loop has re-run, keyed
	// by the state the loop revises around ("FACT_CHECKING", "CRITIQUING").
	RevisionCounts map[string]int `json:"revisionCounts,omitempty"`
}

func nonBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return true
		}
	}
	return false
}

// AddContribution appends an audit record. Contributions are append-only:
// callers must never mutate or remove an existing entry.
func (d *PublishingDocument) AddContribution(c AgentContribution) {
	d.Contributions = append(d.Contributions, c)
	d.UpdatedAt = time.Now()
}

// RevisionCount returns how many times the named inner loop has re-run.
func (d *PublishingDocument) RevisionCount(loop string) int {
	if d.RevisionCounts == nil {
		return 0
	}
	return d.RevisionCounts[loop]
}

// IncrementRevisionCount bumps the named inner loop's counter and returns the
// new value.
func (d *PublishingDocument) IncrementRevisionCount(loop string) int {
	if d.RevisionCounts == nil {
		d.RevisionCounts = map[string]int{}
	}
	d.RevisionCounts[loop]++
	return d.RevisionCounts[loop]
}
