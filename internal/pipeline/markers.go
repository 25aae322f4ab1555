package pipeline

import (
	"fmt"
	"strings"

	"github.com/wikiforge/wikiforge/internal/document"
)

// factCheckMarkerBlock builds the fenced block the orchestrator embeds into
// draft.wikiContent once the fact-check revision loop exhausts
// maxRevisionCycles: a bold open line, one numbered "Questionable Claim:"
// entry per remaining claim, a "Consistency Issues:" section when any exist,
// a line naming the max attempts, and a bold close line. Bold uses the
// wiki's own "__x__" syntax; the plain substrings still appear regardless of
// the bold markers around them.
func factCheckMarkerBlock(report *document.FactCheckReport, maxAttempts int) string {
	var sb strings.Builder
	sb.WriteString("\n__FACT CHECK FAIL BEGIN__\n")
	for i, qc := range report.QuestionableClaims {
		fmt.Fprintf(&sb, "%d. Questionable Claim: %s -- %s", i+1, qc.Claim, qc.Issue)
		if qc.Suggestion != "" {
			fmt.Fprintf(&sb, " (suggestion: %s)", qc.Suggestion)
		}
		sb.WriteString("\n")
	}
	if len(report.ConsistencyIssues) > 0 {
		sb.WriteString("Consistency Issues:\n")
		for _, issue := range report.ConsistencyIssues {
			fmt.Fprintf(&sb, "- %s\n", issue)
		}
	}
	fmt.Fprintf(&sb, "After %d revision attempts, the questionable claims above remain unresolved.\n", maxAttempts)
	sb.WriteString("__FACT CHECK FAIL END__\n")
	return sb.String()
}

// critiqueMarkerBlock builds the fenced block the orchestrator embeds into
// finalArticle.wikiContent once the critique revision loop exhausts
// maxRevisionCycles, grouping the critic's remaining issues by category.
func critiqueMarkerBlock(report *document.CriticReport, maxAttempts int) string {
	var sb strings.Builder
	sb.WriteString("\n__CRITIQUE REVIEW NOTES BEGIN__\n")
	writeIssueSection(&sb, "Syntax Issues", report.SyntaxIssues)
	writeIssueSection(&sb, "Structure Issues", report.StructureIssues)
	writeIssueSection(&sb, "Style Issues", report.StyleIssues)
	writeIssueSection(&sb, "Suggestions", report.Suggestions)
	fmt.Fprintf(&sb, "After %d revision attempts, the notes above remain unresolved.\n", maxAttempts)
	sb.WriteString("__CRITIQUE REVIEW NOTES END__\n")
	return sb.String()
}

func writeIssueSection(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s:\n", label)
	for _, item := range items {
		fmt.Fprintf(sb, "- %s\n", item)
	}
}
