// Package stub implements the stub generator: materializing
// minimal wiki content for a classified GapConcept.
package stub

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/wikiforge/wikiforge/internal/agent"
	"github.com/wikiforge/wikiforge/internal/document"
)

// minWords and maxWords bound the DEFINITION stub's body length.
const (
	minWords = 100
	maxWords = 200
)

// Generator produces stub content for gap concepts. FULL_ARTICLE and IGNORE
// concepts are not materialized; callers should not invoke
// Generate for those.
type Generator struct {
	Chat agent.Chat
	ModelName string
	Temperature float64
}

// NewGenerator builds a Generator around chat.
func NewGenerator(chat agent.Chat, model string, temperature float64) *Generator {
	return &Generator{Chat: chat, ModelName: model, Temperature: temperature}
}

// Generate produces wiki content for concept, normalized to the target
// wiki's syntax. Returns an error for FULL_ARTICLE/IGNORE concepts, which
// are never materialized by the stub generator.
func (g *Generator) Generate(ctx context.Context, universe string, concept document.GapConcept) (string, error) {
	switch concept.Type {
	case document.GapRedirect:
		return normalizeWikiSyntax(redirectStub(concept)), nil
	case document.GapDefinition:
		content, err := g.definitionStub(ctx, universe, concept)
		if err != nil {
			return "", err
		}
		return normalizeWikiSyntax(content), nil
	default:
		return "", fmt.Errorf("stub: %s is not materialized (type %s)", concept.Name, concept.Type)
	}
}

// redirectStub builds the single deterministic alias directive.
func redirectStub(concept document.GapConcept) string {
	return fmt.Sprintf("[{ALIAS %s}]", concept.RedirectTarget)
}

// definitionStub generates a bounded definition page via one LM call,
// falling back to a minimal template on failure.
func (g *Generator) definitionStub(ctx context.Context, universe string, concept document.GapConcept) (string, error) {
	prompt := fmt.Sprintf(
		"Write a %d-%d word encyclopedia-style definition of %q for the %q wiki, suitable as a short stub page. "+
		"It is referenced by: %s. Use plain prose, no headings, no citations.",
		minWords, maxWords, concept.Name, universe, strings.Join(concept.ReferencedBy, ", "))

	completion, err := g.Chat.Chat(ctx, prompt, agent.ChatOptions{
			Model: g.ModelName,
			Temperature: g.Temperature,
			MaxTokens: 512,
	})
	if err != nil {
		return fallbackDefinition(concept), nil
	}
	completion = strings.TrimSpace(completion)
	if completion == "" {
		return fallbackDefinition(concept), nil
	}
	return completion, nil
}

// fallbackDefinition is the minimal template emitted when the LM call
// fails
func fallbackDefinition(concept document.GapConcept) string {
	category := concept.Category
	if category == "" {
		category = "general"
	}
	return fmt.Sprintf("%s is a %s topic referenced by %s. This page is a stub; it needs expansion.",
		concept.Name, category, strings.Join(concept.ReferencedBy, ", "))
}

var (
	mdH3 = regexp.MustCompile(`(?m)^### (.+)$`)
	mdH2 = regexp.MustCompile(`(?m)^## (.+)$`)
	mdH1 = regexp.MustCompile(`(?m)^# (.+)$`)
	mdBold = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	mdItalic = regexp.MustCompile(`\*([^*]+)\*`)
	mdBullet = regexp.MustCompile(`(?m)^[-*] `)
	mdLink = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
)

// normalizeWikiSyntax rewrites Markdown-ish formatting an LM might emit
// despite the prompt's instructions into the target wiki's own syntax
//: "!"/"!!"/"!!!" headings, "__bold__", "''italic''", "*"
// bullets, and "[display|target]" links.
func normalizeWikiSyntax(content string) string {
	content = mdH3.ReplaceAllString(content, "!!!$1")
	content = mdH2.ReplaceAllString(content, "!!$1")
	content = mdH1.ReplaceAllString(content, "!$1")
	content = mdLink.ReplaceAllString(content, "[$1|$2]")
	content = mdBold.ReplaceAllString(content, "__$1__")
	content = mdItalic.ReplaceAllString(content, "''$1''")
	content = mdBullet.ReplaceAllString(content, "* ")
	return content
}
