package gap

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/wikiforge/wikiforge/internal/agent"
	"github.com/wikiforge/wikiforge/internal/document"
	"github.com/wikiforge/wikiforge/internal/jsonutil"
)

// scanConcurrency bounds how many pages are scanned for links at once via
// an errgroup.SetLimit fan-out.
const scanConcurrency = 8

// Page is one already-published (or about-to-be-published) article to scan
// for outgoing links.
type Page struct {
	Name string
	Content string
}

// ScanPages extracts links from every page concurrently and returns the
// aggregate set of referenced-by edges: link target -> the page names that
// reference it, folded to a single entry per normalized target (the first
// spelling encountered across the whole scan) so that two pages referencing
// the same concept with different raw casing or punctuation land in one
// GapConcept rather than two. Per-page extraction cannot fail, so the
// returned error is always nil; it is present to keep the errgroup-based
// shape and to leave room for a future extraction failure mode.
func ScanPages(ctx context.Context, pages []Page) (map[string][]string, error) {
	linksPerPage := make([][]string, len(pages))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(scanConcurrency)
	for i, p := range pages {
		i, p := i, p
		g.Go(func() error {
			linksPerPage[i] = ExtractLinks(p.Content)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("gap: scanning pages: %w", err)
	}

	referencedBy := make(map[string][]string)
	spellingOf := make(map[string]string)
	pagesSeen := make(map[string]map[string]bool)
	for i, p := range pages {
		for _, link := range linksPerPage[i] {
			key := normalize(link)
			spelling, ok := spellingOf[key]
			if !ok {
				spelling = link
				spellingOf[key] = spelling
				pagesSeen[key] = make(map[string]bool)
			}
			if pagesSeen[key][p.Name] {
				continue
			}
			pagesSeen[key][p.Name] = true
			referencedBy[spelling] = append(referencedBy[spelling], p.Name)
		}
	}
	return referencedBy, nil
}

// classificationResponse is the shape the categorization prompt asks the LM
// to return for a batch of concepts.
type classificationResponse struct {
	Classifications []struct {
		Name string `json:"name"`
		Type string `json:"type"`
		RedirectTarget string `json:"redirectTarget"`
		Category string `json:"category"`
	} `json:"classifications"`
}

// defaultClassificationBatchSize caps how many gap concepts are sent to the
// LM in a single categorization call.
const defaultClassificationBatchSize = 20

// Classifier assigns a GapType (and, for REDIRECT, a target; for DEFINITION,
// a category) to each unresolved gap concept.
type Classifier struct {
	Chat agent.Chat
	ModelName string
}

// NewClassifier builds a Classifier around chat, using model for every
// categorization call.
func NewClassifier(chat agent.Chat, model string) *Classifier {
	return &Classifier{Chat: chat, ModelName: model}
}

// Classify sends every gap still at its default DEFINITION classification
// to the LM for categorization, batching defaultClassificationBatchSize at a
// time; gaps the deterministic canonical-match step (service.go) already
// resolved to REDIRECT are left untouched. Unknown names in a response batch
// are ignored; gaps absent from the response retain their default
// classification
func (c *Classifier) Classify(ctx context.Context, gaps []document.GapConcept) ([]document.GapConcept, error) {
	classified := make([]document.GapConcept, len(gaps))
	copy(classified, gaps)

	var pending []int
	for i, g := range classified {
		if g.Type == document.GapDefinition || g.Type == "" {
			pending = append(pending, i)
		}
	}

	for start := 0; start < len(pending); start += defaultClassificationBatchSize {
		end := start + defaultClassificationBatchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[start:end]
		if err := c.classifyBatch(ctx, classified, batch); err != nil {
			return nil, err
		}
	}
	return classified, nil
}

func (c *Classifier) classifyBatch(ctx context.Context, classified []document.GapConcept, indices []int) error {
	var sb strings.Builder
	sb.WriteString("For each referenced-but-missing wiki concept below, classify it as one of REDIRECT, DEFINITION, FULL_ARTICLE, or IGNORE.\n")
	sb.WriteString("REDIRECT: an alternate name or minor variant of an existing concept (supply redirectTarget).\n")
	sb.WriteString("DEFINITION: a real but narrow concept suited to a short definition stub (supply category).\n")
	sb.WriteString("FULL_ARTICLE: a substantial concept deserving its own full article.\n")
	sb.WriteString("IGNORE: not a real encyclopedic concept (a typo, a directive, an artifact of link syntax).\n\n")
	sb.WriteString("Concepts:\n")
	for _, idx := range indices {
		fmt.Fprintf(&sb, "- %s (referenced by: %s)\n", classified[idx].Name, strings.Join(classified[idx].ReferencedBy, ", "))
	}
	sb.WriteString("\nRespond with JSON: {\"classifications\":[{\"name\":...,\"type\":...,\"redirectTarget\":...,\"category\":...}]}")

	completion, err := c.Chat.Chat(ctx, sb.String(), agent.ChatOptions{Model: c.ModelName, Temperature: 0.1, MaxTokens: 2048})
	if err != nil {
		return fmt.Errorf("gap: classifying batch: %w", err)
	}

	var resp classificationResponse
	if err := jsonutil.ExtractInto(completion, &resp); err != nil {
		return fmt.Errorf("gap: parsing classification response: %w", err)
	}

	byName := make(map[string]int, len(indices))
	for _, idx := range indices {
		byName[normalize(classified[idx].Name)] = idx
	}
	for _, item := range resp.Classifications {
		idx, ok := byName[normalize(item.Name)]
		if !ok {
			continue
		}
		classified[idx].Type = document.GapType(item.Type)
		classified[idx].RedirectTarget = item.RedirectTarget
		classified[idx].Category = item.Category
	}
	return nil
}
