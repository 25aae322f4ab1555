package gap

import (
	"context"
	"fmt"

	"github.com/wikiforge/wikiforge/internal/document"
)

// canonicalFunc resolves a link target to an existing page, if any. Service
// uses Canonical (fuzzy) by default; WithLegacyMatching swaps in
// CanonicalExact.
type canonicalFunc func(link string, pages []string) (string, bool)

// Service is the gap detection engine: it scans a set of pages
// for outgoing links, determines which targets already resolve to an
// existing page (directly or via a REDIRECT), and classifies the rest.
type Service struct {
	canonical canonicalFunc
	classifier *Classifier
}

// Option configures a Service.
type Option func(*Service)

// WithLegacyMatching swaps the default fuzzy canonical resolution for exact
// normalized matching only.
func WithLegacyMatching() Option {
	return func(s *Service) { s.canonical = CanonicalExact }
}

// NewService builds a Service with fuzzy canonical matching by default.
func NewService(classifier *Classifier, opts ...Option) *Service {
	s := &Service{canonical: Canonical, classifier: classifier}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DetectAndClassify scans pages, resolves each referenced link against
// existingPages, and returns the GapConcepts that need a stub: a REDIRECT
// toward the canonical page when one exists and the raw link text is
// neither the canonical page's exact name nor already in the link's own
// CamelCase form (i.e. it's natural-language reference text that needs
// reformatting to resolve), or a DEFINITION (sent on to Classify for LM
// categorization) when no canonical page exists at all. A link that already
// literally equals its canonical page, or is already written in its own
// well-formed CamelCase, needs no stub and is not returned.
func (s *Service) DetectAndClassify(ctx context.Context, pages []Page, existingPages []string) ([]document.GapConcept, error) {
	referencedBy, err := ScanPages(ctx, pages)
	if err != nil {
		return nil, fmt.Errorf("gap: detecting: %w", err)
	}

	var gaps []document.GapConcept
	for target, refs := range referencedBy {
		canonicalName, ok := s.canonical(target, existingPages)
		if ok {
			if target == canonicalName || target == document.CamelCase(target) {
				continue
			}
			gaps = append(gaps, document.GapConcept{
					Name: target,
					PageName: target,
					Type: document.GapRedirect,
					RedirectTarget: canonicalName,
					ReferencedBy: refs,
			})
			continue
		}
		gaps = append(gaps, document.GapConcept{
				Name: target,
				PageName: target,
				Type: document.GapDefinition,
				ReferencedBy: refs,
		})
	}

	if len(gaps) == 0 || s.classifier == nil {
		return gaps, nil
	}
	return s.classifier.Classify(ctx, gaps)
}
