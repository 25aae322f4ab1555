package search

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Registry is the name-indexed set of configured search providers: every
// concrete provider is registered once at startup, and Resolve picks the
// configured default, falling back to the first enabled provider and
// finally to NoopProvider so callers never see a nil Provider.
type Registry struct {
	providers map[string]Provider
	defaultName string
}

// NewRegistry builds a Registry from a name-indexed set of providers and the
// configured default name (search.default-provider).
func NewRegistry(providers map[string]Provider, defaultName string) *Registry {
	return &Registry{providers: providers, defaultName: defaultName}
}

// Resolve returns the configured default provider if it is registered and
// enabled, otherwise the first enabled provider in name order, otherwise
// NoopProvider.
func (r *Registry) Resolve() Provider {
	if p, ok := r.providers[r.defaultName]; ok && p.IsEnabled() {
		return p
	}
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if p := r.providers[name]; p.IsEnabled() {
			return p
		}
	}
	return NoopProvider{}
}

// Providers returns every registered provider in name order, regardless of
// whether it is currently enabled.
func (r *Registry) Providers() []Provider {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Provider, 0, len(names))
	for _, name := range names {
		out = append(out, r.providers[name])
	}
	return out
}

// GetRelatedTopics fans out getRelatedTopics across every enabled provider
// concurrently and merges the results, deduplicating by name. A single
// provider's failure does not fail the whole call; it is simply excluded
// from the merged result.
func (r *Registry) GetRelatedTopics(ctx context.Context, topic string) ([]RelatedTopic, error) {
	enabled := make([]Provider, 0, len(r.providers))
	for _, p := range r.Providers() {
		if p.IsEnabled() {
			enabled = append(enabled, p)
		}
	}
	if len(enabled) == 0 {
		return nil, nil
	}

	results := make([][]RelatedTopic, len(enabled))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range enabled {
		i, p := i, p
		g.Go(func() error {
				topics, err := p.GetRelatedTopics(gctx, topic)
				if err != nil {
					return nil // per-provider failures are tolerated, not fatal
				}
				results[i] = topics
				return nil
		})
	}
	_ = g.Wait()

	seen := make(map[string]bool)
	var merged []RelatedTopic
	for _, topics := range results {
		for _, t := range topics {
			if seen[t.Name] {
				continue
			}
			seen[t.Name] = true
			merged = append(merged, t)
		}
	}
	return merged, nil
}
