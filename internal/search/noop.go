package search

import "context"

// NoopProvider is the registry's fallback when search is disabled or no
// configured provider is reachable. Every method returns a zero result rather than an
// error, so callers never need to special-case "no provider configured".
type NoopProvider struct{}

var _ Provider = NoopProvider{}

func (NoopProvider) Search(ctx context.Context, query string) ([]Result, error) { return nil, nil }

func (NoopProvider) SearchInDomain(ctx context.Context, query, domain string) ([]Result, error) {
	return nil, nil
}

func (NoopProvider) GetRelatedTopics(ctx context.Context, topic string) ([]RelatedTopic, error) {
	return nil, nil
}

func (NoopProvider) GetTopicSummary(ctx context.Context, topic string) (string, error) {
	return "", nil
}

func (NoopProvider) ValidateTopic(ctx context.Context, topic string) (float64, error) {
	return 0, nil
}

func (NoopProvider) IsEnabled() bool { return false }

func (NoopProvider) Name() string { return "noop" }
