package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/wikiforge/wikiforge/internal/agent"
)

// WikidataProvider is the entity-backed Provider that owns ValidateTopic's
// full scoring heuristic: Wikipedia answers "is there a prose page for
// this", Wikidata answers "is this a recognized entity, approximately".
type WikidataProvider struct {
	Language string
	Enabled bool
	Policy agent.RetryPolicy
	client httpClient
}

var _ Provider = (*WikidataProvider)(nil)

// NewWikidataProvider builds a provider querying Wikidata's entity search in
// the given language, defaulting to "en".
func NewWikidataProvider(language string, enabled bool) *WikidataProvider {
	if language == "" {
		language = "en"
	}
	return &WikidataProvider{
		Language: language,
		Enabled: enabled,
		Policy: agent.DefaultRetryPolicy(),
		client: defaultHTTPClient,
	}
}

func (p *WikidataProvider) Name() string { return "wikidata" }
func (p *WikidataProvider) IsEnabled() bool { return p.Enabled }

type wikidataEntity struct {
	ID string `json:"id"`
	Label string `json:"label"`
	Description string `json:"description"`
	ConceptURI string `json:"concepturi"`
}

type wikidataSearchResponse struct {
	Search []wikidataEntity `json:"search"`
}

func (p *WikidataProvider) searchEntities(ctx context.Context, query string, limit int) ([]wikidataEntity, error) {
	if query == "" {
		return nil, nil
	}
	q := url.Values{}
	q.Set("action", "wbsearchentities")
	q.Set("search", query)
	q.Set("language", p.Language)
	q.Set("format", "json")
	q.Set("limit", fmt.Sprintf("%d", limit))

	body, err := doGet(ctx, p.client, p.Policy, "https://www.wikidata.org/w/api.php?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("search: wikidata search %q: %w", query, err)
	}
	if body == nil {
		return nil, nil
	}

	var parsed wikidataSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("search: decoding wikidata search response: %w", err)
	}
	return parsed.Search, nil
}

// Search maps each matched entity onto a Result, using the entity's concept
// URI as the link target and its description as the snippet.
func (p *WikidataProvider) Search(ctx context.Context, query string) ([]Result, error) {
	entities, err := p.searchEntities(ctx, query, 10)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(entities))
	for _, e := range entities {
		results = append(results, Result{
				Title: e.Label,
				URL: e.ConceptURI,
				Snippet: e.Description,
				Reliability: AssignReliability(e.ConceptURI),
		})
	}
	return results, nil
}

// SearchInDomain has no native equivalent in Wikidata's entity search;
// domain is appended to the query as an additional search term.
func (p *WikidataProvider) SearchInDomain(ctx context.Context, query, domain string) ([]Result, error) {
	entities, err := p.searchEntities(ctx, fmt.Sprintf("%s %s", query, domain), 10)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(entities))
	for _, e := range entities {
		results = append(results, Result{
				Title: e.Label,
				URL: e.ConceptURI,
				Snippet: e.Description,
				Reliability: AssignReliability(e.ConceptURI),
		})
	}
	return results, nil
}

// GetRelatedTopics treats each matched entity (other than an exact label
// match for topic itself) as a related topic.
func (p *WikidataProvider) GetRelatedTopics(ctx context.Context, topic string) ([]RelatedTopic, error) {
	entities, err := p.searchEntities(ctx, topic, 8)
	if err != nil {
		return nil, err
	}
	related := make([]RelatedTopic, 0, len(entities))
	for _, e := range entities {
		if strings.EqualFold(e.Label, topic) {
			continue
		}
		related = append(related, RelatedTopic{Name: e.Label, URL: e.ConceptURI})
	}
	return related, nil
}

// GetTopicSummary returns the best-matching entity's description, Wikidata's
// closest equivalent to a one-line summary.
func (p *WikidataProvider) GetTopicSummary(ctx context.Context, topic string) (string, error) {
	entities, err := p.searchEntities(ctx, topic, 1)
	if err != nil {
		return "", err
	}
	if len(entities) == 0 {
		return "", nil
	}
	return entities[0].Description, nil
}

// ValidateTopic implements the scored entity-match heuristic:
// an exact normalized label match scores 1.0; containment scores 0.85;
// partial word overlap scales 0.5-0.85; multi-word composite topics get a
// reduced 0.6-0.8 band based on significant-word overlap; when there is no
// direct hit but each significant word independently matches some entity,
// the score scales 0.35-0.6 by match ratio; otherwise 0.0.
func (p *WikidataProvider) ValidateTopic(ctx context.Context, topic string) (float64, error) {
	normalizedTopic := normalizeLabel(topic)
	if normalizedTopic == "" {
		return 0, nil
	}

	entities, err := p.searchEntities(ctx, topic, 10)
	if err != nil {
		return 0, err
	}

	words := significantWords(normalizedTopic)
	best := 0.0
	for _, e := range entities {
		label := normalizeLabel(e.Label)
		switch {
		case label == normalizedTopic:
			return 1.0, nil
		case strings.Contains(label, normalizedTopic) || strings.Contains(normalizedTopic, label):
			best = maxFloat(best, 0.85)
		default:
			overlap := wordOverlapRatio(words, significantWords(label))
			if overlap <= 0 {
				continue
			}
			if len(words) > 1 {
				best = maxFloat(best, 0.6+0.2*overlap)
			} else {
				best = maxFloat(best, 0.5+0.35*overlap)
			}
		}
	}
	if best > 0 {
		return best, nil
	}

	if len(words) == 0 {
		return 0, nil
	}
	matched := 0
	for _, w := range words {
		hits, err := p.searchEntities(ctx, w, 3)
		if err != nil {
			continue
		}
		if len(hits) > 0 {
			matched++
		}
	}
	if matched == 0 {
		return 0, nil
	}
	ratio := float64(matched) / float64(len(words))
	return 0.35 + 0.25*ratio, nil
}

func normalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func significantWords(normalized string) []string {
	stopwords := map[string]bool{"a": true, "an": true, "the": true, "of": true, "and": true, "in": true, "on": true, "for": true}
	fields := strings.Fields(normalized)
	words := make([]string, 0, len(fields))
	for _, w := range fields {
		if len(w) <= 2 || stopwords[w] {
			continue
		}
		words = append(words, w)
	}
	return words
}

func wordOverlapRatio(a, b []string) float64 {
	if len(a) == 0 {
		return 0
	}
	set := make(map[string]bool, len(b))
	for _, w := range b {
		set[w] = true
	}
	matches := 0
	for _, w := range a {
		if set[w] {
			matches++
		}
	}
	return float64(matches) / float64(len(a))
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
