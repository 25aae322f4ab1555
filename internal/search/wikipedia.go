package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/wikiforge/wikiforge/internal/agent"
)

// WikipediaProvider answers Search/SearchInDomain/GetRelatedTopics/
// GetTopicSummary/ValidateTopic against the public MediaWiki action and REST
// APIs for the configured language edition. It never authenticates and
// never writes; every call is a single GET.
type WikipediaProvider struct {
	Language string
	Enabled  bool
	Policy   agent.RetryPolicy
	client   httpClient
}

var _ Provider = (*WikipediaProvider)(nil)

// NewWikipediaProvider builds a provider against language's Wikipedia
// edition (e.g. "en"), defaulting to "en" if language is empty.
func NewWikipediaProvider(language string, enabled bool) *WikipediaProvider {
	if language == "" {
		language = "en"
	}
	return &WikipediaProvider{
		Language: language,
		Enabled:  enabled,
		Policy:   agent.DefaultRetryPolicy(),
		client:   defaultHTTPClient,
	}
}

func (p *WikipediaProvider) Name() string   { return "wikipedia" }
func (p *WikipediaProvider) IsEnabled() bool { return p.Enabled }

func (p *WikipediaProvider) apiURL() string {
	return fmt.Sprintf("https://%s.wikipedia.org/w/api.php", p.Language)
}

type wikipediaSearchResponse struct {
	Query struct {
		Search []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
		} `json:"search"`
	} `json:"query"`
}

func stripSnippetMarkup(s string) string {
	s = strings.ReplaceAll(s, `<span class="searchmatch">`, "")
	s = strings.ReplaceAll(s, "</span>", "")
	return s
}

func (p *WikipediaProvider) search(ctx context.Context, query string, limit int) ([]Result, error) {
	q := url.Values{}
	q.Set("action", "query")
	q.Set("list", "search")
	q.Set("format", "json")
	q.Set("srsearch", query)
	q.Set("srlimit", fmt.Sprintf("%d", limit))

	body, err := doGet(ctx, p.client, p.Policy, p.apiURL()+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("search: wikipedia search %q: %w", query, err)
	}
	if body == nil {
		return nil, nil
	}

	var parsed wikipediaSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("search: decoding wikipedia search response: %w", err)
	}

	results := make([]Result, 0, len(parsed.Query.Search))
	for _, hit := range parsed.Query.Search {
		pageURL := fmt.Sprintf("https://%s.wikipedia.org/wiki/%s", p.Language, url.PathEscape(strings.ReplaceAll(hit.Title, " ", "_")))
		results = append(results, Result{
			Title:       hit.Title,
			URL:         pageURL,
			Snippet:     stripSnippetMarkup(hit.Snippet),
			Reliability: AssignReliability(pageURL),
		})
	}
	return results, nil
}

// Search runs a plain full-text search against the configured edition.
func (p *WikipediaProvider) Search(ctx context.Context, query string) ([]Result, error) {
	return p.search(ctx, query, 10)
}

// SearchInDomain scopes the query to pages whose title or text mentions
// domain, since Wikipedia has no native site/domain restriction operator.
func (p *WikipediaProvider) SearchInDomain(ctx context.Context, query, domain string) ([]Result, error) {
	return p.search(ctx, fmt.Sprintf("%s %s", query, domain), 10)
}

// GetRelatedTopics reuses the search endpoint, treating each hit's title as
// a related topic name.
func (p *WikipediaProvider) GetRelatedTopics(ctx context.Context, topic string) ([]RelatedTopic, error) {
	results, err := p.search(ctx, topic, 8)
	if err != nil {
		return nil, err
	}
	related := make([]RelatedTopic, 0, len(results))
	for _, r := range results {
		if strings.EqualFold(r.Title, topic) {
			continue
		}
		related = append(related, RelatedTopic{Name: r.Title, URL: r.URL})
	}
	return related, nil
}

type wikipediaSummaryResponse struct {
	Extract string `json:"extract"`
}

// GetTopicSummary fetches the REST "page/summary" extract for topic, the
// same lead-paragraph text Wikipedia itself surfaces in link previews.
func (p *WikipediaProvider) GetTopicSummary(ctx context.Context, topic string) (string, error) {
	endpoint := fmt.Sprintf("https://%s.wikipedia.org/api/rest_v1/page/summary/%s", p.Language, url.PathEscape(strings.ReplaceAll(topic, " ", "_")))
	body, err := doGet(ctx, p.client, p.Policy, endpoint)
	if err != nil {
		return "", fmt.Errorf("search: wikipedia summary %q: %w", topic, err)
	}
	if body == nil {
		return "", nil
	}

	var parsed wikipediaSummaryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("search: decoding wikipedia summary: %w", err)
	}
	return parsed.Extract, nil
}

// ValidateTopic reports 1.0 when an exact (case-insensitive) page title
// match exists, 0.5 when only a fuzzy search hit is found, and 0 otherwise.
// Wikidata's ValidateTopic, not this one, implements the full entity-type
// scoring heuristic; Wikipedia only ever sees prose pages.
func (p *WikipediaProvider) ValidateTopic(ctx context.Context, topic string) (float64, error) {
	results, err := p.search(ctx, topic, 5)
	if err != nil {
		return 0, err
	}
	for _, r := range results {
		if strings.EqualFold(r.Title, topic) {
			return 1.0, nil
		}
	}
	if len(results) > 0 {
		return 0.5, nil
	}
	return 0, nil
}
