package search

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikiforge/wikiforge/internal/agent"
)

// fakeRoundTripper answers Do with a canned body keyed by a substring match
// against the request URL, letting a single fake stand in for the handful of
// endpoints a provider calls in one test.
type fakeRoundTripper struct {
	byContains map[string]string
	status     int
}

func (f *fakeRoundTripper) Do(req *http.Request) (*http.Response, error) {
	status := f.status
	if status == 0 {
		status = http.StatusOK
	}
	url := req.URL.String()
	for needle, body := range f.byContains {
		if strings.Contains(url, needle) {
			return &http.Response{
				StatusCode: status,
				Body:       io.NopCloser(bytes.NewBufferString(body)),
			}, nil
		}
	}
	return &http.Response{StatusCode: http.StatusNotFound, Body: io.NopCloser(bytes.NewBufferString(""))}, nil
}

func fastPolicy() agent.RetryPolicy {
	p := agent.DefaultRetryPolicy()
	p.InitialDelay = 0
	p.MaxDelay = 0
	return p
}

func TestWikipediaProvider_Search(t *testing.T) {
	p := NewWikipediaProvider("en", true)
	p.Policy = fastPolicy()
	p.client = &fakeRoundTripper{byContains: map[string]string{
		"list=search": `{"query":{"search":[{"title":"Go (programming language)","snippet":"<span class=\"searchmatch\">Go</span> is a language"}]}}`,
	}}

	results, err := p.Search(context.Background(), "Go")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Go (programming language)", results[0].Title)
	assert.NotContains(t, results[0].Snippet, "<span")
	assert.Equal(t, ReliabilityReputable, results[0].Reliability)
}

func TestWikipediaProvider_GetRelatedTopics_ExcludesSelf(t *testing.T) {
	p := NewWikipediaProvider("en", true)
	p.Policy = fastPolicy()
	p.client = &fakeRoundTripper{byContains: map[string]string{
		"list=search": `{"query":{"search":[{"title":"Go"},{"title":"Golang tooling"}]}}`,
	}}

	related, err := p.GetRelatedTopics(context.Background(), "Go")
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, "Golang tooling", related[0].Name)
}

func TestWikipediaProvider_GetTopicSummary(t *testing.T) {
	p := NewWikipediaProvider("en", true)
	p.Policy = fastPolicy()
	p.client = &fakeRoundTripper{byContains: map[string]string{
		"rest_v1/page/summary": `{"extract":"Go is a statically typed language."}`,
	}}

	summary, err := p.GetTopicSummary(context.Background(), "Go")
	require.NoError(t, err)
	assert.Equal(t, "Go is a statically typed language.", summary)
}

func TestWikipediaProvider_ValidateTopic(t *testing.T) {
	p := NewWikipediaProvider("en", true)
	p.Policy = fastPolicy()

	p.client = &fakeRoundTripper{byContains: map[string]string{
		"list=search": `{"query":{"search":[{"title":"Go"}]}}`,
	}}
	score, err := p.ValidateTopic(context.Background(), "Go")
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)

	p.client = &fakeRoundTripper{byContains: map[string]string{
		"list=search": `{"query":{"search":[]}}`,
	}}
	score, err = p.ValidateTopic(context.Background(), "nonexistent topic xyz")
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestWikipediaProvider_IsEnabledAndName(t *testing.T) {
	p := NewWikipediaProvider("", false)
	assert.Equal(t, "en", p.Language)
	assert.False(t, p.IsEnabled())
	assert.Equal(t, "wikipedia", p.Name())
}
