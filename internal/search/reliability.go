package search

import "strings"

// documentationHosts, academicRoots, and knownPublishers are the URL
// substrings AssignReliability keys off of.
var documentationHosts = []string{"docs.", "developer.", "readthedocs.io", "devdocs.io", "man7.org"}
var academicRoots = []string{".edu", "arxiv.org", "scholar.google", "ncbi.nlm.nih.gov", "jstor.org"}
var knownPublishers = []string{"nature.com", "sciencedirect.com", "springer.com", "ieee.org", "acm.org", "nytimes.com", "reuters.com", "bbc.co"}
var reputableHosts = []string{"wikipedia.org", "github.com", "stackoverflow.com"}
var forumHosts = []string{"reddit.com", "forum.", "forums.", "quora.com", "discourse."}

// AssignReliability implements the URL-based reliability heuristic:
// documentation hosts -> OFFICIAL; academic roots -> ACADEMIC;
// known publishers -> AUTHORITATIVE; Wikipedia/GitHub/Stack Overflow ->
// REPUTABLE; forums -> COMMUNITY; else UNCERTAIN.
func AssignReliability(url string) Reliability {
	host := strings.ToLower(url)
	switch {
	case containsAny(host, documentationHosts):
		return ReliabilityOfficial
	case containsAny(host, academicRoots):
		return ReliabilityAcademic
	case containsAny(host, knownPublishers):
		return ReliabilityAuthoritative
	case containsAny(host, reputableHosts):
		return ReliabilityReputable
	case containsAny(host, forumHosts):
		return ReliabilityCommunity
	default:
		return ReliabilityUncertain
	}
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
