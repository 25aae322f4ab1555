package gap

import (
	"regexp"
	"strings"
)

// linkPattern matches single-bracket wiki-link tokens: bare [target] or
// display-qualified [display|target].
var linkPattern = regexp.MustCompile(`\[([^\[\]]+)\]`)

// urlPrefixes are the external-link schemes excluded from concept
// extraction.
var urlPrefixes = []string{"http://", "https://", "mailto:", "ftp://"}

// directivePrefixes are the wiki-directive tokens excluded from concept
// extraction; directives are always wrapped as [{DIRECTIVE args}], so any target
// starting with "{" is excluded regardless of which directive it names.
var directivePrefixes = []string{"{SET", "{INSERT", "{ALLOW", "{Image", "{TableOfContents"}

// excludedPrefixes are wiki namespaces that are never encyclopedia concepts.
var excludedPrefixes = []string{"Category:", "Wikipedia:"}

// stopwords are short, generic tokens that occasionally show up inside link
// brackets but never denote a standalone concept worth a stub.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "of": true,
	"see": true, "also": true, "main": true,
}

// ExtractLinks returns the distinct internal-link targets referenced in
// content: the PageName half of [display|target] tokens, or the whole
// bracket content for bare [target] tokens. External URLs, directive
// tokens, namespaced links, stopwords, purely numeric tokens, and names of
// length two or fewer are excluded. Targets that are normalize-equal are
// folded to a single entry (the first spelling encountered).
func ExtractLinks(content string) []string {
	matches := linkPattern.FindAllStringSubmatch(content, -1)
	seen := make(map[string]bool)
	var links []string
	for _, m := range matches {
		target := extractTarget(m[1])
		if !isEligibleLinkTarget(target) {
			continue
		}
		key := normalize(target)
		if seen[key] {
			continue
		}
		seen[key] = true
		links = append(links, target)
	}
	return links
}

// extractTarget pulls the page-name half out of a raw bracket body: for
// "display|target" that is the substring after the last "|"; for a bare
// body it is the trimmed body itself.
func extractTarget(body string) string {
	if idx := strings.LastIndex(body, "|"); idx >= 0 {
		return strings.TrimSpace(body[idx+1:])
	}
	return strings.TrimSpace(body)
}

func isEligibleLinkTarget(target string) bool {
	if target == "" || len(target) <= 2 {
		return false
	}
	for _, prefix := range directivePrefixes {
		if strings.HasPrefix(target, prefix) {
			return false
		}
	}
	if strings.HasPrefix(target, "{") {
		return false
	}
	for _, prefix := range urlPrefixes {
		if strings.HasPrefix(target, prefix) {
			return false
		}
	}
	for _, prefix := range excludedPrefixes {
		if strings.HasPrefix(target, prefix) {
			return false
		}
	}
	if stopwords[strings.ToLower(target)] {
		return false
	}
	if isPurelyNumeric(target) {
		return false
	}
	return true
}

func isPurelyNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
