// Package gap implements the gap detection engine: extracting
// wiki-style links from published articles, determining which referenced
// concepts already resolve to an existing page (exactly or fuzzily), and
// classifying the ones that don't.
package gap

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxFuzzyDistance is the Levenshtein distance, computed on the letter
// subsequence only, under which two normalized names are fuzzy-equivalent.
const maxFuzzyDistance = 2

// normalize implements "normalize(name) = lowercase(strip
// non-alphanumerics)" exactly: no diacritic folding. "café" and "cafe" are
// therefore NOT normalize-equal; that distinction is reserved for
// FuzzyEquivalent.
func normalize(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// diacriticFolder NFD-decomposes a string and removes the resulting
// combining marks, so accented letters fold to their bare ASCII base.
var diacriticFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

// foldDiacritics drops diacritics from name via diacriticFolder. A
// transform error can only come from a malformed input reader, which
// transform.String never produces for a string source, so it returns name
// unchanged in that unreachable case rather than threading an error through
// every caller.
func foldDiacritics(name string) string {
	folded, _, err := transform.String(diacriticFolder, name)
	if err != nil {
		return name
	}
	return folded
}

// splitDigitsLetters partitions a normalized string into its digit
// subsequence and letter subsequence, preserving order within each.
func splitDigitsLetters(normalized string) (letters, digits string) {
	var lb, db strings.Builder
	for _, r := range normalized {
		if unicode.IsDigit(r) {
			db.WriteRune(r)
		} else {
			lb.WriteRune(r)
		}
	}
	return lb.String(), db.String()
}

// FuzzyEquivalent reports whether a and b refer to the same concept: after
// diacritic folding and normalize-style stripping, equal digit
// subsequences and a Levenshtein distance of at most maxFuzzyDistance on the
// letter subsequences.
func FuzzyEquivalent(a, b string) bool {
	na, nb := normalize(foldDiacritics(a)), normalize(foldDiacritics(b))
	if na == nb {
		return true
	}
	la, da := splitDigitsLetters(na)
	lb, db := splitDigitsLetters(nb)
	if da != db {
		return false
	}
	if la == "" || lb == "" {
		return la == lb
	}
	return levenshtein.ComputeDistance(la, lb) <= maxFuzzyDistance
}

// Canonical returns the page in pages that link refers to: first an exact
// normalized match, then (if none) a fuzzy-equivalent one. It returns
// ("", false) when no page in pages resolves link.
func Canonical(link string, pages []string) (string, bool) {
	target := normalize(link)
	for _, p := range pages {
		if normalize(p) == target {
			return p, true
		}
	}
	for _, p := range pages {
		if FuzzyEquivalent(link, p) {
			return p, true
		}
	}
	return "", false
}

// CanonicalExact is the non-fuzzy variant of Canonical, swapped in by
// WithLegacyMatching: exact normalized equality only.
func CanonicalExact(link string, pages []string) (string, bool) {
	target := normalize(link)
	for _, p := range pages {
		if normalize(p) == target {
			return p, true
		}
	}
	return "", false
}
