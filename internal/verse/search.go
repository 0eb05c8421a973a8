package verse

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeText lowercases and strips accents so "João" matches "joao".
func NormalizeText(s string) string {
	out, _, err := transform.String(stripAccents, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// SearchOffline filters the bundled corpus by reference or text, accent and
// case insensitive, returning at most limit matches.
func SearchOffline(term string, limit int) []Verse {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}
	if limit <= 0 {
		limit = 30
	}

	normalized := NormalizeText(term)

	var results []Verse
	for _, v := range offlineVerses {
		if strings.Contains(NormalizeText(v.Reference), normalized) ||
			strings.Contains(NormalizeText(v.Text), normalized) {
			results = append(results, v)
			if len(results) >= limit {
				break
			}
		}
	}
	return results
}
