package extract

import (
	"sort"
	"strings"
	"unicode"
)

const maxKeywords = 10

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "that": {}, "have": {}, "for": {}, "not": {},
	"with": {}, "this": {}, "but": {}, "from": {}, "they": {}, "will": {},
	"would": {}, "there": {}, "their": {}, "what": {}, "about": {}, "which": {},
	"when": {}, "make": {}, "like": {}, "time": {}, "just": {}, "know": {},
	"take": {}, "people": {}, "into": {}, "year": {}, "your": {}, "good": {},
	"some": {}, "could": {}, "them": {}, "than": {}, "then": {}, "look": {},
	"only": {}, "come": {}, "over": {}, "think": {}, "also": {}, "back": {},
	"after": {}, "work": {}, "first": {}, "well": {}, "even": {}, "want": {},
	"because": {}, "these": {}, "give": {}, "most": {},
}

// Keywords returns the top 10 tokens of text by descending frequency, ties broken
// by first occurrence. Tokens are lower-cased, stripped of punctuation, and must
// be longer than 3 runes and not in the stop word set. Deterministic, no I/O.
func Keywords(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, strings.ToLower(text))

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	var order []string

	for _, word := range strings.Fields(cleaned) {
		if len([]rune(word)) <= 3 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		if _, seen := counts[word]; !seen {
			firstSeen[word] = len(order)
			order = append(order, word)
		}
		counts[word]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return firstSeen[order[i]] < firstSeen[order[j]]
	})

	if len(order) > maxKeywords {
		order = order[:maxKeywords]
	}
	return order
}
