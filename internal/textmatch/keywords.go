package textmatch

import "strings"

// minKeywordLen filters out short tokens that carry no matching signal.
const minKeywordLen = 3

// stopWords are tokens that appear on nearly every grocery line: articles,
// units, and generic descriptors. They are dropped before keyword matching.
var stopWords = map[string]bool{
	// articles and conjunctions
	"le": true, "la": true, "les": true, "de": true, "du": true, "des": true,
	"un": true, "une": true, "et": true, "ou": true, "au": true, "aux": true,
	"avec": true, "sans": true, "pour": true, "the": true, "and": true,
	// units
	"kg": true, "gr": true, "litre": true, "litres": true,
	"cl": true, "ml": true, "pcs": true, "lot": true, "pack": true,
	"piece": true, "pieces": true, "sachet": true, "boite": true,
	"bouteille": true, "barquette": true,
	// generic descriptors
	"bio": true, "frais": true, "fraiche": true, "nature": true,
	"extra": true, "grand": true, "petit": true, "gros": true,
	"promo": true, "offre": true, "maxi": true, "mini": true,
}

// ExtractKeywords normalizes s and returns its meaningful tokens: length >=3,
// not a stop word, not purely numeric. Order follows the input; duplicates
// are removed.
func ExtractKeywords(s string) []string {
	var keywords []string
	seen := map[string]bool{}
	for _, token := range strings.Fields(Normalize(s)) {
		if len([]rune(token)) < minKeywordLen {
			continue
		}
		if stopWords[token] || isNumeric(token) || seen[token] {
			continue
		}
		seen[token] = true
		keywords = append(keywords, token)
	}
	return keywords
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
