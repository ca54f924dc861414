// Package textmatch provides pure string-similarity primitives used by the
// product matching engine. All functions are deterministic and side-effect
// free.
package textmatch

import (
	"math"
	"strings"
	"unicode"
)

// diacritics maps accented runes common on French receipts to their ASCII base.
var diacritics = map[rune]rune{
	'à': 'a', 'â': 'a', 'ä': 'a', 'á': 'a', 'ã': 'a',
	'ç': 'c',
	'è': 'e', 'é': 'e', 'ê': 'e', 'ë': 'e',
	'ì': 'i', 'î': 'i', 'ï': 'i', 'í': 'i',
	'ò': 'o', 'ô': 'o', 'ö': 'o', 'ó': 'o', 'õ': 'o',
	'ù': 'u', 'û': 'u', 'ü': 'u', 'ú': 'u',
	'ÿ': 'y', 'ñ': 'n',
	'œ': 'o', 'æ': 'a',
}

// Normalize lowercases, strips diacritics, replaces punctuation with spaces,
// collapses whitespace, and trims.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if base, ok := diacritics[r]; ok {
			r = base
		}
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// LevenshteinDistance computes the classic edit distance between a and b.
func LevenshteinDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = minInt(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// Similarity maps edit distance onto [0,1]: 1 - distance/max(len). Two empty
// strings are considered identical.
func Similarity(a, b string) float64 {
	la := len([]rune(a))
	lb := len([]rune(b))
	if la == 0 && lb == 0 {
		return 1
	}
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	return 1 - float64(LevenshteinDistance(a, b))/float64(maxLen)
}

// JaccardSimilarity computes |A∩B|/|A∪B| over the word sets of the
// normalized inputs.
func JaccardSimilarity(a, b string) float64 {
	setA := wordSet(Normalize(a))
	setB := wordSet(Normalize(b))
	if len(setA) == 0 && len(setB) == 0 {
		return 1
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	common := 0
	for w := range setA {
		if setB[w] {
			common++
		}
	}
	union := len(setA) + len(setB) - common
	return float64(common) / float64(union)
}

// CosineSimilarity computes the cosine of the word-frequency vectors of the
// normalized inputs.
func CosineSimilarity(a, b string) float64 {
	freqA := wordFreq(Normalize(a))
	freqB := wordFreq(Normalize(b))
	if len(freqA) == 0 && len(freqB) == 0 {
		return 1
	}
	if len(freqA) == 0 || len(freqB) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for w, ca := range freqA {
		if cb, ok := freqB[w]; ok {
			dot += float64(ca) * float64(cb)
		}
		normA += float64(ca) * float64(ca)
	}
	for _, cb := range freqB {
		normB += float64(cb) * float64(cb)
	}
	if dot == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Composite similarity weights, tuned against real till receipts.
const (
	compositeLevenshteinWeight = 0.4
	compositeJaccardWeight     = 0.3
	compositeCosineWeight      = 0.3
)

// CompositeSimilarity blends edit-distance, Jaccard, and cosine similarity
// into a single tunable score.
func CompositeSimilarity(a, b string) float64 {
	return compositeLevenshteinWeight*Similarity(Normalize(a), Normalize(b)) +
		compositeJaccardWeight*JaccardSimilarity(a, b) +
		compositeCosineWeight*CosineSimilarity(a, b)
}

// PhoneticSignature produces a crude sound signature: first letter followed
// by the deduplicated consonant skeleton of the normalized string. Useful to
// group OCR misreads of the same word.
func PhoneticSignature(s string) string {
	n := Normalize(s)
	if n == "" {
		return ""
	}

	var b strings.Builder
	var last rune
	for i, r := range n {
		if i == 0 {
			b.WriteRune(r)
			last = r
			continue
		}
		if r == ' ' || isVowel(r) || r == last {
			continue
		}
		b.WriteRune(r)
		last = r
	}
	return b.String()
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}

func wordSet(s string) map[string]bool {
	set := map[string]bool{}
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}

func wordFreq(s string) map[string]int {
	freq := map[string]int{}
	for _, w := range strings.Fields(s) {
		freq[w]++
	}
	return freq
}

func minInt(vals ...int) int {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
