package textmatch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pantrio/internal/textmatch"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Pommes  Golden", "pommes golden"},
		{"Crème Fraîche 30%", "creme fraiche 30"},
		{"YAOURT-NATURE x4", "yaourt nature x4"},
		{"  ", ""},
		{"Bœuf haché", "bouf hache"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, textmatch.Normalize(c.in), "input %q", c.in)
	}
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, textmatch.LevenshteinDistance("pomme", "pomme"))
	assert.Equal(t, 1, textmatch.LevenshteinDistance("pomme", "pommes"))
	assert.Equal(t, 3, textmatch.LevenshteinDistance("kitten", "sitting"))
	assert.Equal(t, 5, textmatch.LevenshteinDistance("", "pomme"))
	assert.Equal(t, 5, textmatch.LevenshteinDistance("pomme", ""))
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, textmatch.Similarity("lait", "lait"))
	assert.Equal(t, 1.0, textmatch.Similarity("", ""))
	assert.InDelta(t, 1.0-1.0/6.0, textmatch.Similarity("pomme", "pommes"), 1e-9)
	assert.Equal(t, 0.0, textmatch.Similarity("abc", "xyz"))
}

func TestSimilarity_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"pomme", "pommes"},
		{"kitten", "sitting"},
		{"lait demi ecreme", "lait entier"},
		{"", "pomme"},
	}
	for _, p := range pairs {
		assert.Equal(t, textmatch.Similarity(p[0], p[1]), textmatch.Similarity(p[1], p[0]),
			"pair %q/%q", p[0], p[1])
	}
}

func TestJaccardSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, textmatch.JaccardSimilarity("pommes golden", "golden pommes"))
	assert.Equal(t, 0.0, textmatch.JaccardSimilarity("lait", "fromage"))
	// one word of two shared: |∩|=1, |∪|=3
	assert.InDelta(t, 1.0/3.0, textmatch.JaccardSimilarity("pommes golden", "pommes gala"), 1e-9)
	assert.Equal(t, 1.0, textmatch.JaccardSimilarity("", ""))
	assert.Equal(t, 0.0, textmatch.JaccardSimilarity("lait", ""))
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, textmatch.CosineSimilarity("lait demi ecreme", "lait demi écrémé"), 1e-9)
	assert.Equal(t, 0.0, textmatch.CosineSimilarity("lait", "fromage"))
	sim := textmatch.CosineSimilarity("pommes golden", "pommes gala")
	assert.Greater(t, sim, 0.0)
	assert.Less(t, sim, 1.0)
}

func TestCompositeSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, textmatch.CompositeSimilarity("Pommes Golden", "pommes golden"), 1e-9)

	near := textmatch.CompositeSimilarity("pomme golden", "pommes golden")
	far := textmatch.CompositeSimilarity("pomme golden", "steak hache")
	assert.Greater(t, near, far)
	assert.Greater(t, near, 0.5)
}

func TestPhoneticSignature(t *testing.T) {
	assert.Equal(t, "pm", textmatch.PhoneticSignature("pomme"))
	// OCR misreads of the same word collapse to one signature
	assert.Equal(t, textmatch.PhoneticSignature("yaourt"), textmatch.PhoneticSignature("yaoourt"))
	assert.Equal(t, "", textmatch.PhoneticSignature("  "))
}

func TestExtractKeywords(t *testing.T) {
	kws := textmatch.ExtractKeywords("Lot de 6 Yaourts Nature Bio 125g")
	assert.Equal(t, []string{"yaourts", "125g"}, kws)

	// stop words, short tokens, and pure numbers are dropped
	assert.Empty(t, textmatch.ExtractKeywords("le de du 12 kg"))

	// duplicates removed, order preserved
	assert.Equal(t, []string{"tomate", "cerise"}, textmatch.ExtractKeywords("tomate cerise tomate"))
}
