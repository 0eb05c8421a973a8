package days

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/memorizabiblia/memoriza-api/internal/verse"
)

func TestBlankedTextMarksKeywords(t *testing.T) {
	v := verse.Verse{
		Text:     "O Senhor é o meu pastor, nada me faltará",
		Keywords: []string{"Senhor", "pastor", "faltará"},
	}

	tokens := BlankedText(v)
	words := make(map[string]bool)
	for _, tok := range tokens {
		words[tok.Word] = tok.Blank
	}

	assert.True(t, words["Senhor"])
	assert.True(t, words["pastor,"], "trailing punctuation must not break keyword matching")
	assert.True(t, words["faltará"])
	assert.False(t, words["nada"])
	assert.False(t, words["meu"])
}

func TestBlankedTextMatchesCaseInsensitively(t *testing.T) {
	v := verse.Verse{Text: "Tudo posso naquele que me fortalece", Keywords: []string{"tudo"}}

	tokens := BlankedText(v)
	assert.True(t, tokens[0].Blank)
}

func TestFirstLetters(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"O Senhor é o meu pastor", "O S_ é o m_ p_"},
		{"Orai sem cessar", "O_ s_ c_"},
		{"João 3:16", "J_ 3_"},
		{"nada me faltará.", "n_ m_ f_."},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FirstLetters(tt.in), "input %q", tt.in)
	}
}
