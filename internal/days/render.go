package days

import (
	"strings"

	"github.com/memorizabiblia/memoriza-api/internal/verse"
)

// BlankToken is one word of the day-3 fill-in-the-blank rendering.
type BlankToken struct {
	Word  string `json:"word"`
	Blank bool   `json:"blank"`
}

// BlankedText marks the verse keywords for blanking. Trailing punctuation is
// ignored when matching a keyword.
func BlankedText(v verse.Verse) []BlankToken {
	tokens := make([]BlankToken, 0, len(strings.Fields(v.Text)))
	for _, word := range strings.Fields(v.Text) {
		clean := punctuation.Replace(word)
		blank := false
		for _, k := range v.Keywords {
			if strings.EqualFold(k, clean) {
				blank = true
				break
			}
		}
		tokens = append(tokens, BlankToken{Word: word, Blank: blank})
	}
	return tokens
}

// FirstLetters renders the day-6 recall hint: the first letter of each word,
// an underscore for the hidden remainder, trailing punctuation kept.
func FirstLetters(s string) string {
	words := strings.Fields(s)
	out := make([]string, 0, len(words))
	for _, w := range words {
		runes := []rune(w)
		hint := string(runes[0])
		if len(runes) > 1 {
			hint += "_"
		}
		if tail := w[len(w)-1]; strings.ContainsRune(".,;!?", rune(tail)) && len(runes) > 1 {
			hint += string(tail)
		}
		out = append(out, hint)
	}
	return strings.Join(out, " ")
}
