package verse

import "strings"

// Verse is one memorization content unit. Reference is the natural key:
// two verses with the same reference are the same verse for history purposes.
type Verse struct {
	Reference      string   `json:"reference"`
	Text           string   `json:"text"`
	Explanation    string   `json:"explanation"`
	BookContext    string   `json:"book_context"`
	Keywords       []string `json:"keywords"`
	EmojiText      string   `json:"emoji_text"`
	Scrambled      []string `json:"scrambled"`
	FakeReferences []string `json:"fake_references"`
	Notes          string   `json:"notes,omitempty"`
	IsFallback     bool     `json:"is_fallback,omitempty"`
}

// ReferenceParts splits "João 3:16" into ["João", "3", ":", "16"] for the
// reordering puzzle. References that don't follow the Book Chapter:Verse shape
// are kept as a single token.
func ReferenceParts(reference string) []string {
	parts := strings.SplitN(reference, ":", 2)
	if len(parts) != 2 {
		return []string{reference}
	}

	bookChapter := strings.TrimSpace(parts[0])
	verseNum := strings.TrimSpace(parts[1])

	lastSpace := strings.LastIndex(bookChapter, " ")
	if lastSpace == -1 {
		return []string{reference}
	}

	book := bookChapter[:lastSpace]
	chapter := bookChapter[lastSpace+1:]
	return []string{book, chapter, ":", verseNum}
}
