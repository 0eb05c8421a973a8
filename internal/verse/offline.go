package verse

import "math/rand"

// offlineVerses is the bundled corpus served when the content endpoint is
// unreachable. Every entry carries the full activity material so all seven
// days work offline.
var offlineVerses = []Verse{
	{
		Reference:      "João 3:16",
		Text:           "Porque Deus amou o mundo de tal maneira que deu o seu Filho unigênito",
		Explanation:    "Deus ama tanto as pessoas que enviou Jesus para nos salvar.",
		BookContext:    "João é um livro que conta a história de Jesus e mostra o amor de Deus.",
		Keywords:       []string{"Deus", "amou", "mundo", "Filho"},
		EmojiText:      "Porque 👑 ❤️ o 🌍 de tal maneira que deu o seu 👶 unigênito",
		Scrambled:      []string{"deu", "Porque", "mundo", "amou", "Deus", "o", "que", "seu", "de", "tal", "unigênito", "o", "maneira", "Filho"},
		FakeReferences: []string{"João 3:15", "Mateus 3:16"},
	},
	{
		Reference:      "Salmos 23:1",
		Text:           "O Senhor é o meu pastor, nada me faltará",
		Explanation:    "Deus cuida de nós como um pastor cuida de suas ovelhas.",
		BookContext:    "Salmos é um livro de músicas e orações para Deus.",
		Keywords:       []string{"Senhor", "pastor", "faltará"},
		EmojiText:      "O 👑 é o meu 🐑 nada me faltará",
		Scrambled:      []string{"nada", "O", "pastor,", "é", "me", "Senhor", "o", "faltará", "meu"},
		FakeReferences: []string{"Salmos 23:4", "Salmos 22:1"},
	},
	{
		Reference:      "Filipenses 4:13",
		Text:           "Tudo posso naquele que me fortalece",
		Explanation:    "Com a ajuda de Jesus, podemos enfrentar qualquer desafio.",
		BookContext:    "Filipenses é uma carta de Paulo ensinando a viver com alegria.",
		Keywords:       []string{"Tudo", "posso", "fortalece"},
		EmojiText:      "💪 posso naquele que me fortalece",
		Scrambled:      []string{"me", "Tudo", "que", "posso", "fortalece", "naquele"},
		FakeReferences: []string{"Filipenses 4:6", "Efésios 4:13"},
	},
	{
		Reference:      "Gênesis 1:1",
		Text:           "No princípio criou Deus os céus e a terra",
		Explanation:    "Deus fez tudo o que existe: o céu, a terra e nós.",
		BookContext:    "Gênesis é o primeiro livro da Bíblia e conta como tudo começou.",
		Keywords:       []string{"princípio", "criou", "céus", "terra"},
		EmojiText:      "No princípio criou 👑 os ☁️ e a 🌍",
		Scrambled:      []string{"a", "No", "céus", "criou", "os", "Deus", "terra", "e", "princípio"},
		FakeReferences: []string{"Gênesis 1:2", "Êxodo 1:1"},
	},
	{
		Reference:      "Salmos 119:105",
		Text:           "Lâmpada para os meus pés é a tua palavra e luz para o meu caminho",
		Explanation:    "A Bíblia nos mostra o caminho certo, como uma lanterna no escuro.",
		BookContext:    "Salmos é um livro de músicas e orações para Deus.",
		Keywords:       []string{"Lâmpada", "palavra", "luz", "caminho"},
		EmojiText:      "💡 para os meus pés é a tua 📖 e ✨ para o meu caminho",
		Scrambled:      []string{"e", "Lâmpada", "meu", "para", "luz", "os", "a", "meus", "palavra", "pés", "tua", "é", "o", "para", "caminho"},
		FakeReferences: []string{"Salmos 119:11", "Provérbios 6:23"},
	},
	{
		Reference:      "Provérbios 17:17",
		Text:           "Em todo o tempo ama o amigo",
		Explanation:    "Um amigo de verdade ama sempre, nos dias bons e ruins.",
		BookContext:    "Provérbios é um livro cheio de conselhos sábios para a vida.",
		Keywords:       []string{"tempo", "ama", "amigo"},
		EmojiText:      "Em todo o ⏰ ❤️ o 🧑‍🤝‍🧑",
		Scrambled:      []string{"o", "Em", "ama", "todo", "amigo", "o", "tempo"},
		FakeReferences: []string{"Provérbios 17:1", "Provérbios 27:17"},
	},
	{
		Reference:      "1 Tessalonicenses 5:17",
		Text:           "Orai sem cessar",
		Explanation:    "Podemos conversar com Deus a qualquer hora, todos os dias.",
		BookContext:    "Tessalonicenses é uma carta de Paulo animando os cristãos.",
		Keywords:       []string{"Orai", "cessar"},
		EmojiText:      "🙏 sem cessar",
		Scrambled:      []string{"cessar", "Orai", "sem"},
		FakeReferences: []string{"1 Tessalonicenses 5:16", "2 Tessalonicenses 5:17"},
	},
	{
		Reference:      "Mateus 5:9",
		Text:           "Bem-aventurados os pacificadores porque eles serão chamados filhos de Deus",
		Explanation:    "Quem ajuda a fazer as pazes deixa Deus muito feliz.",
		BookContext:    "Mateus conta a vida de Jesus e seus ensinamentos.",
		Keywords:       []string{"pacificadores", "filhos", "Deus"},
		EmojiText:      "Bem-aventurados os 🕊️ porque eles serão chamados 👨‍👩‍👧‍👦 de 👑",
		Scrambled:      []string{"serão", "Bem-aventurados", "eles", "os", "de", "porque", "pacificadores", "chamados", "Deus", "filhos"},
		FakeReferences: []string{"Mateus 5:7", "Lucas 5:9"},
	},
}

// OfflineVerses returns a copy of the bundled corpus.
func OfflineVerses() []Verse {
	out := make([]Verse, len(offlineVerses))
	copy(out, offlineVerses)
	return out
}

// OfflineByReference looks a verse up in the bundled corpus.
func OfflineByReference(reference string) (Verse, bool) {
	for _, v := range offlineVerses {
		if v.Reference == reference {
			return v, true
		}
	}
	return Verse{}, false
}

// RandomOffline picks a random bundled verse, preferring ones whose reference
// is not in exclude. IsFallback is set so the UI can show the offline notice.
func RandomOffline(exclude []string) Verse {
	excluded := make(map[string]bool, len(exclude))
	for _, ref := range exclude {
		excluded[ref] = true
	}

	candidates := make([]Verse, 0, len(offlineVerses))
	for _, v := range offlineVerses {
		if !excluded[v.Reference] {
			candidates = append(candidates, v)
		}
	}
	if len(candidates) == 0 {
		candidates = offlineVerses
	}

	v := candidates[rand.Intn(len(candidates))]
	v.IsFallback = true
	return v
}
