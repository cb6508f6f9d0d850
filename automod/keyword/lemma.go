package keyword

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
)

// Lemmatizer reduces free-form text to canonical dictionary-ish form, token
// by token. Implementations are pure; they carry no per-call state.
type Lemmatizer interface {
	Lemmatize(text string) string
}

// SnowballLemmatizer is a thin adapter over the snowball stemmer. A stemmer
// is cruder than a full morphological analyzer, but both sides of every
// comparison run through the same adapter, so rules and messages collapse to
// the same canonical form either way.
type SnowballLemmatizer struct {
	Language string
}

func NewSnowballLemmatizer() *SnowballLemmatizer {
	return &SnowballLemmatizer{Language: "russian"}
}

// Lemmatize replaces each whitespace-separated token with its base form.
// Tokens the backend can't handle pass through unchanged; a single bad token
// never fails the whole call.
func (l *SnowballLemmatizer) Lemmatize(text string) string {
	words := strings.Fields(text)
	for i, w := range words {
		words[i] = l.lemmatizeToken(w)
	}
	return strings.Join(words, " ")
}

func (l *SnowballLemmatizer) lemmatizeToken(tok string) string {
	// "мели!" and "мели" must canonicalize identically
	bare := strings.TrimFunc(tok, unicode.IsPunct)
	if bare == "" {
		return tok
	}
	stem, err := snowball.Stem(bare, l.Language, false)
	if err != nil || stem == "" {
		return bare
	}
	return stem
}
