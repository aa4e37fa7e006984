package textnorm

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// Normalizer turns product names and queries into comparable token strings.
type Normalizer struct {
	stopWords  map[string]bool
	lemmatizer *lemmatizer
}

// New builds a Normalizer with the English stop-word list and lemma
// dictionary loaded. Loading the dictionary takes a moment; build one
// Normalizer and share it.
func New() (*Normalizer, error) {
	lem, err := newLemmatizer()
	if err != nil {
		return nil, err
	}
	stop := make(map[string]bool, len(englishStopWords))
	for _, w := range englishStopWords {
		stop[w] = true
	}
	return &Normalizer{
		stopWords:  stop,
		lemmatizer: lem,
	}, nil
}

// Normalize returns the cleaned form of text. Empty input yields an empty string.
func (n *Normalizer) Normalize(text string) string {
	return strings.Join(n.Tokens(text), " ")
}

// Tokens returns the normalized tokens of text in their original order.
func (n *Normalizer) Tokens(text string) []string {
	if text == "" {
		return nil
	}
	cleaned := nonWord.ReplaceAllString(strings.ToLower(text), " ")
	fields := strings.Fields(cleaned)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if !n.keep(f) {
			continue
		}
		lemma := n.lemmatizer.lemmatize(f)
		// A lemma can land on a stop word or a single letter; drop those too so a
		// second pass has nothing left to remove.
		if !n.keep(lemma) {
			continue
		}
		tokens = append(tokens, lemma)
	}
	return tokens
}

func (n *Normalizer) keep(token string) bool {
	return utf8.RuneCountInString(token) > 1 && !n.stopWords[token]
}
