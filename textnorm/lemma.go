package textnorm

import (
	"fmt"
	"strings"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
)

// lemmatizer maps inflected English words to their dictionary base form.
// golem carries no part of speech, so every entry in the dictionary applies.
type lemmatizer struct {
	dict *golem.Lemmatizer
}

func newLemmatizer() (*lemmatizer, error) {
	dict, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDictionary, err)
	}
	return &lemmatizer{dict: dict}, nil
}

// step is one dictionary lookup. A lemma that would not survive tokenization
// intact (spaces, hyphens, capitals) counts as no change.
func (l *lemmatizer) step(word string) string {
	lemma := l.dict.Lemma(word)
	if lemma == "" || nonWord.MatchString(lemma) || lemma != strings.ToLower(lemma) {
		return word
	}
	return lemma
}

// lemmatize follows lookups until they settle, so lemmatize(lemmatize(w)) ==
// lemmatize(w). When lookups cycle the smallest word of the cycle is chosen,
// which is the same whichever member the walk started from.
func (l *lemmatizer) lemmatize(word string) string {
	seen := map[string]int{word: 0}
	path := []string{word}
	for {
		next := l.step(word)
		if next == word {
			return word
		}
		if at, ok := seen[next]; ok {
			smallest := path[at]
			for _, w := range path[at:] {
				smallest = min(smallest, w)
			}
			return smallest
		}
		seen[next] = len(path)
		path = append(path, next)
		word = next
	}
}
