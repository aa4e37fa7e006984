package textnorm

import "errors"

// ErrDictionary is returned by New when the lemma dictionary cannot be loaded.
var ErrDictionary = errors.New("textnorm: lemma dictionary unavailable")
