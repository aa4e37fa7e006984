package lexical

import (
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/xrash/smetrics"
)

// Ratio returns the normalized indel similarity of a and b in the range 0-100.
// Substitutions cost two edits, so the score equals 2*LCS/(len(a)+len(b)),
// with lengths counted in runes.
func Ratio(a, b string) int {
	a, b = packRunes(a, b)
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}
	dist := smetrics.WagnerFischer(a, b, 1, 1, 2)
	return int(math.RoundToEven(float64(total-dist) * 100 / float64(total)))
}

// TokenSetRatio compares two strings by their sets of whitespace separated tokens.
// Token order and repetition are ignored, and a string whose tokens are all
// contained in the other scores 100. Either side being empty scores 0.
func TokenSetRatio(a, b string) int {
	tokensA := tokenSet(a)
	tokensB := tokenSet(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	var intersection, onlyA, onlyB []string
	for tok := range tokensA {
		if tokensB[tok] {
			intersection = append(intersection, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range tokensB {
		if !tokensA[tok] {
			onlyB = append(onlyB, tok)
		}
	}
	if len(intersection) > 0 && (len(onlyA) == 0 || len(onlyB) == 0) {
		return 100
	}

	slices.Sort(intersection)
	slices.Sort(onlyA)
	slices.Sort(onlyB)

	sect := strings.Join(intersection, " ")
	withA := strings.TrimSpace(sect + " " + strings.Join(onlyA, " "))
	withB := strings.TrimSpace(sect + " " + strings.Join(onlyB, " "))

	best := Ratio(withA, withB)
	if sect != "" {
		best = max(best, Ratio(sect, withA), Ratio(sect, withB))
	}
	return best
}

func tokenSet(s string) map[string]bool {
	fields := strings.Fields(s)
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}

// packRunes rewrites a and b so that every rune becomes a single ASCII byte,
// which lets the byte-oriented edit distance count runes. A pair drawing on
// more than 128 distinct runes is returned unchanged and compared byte by byte.
func packRunes(a, b string) (string, string) {
	if isASCII(a) && isASCII(b) {
		return a, b
	}
	codes := make(map[rune]byte)
	pack := func(s string) (string, bool) {
		out := make([]byte, 0, len(s))
		for _, r := range s {
			c, ok := codes[r]
			if !ok {
				if len(codes) == utf8.RuneSelf {
					return "", false
				}
				c = byte(len(codes))
				codes[r] = c
			}
			out = append(out, c)
		}
		return string(out), true
	}
	pa, ok := pack(a)
	if !ok {
		return a, b
	}
	pb, ok := pack(b)
	if !ok {
		return a, b
	}
	return pa, pb
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
