package ai

import "regexp"

var (
	labeledScore = regexp.MustCompile(`(?i)\b(?:score\s+is|score|relevance|rating)\s*[:=]?\s*(10|[0-9])\b`)
	bareScore    = regexp.MustCompile(`\b(10|[0-9])\b`)
)

// ParseScore extracts a 0-10 rating from a free-form oracle reply.
//
// A labeled rating ("Score: 7", "Score is 7", "Relevance: 7", "Rating: 7") wins.
// Otherwise the last standalone number from 0 to 10 is used, skipping the
// denominator of a fraction like "9/10" and the fractional digits of "7.5".
// Text with no usable number scores 0. ParseScore never panics.
func ParseScore(raw string) int {
	if m := labeledScore.FindStringSubmatch(raw); m != nil {
		return atoiScore(m[1])
	}

	score := MinScore
	for _, loc := range bareScore.FindAllStringSubmatchIndex(raw, -1) {
		start, end := loc[2], loc[3]
		if start > 0 && (raw[start-1] == '/' || raw[start-1] == '.') {
			continue
		}
		score = atoiScore(raw[start:end])
	}
	return score
}

func atoiScore(s string) int {
	if s == "10" {
		return MaxScore
	}
	if len(s) == 1 && isDigit(s[0]) {
		return int(s[0] - '0')
	}
	return MinScore
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
