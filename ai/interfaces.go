package ai

import "context"

// RelevanceOracle rates how well a product name answers a search query.
// Implementations must be thread-safe for concurrent use.
type RelevanceOracle interface {
	// Score asks the oracle for a 0-10 relevance rating of productName for query.
	// Both strings are passed through unmodified. The returned Verdict is always
	// usable; a non-nil error explains why it carries the fallback score.
	Score(ctx context.Context, query, productName string) (Verdict, error)

	// Model returns the model identifier for logging.
	Model() string

	// Close releases resources held by the oracle.
	Close() error
}

// Verdict is the oracle's answer for one candidate.
type Verdict struct {
	// Score is the parsed rating, always within [MinScore, MaxScore].
	Score int

	// Raw is the unparsed reply, or NoResponse when there was none.
	Raw string
}

// Score bounds.
const (
	MinScore = 0
	MaxScore = 10
)

// NoResponse is the diagnostic text recorded when the oracle produced no reply.
const NoResponse = "Error/No Response"

// FailedVerdict is the verdict used when the oracle could not be consulted.
func FailedVerdict() Verdict {
	return Verdict{Score: MinScore, Raw: NoResponse}
}

// NewVerdict parses raw into a Verdict.
func NewVerdict(raw string) Verdict {
	return Verdict{Score: ParseScore(raw), Raw: raw}
}
