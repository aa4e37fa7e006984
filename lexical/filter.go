package lexical

import (
	"log/slog"
	"slices"

	"github.com/poiesic/tradescout/core"
	"github.com/poiesic/tradescout/textnorm"
)

// Scorer rates two normalized strings on a 0-100 scale.
type Scorer func(query, name string) int

// Filter selects lexical candidates from a catalog.
type Filter struct {
	normalizer *textnorm.Normalizer
	scorer     Scorer
	logger     *slog.Logger
}

// Option configures a Filter.
type Option func(*Filter) error

// WithScorer replaces the default TokenSetRatio scorer.
func WithScorer(s Scorer) Option {
	return func(f *Filter) error {
		if s == nil {
			return ErrNilScorer
		}
		f.scorer = s
		return nil
	}
}

// WithLogger sets the logger. A nil logger selects slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(f *Filter) error {
		if logger == nil {
			logger = slog.Default()
		}
		f.logger = logger.With("component", "lexical-filter")
		return nil
	}
}

// NewFilter creates a Filter that normalizes text with n.
func NewFilter(n *textnorm.Normalizer, opts ...Option) (*Filter, error) {
	if n == nil {
		return nil, ErrNilNormalizer
	}
	f := &Filter{
		normalizer: n,
		scorer:     TokenSetRatio,
		logger:     slog.Default().With("component", "lexical-filter"),
	}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Candidates scores every named product in catalog against query and returns at
// most maxCandidates of them with a score of at least minScore, best first.
// Equal scores keep catalog order. A query that normalizes to nothing yields no
// candidates. The catalog is not modified.
func (f *Filter) Candidates(query string, catalog []*core.Product, maxCandidates, minScore int) []core.ScoredCandidate {
	if maxCandidates <= 0 {
		return nil
	}
	normQuery := f.normalizer.Normalize(query)
	if normQuery == "" {
		f.logger.Debug("query normalized to nothing", "query", query)
		return nil
	}

	var kept []core.ScoredCandidate
	for _, p := range catalog {
		if p == nil || p.Name == "" {
			continue
		}
		normName := f.normalizer.Normalize(p.Name)
		if normName == "" {
			continue
		}
		score := f.scorer(normQuery, normName)
		if score >= minScore {
			kept = append(kept, core.ScoredCandidate{Product: p, FuzzyScore: score})
		}
	}

	slices.SortStableFunc(kept, func(a, b core.ScoredCandidate) int {
		return b.FuzzyScore - a.FuzzyScore
	})
	if len(kept) > maxCandidates {
		kept = kept[:maxCandidates]
	}

	f.logger.Debug("lexical candidates selected",
		"query", normQuery,
		"catalog", len(catalog),
		"kept", len(kept))
	return kept
}
