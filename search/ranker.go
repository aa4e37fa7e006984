package search

import (
	"context"
	"log/slog"
	"slices"

	"github.com/poiesic/tradescout/ai"
	"github.com/poiesic/tradescout/core"
	"github.com/poiesic/tradescout/lexical"
)

// Defaults for the lexical stage.
const (
	DefaultMaxCandidates = 500
	DefaultMinFuzzyScore = 40
)

// Ranker runs the lexical filter and then the relevance oracle over a catalog.
type Ranker struct {
	filter        *lexical.Filter
	oracle        ai.RelevanceOracle
	maxCandidates int
	minFuzzyScore int
	logger        *slog.Logger
}

// Option configures a Ranker.
type Option func(*Ranker) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Ranker) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger.With("component", "ranker")
		return nil
	}
}

// WithMaxCandidates sets how many lexical survivors are sent to the oracle.
func WithMaxCandidates(n int) Option {
	return func(r *Ranker) error {
		if n < 1 {
			return ErrInvalidLimit
		}
		r.maxCandidates = n
		return nil
	}
}

// WithMinFuzzyScore sets the lexical score a product needs to reach the oracle.
func WithMinFuzzyScore(score int) Option {
	return func(r *Ranker) error {
		if score < 0 || score > 100 {
			return ErrInvalidLimit
		}
		r.minFuzzyScore = score
		return nil
	}
}

// NewRanker creates a new ranker.
func NewRanker(filter *lexical.Filter, oracle ai.RelevanceOracle, opts ...Option) (*Ranker, error) {
	if filter == nil {
		return nil, ErrFilterRequired
	}
	if oracle == nil {
		return nil, ErrOracleRequired
	}

	r := &Ranker{
		filter:        filter,
		oracle:        oracle,
		maxCandidates: DefaultMaxCandidates,
		minFuzzyScore: DefaultMinFuzzyScore,
		logger:        slog.Default().With("component", "ranker"),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Rank returns the lexical candidates for query annotated with oracle scores,
// highest score first. See RankWithMonitor.
func (r *Ranker) Rank(ctx context.Context, query string, catalog []*core.Product) ([]core.RankedResult, error) {
	return r.RankWithMonitor(ctx, query, catalog, nil)
}

// RankWithMonitor ranks catalog against query, reporting progress to monitor.
//
// Candidates are scored one at a time with the original query text. A failed
// oracle call scores 0 and the candidate stays in the result, so the output is
// always a reordering of the lexical candidates. Ties keep lexical order.
// The only error is ctx being done before scoring starts.
func (r *Ranker) RankWithMonitor(ctx context.Context, query string, catalog []*core.Product, monitor RankMonitor) ([]core.RankedResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(query)

	// 1. Lexical candidates
	candidates := r.filter.Candidates(query, catalog, r.maxCandidates, r.minFuzzyScore)
	monitor.AfterLexicalFilter(candidates)
	if len(candidates) == 0 {
		r.logger.Debug("no lexical candidates", "query", query)
		monitor.Finish(nil)
		return []core.RankedResult{}, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 2. Oracle scores, sequentially
	results := make([]core.RankedResult, 0, len(candidates))
	failures := 0
	for _, c := range candidates {
		verdict, err := r.oracle.Score(ctx, query, c.Product.Name)
		if err != nil {
			failures++
			r.logger.Warn("oracle failed for candidate, scoring 0",
				"product", c.Product.Name,
				"err", err)
			verdict = ai.FailedVerdict()
		}
		verdict.Score = min(max(verdict.Score, ai.MinScore), ai.MaxScore)
		monitor.OracleScored(c, verdict, err)

		results = append(results, core.RankedResult{
			Product:            c.Product,
			SimilarityScore:    verdict.Score,
			OriginalFuzzyScore: c.FuzzyScore,
			LLMRawResponse:     verdict.Raw,
		})
	}

	// 3. Merge
	slices.SortStableFunc(results, func(a, b core.RankedResult) int {
		return b.SimilarityScore - a.SimilarityScore
	})

	r.logger.Info("ranked search results",
		"query", query,
		"candidates", len(candidates),
		"oracle_failures", failures,
		"model", r.oracle.Model())
	monitor.Finish(results)
	return results, nil
}
