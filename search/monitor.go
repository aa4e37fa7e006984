package search

import (
	"github.com/poiesic/tradescout/ai"
	"github.com/poiesic/tradescout/core"
)

// RankMonitor receives callbacks at each stage of a ranking.
type RankMonitor interface {
	Start(query string)
	AfterLexicalFilter(candidates []core.ScoredCandidate)
	OracleScored(candidate core.ScoredCandidate, verdict ai.Verdict, err error)
	Finish(results []core.RankedResult)
}

// noopMonitor is a no-op implementation of RankMonitor
type noopMonitor struct{}

var _ RankMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                                             {}
func (n *noopMonitor) AfterLexicalFilter(_ []core.ScoredCandidate)                {}
func (n *noopMonitor) OracleScored(_ core.ScoredCandidate, _ ai.Verdict, _ error) {}
func (n *noopMonitor) Finish(_ []core.RankedResult)                               {}
