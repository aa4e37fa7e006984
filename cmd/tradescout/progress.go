package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/poiesic/tradescout/ai"
	"github.com/poiesic/tradescout/core"
	"github.com/poiesic/tradescout/search"
)

// progressMonitor prints oracle scoring progress on a single terminal line.
type progressMonitor struct {
	writer    io.Writer
	total     int
	current   int
	failures  int
	startTime time.Time
	mu        sync.Mutex
}

var _ search.RankMonitor = (*progressMonitor)(nil)

func newProgressMonitor(writer io.Writer) *progressMonitor {
	return &progressMonitor{writer: writer}
}

func (p *progressMonitor) Start(_ string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.total = 0
	p.current = 0
	p.failures = 0
}

func (p *progressMonitor) AfterLexicalFilter(candidates []core.ScoredCandidate) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = len(candidates)
	if p.total > 0 {
		fmt.Fprintf(p.writer, "Lexical candidates: %d\n", p.total)
	}
}

func (p *progressMonitor) OracleScored(_ core.ScoredCandidate, _ ai.Verdict, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = min(p.current+1, p.total)
	if err != nil {
		p.failures++
	}
	p.report()
}

func (p *progressMonitor) Finish(_ []core.RankedResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.total == 0 {
		return
	}
	// Print newline after final progress
	fmt.Fprintln(p.writer)
	if p.failures > 0 {
		fmt.Fprintf(p.writer, "Oracle failures: %d (scored 0)\n", p.failures)
	}
}

// report prints the current progress. Must be called with lock held.
func (p *progressMonitor) report() {
	elapsed := time.Since(p.startTime)
	rate := 0.0
	if elapsed > 0 {
		rate = float64(p.current) / elapsed.Seconds()
	}

	percentage := 0.0
	if p.total > 0 {
		percentage = float64(p.current) / float64(p.total) * 100.0
	}

	fmt.Fprintf(p.writer, "\rScoring: %d/%d (%.1f%%) - %.1f candidates/s",
		p.current, p.total, percentage, rate)
}
