package mock

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/poiesic/tradescout/ai"
)

// Call records the arguments of one Score invocation.
type Call struct {
	Query       string
	ProductName string
}

// Oracle is a scriptable ai.RelevanceOracle.
type Oracle struct {
	// ScoreFunc allows custom behavior for Score.
	// If nil, uses default word overlap scoring.
	ScoreFunc func(ctx context.Context, query, productName string) (ai.Verdict, error)

	mu    sync.Mutex
	calls []Call
}

var _ ai.RelevanceOracle = (*Oracle)(nil)

// NewOracle creates a mock oracle with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewOracle() *Oracle {
	return &Oracle{}
}

// WithScoreFunc sets a custom scoring function.
func (m *Oracle) WithScoreFunc(fn func(ctx context.Context, query, productName string) (ai.Verdict, error)) *Oracle {
	m.ScoreFunc = fn
	return m
}

// WithReplies answers from a fixed table keyed by product name. Unknown names
// fail with ai.FailedVerdict.
func (m *Oracle) WithReplies(replies map[string]string) *Oracle {
	return m.WithScoreFunc(func(_ context.Context, _, name string) (ai.Verdict, error) {
		raw, ok := replies[name]
		if !ok {
			return ai.FailedVerdict(), fmt.Errorf("mock: no reply for %q", name)
		}
		return ai.NewVerdict(raw), nil
	})
}

// Score records the call and returns the scripted verdict.
func (m *Oracle) Score(ctx context.Context, query, productName string) (ai.Verdict, error) {
	m.mu.Lock()
	m.calls = append(m.calls, Call{Query: query, ProductName: productName})
	fn := m.ScoreFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, query, productName)
	}

	name := strings.ToLower(productName)
	overlap := 0
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if strings.Contains(name, w) {
			overlap++
		}
	}
	return ai.NewVerdict(fmt.Sprintf("Score: %d", min(overlap, ai.MaxScore))), nil
}

// Model returns a fixed identifier.
func (m *Oracle) Model() string {
	return "mock"
}

// Close is a no-op.
func (m *Oracle) Close() error {
	return nil
}

// CallCount returns the number of times Score was called.
func (m *Oracle) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Calls returns a copy of the recorded calls in order.
func (m *Oracle) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// Reset clears the recorded calls and custom functions.
func (m *Oracle) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.ScoreFunc = nil
}
