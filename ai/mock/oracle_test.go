package mock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/tradescout/ai"
)

func TestOracle_Default(t *testing.T) {
	m := NewOracle()
	v, err := m.Score(context.Background(), "tote bag", "Custom Logo Tote Bag")
	require.NoError(t, err)
	assert.Equal(t, 2, v.Score)
	assert.Equal(t, "Score: 2", v.Raw)
	assert.Equal(t, 1, m.CallCount())
	assert.Equal(t, []Call{{Query: "tote bag", ProductName: "Custom Logo Tote Bag"}}, m.Calls())
}

func TestOracle_WithReplies(t *testing.T) {
	m := NewOracle().WithReplies(map[string]string{"A product": "Rating: 8"})

	v, err := m.Score(context.Background(), "q", "A product")
	require.NoError(t, err)
	assert.Equal(t, 8, v.Score)

	v, err = m.Score(context.Background(), "q", "Unknown")
	assert.Error(t, err)
	assert.Equal(t, ai.FailedVerdict(), v)

	m.Reset()
	assert.Zero(t, m.CallCount())
	assert.Nil(t, m.ScoreFunc)
}
