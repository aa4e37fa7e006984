package lexical

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/tradescout/core"
	"github.com/poiesic/tradescout/textnorm"
)

var loadNormalizer = sync.OnceValues(textnorm.New)

func testNormalizer(t *testing.T) *textnorm.Normalizer {
	t.Helper()
	n, err := loadNormalizer()
	require.NoError(t, err)
	return n
}

func product(name string) *core.Product {
	url := "https://example.com/product-detail/" + fmt.Sprint(core.IDFromContent(name)) + ".html"
	return &core.Product{Id: core.IDFromURL(url), Name: name, ProductURL: url}
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 100, Ratio("", ""))
	assert.Equal(t, 100, Ratio("tote bag", "tote bag"))
	assert.Equal(t, 0, Ratio("abc", ""))
	assert.Equal(t, 50, Ratio("ab", "ac"))

	// Lengths and edits count runes, not bytes.
	assert.Equal(t, 75, Ratio("café", "cafe"))
	assert.Equal(t, 80, Ratio("日本", "日本語"))
	assert.Equal(t, 100, Ratio("crème", "crème"))
}

func TestTokenSetRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{name: "subset", a: "eco tote bag", b: "eco friendly reusable shopping tote bag", want: 100},
		{name: "reordered", a: "bag tote", b: "tote bag", want: 100},
		{name: "duplicates collapse", a: "tote tote bag", b: "bag tote", want: 100},
		{name: "empty side", a: "", b: "tote bag", want: 0},
		{name: "both empty", a: "", b: "", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TokenSetRatio(tt.a, tt.b))
			assert.Equal(t, tt.want, TokenSetRatio(tt.b, tt.a))
		})
	}

	unrelated := TokenSetRatio("eco tote bag", "luxury velvet pouch")
	assert.Less(t, unrelated, 40)
	assert.GreaterOrEqual(t, unrelated, 0)

	partial := TokenSetRatio("leather tote bag", "canvas tote bag")
	assert.Greater(t, partial, unrelated)
	assert.Less(t, partial, 100)
}

func TestNewFilter(t *testing.T) {
	_, err := NewFilter(nil)
	assert.ErrorIs(t, err, ErrNilNormalizer)

	_, err = NewFilter(testNormalizer(t), WithScorer(nil))
	assert.ErrorIs(t, err, ErrNilScorer)

	f, err := NewFilter(testNormalizer(t), WithLogger(nil))
	require.NoError(t, err)
	assert.NotNil(t, f.logger)
}

func TestCandidates_ToteBagScenario(t *testing.T) {
	tote := product("Eco Friendly Reusable Shopping Tote Bag")
	pouch := product("Luxury Velvet Pouch")

	stub := map[string]int{
		"eco friendly reusable shopping tote bag": 72,
		"luxury velvet pouch":                     20,
	}
	f, err := NewFilter(testNormalizer(t), WithScorer(func(query, name string) int {
		assert.Equal(t, "eco tote bag", query)
		return stub[name]
	}))
	require.NoError(t, err)

	got := f.Candidates("eco tote bag", []*core.Product{tote, pouch}, 30, 40)
	require.Len(t, got, 1)
	assert.Same(t, tote, got[0].Product)
	assert.Equal(t, 72, got[0].FuzzyScore)

	// Same outcome with the real scorer.
	filter, err := NewFilter(testNormalizer(t))
	require.NoError(t, err)
	got = filter.Candidates("eco tote bag", []*core.Product{tote, pouch}, 30, 40)
	require.Len(t, got, 1)
	assert.Same(t, tote, got[0].Product)
	assert.Equal(t, 100, got[0].FuzzyScore)
}

func TestCandidates_EdgeCases(t *testing.T) {
	f, err := NewFilter(testNormalizer(t))
	require.NoError(t, err)
	catalog := []*core.Product{
		product("Custom Logo Tote Bag"),
		{Name: ""},
		nil,
		product("the and of"),
	}

	t.Run("query of stop words fails closed", func(t *testing.T) {
		assert.Empty(t, f.Candidates("the of and", catalog, 10, 0))
	})

	t.Run("empty query", func(t *testing.T) {
		assert.Empty(t, f.Candidates("", catalog, 10, 0))
	})

	t.Run("zero cap", func(t *testing.T) {
		assert.Empty(t, f.Candidates("tote bag", catalog, 0, 0))
	})

	t.Run("unnamed and stop word names skipped", func(t *testing.T) {
		got := f.Candidates("tote bag", catalog, 10, 0)
		require.Len(t, got, 1)
		assert.Equal(t, "Custom Logo Tote Bag", got[0].Product.Name)
	})
}

func TestCandidates_StableTies(t *testing.T) {
	f, err := NewFilter(testNormalizer(t), WithScorer(func(_, name string) int {
		if name == "winner product name" {
			return 90
		}
		return 50
	}))
	require.NoError(t, err)

	catalog := []*core.Product{
		product("first product name"),
		product("second product name"),
		product("winner product name"),
		product("third product name"),
	}
	got := f.Candidates("product", catalog, 3, 0)
	require.Len(t, got, 3)
	assert.Equal(t, "winner product name", got[0].Product.Name)
	assert.Equal(t, "first product name", got[1].Product.Name)
	assert.Equal(t, "second product name", got[2].Product.Name)
}

func TestCandidates_Properties(t *testing.T) {
	words := []string{"tote", "bag", "eco", "leather", "wallet", "usb", "cable", "charger",
		"wireless", "earbuds", "velvet", "pouch", "canvas", "phone", "case", "stand"}
	rng := rand.New(rand.NewSource(42))

	catalog := make([]*core.Product, 0, 200)
	for i := 0; i < 200; i++ {
		n := 2 + rng.Intn(5)
		name := ""
		for j := 0; j < n; j++ {
			name += words[rng.Intn(len(words))] + " "
		}
		catalog = append(catalog, product(fmt.Sprintf("%s%d", name, i)))
	}
	snapshot := make([]string, len(catalog))
	for i, p := range catalog {
		snapshot[i] = p.Name
	}

	f, err := NewFilter(testNormalizer(t))
	require.NoError(t, err)

	queries := []string{"eco tote bag", "usb charger cable", "leather wallet", "velvet", "phone stand case"}
	for _, q := range queries {
		for _, minScore := range []int{0, 25, 40, 60, 90} {
			for _, limit := range []int{1, 5, 30, 500} {
				got := f.Candidates(q, catalog, limit, minScore)
				assert.LessOrEqual(t, len(got), limit)
				for i, c := range got {
					assert.GreaterOrEqual(t, c.FuzzyScore, minScore)
					assert.LessOrEqual(t, c.FuzzyScore, 100)
					if i > 0 {
						assert.GreaterOrEqual(t, got[i-1].FuzzyScore, c.FuzzyScore)
					}
				}
			}
		}
	}

	for i, p := range catalog {
		assert.Equal(t, snapshot[i], p.Name)
	}
}
