package tradescout

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/tradescout/ai/mock"
	"github.com/poiesic/tradescout/core"
	"github.com/poiesic/tradescout/interchange"
	"github.com/poiesic/tradescout/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCatalog(t *testing.T, oracle *mock.Oracle) *Catalog {
	t.Helper()
	c, err := Open("", WithInMemory(), WithOracle(oracle))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func listing(name, productURL string) core.ProductRecord {
	return core.ProductRecord{
		Name:       name,
		ProductURL: productURL,
		ImageURL:   "https://s.alicdn.com/img/" + strings.ReplaceAll(name, " ", "-") + ".jpg",
		Price:      "$1.20-2.50",
		Category:   "Home & Garden",
	}
}

func TestOpen(t *testing.T) {
	t.Run("create new catalog", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		c, err := Open(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, c)
		defer c.Close()

		assert.NotNil(t, c.Products())
		assert.NotNil(t, c.Favorites())
		assert.NotNil(t, c.Oracle())
		assert.NotNil(t, c.backend)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		c, err := Open(tmpFile)
		assert.Error(t, err)
		assert.Nil(t, c)
	})

	t.Run("reopen keeps products", func(t *testing.T) {
		dir := t.TempDir()
		c, err := Open(dir, WithOracle(mock.NewOracle()))
		require.NoError(t, err)
		_, err = c.Products().UpsertByURL(context.Background(), time.Now(), listing("Stainless Steel Water Bottle", "https://www.alibaba.com/product-detail/bottle_1.html"))
		require.NoError(t, err)
		require.NoError(t, c.Close())

		c, err = Open(dir, WithOracle(mock.NewOracle()))
		require.NoError(t, err)
		defer c.Close()
		all, err := c.Products().AllProducts(context.Background())
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}

func TestCatalog_Close(t *testing.T) {
	oracle := mock.NewOracle()
	c, err := Open(t.TempDir(), WithOracle(oracle))
	require.NoError(t, err)

	assert.NoError(t, c.Close())
}

func TestCatalog_Search(t *testing.T) {
	ctx := context.Background()
	oracle := mock.NewOracle().WithReplies(map[string]string{
		"Stainless Steel Water Bottle": "Score: 9",
		"Insulated Water Bottle 1L":    "7",
		"Wooden Chess Board Set":       "Score: 0",
	})
	c := openTestCatalog(t, oracle)

	_, err := c.Products().UpsertByURL(ctx, time.Now(),
		listing("Stainless Steel Water Bottle", "https://www.alibaba.com/product-detail/a_1.html"),
		listing("Insulated Water Bottle 1L", "https://www.alibaba.com/product-detail/b_2.html"),
		listing("Wooden Chess Board Set", "https://www.alibaba.com/product-detail/c_3.html"),
	)
	require.NoError(t, err)

	results, err := c.Search(ctx, "water bottle")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(results), 2)
	assert.Equal(t, "Stainless Steel Water Bottle", results[0].Product.Name)
	assert.Equal(t, 9, results[0].SimilarityScore)
	assert.Equal(t, 7, results[1].SimilarityScore)

	for _, call := range oracle.Calls() {
		assert.Equal(t, "water bottle", call.Query)
	}

	shown := search.Display(results, 8, 10)
	assert.Len(t, shown, 1)
}

func TestCatalog_SearchSkipsArchived(t *testing.T) {
	ctx := context.Background()
	c := openTestCatalog(t, mock.NewOracle())

	old := time.Now().Add(-60 * 24 * time.Hour)
	_, err := c.Products().UpsertByURL(ctx, old, listing("Leather Office Chair", "https://www.alibaba.com/product-detail/chair_1.html"))
	require.NoError(t, err)
	_, err = c.Products().ArchiveStale(ctx, time.Now().Add(-30*24*time.Hour))
	require.NoError(t, err)

	results, err := c.Search(ctx, "office chair")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestCatalog_FactoryMethods(t *testing.T) {
	c := openTestCatalog(t, mock.NewOracle())

	t.Run("can create ranker", func(t *testing.T) {
		ranker, err := c.NewRanker(search.WithMaxCandidates(10))
		require.NoError(t, err)
		require.NotNil(t, ranker)
	})

	t.Run("ranker option errors surface", func(t *testing.T) {
		_, err := c.NewRanker(search.WithMaxCandidates(0))
		assert.ErrorIs(t, err, search.ErrInvalidLimit)
	})

	t.Run("can create loader", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), interchange.DefaultFileName)
		require.NoError(t, interchange.WriteFile(path, []core.ProductRecord{
			listing("Bamboo Cutting Board Large", "https://www.alibaba.com/product-detail/board_9.html"),
		}))

		loader, err := c.NewLoader(path)
		require.NoError(t, err)
		result, err := loader.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, result.Inserted)
	})
}
