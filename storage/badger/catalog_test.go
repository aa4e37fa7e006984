package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/tradescout/core"
	"github.com/poiesic/tradescout/storage"
)

func newTestCatalog(t *testing.T) (storage.CatalogRepository, storage.FavoriteRepository) {
	t.Helper()
	store, err := NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store.Catalog, store.Favorites
}

func record(url, name string) core.ProductRecord {
	return core.ProductRecord{
		Name:       name,
		ProductURL: url,
		ImageURL:   "https://img.example.com/" + name + ".jpg",
		Price:      "$1.20",
		Category:   "Consumer Electronics",
	}
}

func TestUpsertByURL_InsertAndUpdate(t *testing.T) {
	catalog, _ := newTestCatalog(t)
	ctx := context.Background()
	day1 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)

	stats, err := catalog.UpsertByURL(ctx, day1,
		record("https://example.com/product-detail/a.html", "Wireless Earbuds Pro"),
		record("https://example.com/product-detail/b.html", "Custom Logo Tote Bag"),
	)
	require.NoError(t, err)
	assert.Equal(t, storage.UpsertStats{Inserted: 2}, stats)

	updated := record("https://example.com/product-detail/a.html", "Wireless Earbuds Pro Max")
	updated.Price = "$2.50"
	stats, err = catalog.UpsertByURL(ctx, day2, updated)
	require.NoError(t, err)
	assert.Equal(t, storage.UpsertStats{Updated: 1}, stats)

	product, err := catalog.GetProductByURL(ctx, updated.ProductURL)
	require.NoError(t, err)
	assert.Equal(t, "Wireless Earbuds Pro Max", product.Name)
	assert.Equal(t, "$2.50", product.Price)
	assert.True(t, product.ArrivalDate.Equal(day1))
	assert.True(t, product.LastScraped.Equal(day2))
	assert.True(t, product.Active)

	all, err := catalog.AllProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpsertByURL_SkipsInvalid(t *testing.T) {
	catalog, _ := newTestCatalog(t)
	ctx := context.Background()

	bad := record("not-a-url", "Wireless Earbuds Pro")
	unnamed := record("https://example.com/product-detail/c.html", "  ")

	stats, err := catalog.UpsertByURL(ctx, time.Now(), bad, unnamed)
	require.NoError(t, err)
	assert.Zero(t, stats.Inserted)
	assert.Equal(t, 2, stats.Skipped)

	all, err := catalog.AllProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpsertByURL_AcceptsSparseRecords(t *testing.T) {
	catalog, _ := newTestCatalog(t)
	ctx := context.Background()

	sparse := core.ProductRecord{Name: "Bag", ProductURL: "https://example.com/product-detail/d.html"}
	stats, err := catalog.UpsertByURL(ctx, time.Now(), sparse)
	require.NoError(t, err)
	assert.Equal(t, storage.UpsertStats{Inserted: 1}, stats)

	product, err := catalog.GetProductByURL(ctx, sparse.ProductURL)
	require.NoError(t, err)
	assert.Equal(t, "Bag", product.Name)
	assert.Empty(t, product.ImageURL)
	assert.Empty(t, product.Price)
}

func TestUpsertByURL_Empty(t *testing.T) {
	catalog, _ := newTestCatalog(t)
	stats, err := catalog.UpsertByURL(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, storage.UpsertStats{}, stats)
}

func TestActiveProducts_InsertionOrder(t *testing.T) {
	catalog, _ := newTestCatalog(t)
	ctx := context.Background()

	urls := []string{
		"https://example.com/product-detail/z.html",
		"https://example.com/product-detail/a.html",
		"https://example.com/product-detail/m.html",
	}
	for i, u := range urls {
		_, err := catalog.UpsertByURL(ctx, time.Now(), record(u, "Product number "+string(rune('A'+i))))
		require.NoError(t, err)
	}

	active, err := catalog.ActiveProducts(ctx)
	require.NoError(t, err)
	require.Len(t, active, 3)
	for i, u := range urls {
		assert.Equal(t, u, active[i].ProductURL)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	catalog, _ := newTestCatalog(t)
	ctx := context.Background()

	_, err := catalog.GetProduct(ctx, core.ID(12345))
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = catalog.GetProductByURL(ctx, "https://example.com/missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestArchiveStale(t *testing.T) {
	catalog, _ := newTestCatalog(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	old := now.AddDate(0, 0, -45)

	_, err := catalog.UpsertByURL(ctx, old, record("https://example.com/product-detail/old.html", "Old Bluetooth Speaker"))
	require.NoError(t, err)
	_, err = catalog.UpsertByURL(ctx, now, record("https://example.com/product-detail/new.html", "New Bluetooth Speaker"))
	require.NoError(t, err)

	n, err := catalog.ArchiveStale(ctx, now.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	active, err := catalog.ActiveProducts(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "New Bluetooth Speaker", active[0].Name)

	all, err := catalog.AllProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Seeing an archived product again reactivates it.
	_, err = catalog.UpsertByURL(ctx, now, record("https://example.com/product-detail/old.html", "Old Bluetooth Speaker"))
	require.NoError(t, err)
	active, err = catalog.ActiveProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	n, err = catalog.ArchiveStale(ctx, now.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestClearProducts(t *testing.T) {
	catalog, favorites := newTestCatalog(t)
	ctx := context.Background()

	rec := record("https://example.com/product-detail/a.html", "Wireless Earbuds Pro")
	_, err := catalog.UpsertByURL(ctx, time.Now(), rec)
	require.NoError(t, err)
	_, err = favorites.AddFavorite(ctx, 1, core.IDFromURL(rec.ProductURL))
	require.NoError(t, err)

	n, err := catalog.ClearProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	all, err := catalog.AllProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	fav, err := favorites.IsFavorite(ctx, 1, core.IDFromURL(rec.ProductURL))
	require.NoError(t, err)
	assert.False(t, fav)
}

func TestActiveProducts_Cancelled(t *testing.T) {
	catalog, _ := newTestCatalog(t)
	_, err := catalog.UpsertByURL(context.Background(), time.Now(),
		record("https://example.com/product-detail/a.html", "Wireless Earbuds Pro"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = catalog.ActiveProducts(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
