package storage

import (
	"context"
	"time"

	"github.com/poiesic/tradescout/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// Close releases resources held by the repository.
	Close() error
}

// UpsertStats summarizes one UpsertByURL call.
type UpsertStats struct {
	Inserted int
	Updated  int
	Skipped  int
}

// CatalogReader is the read side of the catalog used by search.
type CatalogReader interface {
	// ActiveProducts returns every active product in insertion order.
	ActiveProducts(ctx context.Context) ([]*core.Product, error)
}

// CatalogRepository provides operations for managing catalog products.
type CatalogRepository interface {
	Repository
	CatalogReader

	// UpsertByURL stores records keyed by their product URL in one commit.
	// A known URL has its name, price, image and category replaced, LastScraped
	// set to seenAt and Active set to true. An unseen URL is inserted with
	// ArrivalDate and LastScraped set to seenAt. Records that fail
	// core.ValidateStoredRecord are skipped and counted.
	UpsertByURL(ctx context.Context, seenAt time.Time, records ...core.ProductRecord) (UpsertStats, error)

	// GetProduct retrieves a product by ID.
	// Returns ErrNotFound if the product doesn't exist.
	GetProduct(ctx context.Context, id core.ID) (*core.Product, error)

	// GetProductByURL retrieves a product by its exact URL.
	// Returns ErrNotFound if the product doesn't exist.
	GetProductByURL(ctx context.Context, productURL string) (*core.Product, error)

	// AllProducts returns every product, active or not, in insertion order.
	AllProducts(ctx context.Context) ([]*core.Product, error)

	// ArchiveStale marks active products last scraped before cutoff as inactive.
	// Returns the number of products archived.
	ArchiveStale(ctx context.Context, cutoff time.Time) (int, error)

	// ClearProducts deletes every product and every favorite.
	// Returns the number of products deleted.
	ClearProducts(ctx context.Context) (int, error)
}

// FavoriteRepository provides operations for managing user favorites.
type FavoriteRepository interface {
	Repository

	// AddFavorite saves productID for userID.
	// Returns ErrNotFound if the product doesn't exist and ErrDuplicateKey if it
	// is already a favorite.
	AddFavorite(ctx context.Context, userID, productID core.ID) (*core.Favorite, error)

	// RemoveFavorite deletes a saved product.
	// Returns ErrNotFound if it was not a favorite.
	RemoveFavorite(ctx context.Context, userID, productID core.ID) error

	// ListFavorites returns the user's saved products, oldest favorite first.
	// Products deleted since they were saved are skipped.
	ListFavorites(ctx context.Context, userID core.ID) ([]*core.Product, error)

	// IsFavorite reports whether productID is saved for userID.
	IsFavorite(ctx context.Context, userID, productID core.ID) (bool, error)
}
