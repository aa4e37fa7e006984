package badger

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/tradescout/core"
	"github.com/poiesic/tradescout/storage"
)

// FavoriteRepository implements storage.FavoriteRepository for BadgerDB.
type FavoriteRepository struct {
	backend *Backend
	now     func() time.Time
}

var _ storage.FavoriteRepository = (*FavoriteRepository)(nil)

// newFavoriteRepository is an internal constructor that returns the concrete type.
func newFavoriteRepository(backend *Backend) *FavoriteRepository {
	return &FavoriteRepository{
		backend: backend,
		now:     time.Now,
	}
}

// NewFavoriteRepository creates a favorite repository on backend.
func NewFavoriteRepository(backend *Backend) (storage.FavoriteRepository, error) {
	return newFavoriteRepository(backend), nil
}

// Close implements storage.Repository. The backend stays open.
func (r *FavoriteRepository) Close() error {
	return nil
}

// AddFavorite implements storage.FavoriteRepository.
func (r *FavoriteRepository) AddFavorite(ctx context.Context, userID, productID core.ID) (*core.Favorite, error) {
	favorite := &core.Favorite{
		UserID:    userID,
		ProductID: productID,
		CreatedAt: r.now(),
	}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if _, err := tx.Get(makeProductKey(productID)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		key := makeFavoriteKey(userID, productID)
		_, err := tx.Get(key)
		if err == nil {
			return storage.ErrDuplicateKey
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := tx.Set(key, storage.MarshalFavorite(favorite)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return favorite, nil
}

// RemoveFavorite implements storage.FavoriteRepository.
func (r *FavoriteRepository) RemoveFavorite(ctx context.Context, userID, productID core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeFavoriteKey(userID, productID)
		if _, err := tx.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// ListFavorites implements storage.FavoriteRepository.
func (r *FavoriteRepository) ListFavorites(ctx context.Context, userID core.ID) ([]*core.Product, error) {
	var favorites []*core.Favorite
	var products []*core.Product

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialFavoriteKey(userID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := iter.Item().Value(func(val []byte) error {
				favorite, err := storage.UnmarshalFavorite(val)
				if err != nil {
					return err
				}
				favorites = append(favorites, favorite)
				return nil
			})
			if err != nil {
				return err
			}
		}

		slices.SortStableFunc(favorites, func(a, b *core.Favorite) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})

		for _, favorite := range favorites {
			product, err := readProduct(tx, makeProductKey(favorite.ProductID))
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			products = append(products, product)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return products, nil
}

// IsFavorite implements storage.FavoriteRepository.
func (r *FavoriteRepository) IsFavorite(ctx context.Context, userID, productID core.ID) (bool, error) {
	found := false
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		_, err := tx.Get(makeFavoriteKey(userID, productID))
		if err == nil {
			found = true
			return nil
		}
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	}, false)
	return found, err
}
