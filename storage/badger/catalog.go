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

// CatalogRepository implements storage.CatalogRepository for BadgerDB.
type CatalogRepository struct {
	backend *Backend
	seq     *badger.Sequence
}

var _ storage.CatalogRepository = (*CatalogRepository)(nil)

// newCatalogRepository is an internal constructor that returns the concrete type.
func newCatalogRepository(backend *Backend) (*CatalogRepository, error) {
	seq, err := backend.GetSequence(productSeq)
	if err != nil {
		return nil, err
	}
	return &CatalogRepository{
		backend: backend,
		seq:     seq,
	}, nil
}

// NewCatalogRepository creates a catalog repository on backend.
func NewCatalogRepository(backend *Backend) (storage.CatalogRepository, error) {
	return newCatalogRepository(backend)
}

// Close releases the insertion sequence. The backend stays open.
func (r *CatalogRepository) Close() error {
	return r.seq.Release()
}

// UpsertByURL implements storage.CatalogRepository.
func (r *CatalogRepository) UpsertByURL(ctx context.Context, seenAt time.Time, records ...core.ProductRecord) (storage.UpsertStats, error) {
	var stats storage.UpsertStats
	if len(records) == 0 {
		return stats, nil
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for i := range records {
			rec := records[i]
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := core.ValidateStoredRecord(&rec); err != nil {
				r.backend.logger.Warn("skipping invalid product", "url", rec.ProductURL, "err", err)
				stats.Skipped++
				continue
			}

			key := makeProductKey(core.IDFromURL(rec.ProductURL))
			existing, err := readProduct(tx, key)
			if err != nil && !errors.Is(err, storage.ErrNotFound) {
				return err
			}

			var product *core.Product
			if existing != nil {
				product = existing
				product.Apply(rec)
				product.LastScraped = seenAt
				product.Active = true
				stats.Updated++
			} else {
				product = core.NewProduct(rec, seenAt)
				seq, err := r.seq.Next()
				if err != nil {
					return err
				}
				product.Seq = seq
				stats.Inserted++
			}

			if err := tx.Set(key, storage.MarshalProduct(product)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return storage.UpsertStats{}, err
	}
	return stats, nil
}

// GetProduct implements storage.CatalogRepository.
func (r *CatalogRepository) GetProduct(ctx context.Context, id core.ID) (*core.Product, error) {
	var product *core.Product
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		product, err = readProduct(tx, makeProductKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	return product, nil
}

// GetProductByURL implements storage.CatalogRepository.
func (r *CatalogRepository) GetProductByURL(ctx context.Context, productURL string) (*core.Product, error) {
	product, err := r.GetProduct(ctx, core.IDFromURL(productURL))
	if err != nil {
		return nil, err
	}
	// Guard against a hash collision between two URLs.
	if product.ProductURL != productURL {
		return nil, storage.ErrNotFound
	}
	return product, nil
}

// ActiveProducts implements storage.CatalogReader.
func (r *CatalogRepository) ActiveProducts(ctx context.Context) ([]*core.Product, error) {
	return r.scan(ctx, func(p *core.Product) bool { return p.Active })
}

// AllProducts implements storage.CatalogRepository.
func (r *CatalogRepository) AllProducts(ctx context.Context) ([]*core.Product, error) {
	return r.scan(ctx, func(*core.Product) bool { return true })
}

// ArchiveStale implements storage.CatalogRepository.
func (r *CatalogRepository) ArchiveStale(ctx context.Context, cutoff time.Time) (int, error) {
	stale, err := r.scan(ctx, func(p *core.Product) bool {
		return p.Active && p.LastScraped.Before(cutoff)
	})
	if err != nil || len(stale) == 0 {
		return 0, err
	}

	err = r.backend.WithTx(func(tx *badger.Txn) error {
		for _, p := range stale {
			p.Active = false
			if err := tx.Set(makeProductKey(p.Id), storage.MarshalProduct(p)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return 0, err
	}

	r.backend.logger.Info("archived stale products", "count", len(stale), "cutoff", cutoff)
	return len(stale), nil
}

// ClearProducts implements storage.CatalogRepository.
// The insertion sequence is left alone so new products keep sorting after
// anything seen before the clear.
func (r *CatalogRepository) ClearProducts(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	counts, err := r.backend.DeletePrefixes(productKeyPrefix(), favoriteKeyPrefix())
	if err != nil {
		return 0, err
	}
	r.backend.logger.Info("catalog cleared", "products", counts[0], "favorites", counts[1])
	return counts[0], nil
}

// scan returns products accepted by keep, ordered by insertion sequence.
func (r *CatalogRepository) scan(ctx context.Context, keep func(*core.Product) bool) ([]*core.Product, error) {
	var products []*core.Product
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = productKeyPrefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var product *core.Product
			err := iter.Item().Value(func(val []byte) error {
				var err error
				product, err = storage.UnmarshalProduct(val)
				return err
			})
			if err != nil {
				return err
			}
			if keep(product) {
				products = append(products, product)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(products, func(a, b *core.Product) int {
		switch {
		case a.Seq < b.Seq:
			return -1
		case a.Seq > b.Seq:
			return 1
		}
		return 0
	})
	return products, nil
}

func readProduct(tx *badger.Txn, key []byte) (*core.Product, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	var product *core.Product
	err = item.Value(func(val []byte) error {
		var err error
		product, err = storage.UnmarshalProduct(val)
		return err
	})
	return product, err
}
