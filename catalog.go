// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tradescout

import (
	"context"
	"log/slog"

	"github.com/poiesic/tradescout/ai"
	"github.com/poiesic/tradescout/ai/openai"
	"github.com/poiesic/tradescout/core"
	"github.com/poiesic/tradescout/ingestion"
	"github.com/poiesic/tradescout/lexical"
	"github.com/poiesic/tradescout/search"
	"github.com/poiesic/tradescout/storage"
	"github.com/poiesic/tradescout/storage/badger"
	"github.com/poiesic/tradescout/textnorm"
)

// Catalog ties the product store, the favorites store and the relevance
// oracle together.
type Catalog struct {
	backend      *badger.Backend
	catalogRepo  storage.CatalogRepository
	favoriteRepo storage.FavoriteRepository
	oracle       ai.RelevanceOracle
	normalizer   *textnorm.Normalizer
	baseLogger   *slog.Logger
	logger       *slog.Logger
}

// CatalogOption configures a Catalog.
type CatalogOption func(*catalogOptions)

type catalogOptions struct {
	aiConfig *ai.Config
	oracle   ai.RelevanceOracle
	inMemory bool
	logger   *slog.Logger
}

// WithAIConfig sets the oracle configuration. Ignored when WithOracle is used.
func WithAIConfig(cfg *ai.Config) CatalogOption {
	return func(o *catalogOptions) {
		if cfg != nil {
			o.aiConfig = cfg
		}
	}
}

// WithOracle supplies a ready-made oracle instead of building one.
// The Catalog takes ownership and closes it.
func WithOracle(oracle ai.RelevanceOracle) CatalogOption {
	return func(o *catalogOptions) {
		o.oracle = oracle
	}
}

// WithInMemory keeps the store in memory. The path passed to Open is ignored.
func WithInMemory() CatalogOption {
	return func(o *catalogOptions) {
		o.inMemory = true
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) CatalogOption {
	return func(o *catalogOptions) {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
	}
}

// Open opens the catalog stored at filePath.
func Open(filePath string, opts ...CatalogOption) (*Catalog, error) {
	options := &catalogOptions{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	normalizer, err := textnorm.New()
	if err != nil {
		return nil, err
	}

	if options.inMemory {
		filePath = ""
	}
	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	catalogRepo, err := badger.NewCatalogRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	favoriteRepo, err := badger.NewFavoriteRepository(backend)
	if err != nil {
		catalogRepo.Close()
		backend.Close()
		return nil, err
	}

	oracle := options.oracle
	if oracle == nil {
		oracle, err = openai.NewOracle(options.aiConfig)
		if err != nil {
			favoriteRepo.Close()
			catalogRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Catalog{
		backend:      backend,
		catalogRepo:  catalogRepo,
		favoriteRepo: favoriteRepo,
		oracle:       oracle,
		normalizer:   normalizer,
		baseLogger:   options.logger,
		logger:       options.logger.With("component", "catalog"),
	}, nil
}

// Close releases the oracle, the repositories and the store, in that order.
func (c *Catalog) Close() error {
	if err := c.oracle.Close(); err != nil {
		c.logger.Error("error closing relevance oracle", "err", err)
	}

	if err := c.favoriteRepo.Close(); err != nil {
		c.logger.Error("error closing favorite repository", "err", err)
		return err
	}
	if err := c.catalogRepo.Close(); err != nil {
		c.logger.Error("error closing catalog repository", "err", err)
		return err
	}

	if err := c.backend.Close(); err != nil {
		c.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (c *Catalog) Products() storage.CatalogRepository {
	return c.catalogRepo
}

func (c *Catalog) Favorites() storage.FavoriteRepository {
	return c.favoriteRepo
}

func (c *Catalog) Oracle() ai.RelevanceOracle {
	return c.oracle
}

// NewRanker builds a ranker over this catalog's oracle.
func (c *Catalog) NewRanker(opts ...search.Option) (*search.Ranker, error) {
	filter, err := lexical.NewFilter(c.normalizer, lexical.WithLogger(c.baseLogger))
	if err != nil {
		return nil, err
	}
	return search.NewRanker(filter, c.oracle, append([]search.Option{search.WithLogger(c.baseLogger)}, opts...)...)
}

// Search ranks the active products against query.
// The full ranking is returned; use search.Display to trim it.
func (c *Catalog) Search(ctx context.Context, query string, opts ...search.Option) ([]core.RankedResult, error) {
	return c.SearchWithMonitor(ctx, query, nil, opts...)
}

// SearchWithMonitor is Search reporting progress to monitor.
func (c *Catalog) SearchWithMonitor(ctx context.Context, query string, monitor search.RankMonitor, opts ...search.Option) ([]core.RankedResult, error) {
	ranker, err := c.NewRanker(opts...)
	if err != nil {
		return nil, err
	}
	products, err := c.catalogRepo.ActiveProducts(ctx)
	if err != nil {
		return nil, err
	}
	return ranker.RankWithMonitor(ctx, query, products, monitor)
}

// NewLoader creates a loader that feeds the interchange file at path into
// this catalog.
func (c *Catalog) NewLoader(path string, opts ...ingestion.Option) (*ingestion.Loader, error) {
	return ingestion.NewLoader(c.catalogRepo, path, append([]ingestion.Option{ingestion.WithLogger(c.baseLogger)}, opts...)...)
}
