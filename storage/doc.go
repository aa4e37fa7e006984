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

// Package storage provides the storage abstraction layer for tradescout.
//
// This package defines repository interfaces that decouple the catalog store
// from scraping and search. Products are keyed by their URL: core.IDFromURL
// turns the URL into the product ID, so loading the same URL twice updates one
// row instead of creating two.
//
// # Constructor Return Type Pattern
//
// Public constructors in implementation packages return interfaces:
//
//	repo, err := badger.NewCatalogRepository(backend)  // returns storage.CatalogRepository
//
// Internal constructors may return concrete types since they're only used
// within the implementation package.
//
// # Architecture
//
//   - CatalogReader: the read side consumed by search
//   - CatalogRepository: upsert by URL, archiving and clearing
//   - FavoriteRepository: per-user saved products
//
// # Usage
//
// Use in tests with in-memory storage:
//
//	store, err := badger.NewMemoryStore()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//	store.Catalog.UpsertByURL(ctx, time.Now(), records...)
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
