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

package badger

import (
	"errors"

	"github.com/poiesic/tradescout/storage"
)

// MemoryStore bundles in-memory catalog and favorite repositories for tests.
type MemoryStore struct {
	Catalog   storage.CatalogRepository
	Favorites storage.FavoriteRepository
	Backend   *Backend
}

// NewMemoryStore opens an in-memory backend with both repositories on it.
func NewMemoryStore() (*MemoryStore, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}

	catalog, err := NewCatalogRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	favorites, err := NewFavoriteRepository(backend)
	if err != nil {
		catalog.Close()
		backend.Close()
		return nil, err
	}

	return &MemoryStore{Catalog: catalog, Favorites: favorites, Backend: backend}, nil
}

// Close closes the repositories, then the backend.
func (m *MemoryStore) Close() error {
	return errors.Join(m.Favorites.Close(), m.Catalog.Close(), m.Backend.Close())
}
