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

package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/poiesic/tradescout/interchange"
	"github.com/poiesic/tradescout/storage"
)

// DefaultRetention is how long a product stays active without being seen.
const DefaultRetention = 30 * 24 * time.Hour

// LoadResult summarizes one load.
type LoadResult struct {
	Read     int
	Inserted int
	Updated  int
	Skipped  int
	Archived int
}

// Loader copies the interchange file into the catalog.
// Loads are serialized; concurrent callers wait their turn.
type Loader struct {
	catalog   storage.CatalogRepository
	path      string
	retention time.Duration
	now       func() time.Time
	mu        sync.Mutex
	logger    *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger.With("component", "loader")
		return nil
	}
}

// WithRetention sets how long an unseen product stays active.
// Default is DefaultRetention.
func WithRetention(d time.Duration) Option {
	return func(l *Loader) error {
		if d <= 0 {
			return ErrInvalidRetention
		}
		l.retention = d
		return nil
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Loader) error {
		if now != nil {
			l.now = now
		}
		return nil
	}
}

// NewLoader creates a Loader reading path into catalog.
func NewLoader(catalog storage.CatalogRepository, path string, opts ...Option) (*Loader, error) {
	if catalog == nil {
		return nil, ErrCatalogRequired
	}
	l := &Loader{
		catalog:   catalog,
		path:      path,
		retention: DefaultRetention,
		now:       time.Now,
		logger:    slog.Default().With("component", "loader"),
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Path returns the interchange file the loader reads.
func (l *Loader) Path() string {
	return l.path
}

// Load upserts every record of the interchange file, then archives stale
// products. A missing or unreadable file loads nothing but still archives.
func (l *Loader) Load(ctx context.Context) (LoadResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var result LoadResult
	records, err := interchange.ReadFile(l.path, l.logger)
	if err != nil {
		return result, fmt.Errorf("read %s: %w", l.path, err)
	}
	result.Read = len(records)

	now := l.now().UTC()
	if len(records) > 0 {
		stats, err := l.catalog.UpsertByURL(ctx, now, records...)
		if err != nil {
			return result, fmt.Errorf("upsert: %w", err)
		}
		result.Inserted = stats.Inserted
		result.Updated = stats.Updated
		result.Skipped = stats.Skipped
	}

	archived, err := l.archive(ctx, now)
	if err != nil {
		return result, err
	}
	result.Archived = archived

	l.logger.Info("load complete",
		"path", l.path,
		"read", result.Read,
		"inserted", result.Inserted,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"archived", result.Archived)
	return result, nil
}

// Archive marks products unseen for longer than the retention window inactive.
func (l *Loader) Archive(ctx context.Context) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.archive(ctx, l.now().UTC())
}

func (l *Loader) archive(ctx context.Context, now time.Time) (int, error) {
	n, err := l.catalog.ArchiveStale(ctx, now.Add(-l.retention))
	if err != nil {
		return 0, fmt.Errorf("archive: %w", err)
	}
	return n, nil
}
