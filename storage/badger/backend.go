package badger

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/poiesic/tradescout/storage"
)

// Sequence leases are handed out in blocks of this size.
const sequenceBandwidth = 100

// Backend owns the BadgerDB handle shared by the catalog and favorites
// repositories.
type Backend struct {
	db     *badger.DB
	logger *slog.Logger
}

// BackendOption configures OpenBackend.
type BackendOption func(*badger.Options, *Backend)

// WithBackendLogger routes badger's own log output and the backend's through logger.
func WithBackendLogger(logger *slog.Logger) BackendOption {
	return func(_ *badger.Options, b *Backend) {
		if logger != nil {
			b.logger = logger.With("component", "badger")
		}
	}
}

// WithSyncWrites makes every commit fsync before returning.
func WithSyncWrites(sync bool) BackendOption {
	return func(o *badger.Options, _ *Backend) {
		*o = o.WithSyncWrites(sync)
	}
}

// slogAdapter satisfies badger.Logger.
type slogAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*slogAdapter)(nil)

func (a *slogAdapter) Errorf(msg string, items ...any) {
	a.logger.Error(fmt.Sprintf(msg, items...))
}

func (a *slogAdapter) Warningf(msg string, items ...any) {
	a.logger.Warn(fmt.Sprintf(msg, items...))
}

// Badger is chatty at info level; its routine messages go to debug.
func (a *slogAdapter) Infof(msg string, items ...any) {
	a.logger.Debug(fmt.Sprintf(msg, items...))
}

func (a *slogAdapter) Debugf(msg string, items ...any) {
	a.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenBackend opens the catalog database in the directory filePath, creating it
// when missing. With inMemory set, filePath is ignored and nothing touches disk.
func OpenBackend(filePath string, inMemory bool, opts ...BackendOption) (*Backend, error) {
	b := &Backend{logger: slog.Default().With("component", "badger")}

	var dbOpts badger.Options
	if inMemory {
		dbOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := ensureDir(filePath); err != nil {
			return nil, err
		}
		dbOpts = badger.DefaultOptions(filePath)
	}
	dbOpts.Compression = options.None

	for _, opt := range opts {
		opt(&dbOpts, b)
	}
	dbOpts.Logger = &slogAdapter{logger: b.logger}

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}
	b.db = db
	b.logger.Debug("catalog database opened", "path", filePath, "in_memory", inMemory)
	return b, nil
}

func ensureDir(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", storage.ErrInvalidPath)
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrInvalidPath, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", storage.ErrInvalidPath, path)
	}
	return nil
}

// Close closes the database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// IsClosed reports whether Close has been called.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// WithTx runs fn inside a transaction that is discarded when fn returns.
// Writers must call tx.Commit themselves.
func (b *Backend) WithTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	if b.db.IsClosed() {
		return storage.ErrStorageClosed
	}
	tx := b.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}

// GetSequence returns the named monotonic sequence. Callers release it.
func (b *Backend) GetSequence(name string) (*badger.Sequence, error) {
	if b.db.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	return b.db.GetSequence([]byte(name), sequenceBandwidth)
}

// DeletePrefixes removes every key under each prefix and reports how many keys
// each prefix held. Keys are gathered in one read transaction and removed
// through a write batch, so a catalog too large for a single transaction can
// still be cleared; the removal is not atomic.
func (b *Backend) DeletePrefixes(prefixes ...[]byte) ([]int, error) {
	counts := make([]int, len(prefixes))
	var keys [][]byte
	err := b.WithTx(func(tx *badger.Txn) error {
		for i, prefix := range prefixes {
			found := collectKeys(tx, prefix)
			counts[i] = len(found)
			keys = append(keys, found...)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	wb := b.db.NewWriteBatch()
	defer wb.Cancel()
	for _, k := range keys {
		if err := wb.Delete(k); err != nil {
			return nil, err
		}
	}
	if err := wb.Flush(); err != nil {
		return nil, err
	}
	b.logger.Debug("deleted keys", "count", len(keys))
	return counts, nil
}

// collectKeys copies every key under prefix without loading values.
func collectKeys(tx *badger.Txn, prefix []byte) [][]byte {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)
	defer iter.Close()

	var keys [][]byte
	for iter.Rewind(); iter.Valid(); iter.Next() {
		keys = append(keys, iter.Item().KeyCopy(nil))
	}
	return keys
}
