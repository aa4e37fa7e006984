package interchange

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/poiesic/tradescout/core"
)

// DefaultFileName is the hand-off file name used when none is configured.
const DefaultFileName = "scraped_alibaba_new_arrivals_enhanced.json"

var ErrWriteFailed = errors.New("interchange: write failed")

// ReadFile loads records from path. A missing or undecodable file yields an
// empty slice and a nil error; only I/O failures other than absence are returned.
func ReadFile(path string, logger *slog.Logger) ([]core.ProductRecord, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "interchange")

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Info("interchange file does not exist", "path", path)
			return []core.ProductRecord{}, nil
		}
		return nil, err
	}

	var records []core.ProductRecord
	if err := json.Unmarshal(data, &records); err != nil {
		logger.Warn("ignoring unreadable interchange file", "path", path, "err", err)
		return []core.ProductRecord{}, nil
	}
	if records == nil {
		records = []core.ProductRecord{}
	}
	return records, nil
}

// WriteFile replaces path with records. The file is written to a temporary
// sibling first and renamed into place.
func WriteFile(path string, records []core.ProductRecord) error {
	if records == nil {
		records = []core.ProductRecord{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}

// Merge appends the records of incoming whose URL is not already present in
// existing, preserving order.
func Merge(existing, incoming []core.ProductRecord) []core.ProductRecord {
	known := core.KnownURLsFromRecords(existing)
	merged := make([]core.ProductRecord, 0, len(existing)+len(incoming))
	merged = append(merged, existing...)
	for _, r := range incoming {
		if r.ProductURL == "" || known.Has(r.ProductURL) {
			continue
		}
		known.Add(r.ProductURL)
		merged = append(merged, r)
	}
	return merged
}
