// Package store implements the flat-file JSON record store backing all
// fieldwork commands and the dashboard API.
//
// Every document is a whole JSON file: reads parse the complete file, writes
// serialize and overwrite it. There is no locking and no versioning, so two
// concurrent writers to the same path race and the last write wins. That is
// a known limitation of the format, kept for parity with the data layout
// this tool shares with its dashboard.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/kvanderzwet/fieldwork/pkg/debug"
	"github.com/kvanderzwet/fieldwork/pkg/metrics"
)

// Store reads and writes JSON documents under an explicit root directory.
// The root is always passed in by the caller; the store never consults the
// working directory itself.
type Store struct {
	Root string
}

// New returns a Store rooted at dir.
func New(dir string) *Store {
	return &Store{Root: dir}
}

// Read parses the JSON document at path (relative to the store root) into
// out. It returns false with a nil error when the file does not exist, so
// callers supply their own default shape instead of handling an error.
func (s *Store) Read(path string, out any) (bool, error) {
	defer metrics.Timer(metrics.StoreRead)()
	full := filepath.Join(s.Root, path)
	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			debug.Log("store: %s absent, using default", path)
			return false, nil
		}
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("parsing %s: %w", path, err)
	}
	return true, nil
}

// Write serializes doc with stable 2-space indentation and overwrites the
// file at path, creating parent directories as needed.
func (s *Store) Write(path string, doc any) error {
	defer metrics.Timer(metrics.StoreWrite)()
	full := filepath.Join(s.Root, path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	debug.Log("store: wrote %s (%d bytes)", path, len(data))
	return nil
}

// Exists reports whether a document is present at path.
func (s *Store) Exists(path string) bool {
	_, err := os.Stat(filepath.Join(s.Root, path))
	return err == nil
}

// Abs returns the absolute filesystem path of a store-relative path.
func (s *Store) Abs(path string) string {
	return filepath.Join(s.Root, path)
}
