// Package storage implements the JSON file store backing every collection.
//
// Each collection is a single file `<name>.json` under the data directory.
// Writes are atomic (temp file then rename) and every collection carries its
// own mutex so read-modify-write sequences never interleave.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/chen12345jin/planhub/internal/constants"
)

// FileStore reads and writes collection files under a single data directory.
type FileStore struct {
	dataDir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewFileStore creates a file store rooted at dataDir, creating the
// directory if needed.
func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &FileStore{
		dataDir: dataDir,
		locks:   make(map[string]*sync.Mutex),
	}, nil
}

// DataDir returns the root directory of the store.
func (fs *FileStore) DataDir() string {
	return fs.dataDir
}

// Path returns the file path for a collection.
func (fs *FileStore) Path(collection string) string {
	return filepath.Join(fs.dataDir, collection+constants.CollectionFileExt)
}

// lockFor returns the mutex guarding a collection, creating it on first use.
func (fs *FileStore) lockFor(collection string) *sync.Mutex {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	l, ok := fs.locks[collection]
	if !ok {
		l = &sync.Mutex{}
		fs.locks[collection] = l
	}
	return l
}

// WithLock runs fn while holding the collection's mutex. All mutations of a
// collection must go through here so concurrent read-modify-write sequences
// are serialized.
func (fs *FileStore) WithLock(collection string, fn func() error) error {
	l := fs.lockFor(collection)
	l.Lock()
	defer l.Unlock()
	return fn()
}

// ReadJSON decodes the collection file into out. A missing file is not an
// error; out is left untouched so callers start from their zero value.
func (fs *FileStore) ReadJSON(collection string, out any) error {
	data, err := os.ReadFile(fs.Path(collection))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", collection, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.Error().Err(err).Str("collection", collection).Msg("Collection file is corrupt")
		return fmt.Errorf("parsing %s: %w", collection, err)
	}
	return nil
}

// WriteJSON encodes v and atomically replaces the collection file. The data
// is written to a temp file first and renamed into place so a crash never
// leaves a truncated collection behind.
func (fs *FileStore) WriteJSON(collection string, v any) error {
	if err := os.MkdirAll(fs.dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", collection, err)
	}

	tmp, err := os.CreateTemp(fs.dataDir, collection+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", collection, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", collection, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file for %s: %w", collection, err)
	}

	if err := os.Rename(tmpName, fs.Path(collection)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", collection, err)
	}
	return nil
}

// Exists reports whether a collection file is present on disk.
func (fs *FileStore) Exists(collection string) bool {
	_, err := os.Stat(fs.Path(collection))
	return err == nil
}

// Collections lists the collection names present in the data directory,
// skipping subdirectories such as the backup folder.
func (fs *FileStore) Collections() ([]string, error) {
	entries, err := os.ReadDir(fs.dataDir)
	if err != nil {
		return nil, fmt.Errorf("listing data directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), constants.CollectionFileExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), constants.CollectionFileExt))
	}
	return names, nil
}
