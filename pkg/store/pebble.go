package store

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/pebble"

	"parley/pkg/logger"
	"parley/pkg/models"
)

var (
	db     *pebble.DB
	dbPath string

	// mu serializes load-mutate-save cycles so concurrent requests never
	// interleave their read and write halves.
	mu sync.Mutex
)

// Keys for the persisted dataset sections. The dataset is small enough to
// round-trip whole sections per operation; splitting by section keeps any
// single value bounded.
const (
	keyUsers    = "snapshot:users"
	keyChannels = "snapshot:channels"
	keyDMs      = "snapshot:dms"
	keyMeta     = "snapshot:meta"
)

type meta struct {
	IDCounter int64 `json:"idCounter"`
}

// Open opens (or creates) a Pebble database at the given path and keeps
// a global handle for simple usage in this package.
func Open(path string) error {
	var err error
	logger.Info("opening_pebble_db", "path", path)
	db, err = pebble.Open(path, &pebble.Options{})
	if err != nil {
		logger.Error("pebble_open_failed", "path", path, "error", err)
		return err
	}
	dbPath = path
	logger.Info("pebble_opened", "path", path)
	return nil
}

// Close closes the opened pebble DB if present.
func Close() error {
	if db == nil {
		return nil
	}
	if err := db.Close(); err != nil {
		return err
	}
	db = nil
	logger.Info("pebble_closed")
	return nil
}

// Ready reports whether the store is opened and ready.
func Ready() bool {
	return db != nil
}

func getSection(key string, out any) error {
	v, closer, err := db.Get([]byte(key))
	if err == pebble.ErrNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	defer closer.Close()
	return json.Unmarshal(v, out)
}

func setSection(b *pebble.Batch, key string, in any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return b.Set([]byte(key), data, nil)
}

// load reads the full dataset. Missing sections come back zero-valued, so
// a fresh database yields an empty snapshot.
func load() (*models.Snapshot, error) {
	if db == nil {
		return nil, fmt.Errorf("pebble not opened; call store.Open first")
	}
	s := models.NewSnapshot()
	if err := getSection(keyUsers, &s.Users); err != nil {
		return nil, err
	}
	if err := getSection(keyChannels, &s.Channels); err != nil {
		return nil, err
	}
	if err := getSection(keyDMs, &s.DMs); err != nil {
		return nil, err
	}
	var m meta
	if err := getSection(keyMeta, &m); err != nil {
		return nil, err
	}
	s.IDCounter = m.IDCounter
	return s, nil
}

// save writes the full dataset atomically.
func save(s *models.Snapshot) error {
	if db == nil {
		return fmt.Errorf("pebble not opened; call store.Open first")
	}
	b := db.NewBatch()
	defer b.Close()
	if err := setSection(b, keyUsers, s.Users); err != nil {
		return err
	}
	if err := setSection(b, keyChannels, s.Channels); err != nil {
		return err
	}
	if err := setSection(b, keyDMs, s.DMs); err != nil {
		return err
	}
	if err := setSection(b, keyMeta, meta{IDCounter: s.IDCounter}); err != nil {
		return err
	}
	if err := b.Commit(pebble.Sync); err != nil {
		logger.Error("snapshot_save_failed", "error", err)
		return err
	}
	return nil
}

// Update runs fn against the current dataset and persists the result.
// Returning an error from fn discards the mutation. The whole cycle holds
// the store lock.
func Update(fn func(s *models.Snapshot) error) error {
	mu.Lock()
	defer mu.Unlock()
	s, err := load()
	if err != nil {
		return err
	}
	if err := fn(s); err != nil {
		return err
	}
	return save(s)
}

// View runs fn against a read-only copy of the dataset. Mutations made by
// fn are not persisted.
func View(fn func(s *models.Snapshot) error) error {
	mu.Lock()
	defer mu.Unlock()
	s, err := load()
	if err != nil {
		return err
	}
	return fn(s)
}

// Reset wipes the dataset back to empty.
func Reset() error {
	mu.Lock()
	defer mu.Unlock()
	return save(models.NewSnapshot())
}

const keyVersion = "system:version"

// Version returns the schema version recorded in the store, or "" for a
// fresh database.
func Version() (string, error) {
	mu.Lock()
	defer mu.Unlock()
	if db == nil {
		return "", fmt.Errorf("pebble not opened; call store.Open first")
	}
	var v string
	if err := getSection(keyVersion, &v); err != nil {
		return "", err
	}
	return v, nil
}

// SetVersion records the schema version.
func SetVersion(v string) error {
	mu.Lock()
	defer mu.Unlock()
	if db == nil {
		return fmt.Errorf("pebble not opened; call store.Open first")
	}
	b := db.NewBatch()
	defer b.Close()
	if err := setSection(b, keyVersion, v); err != nil {
		return err
	}
	return b.Commit(pebble.Sync)
}

// DiskUsage returns the on-disk size of the database directory in bytes,
// best effort.
func DiskUsage() uint64 {
	if dbPath == "" {
		return 0
	}
	var total uint64
	_ = filepath.WalkDir(dbPath, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if fi, err := d.Info(); err == nil {
			total += uint64(fi.Size())
		}
		return nil
	})
	return total
}
