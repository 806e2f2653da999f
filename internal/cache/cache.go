// Package cache is the local fallback store. Entity collections write a
// snapshot here after every successful remote read or local mutation, and
// read it back when the backend is unreachable. Cache failures never fail
// an operation; they are logged and swallowed.
package cache

import (
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// Cache wraps a Badger database holding one JSON snapshot per cache key.
type Cache struct {
	db     *badger.DB
	logger *slog.Logger
}

// Open opens the cache database at path.
func Open(path string, logger *slog.Logger) (*Cache, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable Badger's internal logging
	opts.SyncWrites = true
	opts.CompactL0OnClose = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	logger.Info("cache opened", "path", path)
	return &Cache{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Read returns the snapshot under key. The second return is false when no
// snapshot exists or the read failed; a failed read is logged and treated
// the same as a miss.
func (c *Cache) Read(key string) ([]byte, bool) {
	var data []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if err != badger.ErrKeyNotFound {
			c.logger.Warn("cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	return data, true
}

// Write stores a snapshot under key, best effort.
func (c *Cache) Write(key string, data []byte) {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		c.logger.Warn("cache write failed", "key", key, "error", err)
	}
}

// Delete removes the snapshot under key, best effort.
func (c *Cache) Delete(key string) {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		c.logger.Warn("cache delete failed", "key", key, "error", err)
	}
}
