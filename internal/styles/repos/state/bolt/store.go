// Package bolt persists per-stylesheet enabled flags in a bbolt database.
// A file with no recorded flag is enabled; only explicit toggles write, so
// the database stays tiny and untouched files pick up the default.
package bolt

import (
	"fmt"
	"time"

	bbolt "go.etcd.io/bbolt"
)

var bucketSheets = []byte("sheets")

// Store is a bbolt-backed enabled-flag store. Every SetEnabled is one
// durable update transaction, so the flag survives a crash right after the
// call returns.
type Store struct {
	db *bbolt.DB
}

// New opens (or creates) the database at path and ensures the bucket exists.
func New(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening state database %s: %w", path, err)
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSheets)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

// Enabled reports the persisted flag for fileID, defaulting to true when the
// file has never been toggled.
func (s *Store) Enabled(fileID string) (bool, error) {
	enabled := true
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSheets)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(fileID)); len(v) == 1 {
			enabled = v[0] != 0
		}
		return nil
	})
	return enabled, err
}

// SetEnabled durably records the flag for fileID before returning.
func (s *Store) SetEnabled(fileID string, enabled bool) error {
	val := []byte{0}
	if enabled {
		val[0] = 1
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSheets).Put([]byte(fileID), val)
	})
}

// Forget drops the recorded flag so fileID reverts to the default.
func (s *Store) Forget(fileID string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSheets).Delete([]byte(fileID))
	})
}
