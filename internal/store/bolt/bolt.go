// internal/store/bolt/bolt.go
package bolt

import (
	"context"
	"time"

	"go.etcd.io/bbolt"

	"portfolio-projects/internal/store"
)

const bucketSnapshots = "snapshots" // key: cache key -> snapshot JSON

// Store keeps cache entries in a local bbolt file.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the bbolt file at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketSnapshots))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(bucketSnapshots)).Get([]byte(key))
		if v == nil {
			return store.ErrNotFound
		}
		// v is only valid for the life of the transaction.
		value = append([]byte(nil), v...)
		return nil
	})
	return value, err
}

func (s *Store) Put(_ context.Context, key string, value []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketSnapshots)).Put([]byte(key), value)
	})
}

// Close releases the file lock.
func (s *Store) Close() error {
	return s.db.Close()
}
