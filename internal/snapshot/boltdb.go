package snapshot

import (
	"fmt"

	bolt "go.etcd.io/bbolt"
)

var bucketSnapshots = []byte("snapshots")

// BoltStore keeps snapshots in a bolt database, keyed by a
// deployment-defined identifier so several engines can share one file.
type BoltStore struct {
	db  *bolt.DB
	key []byte
}

// NewBoltStore opens (creating if needed) the database at path.
func NewBoltStore(path, key string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("open snapshot database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSnapshots)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create snapshot bucket: %w", err)
	}

	return &BoltStore{db: db, key: []byte(key)}, nil
}

func (s *BoltStore) Save(data []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSnapshots).Put(s.key, data)
	})
}

func (s *BoltStore) Load() ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		stored := tx.Bucket(bucketSnapshots).Get(s.key)
		if stored == nil {
			return ErrNotFound
		}
		data = make([]byte, len(stored))
		copy(data, stored)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
