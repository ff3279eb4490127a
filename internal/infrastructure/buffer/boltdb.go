package buffer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const defaultBatchSize = 50

// Store is a disk-backed queue of writes that could not reach the primary
// stores. Keys embed priority and enqueue time so a cursor scan yields
// items in drain order.
type Store struct {
	db     *bolt.DB
	bucket []byte
}

// Open creates or opens the Bolt file at path and ensures the bucket exists.
func Open(path string, bucket string) (*Store, error) {
	if bucket == "" {
		bucket = "buffer"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, bucket: []byte(bucket)}, nil
}

func (s *Store) ready() error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return nil
}

// Enqueue persists an item under its priority key.
func (s *Store) Enqueue(item Item) error {
	if err := s.ready(); err != nil {
		return err
	}
	item.normalize()
	item.bucketKey = []byte(priorityKey(item))

	payload, err := json.Marshal(item)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put(item.bucketKey, payload)
	})
}

// GetBatch returns up to limit items in drain order without removing them.
func (s *Store) GetBatch(limit int) ([]Item, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultBatchSize
	}

	var items []Item
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(s.bucket).Cursor()
		for k, v := c.First(); k != nil && len(items) < limit; k, v = c.Next() {
			var item Item
			if err := json.Unmarshal(v, &item); err != nil {
				// skip corrupt entries, Cleanup reaps them eventually
				continue
			}
			item.bucketKey = append([]byte(nil), k...)
			items = append(items, item)
		}
		return nil
	})
	return items, err
}

// Remove deletes the item. Items fetched through GetBatch carry their key;
// for others the bucket is scanned by ID.
func (s *Store) Remove(item Item) error {
	if err := s.ready(); err != nil {
		return err
	}
	if len(item.bucketKey) == 0 {
		return s.deleteByID(item.ID)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Delete(item.bucketKey)
	})
}

// Requeue re-inserts an item with a fresh timestamp so it lands behind
// its priority peers.
func (s *Store) Requeue(item Item) error {
	item.bucketKey = nil
	item.Timestamp = time.Now()
	return s.Enqueue(item)
}

// Size returns the number of buffered items.
func (s *Store) Size() (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(s.bucket).Stats().KeyN
		return nil
	})
	return count, err
}

// Cleanup drops items enqueued before olderThan, including entries that no
// longer unmarshal, and reports how many were removed.
func (s *Store) Cleanup(olderThan time.Time) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		c := tx.Bucket(s.bucket).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var item Item
			stale := json.Unmarshal(v, &item) != nil || item.Timestamp.Before(olderThan)
			if !stale {
				continue
			}
			if err := c.Delete(); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	return removed, err
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) deleteByID(id string) error {
	if id == "" {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		c := tx.Bucket(s.bucket).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var item Item
			if err := json.Unmarshal(v, &item); err != nil {
				continue
			}
			if item.ID == id {
				return c.Delete()
			}
		}
		return nil
	})
}

func priorityKey(item Item) string {
	return fmt.Sprintf("%d_%020d_%s", item.Priority, item.Timestamp.UnixNano(), item.ID)
}
