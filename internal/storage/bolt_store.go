package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samvad-hq/giftery-client/internal/domain"
	bolt "go.etcd.io/bbolt"
)

const orderBucket = "orders"

// journalEntry is the persisted form of an order.
type journalEntry struct {
	Order     domain.PlacedOrder `json:"order"`
	ExpiresAt int64              `json:"expires_at"`
}

// boltStore implements a Store backed by BoltDB.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	orderTTL        time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(orderBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		orderTTL:        opts.OrderTTL,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
	}
	store.lastCleanup.Store(store.now().Unix())
	return store, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// LookupOrder returns the journaled order for externalID, if still retained.
func (b *boltStore) LookupOrder(externalID string) (domain.PlacedOrder, bool, error) {
	key := strings.TrimSpace(externalID)
	if b == nil || b.db == nil || key == "" {
		return domain.PlacedOrder{}, false, nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return domain.PlacedOrder{}, false, err
	}

	var (
		order domain.PlacedOrder
		found bool
	)
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(orderBucket))
		if bucket == nil {
			return fmt.Errorf("order bucket missing")
		}

		value := bucket.Get([]byte(key))
		if value == nil {
			return nil
		}

		entry, ok := decodeEntry(value)
		if !ok || entry.ExpiresAt <= now.Unix() {
			return bucket.Delete([]byte(key))
		}

		order, found = entry.Order, true
		return nil
	})
	return order, found, err
}

// RecordOrder journals an order under its external id.
func (b *boltStore) RecordOrder(order domain.PlacedOrder) error {
	key := strings.TrimSpace(order.ExternalID)
	if b == nil || b.db == nil {
		return nil
	}
	if key == "" {
		return fmt.Errorf("order %d has no external id", order.OrderID)
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}

	raw, err := json.Marshal(journalEntry{
		Order:     order,
		ExpiresAt: now.Add(b.orderTTL).Unix(),
	})
	if err != nil {
		return fmt.Errorf("encode journal entry: %w", err)
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(orderBucket))
		if bucket == nil {
			return fmt.Errorf("order bucket missing")
		}
		return bucket.Put([]byte(key), raw)
	})
}

// maybeCleanupExpired removes expired orders on a fixed cadence to avoid unbounded growth.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	if b == nil || b.db == nil {
		return nil
	}

	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(orderBucket))
		if bucket == nil {
			return fmt.Errorf("order bucket missing")
		}

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			entry, ok := decodeEntry(v)
			if !ok || entry.ExpiresAt <= now.Unix() {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

// decodeEntry decodes a stored journal entry.
func decodeEntry(value []byte) (journalEntry, bool) {
	var entry journalEntry
	if err := json.Unmarshal(value, &entry); err != nil {
		return journalEntry{}, false
	}
	if entry.ExpiresAt <= 0 {
		return journalEntry{}, false
	}
	return entry, true
}
