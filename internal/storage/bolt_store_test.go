package storage

import (
	"testing"
	"time"

	"github.com/samvad-hq/giftery-client/internal/domain"
	bolt "go.etcd.io/bbolt"
)

func TestBoltStoreRecordsAndExpiresOrders(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		OrderTTL:        time.Hour,
		CleanupInterval: time.Minute,
	}

	storeRaw, err := openBolt(dir+"/orders.db", opts)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	defer store.Close()

	clock := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }
	store.lastCleanup.Store(clock.Unix())

	if _, found, err := store.LookupOrder("ext-1"); err != nil || found {
		t.Fatalf("expected unknown order, found=%v err=%v", found, err)
	}

	placed := domain.PlacedOrder{OrderID: 99, ExternalID: "ext-1", ProductID: 3, Face: 500, PlacedAt: clock}
	if err := store.RecordOrder(placed); err != nil {
		t.Fatalf("RecordOrder: %v", err)
	}

	got, found, err := store.LookupOrder("ext-1")
	if err != nil || !found {
		t.Fatalf("expected journaled order, found=%v err=%v", found, err)
	}
	if got.OrderID != 99 || got.Face != 500 || !got.PlacedAt.Equal(clock) {
		t.Fatalf("unexpected order %+v", got)
	}

	// Past the TTL the entry is dropped on lookup.
	clock = clock.Add(2 * time.Hour)
	if _, found, err := store.LookupOrder("ext-1"); err != nil || found {
		t.Fatalf("expected order to expire, found=%v err=%v", found, err)
	}
}

func TestBoltStoreCleanupSweepsExpiredEntries(t *testing.T) {
	storeRaw, err := openBolt(t.TempDir()+"/orders.db", Options{OrderTTL: time.Minute, CleanupInterval: time.Minute})
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	defer store.Close()

	clock := time.Now()
	store.now = func() time.Time { return clock }

	for _, id := range []string{"a", "b"} {
		if err := store.RecordOrder(domain.PlacedOrder{OrderID: 1, ExternalID: id}); err != nil {
			t.Fatalf("RecordOrder(%s): %v", id, err)
		}
	}

	clock = clock.Add(5 * time.Minute)
	if err := store.maybeCleanupExpired(clock); err != nil {
		t.Fatalf("maybeCleanupExpired: %v", err)
	}

	var remaining int
	if err := store.db.View(func(tx *bolt.Tx) error {
		remaining = tx.Bucket([]byte(orderBucket)).Stats().KeyN
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected sweep to remove all entries, %d left", remaining)
	}
}

func TestBoltStoreRequiresExternalID(t *testing.T) {
	store, err := NewStore("bbolt", t.TempDir()+"/orders.db", Options{})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	if err := store.RecordOrder(domain.PlacedOrder{OrderID: 5}); err == nil {
		t.Fatalf("expected error for order without external id")
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.RecordOrder(domain.PlacedOrder{ExternalID: "x"}); err != nil {
		t.Fatalf("noop store RecordOrder: %v", err)
	}
	if _, found, _ := store.LookupOrder("x"); found {
		t.Fatalf("noop store must not remember orders")
	}
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	if _, err := NewStore("redis", "", Options{}); err == nil {
		t.Fatalf("expected error for unknown storage type")
	}
	if _, err := NewStore("bbolt", " ", Options{}); err == nil {
		t.Fatalf("expected error for missing bbolt path")
	}
}
