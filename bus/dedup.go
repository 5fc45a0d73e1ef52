package bus

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// SeenStore records handled event ids on disk so replay idempotence
// survives a restart. Entries expire after the retention window; an event
// redelivered later than that is old enough for the state checks in the
// coordinator to reject it anyway.
type SeenStore struct {
	db        *badger.DB
	retention time.Duration
}

func OpenSeenStore(path string, retention time.Duration, log *slog.Logger) (*SeenStore, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithCompactL0OnClose(true)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open dedup store: %w", err)
	}
	log.Info("Dedup store opened", "path", path, "retention", retention)
	return &SeenStore{db: db, retention: retention}, nil
}

// Seen reports whether the event id was already handled. It never writes:
// an event is only marked once its handler succeeded, so a nacked delivery
// stays retryable.
func (s *SeenStore) Seen(eventID string) (bool, error) {
	var seen bool
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(seenKey(eventID))
		if err == nil {
			seen = true
			return nil
		}
		if err == badger.ErrKeyNotFound {
			return nil
		}
		return err
	})
	return seen, err
}

// Mark records the event id as handled for the retention window.
func (s *SeenStore) Mark(eventID string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(seenKey(eventID), nil).WithTTL(s.retention)
		return txn.SetEntry(entry)
	})
}

func seenKey(eventID string) []byte {
	return []byte("evt/" + eventID)
}

func (s *SeenStore) Close() error {
	return s.db.Close()
}
