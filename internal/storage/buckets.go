package storage

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names
const (
	BucketHistory = "history"
	BucketState   = "state"
)

// AllBuckets returns all bucket names
var AllBuckets = []string{
	BucketHistory,
	BucketState,
}

const lastInputKey = "last_input"

// DefaultHistorySize is how many past inputs SaveInput keeps
const DefaultHistorySize = 20

// historyKeyFormat is fixed width so keys sort chronologically
const historyKeyFormat = "2006-01-02T15:04:05.000000000Z"

// initBuckets creates all required buckets
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range AllBuckets {
			_, err := tx.CreateBucketIfNotExists([]byte(bucket))
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// InputEntry is one service list the operator asked for
type InputEntry struct {
	Input     string    `json:"input"`
	Timestamp time.Time `json:"timestamp"`
}

// SaveInput records an accepted input line as the last one and appends it
// to the history, keeping at most DefaultHistorySize entries.
func (s *Storage) SaveInput(input string, at time.Time) error {
	entry := InputEntry{Input: input, Timestamp: at.UTC()}
	if err := s.SetJSON(BucketState, lastInputKey, entry); err != nil {
		return fmt.Errorf("failed to save last input: %w", err)
	}
	key := entry.Timestamp.Format(historyKeyFormat)
	if err := s.SetJSON(BucketHistory, key, entry); err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return s.PruneHistory(DefaultHistorySize)
}

// LastInput returns the most recently saved input, or ErrNotFound
func (s *Storage) LastInput() (InputEntry, error) {
	var entry InputEntry
	err := s.GetJSON(BucketState, lastInputKey, &entry)
	return entry, err
}

// RecentInputs returns up to limit history entries, newest first.
// limit <= 0 returns everything.
func (s *Storage) RecentInputs(limit int) ([]InputEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []InputEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(BucketHistory)).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(entries) >= limit {
				break
			}
			var e InputEntry
			if err := json.Unmarshal(v, &e); err != nil {
				continue
			}
			entries = append(entries, e)
		}
		return nil
	})
	return entries, err
}

// PruneHistory drops the oldest history entries beyond keep
func (s *Storage) PruneHistory(keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketHistory))
		var keys [][]byte
		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			key := make([]byte, len(k))
			copy(key, k)
			keys = append(keys, key)
		}
		if len(keys) <= keep {
			return nil
		}
		stale := keys[:len(keys)-keep]
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// HistoryLen returns how many inputs the history holds
func (s *Storage) HistoryLen() (int, error) {
	return s.Count(BucketHistory)
}

// ClearHistory forgets every stored input, including the one an empty
// prompt would reuse
func (s *Storage) ClearHistory() error {
	if err := s.Delete(BucketState, lastInputKey); err != nil {
		return fmt.Errorf("failed to clear last input: %w", err)
	}
	return s.PruneHistory(0)
}
