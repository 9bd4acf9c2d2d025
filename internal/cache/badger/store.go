// Package badger implements the local cache store on an embedded Badger
// key-value database. Documents are stored as JSON under typed key
// prefixes partitioned by user ID.
package badger

import (
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"strconv"

	badgerdb "github.com/dgraph-io/badger/v4"
)

// Key prefixes. User-partitioned rows embed the user ID so one scan
// covers exactly one user's partition.
//
//	status:{userID}:{seriesID}
//	list:{userID}:{listID}
//	follow:{userID}:{listID}
//	meta:{seriesID}
const (
	statusPrefix = "status:"
	listPrefix   = "list:"
	followPrefix = "follow:"
	metaPrefix   = "meta:"
)

// Store wraps a Badger database instance.
type Store struct {
	db     *badgerdb.DB
	logger *slog.Logger
}

// New opens (or creates) the Badger database at path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badgerdb.DefaultOptions(path)
	opts.Logger = nil      // Disable Badger's internal logging
	opts.SyncWrites = true // Sync writes to disk so a crash cannot lose acknowledged rows

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	if logger != nil {
		logger.Info("badger cache opened", "path", path)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close gracefully closes the database.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("closing badger cache")
	}
	return s.db.Close()
}

func userKey(prefix, userID, id string) []byte {
	return []byte(prefix + userID + ":" + id)
}

func userScanPrefix(prefix, userID string) []byte {
	return []byte(prefix + userID + ":")
}

func seriesKey(seriesID int) []byte {
	return []byte(metaPrefix + strconv.Itoa(seriesID))
}

// set marshals value and stores it under key in its own transaction.
func (s *Store) set(key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value: %w", err)
	}

	return s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(key, data)
	})
}

// get retrieves a value by key. Returns badger.ErrKeyNotFound when absent.
func (s *Store) get(key []byte, dest any) error {
	return s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
}

// delete removes a key. Deleting an absent key is not an error.
func (s *Store) delete(key []byte) error {
	return s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete(key)
	})
}

// scan iterates every value under prefix, unmarshaling each into T.
func scan[T any](s *Store, prefix []byte) ([]T, error) {
	var out []T
	err := s.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var v T
				if err := json.Unmarshal(val, &v); err != nil {
					return err
				}
				out = append(out, v)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan prefix %q: %w", prefix, err)
	}
	return out, nil
}

// replace swaps a user's whole partition in one transaction. Readers see
// either the old rows or the new rows, never a mix.
func replace[T any](s *Store, prefix []byte, rows []T, key func(T) []byte) error {
	return s.db.Update(func(txn *badgerdb.Txn) error {
		if err := deletePrefix(txn, prefix); err != nil {
			return err
		}
		for _, row := range rows {
			data, err := json.Marshal(row)
			if err != nil {
				return fmt.Errorf("marshal row: %w", err)
			}
			if err := txn.Set(key(row), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// deletePrefix removes every key under prefix within txn.
func deletePrefix(txn *badgerdb.Txn, prefix []byte) error {
	opts := badgerdb.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false

	// Collect first: deleting while iterating invalidates the iterator.
	it := txn.NewIterator(opts)
	var keys [][]byte
	for it.Rewind(); it.Valid(); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	it.Close()

	for _, k := range keys {
		if err := txn.Delete(k); err != nil {
			return err
		}
	}
	return nil
}
