package badger

import (
	"context"
	"errors"
	"fmt"

	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/episodeo/episodeo-server/internal/domain"
)

// Metadata returns the cached metadata snapshot for a series, or nil when
// none has been stored.
func (s *Store) Metadata(_ context.Context, seriesID int) (*domain.SeriesMetadata, error) {
	var meta domain.SeriesMetadata
	err := s.get(seriesKey(seriesID), &meta)
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get metadata: %w", err)
	}
	return &meta, nil
}

// PutMetadata overwrites the metadata snapshot for a series. The snapshot
// is one document, so the write is atomic.
func (s *Store) PutMetadata(_ context.Context, meta *domain.SeriesMetadata) error {
	if meta == nil {
		return errors.New("nil metadata")
	}
	if err := s.set(seriesKey(meta.SeriesID), meta); err != nil {
		return fmt.Errorf("put metadata: %w", err)
	}
	return nil
}

// ClearUser removes every row in the user's partitions. Metadata snapshots
// are global and untouched.
func (s *Store) ClearUser(_ context.Context, userID string) error {
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		for _, prefix := range []string{statusPrefix, listPrefix, followPrefix} {
			if err := deletePrefix(txn, userScanPrefix(prefix, userID)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("clear user: %w", err)
	}
	return nil
}
