package badger

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/episodeo/episodeo-server/internal/domain"
)

// Statuses returns every cached watch status for the user.
func (s *Store) Statuses(_ context.Context, userID string) ([]domain.SeriesStatus, error) {
	return scan[domain.SeriesStatus](s, userScanPrefix(statusPrefix, userID))
}

// PutStatus upserts a single watch status row.
func (s *Store) PutStatus(_ context.Context, userID string, status domain.SeriesStatus) error {
	key := userKey(statusPrefix, userID, strconv.Itoa(status.SeriesID))
	if err := s.set(key, status); err != nil {
		return fmt.Errorf("put status: %w", err)
	}
	return nil
}

// DeleteStatus removes a single watch status row. Absent rows are a no-op.
func (s *Store) DeleteStatus(_ context.Context, userID string, seriesID int) error {
	key := userKey(statusPrefix, userID, strconv.Itoa(seriesID))
	if err := s.delete(key); err != nil && !errors.Is(err, badgerdb.ErrKeyNotFound) {
		return fmt.Errorf("delete status: %w", err)
	}
	return nil
}

// ReplaceStatuses swaps the user's status partition for the given rows in
// one transaction.
func (s *Store) ReplaceStatuses(_ context.Context, userID string, statuses []domain.SeriesStatus) error {
	err := replace(s, userScanPrefix(statusPrefix, userID), statuses, func(st domain.SeriesStatus) []byte {
		return userKey(statusPrefix, userID, strconv.Itoa(st.SeriesID))
	})
	if err != nil {
		return fmt.Errorf("replace statuses: %w", err)
	}
	return nil
}
