package badger

import (
	"context"
	"errors"
	"fmt"

	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/episodeo/episodeo-server/internal/domain"
)

// Lists returns every cached custom list owned by the user.
func (s *Store) Lists(_ context.Context, userID string) ([]domain.CustomList, error) {
	return scan[domain.CustomList](s, userScanPrefix(listPrefix, userID))
}

// PutList upserts a custom list mirror row.
func (s *Store) PutList(_ context.Context, userID string, list domain.CustomList) error {
	if err := s.set(userKey(listPrefix, userID, list.ID), list); err != nil {
		return fmt.Errorf("put list: %w", err)
	}
	return nil
}

// DeleteList removes a custom list mirror row.
func (s *Store) DeleteList(_ context.Context, userID, listID string) error {
	if err := s.delete(userKey(listPrefix, userID, listID)); err != nil && !errors.Is(err, badgerdb.ErrKeyNotFound) {
		return fmt.Errorf("delete list: %w", err)
	}
	return nil
}

// ReplaceLists swaps the user's list partition in one transaction.
func (s *Store) ReplaceLists(_ context.Context, userID string, lists []domain.CustomList) error {
	err := replace(s, userScanPrefix(listPrefix, userID), lists, func(l domain.CustomList) []byte {
		return userKey(listPrefix, userID, l.ID)
	})
	if err != nil {
		return fmt.Errorf("replace lists: %w", err)
	}
	return nil
}
