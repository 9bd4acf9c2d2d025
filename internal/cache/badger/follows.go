package badger

import (
	"context"
	"errors"
	"fmt"

	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/episodeo/episodeo-server/internal/domain"
)

// Follows returns every followed-list reference for the user.
func (s *Store) Follows(_ context.Context, userID string) ([]domain.FollowedList, error) {
	return scan[domain.FollowedList](s, userScanPrefix(followPrefix, userID))
}

// PutFollow upserts a followed-list reference.
func (s *Store) PutFollow(_ context.Context, userID string, ref domain.FollowedList) error {
	if err := s.set(userKey(followPrefix, userID, ref.ListID), ref); err != nil {
		return fmt.Errorf("put follow: %w", err)
	}
	return nil
}

// DeleteFollow removes a followed-list reference.
func (s *Store) DeleteFollow(_ context.Context, userID, listID string) error {
	if err := s.delete(userKey(followPrefix, userID, listID)); err != nil && !errors.Is(err, badgerdb.ErrKeyNotFound) {
		return fmt.Errorf("delete follow: %w", err)
	}
	return nil
}

// ReplaceFollows swaps the user's follow partition in one transaction.
func (s *Store) ReplaceFollows(_ context.Context, userID string, refs []domain.FollowedList) error {
	err := replace(s, userScanPrefix(followPrefix, userID), refs, func(r domain.FollowedList) []byte {
		return userKey(followPrefix, userID, r.ListID)
	})
	if err != nil {
		return fmt.Errorf("replace follows: %w", err)
	}
	return nil
}
