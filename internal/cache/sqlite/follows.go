package sqlite

import (
	"context"
	"fmt"

	"github.com/episodeo/episodeo-server/internal/domain"
)

// Follows returns every followed-list reference for the user.
func (s *Store) Follows(ctx context.Context, userID string) ([]domain.FollowedList, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT list_id, owner_id, list_name FROM followed_lists
		WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("query follows: %w", err)
	}
	defer rows.Close()

	var refs []domain.FollowedList
	for rows.Next() {
		var ref domain.FollowedList
		if err := rows.Scan(&ref.ListID, &ref.OwnerID, &ref.ListName); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// PutFollow upserts a followed-list reference.
func (s *Store) PutFollow(ctx context.Context, userID string, ref domain.FollowedList) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO followed_lists (user_id, list_id, owner_id, list_name)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, list_id) DO UPDATE SET
			owner_id = excluded.owner_id,
			list_name = excluded.list_name`,
		userID, ref.ListID, ref.OwnerID, ref.ListName,
	)
	if err != nil {
		return fmt.Errorf("put follow: %w", err)
	}
	return nil
}

// DeleteFollow removes a followed-list reference.
func (s *Store) DeleteFollow(ctx context.Context, userID, listID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM followed_lists WHERE user_id = ? AND list_id = ?`, userID, listID)
	if err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}
	return nil
}

// ReplaceFollows swaps the user's follow partition in one transaction.
func (s *Store) ReplaceFollows(ctx context.Context, userID string, refs []domain.FollowedList) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM followed_lists WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear follows: %w", err)
	}

	for _, ref := range refs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO followed_lists (user_id, list_id, owner_id, list_name)
			VALUES (?, ?, ?, ?)`,
			userID, ref.ListID, ref.OwnerID, ref.ListName,
		)
		if err != nil {
			return fmt.Errorf("insert follow %s: %w", ref.ListID, err)
		}
	}

	return tx.Commit()
}
